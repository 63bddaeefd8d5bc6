package stopwords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCorpus(t *testing.T) {
	set, err := Embedded()
	require.NoError(t, err)

	assert.Equal(t, 179, set.Len())
	for _, w := range []string{"the", "is", "this", "a", "and", "it", "for"} {
		assert.True(t, set.Contains(w), w)
	}
	assert.False(t, set.Contains("machine"))
	assert.False(t, set.Contains("The"), "lookups are case-sensitive on normalized tokens")
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	set, err := Parse(strings.NewReader("# header\n\nFoo\n  bar  \n#baz\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("foo"))
	assert.True(t, set.Contains("bar"))
	assert.False(t, set.Contains("baz"))
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("# nothing here\n"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644))

	set := Load(path, nil)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("alpha"))
}

func TestLoadFallsBackOnMissingFile(t *testing.T) {
	logger, hook := test.NewNullLogger()

	set := Load(filepath.Join(t.TempDir(), "missing.txt"), logger)

	assert.Equal(t, Fallback().Len(), set.Len())
	assert.True(t, set.Contains("the"))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.False(t, s.Contains("the"))
	assert.Zero(t, s.Len())
}

func TestDefaultIsShared(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
	assert.True(t, a.Contains("the"))
}
