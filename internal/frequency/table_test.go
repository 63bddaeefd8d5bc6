package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"textproc/internal/stopwords"
)

func TestBuildFiltersContentTokens(t *testing.T) {
	stop := stopwords.New([]string{"the", "is"})
	tokens := []string{"the", "cat", "is", "on", "the", "mat", ",", "'s", "cat", "run", "running"}

	table := Build(tokens, Options{StopWords: stop})

	assert.Equal(t, 2, table.Count("cat"))
	assert.Equal(t, 1, table.Count("mat"))
	assert.Equal(t, 1, table.Count("run"))
	assert.Equal(t, 1, table.Count("running"), "no stemming is applied")
	assert.Zero(t, table.Count("the"))
	assert.Zero(t, table.Count(","))
	assert.Zero(t, table.Count("'s"))
	assert.Equal(t, []Entry{{"cat", 2}, {"on", 1}, {"mat", 1}, {"run", 1}, {"running", 1}}, table.Entries())
}

func TestBuildMinLength(t *testing.T) {
	table := Build([]string{"ai", "data", "ml", "big", "data"}, Options{MinLength: 3})

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 2, table.Count("data"))
	assert.Zero(t, table.Count("ai"))
}

func TestTopBreaksTiesByFirstOccurrence(t *testing.T) {
	table := Build([]string{"beta", "alpha", "gamma", "alpha", "beta", "delta"}, Options{})

	assert.Equal(t, []string{"beta", "alpha", "gamma"}, table.TopTokens(3))
	assert.Equal(t, []Entry{{"beta", 2}, {"alpha", 2}}, table.Top(2))
}

func TestTopBounds(t *testing.T) {
	table := Build([]string{"one", "two"}, Options{})

	assert.Len(t, table.Top(10), 2)
	assert.Nil(t, table.Top(0))
	assert.Nil(t, table.Top(-1))
	assert.Nil(t, Build(nil, Options{}).Top(3))
	assert.Empty(t, Build(nil, Options{}).TopTokens(3))
}
