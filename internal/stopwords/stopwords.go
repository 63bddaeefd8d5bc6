// Package stopwords provides the read-only set of common English words that
// the analysis engine filters out before counting term frequencies.
//
// A Set is immutable once built and safe for concurrent use without locking.
package stopwords

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

//go:embed english.txt
var englishList string

// ErrEmpty is returned when a stop-word source yields no words.
var ErrEmpty = errors.New("stopwords: source contains no words")

// Set is an immutable collection of lower-cased stop words.
type Set struct {
	words map[string]struct{}
}

// New builds a Set from the given words, lower-casing each one.
func New(words []string) *Set {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		m[w] = struct{}{}
	}
	return &Set{words: m}
}

// Contains reports whether word is a stop word. A nil Set contains nothing.
func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

// Len returns the number of words in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Parse reads one word per line. Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader) (*Set, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stopwords: read: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return New(words), nil
}

// Embedded returns the built-in English stop-word corpus.
func Embedded() (*Set, error) {
	return Parse(strings.NewReader(englishList))
}

// LoadFile reads a stop-word list from path.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stopwords: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Fallback returns the small hard-coded set used when no corpus can be loaded.
func Fallback() *Set {
	return New([]string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
		"is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did",
		"will", "would", "could", "should", "may", "might", "must", "shall", "can",
		"this", "that", "these", "those",
	})
}

// Load returns the stop-word set from path, or the embedded corpus when path
// is empty. Any loading failure is logged and recovered with Fallback.
func Load(path string, logger logrus.FieldLogger) *Set {
	var (
		set *Set
		err error
	)
	if path == "" {
		set, err = Embedded()
	} else {
		set, err = LoadFile(path)
	}
	if err != nil {
		if logger != nil {
			logger.WithError(err).Warn("stop-word corpus unavailable, using built-in fallback set")
		}
		return Fallback()
	}
	return set
}

var (
	defaultSet  *Set
	defaultOnce sync.Once
)

// Default returns the process-wide set built from the embedded corpus on first use.
func Default() *Set {
	defaultOnce.Do(func() {
		defaultSet = Load("", nil)
	})
	return defaultSet
}
