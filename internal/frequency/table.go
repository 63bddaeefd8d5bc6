// Package frequency counts content tokens of a single document.
package frequency

import (
	"sort"
	"unicode/utf8"

	"textproc/internal/domain"
	"textproc/internal/segment"
)

// Entry is a token with its occurrence count.
type Entry struct {
	Token string
	Count int
}

// Table maps tokens to counts and remembers first-seen order so that ranking
// ties resolve the same way on every call.
type Table struct {
	counts map[string]int
	order  []string
}

// Options controls which tokens are counted.
type Options struct {
	// StopWords excluded from the table; nil excludes nothing.
	StopWords domain.StopWords
	// MinLength is the minimum token length in runes; zero disables the check.
	MinLength int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Build counts the alphanumeric tokens that pass opts.
func Build(tokens []string, opts Options) *Table {
	t := NewTable()
	for _, tok := range tokens {
		if !segment.IsAlphanumeric(tok) {
			continue
		}
		if opts.MinLength > 0 && utf8.RuneCountInString(tok) < opts.MinLength {
			continue
		}
		if opts.StopWords != nil && opts.StopWords.Contains(tok) {
			continue
		}
		t.Add(tok)
	}
	return t
}

// Add increments the count of tok without filtering.
func (t *Table) Add(tok string) {
	if _, ok := t.counts[tok]; !ok {
		t.order = append(t.order, tok)
	}
	t.counts[tok]++
}

// Count returns the occurrences of tok, zero when absent.
func (t *Table) Count(tok string) int {
	return t.counts[tok]
}

// Len returns the number of distinct tokens.
func (t *Table) Len() int {
	return len(t.order)
}

// Entries returns every token in first-seen order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.order))
	for i, tok := range t.order {
		out[i] = Entry{Token: tok, Count: t.counts[tok]}
	}
	return out
}

// Top returns up to n entries by descending count; equal counts keep
// first-seen order.
func (t *Table) Top(n int) []Entry {
	if n <= 0 || len(t.order) == 0 {
		return nil
	}
	entries := t.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}

// TopTokens is Top without the counts.
func (t *Table) TopTokens(n int) []string {
	top := t.Top(n)
	out := make([]string, len(top))
	for i, e := range top {
		out[i] = e.Token
	}
	return out
}
