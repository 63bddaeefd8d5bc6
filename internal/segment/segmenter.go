// Package segment splits documents into sentences and normalized word tokens.
package segment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// ErrSegmentation is returned when sentence or word tokenization cannot run.
var ErrSegmentation = errors.New("segment: segmentation failed")

// wordPattern emits letter/digit runs, apostrophe suffixes ("'s", "'t") and
// single punctuation marks as separate tokens.
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}]+|['’]\p{L}+|[^\s\p{L}\p{M}\p{N}]`)

// Segmenter wraps a Punkt sentence tokenizer and a regexp word tokenizer.
// It holds no per-call state and is safe for concurrent use.
type Segmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
	initErr   error
}

// New loads the English Punkt model. When the model cannot be loaded the
// returned Segmenter reports ErrSegmentation from Sentences so callers take
// their fallback path.
func New(logger logrus.FieldLogger) *Segmenter {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		if logger != nil {
			logger.WithError(err).Error("sentence tokenizer model failed to load")
		}
		return &Segmenter{initErr: fmt.Errorf("%w: load punkt model: %v", ErrSegmentation, err)}
	}
	return &Segmenter{tokenizer: tok}
}

// Sentences returns the trimmed sentences of text in document order.
// Empty or whitespace-only input yields no sentences.
func (s *Segmenter) Sentences(text string) (out []string, err error) {
	if s == nil || s.tokenizer == nil {
		if s != nil && s.initErr != nil {
			return nil, s.initErr
		}
		return nil, fmt.Errorf("%w: no sentence tokenizer", ErrSegmentation)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: sentence tokenizer: %v", ErrSegmentation, r)
		}
	}()
	for _, sent := range s.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// Words returns the lower-cased, NFC-normalized tokens of text, punctuation
// included. Invalid UTF-8 is rejected with ErrSegmentation.
func (s *Segmenter) Words(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrSegmentation)
	}
	if text == "" {
		return nil, nil
	}
	normalized := norm.NFC.String(strings.ToLower(text))
	return wordPattern.FindAllString(normalized, -1), nil
}

// IsAlphanumeric reports whether tok is non-empty and made only of letters
// and digits.
func IsAlphanumeric(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}

// AlphanumericWords keeps only the alphanumeric tokens of words.
func AlphanumericWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if IsAlphanumeric(w) {
			out = append(out, w)
		}
	}
	return out
}
