// Package keywords ranks the most frequent content words of a document.
package keywords

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"textproc/internal/domain"
	"textproc/internal/frequency"
	"textproc/internal/logging"
)

// DefaultTopN is the keyword count used by the analysis facade.
const DefaultTopN = 5

// minKeywordLength excludes tokens of two characters or fewer.
const minKeywordLength = 3

var fallbackPattern = regexp.MustCompile(`\b\w{3,}\b`)

// commonWords is the reduced stop list used by the fallback path.
var commonWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {}, "all": {},
	"can": {}, "had": {}, "her": {}, "was": {}, "one": {}, "our": {}, "out": {}, "day": {},
	"get": {}, "has": {}, "him": {}, "his": {}, "how": {}, "man": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "way": {}, "who": {}, "boy": {}, "did": {}, "its": {},
	"let": {}, "put": {}, "say": {}, "she": {}, "too": {}, "use": {},
}

// Extractor ranks keyword candidates by frequency.
type Extractor struct {
	segmenter domain.Segmenter
	stopwords domain.StopWords
	logger    logrus.FieldLogger
}

// NewExtractor creates a frequency keyword extractor.
func NewExtractor(seg domain.Segmenter, stop domain.StopWords, logger logrus.FieldLogger) *Extractor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Extractor{segmenter: seg, stopwords: stop, logger: logger}
}

// Extract returns at most topN keywords ordered by descending count; equal
// counts keep first-occurrence order. It never returns nil.
func (e *Extractor) Extract(text string, topN int) []string {
	if topN <= 0 {
		return []string{}
	}
	words, err := e.segmenter.Words(text)
	if err != nil {
		e.logger.WithError(err).Warn("keyword tokenization failed, using regex fallback")
		return Fallback(text, topN)
	}
	table := frequency.Build(words, frequency.Options{
		StopWords: e.stopwords,
		MinLength: minKeywordLength,
	})
	return table.TopTokens(topN)
}

// Fallback counts runs of three or more word characters, skipping a short
// list of common words.
func Fallback(text string, topN int) []string {
	if topN <= 0 {
		return []string{}
	}
	table := frequency.NewTable()
	for _, w := range fallbackPattern.FindAllString(strings.ToLower(text), -1) {
		if _, common := commonWords[w]; common {
			continue
		}
		table.Add(w)
	}
	return table.TopTokens(topN)
}
