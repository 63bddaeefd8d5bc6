package summarizer

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"textproc/internal/domain"
	"textproc/internal/frequency"
	"textproc/internal/logging"
	"textproc/internal/segment"
)

// DefaultSentences is the summary length used when callers pass a non-positive count.
const DefaultSentences = 2

// FrequencySummarizer ranks sentences by the mean document frequency of their words.
type FrequencySummarizer struct {
	segmenter domain.Segmenter
	stopwords domain.StopWords
	logger    logrus.FieldLogger
}

// NewFrequencySummarizer creates a frequency-based extractive summarizer.
func NewFrequencySummarizer(seg domain.Segmenter, stop domain.StopWords, logger logrus.FieldLogger) *FrequencySummarizer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FrequencySummarizer{segmenter: seg, stopwords: stop, logger: logger}
}

// Summarize returns the numSentences highest-scoring sentences in document
// order. When segmentation fails it falls back to Truncate.
func (s *FrequencySummarizer) Summarize(text string, numSentences int) string {
	if numSentences <= 0 {
		numSentences = DefaultSentences
	}
	summary, err := s.rank(text, numSentences)
	if err != nil {
		s.logger.WithError(err).Warn("summarization failed, truncating on periods")
		return Truncate(text)
	}
	return summary
}

func (s *FrequencySummarizer) rank(text string, numSentences int) (string, error) {
	sentences, err := s.segmenter.Sentences(text)
	if err != nil {
		return "", err
	}
	if len(sentences) <= numSentences {
		return text, nil
	}

	words, err := s.segmenter.Words(text)
	if err != nil {
		return "", err
	}
	freq := frequency.Build(words, frequency.Options{StopWords: s.stopwords})

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, 0, len(sentences))
	for i, sent := range sentences {
		toks, err := s.segmenter.Words(sent)
		if err != nil {
			return "", err
		}
		toks = segment.AlphanumericWords(toks)
		// Sentences without words cannot be ranked.
		if len(toks) == 0 {
			continue
		}
		total := 0
		for _, tok := range toks {
			total += freq.Count(tok)
		}
		scores = append(scores, pair{i, float64(total) / float64(len(toks))})
	}
	if len(scores) == 0 {
		return text, nil
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if numSentences > len(scores) {
		numSentences = len(scores)
	}
	// Keep original order among selected
	selected := make([]int, numSentences)
	for i := 0; i < numSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

// Truncate keeps the first two period-delimited fragments of text. Text with
// fewer than three fragments is returned unchanged.
func Truncate(text string) string {
	parts := strings.Split(text, ".")
	if len(parts) < 3 {
		return text
	}
	return strings.Join(parts[:2], ". ") + "."
}
