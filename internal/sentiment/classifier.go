// Package sentiment labels documents positive, negative or neutral.
//
// Classification runs a lexicon polarity model first. When the model is
// missing or reports an error, a marker-word count decides the label instead.
package sentiment

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"textproc/internal/domain"
	"textproc/internal/logging"
)

// Polarity thresholds for Label.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

var (
	positiveMarkers = []string{"good", "great", "excellent", "amazing", "wonderful", "fantastic", "love", "like", "best", "awesome"}
	negativeMarkers = []string{"bad", "terrible", "awful", "horrible", "hate", "worst", "disgusting", "annoying", "frustrating"}
)

// Classifier maps text to a domain.Sentiment.
type Classifier struct {
	model  PolarityModel
	logger logrus.FieldLogger
}

// NewClassifier creates a classifier backed by model. A nil model makes
// every call use the marker-word fallback.
func NewClassifier(model PolarityModel, logger logrus.FieldLogger) *Classifier {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Classifier{model: model, logger: logger}
}

// Classify never fails; empty text is neutral.
func (c *Classifier) Classify(text string) domain.Sentiment {
	polarity, err := c.polarity(text)
	if err != nil {
		c.logger.WithError(err).Warn("sentiment model failed, using marker words")
		return FallbackClassify(text)
	}
	return Label(polarity)
}

func (c *Classifier) polarity(text string) (p float64, err error) {
	if c.model == nil {
		return 0, ErrModelUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrModelUnavailable, r)
		}
	}()
	return c.model.Polarity(text)
}

// Label applies the polarity thresholds.
func Label(polarity float64) domain.Sentiment {
	switch {
	case polarity > PositiveThreshold:
		return domain.Positive
	case polarity < NegativeThreshold:
		return domain.Negative
	default:
		return domain.Neutral
	}
}

// FallbackClassify compares how many positive and negative marker words occur
// as case-insensitive substrings of text. Each marker counts at most once.
func FallbackClassify(text string) domain.Sentiment {
	lower := strings.ToLower(text)
	pos, neg := countMarkers(lower, positiveMarkers), countMarkers(lower, negativeMarkers)
	switch {
	case pos > neg:
		return domain.Positive
	case neg > pos:
		return domain.Negative
	default:
		return domain.Neutral
	}
}

func countMarkers(text string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			n++
		}
	}
	return n
}
