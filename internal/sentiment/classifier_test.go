package sentiment

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textproc/internal/domain"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	model, err := NewLexiconModel()
	require.NoError(t, err)
	return NewClassifier(model, nil)
}

func TestClassify(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		name     string
		input    string
		expected domain.Sentiment
	}{
		{"positive", "I love this amazing product! It's fantastic and wonderful!", domain.Positive},
		{"negative", "This is terrible and awful. I hate it completely.", domain.Negative},
		{"neutral statement", "This is a chair. The chair is brown.", domain.Neutral},
		{"neutral test text", "This is a test sentence. This test sentence contains multiple words for processing.", domain.Neutral},
		{"empty", "", domain.Neutral},
		{"negated praise", "The service was not good.", domain.Negative},
		{"inflected lexicon word", "She was disappointing and the food disgusted us.", domain.Negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.input))
		})
	}
}

func TestLabelThresholds(t *testing.T) {
	assert.Equal(t, domain.Positive, Label(0.11))
	assert.Equal(t, domain.Neutral, Label(0.1))
	assert.Equal(t, domain.Neutral, Label(0))
	assert.Equal(t, domain.Neutral, Label(-0.1))
	assert.Equal(t, domain.Negative, Label(-0.11))
}

func TestFallbackClassify(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.Sentiment
	}{
		{"GOOD and GREAT", domain.Positive},
		{"bad, awful, but the best", domain.Negative},
		{"good but bad", domain.Neutral},
		{"nothing to see", domain.Neutral},
		{"", domain.Neutral},
		// markers count once regardless of repetition
		{"good good good bad awful", domain.Negative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FallbackClassify(tt.input), tt.input)
	}
}

type brokenModel struct {
	err   error
	panic bool
}

func (m brokenModel) Polarity(string) (float64, error) {
	if m.panic {
		panic("model crashed")
	}
	return 0, m.err
}

func TestClassifyFallsBackWhenModelFails(t *testing.T) {
	tests := []struct {
		name  string
		model PolarityModel
	}{
		{"nil model", nil},
		{"model error", brokenModel{err: errors.New("no corpus")}},
		{"model panic", brokenModel{panic: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			c := NewClassifier(tt.model, logger)

			assert.Equal(t, domain.Positive, c.Classify("This is great"))
			assert.Equal(t, domain.Neutral, c.Classify(""))
			assert.Len(t, hook.Entries, 2)
		})
	}
}

func TestLexiconModelPolarity(t *testing.T) {
	model, err := NewLexiconModel()
	require.NoError(t, err)

	p, err := model.Polarity("good")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, p, 1e-9)

	p, err = model.Polarity("very good")
	require.NoError(t, err)
	assert.InDelta(t, 0.91, p, 1e-9)

	p, err = model.Polarity("not good")
	require.NoError(t, err)
	assert.InDelta(t, -0.35, p, 1e-9)

	p, err = model.Polarity("extremely excellent")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	p, err = model.Polarity("")
	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestLexiconModelRejectsOversizedInput(t *testing.T) {
	model, err := NewLexiconModel()
	require.NoError(t, err)

	_, err = model.Polarity(strings.Repeat("a", MaxInputBytes+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)

	c := NewClassifier(model, nil)
	assert.Equal(t, domain.Positive, c.Classify("great "+strings.Repeat("a", MaxInputBytes)))
}

func TestParseLexicon(t *testing.T) {
	model, err := ParseLexicon(strings.NewReader("# comment\nsunny\t0.5\ngloomy\t-0.5\n"))
	require.NoError(t, err)

	p, err := model.Polarity("a sunny day")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	_, err = ParseLexicon(strings.NewReader("sunny\n"))
	assert.ErrorIs(t, err, ErrModelUnavailable)

	_, err = ParseLexicon(strings.NewReader("sunny\tbright\n"))
	assert.ErrorIs(t, err, ErrModelUnavailable)

	_, err = ParseLexicon(strings.NewReader("# empty\n"))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}
