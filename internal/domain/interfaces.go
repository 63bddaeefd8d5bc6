package domain

import "context"

// Sentiment is the coarse polarity label attached to a document.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// AnalysisResult bundles the three derived views of one document.
type AnalysisResult struct {
	Summary         string    `json:"summary"`
	Sentiment       Sentiment `json:"sentiment"`
	Keywords        []string  `json:"keywords"`
	OriginalLength  int       `json:"original_length"`
	ProcessedLength int       `json:"processed_length"`
}

// Segmenter splits raw text into sentences and lower-cased word tokens.
type Segmenter interface {
	Sentences(text string) ([]string, error)
	Words(text string) ([]string, error)
}

// StopWords reports whether a normalized token is a common word.
type StopWords interface {
	Contains(word string) bool
}

// Summarizer produces an extractive summary of the provided text.
type Summarizer interface {
	Summarize(text string, numSentences int) string
}

// SentimentClassifier maps a document to one of three sentiment labels.
type SentimentClassifier interface {
	Classify(text string) Sentiment
}

// KeywordExtractor returns at most topN ranked keywords.
type KeywordExtractor interface {
	Extract(text string, topN int) []string
}

// Analyzer defines the operation exposed by both service front-ends.
// Implementations may run in-process or forward to a remote service.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (AnalysisResult, error)
}
