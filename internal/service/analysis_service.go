package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"textproc/internal/config"
	"textproc/internal/domain"
	"textproc/internal/keywords"
	"textproc/internal/logging"
	"textproc/internal/segment"
	"textproc/internal/sentiment"
	"textproc/internal/stopwords"
	"textproc/internal/summarizer"
)

// ErrInternal reports a failure no component-level fallback could absorb.
var ErrInternal = errors.New("internal analysis failure")

// Options sets per-call sizes for the summary and the keyword list.
type Options struct {
	SummarySentences int
	TopKeywords      int
}

// AnalysisService runs summarization, sentiment and keyword extraction over
// one text. It keeps no per-call state and is safe for concurrent use.
type AnalysisService struct {
	summarizer domain.Summarizer
	classifier domain.SentimentClassifier
	extractor  domain.KeywordExtractor
	opts       Options
	logger     logrus.FieldLogger
}

func NewAnalysisService(sum domain.Summarizer, cls domain.SentimentClassifier, ext domain.KeywordExtractor, opts Options, logger logrus.FieldLogger) *AnalysisService {
	if opts.SummarySentences <= 0 {
		opts.SummarySentences = summarizer.DefaultSentences
	}
	if opts.TopKeywords <= 0 {
		opts.TopKeywords = keywords.DefaultTopN
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &AnalysisService{summarizer: sum, classifier: cls, extractor: ext, opts: opts, logger: logger}
}

// New wires the default engine: Punkt segmentation, the configured stop-word
// corpus, the lexicon sentiment model and frequency keywords.
func New(cfg config.AnalysisConfig, logger logrus.FieldLogger) *AnalysisService {
	if logger == nil {
		logger = logging.Discard()
	}
	stop := stopwords.Load(cfg.StopwordsPath, logger)
	return NewWithStopWords(stop, Options{SummarySentences: cfg.SummarySentences, TopKeywords: cfg.TopKeywords}, logger)
}

// NewWithStopWords builds the default engine around an existing stop-word set.
func NewWithStopWords(stop domain.StopWords, opts Options, logger logrus.FieldLogger) *AnalysisService {
	if logger == nil {
		logger = logging.Discard()
	}
	seg := segment.New(logger)

	var model sentiment.PolarityModel
	if m, err := sentiment.NewLexiconModel(); err != nil {
		logger.WithError(err).Error("sentiment lexicon failed to load, classifier will use marker words")
	} else {
		model = m
	}

	return NewAnalysisService(
		summarizer.NewFrequencySummarizer(seg, stop, logger),
		sentiment.NewClassifier(model, logger),
		keywords.NewExtractor(seg, stop, logger),
		opts,
		logger,
	)
}

// Analyze returns the summary, sentiment label and keywords of text together
// with the code-point lengths of text and summary. Each analysis runs
// independently; a panic anywhere in the pipeline is reported as ErrInternal.
func (s *AnalysisService) Analyze(ctx context.Context, text string) (result domain.AnalysisResult, err error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}
	original := utf8.RuneCountInString(text)
	s.logger.WithField("chars", original).Info("processing text")

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("analysis pipeline failed")
			result = domain.AnalysisResult{}
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	summary := s.summarizer.Summarize(text, s.opts.SummarySentences)
	label := s.classifier.Classify(text)
	kws := s.extractor.Extract(text, s.opts.TopKeywords)
	if kws == nil {
		kws = []string{}
	}

	result = domain.AnalysisResult{
		Summary:         summary,
		Sentiment:       label,
		Keywords:        kws,
		OriginalLength:  original,
		ProcessedLength: utf8.RuneCountInString(summary),
	}
	s.logger.WithFields(logrus.Fields{
		"sentiment": label,
		"keywords":  len(kws),
		"summary":   result.ProcessedLength,
	}).Info("processing completed")
	return result, nil
}
