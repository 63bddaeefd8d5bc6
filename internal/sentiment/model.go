package sentiment

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/kljensen/snowball"
)

// MaxInputBytes bounds the text size the lexicon model accepts.
const MaxInputBytes = 1 << 20

//go:embed lexicon.tsv
var lexiconTSV string

var (
	// ErrModelUnavailable is returned when no polarity model could be built.
	ErrModelUnavailable = errors.New("sentiment: polarity model unavailable")
	// ErrInputTooLarge is returned for input exceeding MaxInputBytes.
	ErrInputTooLarge = errors.New("sentiment: input too large")
)

// PolarityModel scores text in [-1.0, 1.0].
type PolarityModel interface {
	Polarity(text string) (float64, error)
}

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// intensifiers scale the score of the word that follows them.
var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "incredibly": 1.5, "absolutely": 1.4,
	"completely": 1.3, "totally": 1.3, "truly": 1.2, "so": 1.2, "highly": 1.3,
	"quite": 1.1, "pretty": 1.1, "somewhat": 0.8, "slightly": 0.7, "barely": 0.6,
}

// negators flip and dampen scores within negationWindow following words.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nothing": {}, "neither": {}, "nor": {}, "without": {},
	"don't": {}, "doesn't": {}, "didn't": {}, "isn't": {}, "aren't": {}, "wasn't": {},
	"weren't": {}, "won't": {}, "wouldn't": {}, "can't": {}, "cannot": {}, "couldn't": {},
	"shouldn't": {}, "hardly": {},
}

const (
	negationWindow = 3
	negationFactor = -0.5
)

// LexiconModel averages word polarities from a lexicon, adjusting for
// intensifiers and negation. Words missing from the lexicon are looked up
// again by their Snowball stem.
type LexiconModel struct {
	words map[string]float64
	stems map[string]float64
}

// NewLexiconModel builds the model from the embedded English lexicon.
func NewLexiconModel() (*LexiconModel, error) {
	return ParseLexicon(strings.NewReader(lexiconTSV))
}

// ParseLexicon reads tab-separated "word\tscore" lines; '#' starts a comment.
func ParseLexicon(r io.Reader) (*LexiconModel, error) {
	m := &LexiconModel{
		words: make(map[string]float64, 128),
		stems: make(map[string]float64, 128),
	}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: lexicon line %d: missing score", ErrModelUnavailable, lineNo)
		}
		word := strings.ToLower(strings.TrimSpace(parts[0]))
		score, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: lexicon line %d: %v", ErrModelUnavailable, lineNo, err)
		}
		m.words[word] = score
		if stem := stemOf(word); stem != "" {
			if _, taken := m.stems[stem]; !taken {
				m.stems[stem] = score
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(m.words) == 0 {
		return nil, fmt.Errorf("%w: empty lexicon", ErrModelUnavailable)
	}
	return m, nil
}

// Polarity returns the mean adjusted score of the lexicon words in text, or
// zero when none occur.
func (m *LexiconModel) Polarity(text string) (float64, error) {
	if m == nil {
		return 0, ErrModelUnavailable
	}
	if len(text) > MaxInputBytes {
		return 0, ErrInputTooLarge
	}
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	var (
		sum    float64
		scored int
	)
	for i, tok := range tokens {
		score, ok := m.lookup(tok)
		if !ok {
			continue
		}
		if i > 0 {
			if mult, ok := intensifiers[tokens[i-1]]; ok {
				score *= mult
			}
		}
		if negated(tokens, i) {
			score *= negationFactor
		}
		sum += score
		scored++
	}
	if scored == 0 {
		return 0, nil
	}
	return clamp(sum / float64(scored)), nil
}

func (m *LexiconModel) lookup(tok string) (float64, bool) {
	if score, ok := m.words[tok]; ok {
		return score, true
	}
	stem := stemOf(tok)
	if stem == "" {
		return 0, false
	}
	score, ok := m.stems[stem]
	return score, ok
}

func negated(tokens []string, idx int) bool {
	start := idx - negationWindow
	if start < 0 {
		start = 0
	}
	for _, tok := range tokens[start:idx] {
		if _, ok := negators[strings.ReplaceAll(tok, "’", "'")]; ok {
			return true
		}
	}
	return false
}

func stemOf(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil {
		return ""
	}
	return stemmed
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
