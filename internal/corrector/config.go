package corrector

type CorrectorConfig struct {
	CutoffBase          float64 // accept a fuzzy match below CutoffBase + len/CutoffDivisor
	CutoffDivisor       float64
	SplitCutoffBase     float64 // accept a split above SplitCutoffBase - len*SplitCutoffSlope
	SplitCutoffSlope    float64
	SplitMinLength      int // only tokens longer than this are split
	NumericFraction     float64
	HyphenResolvedRatio float64
	MinFusedMatchLen    int
	MinTokenLength      int
	TitlecaseOdds       float64
}

// DefaultConfig returns the thresholds the matcher was tuned with.
func DefaultConfig() CorrectorConfig {
	return CorrectorConfig{
		CutoffBase:          0.15,
		CutoffDivisor:       6,
		SplitCutoffBase:     0.051,
		SplitCutoffSlope:    0.00006,
		SplitMinLength:      6,
		NumericFraction:     0.3,
		HyphenResolvedRatio: 0.6,
		MinFusedMatchLen:    3,
		MinTokenLength:      3,
		TitlecaseOdds:       2.5,
	}
}

// Outcome classifies a token.
type Outcome int

const (
	// Unchanged: the token, or a mechanical regularization of it, is valid.
	Unchanged Outcome = iota
	// Failed: no acceptable match.
	Failed
	// TailFragment: the token looks like the end of a longer word.
	TailFragment
	// Correction: a new spelling was found by fuzzy matching.
	Correction
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Failed:
		return "failed"
	case TailFragment:
		return "tail"
	case Correction:
		return "correction"
	}
	return "unknown"
}

// MatchResult is the classification of one token. Word is empty for Failed,
// the longer dictionary word for TailFragment, and the accepted spelling
// otherwise.
type MatchResult struct {
	Outcome Outcome `json:"-"`
	Word    string  `json:"word,omitempty"`
}

// Token is one observed OCR type to classify.
type Token struct {
	Word      string
	Titlecase bool
}

type Candidate struct {
	Term       string
	Distance   float64
	Confidence float64
}
