package options

// DefaultOptions are the candidate-retrieval settings the matcher was tuned with.
var DefaultOptions = IndexOptions{
	DiceThreshold:    0.3,
	RecallLimit:      40000,
	SplitSearchLimit: 10000,
}

type IndexOptions struct {
	DiceThreshold    float64 // Минимальный коэффициент Дайса для кандидата
	RecallLimit      int     // Сколько первых слов словаря участвуют в нечётком поиске
	SplitSearchLimit int     // Сколько первых слов перебирается при разбиении на два слова
}

type Options interface {
	Apply(options *IndexOptions)
}

type FuncConfig struct {
	ops func(options *IndexOptions)
}

func (w FuncConfig) Apply(conf *IndexOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *IndexOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

func WithDiceThreshold(threshold float64) Options {
	return NewFuncOption(func(options *IndexOptions) {
		options.DiceThreshold = threshold
	})
}

func WithRecallLimit(limit int) Options {
	return NewFuncOption(func(options *IndexOptions) {
		options.RecallLimit = limit
	})
}

// WithSplitSearchLimit bounds the head/tail search of the two-word split.
// It is a speed knob, not a semantic rule.
func WithSplitSearchLimit(limit int) Options {
	return NewFuncOption(func(options *IndexOptions) {
		options.SplitSearchLimit = limit
	})
}

// Resolve applies opts over DefaultOptions.
func Resolve(opts ...Options) IndexOptions {
	o := DefaultOptions
	for _, op := range opts {
		if op != nil {
			op.Apply(&o)
		}
	}
	return o
}
