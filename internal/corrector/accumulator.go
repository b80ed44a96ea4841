package corrector

import "sort"

// Accumulator collects substitution and insertion-pattern counts from
// accepted alignments. It is not safe for concurrent use: give each worker
// its own and Merge them when the batch is done.
type Accumulator struct {
	Substitutions CountTable
	Insertions    map[string]int64
}

// PatternCount is one line of the insertion-pattern report.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int64  `json:"count"`
}

func NewAccumulator() *Accumulator {
	return &Accumulator{Insertions: make(map[string]int64)}
}

func (a *Accumulator) addSubstitution(text int, dict DictCode) {
	a.Substitutions[text][dict]++
}

func (a *Accumulator) addInsertion(pattern string) {
	if a.Insertions == nil {
		a.Insertions = make(map[string]int64)
	}
	a.Insertions[pattern]++
}

// Merge adds every count of other into a.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil {
		return
	}
	for t := 0; t < TextCodes; t++ {
		for d := 0; d < DictCodes; d++ {
			a.Substitutions[t][d] += other.Substitutions[t][d]
		}
	}
	if a.Insertions == nil {
		a.Insertions = make(map[string]int64, len(other.Insertions))
	}
	for p, n := range other.Insertions {
		a.Insertions[p] += n
	}
}

// Total is the number of substitutions recorded.
func (a *Accumulator) Total() int64 {
	var n int64
	for t := 0; t < TextCodes; t++ {
		for d := 0; d < DictCodes; d++ {
			n += a.Substitutions[t][d]
		}
	}
	return n
}

// Inserted is the number of insertion patterns recorded.
func (a *Accumulator) Inserted() int64 {
	var n int64
	for _, c := range a.Insertions {
		n += c
	}
	return n
}

// InsertionReport lists the recorded insertion patterns, most frequent first.
func (a *Accumulator) InsertionReport() []PatternCount {
	out := make([]PatternCount, 0, len(a.Insertions))
	for p, n := range a.Insertions {
		out = append(out, PatternCount{Pattern: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Count > out[j].Count
	})
	return out
}
