package corrector

import "math"

// Malformed marks a count cell that could not be parsed from its source.
const Malformed int64 = -1

const (
	malformedCost = 0.01
	diacriticCost = 0.1
)

// CountTable holds substitution observations: rows are observed character
// codes, columns are dictionary slots.
type CountTable [TextCodes][DictCodes]int64

// ConfusionMatrix is the substitution cost of reading dictionary slot d as
// observed character t, indexed [t][d].
type ConfusionMatrix [TextCodes][DictCodes]float64

// Cost returns the substitution cost for an observed code and a dictionary slot.
func (m *ConfusionMatrix) Cost(text int, dict DictCode) float64 {
	return m[text][dict]
}

// diacriticFamilies pins accented vowels to their base letter.
var diacriticFamilies = []struct {
	base    rune
	accents string
}{
	{'e', "èéêë"},
	{'a', "àáâãäå"},
	{'i', "ìíîï"},
	{'o', "òóôõöø"},
	{'u', "ùúûü"},
}

// BuildMatrix turns prior counts into substitution costs. Each row is
// Laplace-smoothed and the cost of a pair is (1 - p)^3, so frequent
// confusions approach zero and unseen ones approach one. counts is not
// modified.
func BuildMatrix(counts *CountTable) *ConfusionMatrix {
	m := new(ConfusionMatrix)
	for t := 0; t < TextCodes; t++ {
		sum := int64(1)
		for d := 0; d < DictCodes; d++ {
			if c := counts[t][d]; c > 0 {
				sum += c
			}
		}
		for d := 0; d < DictCodes; d++ {
			c := counts[t][d]
			if c < 0 {
				m[t][d] = malformedCost
				continue
			}
			m[t][d] = math.Pow(1-float64(c)/float64(sum), 3)
		}
	}

	// A character read as itself is free, except for the catch-all slot.
	for t := 0; t < TextCodes; t++ {
		if d := DictCodeOf(rune(t)); !d.IsCatchAll() {
			m[t][d] = 0
		}
	}

	for _, fam := range diacriticFamilies {
		baseText, baseDict := TextCodeOf(fam.base), DictCodeOf(fam.base)
		for _, a := range fam.accents {
			m[baseText][DictCodeOf(a)] = diacriticCost
			m[TextCodeOf(a)][baseDict] = diacriticCost
		}
	}
	return m
}

// Add returns a new table holding the cell-wise sum of t and other.
// Malformed cells in t count as zero.
func (t *CountTable) Add(other *CountTable) *CountTable {
	out := new(CountTable)
	for i := 0; i < TextCodes; i++ {
		for j := 0; j < DictCodes; j++ {
			v := t[i][j]
			if v < 0 {
				v = 0
			}
			out[i][j] = v + other[i][j]
		}
	}
	return out
}
