package corrector

import (
	"math"
	"unicode"
)

const (
	insertSurcharge = 0.3
	insertFloorAt   = 0.75
	insertFloor     = 0.65

	textPatternDivisor = 4
	dictPatternDivisor = 3
)

// Levenshtein aligns observed OCR tokens against dictionary words using
// substitution costs from a ConfusionMatrix. It only reads the matrix and is
// safe for concurrent use.
type Levenshtein struct {
	matrix *ConfusionMatrix
}

func NewLevenshtein(m *ConfusionMatrix) *Levenshtein {
	return &Levenshtein{matrix: m}
}

// alignment is a filled DP grid plus the encoded inputs it was built from.
type alignment struct {
	text, dict []rune
	tCodes     []int
	dCodes     []DictCode
	dist       [][]float64
}

// Distance is the weighted cost of reading candidate as observed.
func (l *Levenshtein) Distance(observed, candidate string) float64 {
	a := l.align(observed, candidate)
	return a.dist[len(a.text)][len(a.dict)]
}

// Traceback repeats the alignment and walks it back from the final cell,
// recording every substitution pair and two-to-one insertion pattern in acc.
func (l *Levenshtein) Traceback(observed, candidate string, acc *Accumulator) {
	a := l.align(observed, candidate)
	t, d := len(a.text), len(a.dict)
	for t > 0 && d > 0 {
		acc.addSubstitution(a.tCodes[t-1], a.dCodes[d-1])

		diagonal := a.dist[t-1][d-1]
		dictInsert := a.dist[t][d-1]
		textInsert := a.dist[t-1][d]

		switch {
		case textInsert < diagonal && textInsert < dictInsert:
			if t > 1 {
				acc.addInsertion(textPattern(a.dict[d-1], a.text[t-2], a.text[t-1]))
			}
			t--
		case dictInsert < diagonal && dictInsert < textInsert:
			if d > 1 {
				acc.addInsertion(dictPattern(a.dict[d-2], a.dict[d-1], a.text[t-1]))
			}
			d--
		default:
			t--
			d--
		}
	}
}

func (l *Levenshtein) align(observed, candidate string) *alignment {
	text, dict := []rune(observed), []rune(candidate)
	a := &alignment{
		text:   text,
		dict:   dict,
		tCodes: textCodes(text),
		dCodes: dictCodes(dict),
		dist:   make([][]float64, len(text)+1),
	}
	for t := range a.dist {
		a.dist[t] = make([]float64, len(dict)+1)
		a.dist[t][0] = float64(t)
	}
	for d := range a.dist[0] {
		a.dist[0][d] = float64(d)
	}

	m := l.matrix
	dist := a.dist
	for t := 1; t <= len(text); t++ {
		for d := 1; d <= len(dict); d++ {
			tIndex, dIndex := a.tCodes[t-1], a.dCodes[d-1]

			increment := m.Cost(tIndex, dIndex)
			if unicode.ToLower(text[t-1]) == dict[d-1] {
				increment = 0
			}
			insertIncrement := increment + insertSurcharge
			if insertIncrement < insertFloorAt {
				insertIncrement = insertFloor
			}

			diagonalCost := dist[t-1][d-1] + increment

			// Two observed glyphs standing for one dictionary letter: give back
			// half of what the previous observed glyph was charged.
			textInsertCost := dist[t-1][d] + insertIncrement
			if t >= 2 && textInsertable[tIndex][dIndex] {
				if _, ok := textPatterns[textPattern(dict[d-1], text[t-2], text[t-1])]; ok {
					dist[t-1][d] -= m.Cost(a.tCodes[t-2], dIndex) / 2
					textInsertCost = dist[t-1][d] + insertIncrement/textPatternDivisor
				}
			}

			// Two dictionary letters fused into one observed glyph.
			dictInsertCost := dist[t][d-1] + insertIncrement
			if d >= 2 && dictInsertable[tIndex][dIndex] {
				if _, ok := dictPatterns[dictPattern(dict[d-2], dict[d-1], text[t-1])]; ok {
					dist[t][d-1] -= m.Cost(tIndex, a.dCodes[d-2]) / 2
					dictInsertCost = dist[t][d-1] + insertIncrement/dictPatternDivisor
				}
			}

			dist[t][d] = min3(diagonalCost, textInsertCost, dictInsertCost)
		}
	}
	return a
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
