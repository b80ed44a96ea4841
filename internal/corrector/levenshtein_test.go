package corrector

import (
	"math"
	"testing"
)

// uniformMatrix charges 1 for every substitution that has not been learned.
func uniformMatrix() *ConfusionMatrix { return BuildMatrix(new(CountTable)) }

func TestDistance_Identity(t *testing.T) {
	t.Parallel()

	lev := NewLevenshtein(uniformMatrix())
	for _, w := range []string{"", "a", "the", "morning", "The", "Straße"} {
		if got := lev.Distance(w, w); got != 0 {
			t.Errorf("Distance(%q, %q) = %v, want 0", w, w, got)
		}
	}
	// The observed side is compared case-insensitively.
	if got := lev.Distance("London", "london"); got != 0 {
		t.Errorf("Distance(London, london) = %v, want 0", got)
	}
}

func TestDistance_InsertionFloor(t *testing.T) {
	t.Parallel()

	lev := NewLevenshtein(uniformMatrix())
	tests := []struct {
		observed, candidate string
		want                float64
	}{
		// Doubling a letter costs the floor, not the bare surcharge.
		{"catt", "cat", insertFloor},
		{"cat", "catt", insertFloor},
		// A foreign glyph costs its substitution plus the surcharge.
		{"cats", "cat", 1 + insertSurcharge},
	}
	for _, tt := range tests {
		got := lev.Distance(tt.observed, tt.candidate)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Distance(%q, %q) = %v, want %v", tt.observed, tt.candidate, got, tt.want)
		}
	}
}

func TestDistance_NeverBelowFloorPerIndel(t *testing.T) {
	t.Parallel()

	lev := NewLevenshtein(uniformMatrix())
	for _, pair := range [][2]string{{"abc", "abcd"}, {"abcdef", "abc"}, {"ab", "abab"}} {
		diff := math.Abs(float64(runeLen(pair[0]) - runeLen(pair[1])))
		if got := lev.Distance(pair[0], pair[1]); got < diff*insertFloor-1e-9 {
			t.Errorf("Distance(%q, %q) = %v, below %v", pair[0], pair[1], got, diff*insertFloor)
		}
	}
}

func TestDistance_TextSidePattern(t *testing.T) {
	t.Parallel()

	lev := NewLevenshtein(uniformMatrix())
	// "li" scanned for "h": half the l->h charge comes back and the i is a
	// quarter-price insertion, 0.5 + 1.3/4.
	if got := lev.Distance("lie", "he"); math.Abs(got-0.825) > 1e-9 {
		t.Errorf("Distance(lie, he) = %v, want 0.825", got)
	}
	if got := lev.Distance("xie", "he"); got != 2 {
		t.Errorf("Distance(xie, he) = %v, want 2", got)
	}
}

func TestDistance_DictSidePattern(t *testing.T) {
	t.Parallel()

	lev := NewLevenshtein(uniformMatrix())
	// "rn" read as "m": 0.5 + 1.3/3.
	want := 0.5 + 1.3/3
	if got := lev.Distance("tom", "torn"); math.Abs(got-want) > 1e-9 {
		t.Errorf("Distance(tom, torn) = %v, want %v", got, want)
	}
	if got := lev.Distance("tow", "torn"); math.Abs(got-2.3) > 1e-9 {
		t.Errorf("Distance(tow, torn) = %v, want 2.3", got)
	}
}

func TestTraceback_RecordsPairsAndPatterns(t *testing.T) {
	t.Parallel()

	lev := NewLevenshtein(uniformMatrix())
	acc := NewAccumulator()
	lev.Traceback("tom", "torn", acc)

	if got := acc.Insertions["rn-m"]; got != 1 {
		t.Errorf("rn-m recorded %d times, want 1 (all: %v)", got, acc.Insertions)
	}
	for _, p := range []struct {
		text rune
		dict rune
	}{{'m', 'n'}, {'m', 'r'}, {'o', 'o'}, {'t', 't'}} {
		if got := acc.Substitutions[TextCodeOf(p.text)][DictCodeOf(p.dict)]; got != 1 {
			t.Errorf("pair %q->%q recorded %d times, want 1", p.text, p.dict, got)
		}
	}
	if got := acc.Total(); got != 4 {
		t.Errorf("Total = %d, want 4", got)
	}
}

func TestTraceback_TextSidePattern(t *testing.T) {
	t.Parallel()

	lev := NewLevenshtein(uniformMatrix())
	acc := NewAccumulator()
	lev.Traceback("Lonclon", "london", acc)

	if got := acc.Insertions["d-cl"]; got != 1 {
		t.Errorf("d-cl recorded %d times, want 1 (all: %v)", got, acc.Insertions)
	}
	if got := acc.Substitutions['c'][DictCodeOf('d')]; got != 1 {
		t.Errorf("c->d recorded %d times, want 1", got)
	}
	if got := acc.Substitutions['l'][DictCodeOf('d')]; got != 1 {
		t.Errorf("l->d recorded %d times, want 1", got)
	}
}

func TestTraceback_LowersLaterDistance(t *testing.T) {
	t.Parallel()

	prior := new(CountTable)
	before := NewLevenshtein(BuildMatrix(prior))

	acc := NewAccumulator()
	for i := 0; i < 20; i++ {
		before.Traceback("tbe", "the", acc)
	}
	after := NewLevenshtein(BuildMatrix(prior.Add(&acc.Substitutions)))

	d0, d1 := before.Distance("tbe", "the"), after.Distance("tbe", "the")
	if d1 >= d0 {
		t.Errorf("distance after learning %v, want below %v", d1, d0)
	}
}
