package corrector

import (
	"slices"
	"testing"
)

func TestAccumulator_Merge(t *testing.T) {
	t.Parallel()

	a, b := NewAccumulator(), NewAccumulator()
	a.addSubstitution('c', DictCodeOf('e'))
	a.addInsertion("rn-m")
	b.addSubstitution('c', DictCodeOf('e'))
	b.addSubstitution('1', DictCodeOf('l'))
	b.addInsertion("rn-m")
	b.addInsertion("h-li")

	a.Merge(b)
	a.Merge(nil)

	if got := a.Substitutions['c'][DictCodeOf('e')]; got != 2 {
		t.Errorf("c->e = %d, want 2", got)
	}
	if got := a.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}
	if a.Insertions["rn-m"] != 2 || a.Insertions["h-li"] != 1 {
		t.Errorf("Insertions = %v", a.Insertions)
	}
	// The source is left alone.
	if b.Total() != 2 {
		t.Errorf("merged-from accumulator changed: %d", b.Total())
	}
}

func TestAccumulator_MergeIntoZeroValue(t *testing.T) {
	t.Parallel()

	var a Accumulator
	b := NewAccumulator()
	b.addInsertion("ct-d")
	a.Merge(b)
	if a.Insertions["ct-d"] != 1 {
		t.Errorf("Insertions = %v", a.Insertions)
	}
}

func TestAccumulator_InsertionReport(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	for _, p := range []string{"h-li", "rn-m", "rn-m", "ct-d", "m-in", "rn-m", "ct-d"} {
		acc.addInsertion(p)
	}
	got := acc.InsertionReport()
	want := []PatternCount{
		{Pattern: "rn-m", Count: 3},
		{Pattern: "ct-d", Count: 2},
		{Pattern: "h-li", Count: 1},
		{Pattern: "m-in", Count: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("InsertionReport = %v, want %v", got, want)
	}
	if got := acc.Inserted(); got != 7 {
		t.Errorf("Inserted = %d, want 7", got)
	}
}
