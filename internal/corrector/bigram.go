package corrector

import "strings"

// Bigram buckets: a-z fold case into 0-25, everything else shares one bucket.
const (
	bucketOther    = 26
	bucketBoundary = 27
	bucketCount    = 28

	boundary = '$'
)

type bigram struct{ a, b uint8 }

func bucketOf(r rune) uint8 {
	switch {
	case r >= 'a' && r <= 'z':
		return uint8(r - 'a')
	case r >= 'A' && r <= 'Z':
		return uint8(r - 'A')
	case r == boundary:
		return bucketBoundary
	default:
		return bucketOther
	}
}

// bigramsOf returns the distinct bucket pairs of $word$ in first-seen order.
func bigramsOf(word string) []bigram {
	padded := []rune(string(boundary) + word + string(boundary))
	seen := make(map[bigram]struct{}, len(padded))
	out := make([]bigram, 0, len(padded)-1)
	for i := 1; i < len(padded); i++ {
		g := bigram{bucketOf(padded[i-1]), bucketOf(padded[i])}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// Dice scores two words by their shared padded bigrams.
func Dice(a, b string) float64 {
	ga, gb := bigramsOf(a), bigramsOf(b)
	inB := make(map[bigram]struct{}, len(gb))
	for _, g := range gb {
		inB[g] = struct{}{}
	}
	shared := 0
	for _, g := range ga {
		if _, ok := inB[g]; ok {
			shared++
		}
	}
	return dice(shared, len(ga), len(gb))
}

func dice(shared, a, b int) float64 {
	if a+b == 0 {
		return 0
	}
	return 2 * float64(shared) / float64(a+b)
}

// BigramIndex maps bucket pairs to the recall-lexicon entries whose padded
// spelling contains them. It is read-only once built.
type BigramIndex struct {
	entries []DictionaryEntry
	grams   []int
	buckets [bucketCount][bucketCount][]int
	minDice float64
}

// BuildIndex indexes recall. Candidates must score above minDice to be retrieved.
func BuildIndex(recall []DictionaryEntry, minDice float64) *BigramIndex {
	idx := &BigramIndex{
		entries: recall,
		grams:   make([]int, len(recall)),
		minDice: minDice,
	}
	for i, e := range recall {
		gs := bigramsOf(e.Word)
		for _, g := range gs {
			idx.buckets[g.a][g.b] = append(idx.buckets[g.a][g.b], i)
		}
		idx.grams[i] = len(gs)
	}
	return idx
}

// Len is the number of indexed entries.
func (x *BigramIndex) Len() int { return len(x.entries) }

// Entry returns the i-th recall entry.
func (x *BigramIndex) Entry(i int) DictionaryEntry { return x.entries[i] }

func (x *BigramIndex) wordsContaining(g bigram) []int { return x.buckets[g.a][g.b] }

// Retrieve returns, in recall order, the entries whose Dice score against
// token exceeds the index threshold. With titlecase set only titlecase
// entries qualify, unless the token begins with "av".
func (x *BigramIndex) Retrieve(token string, titlecase bool) []int {
	if strings.HasPrefix(token, "av") {
		titlecase = false
	}
	gs := bigramsOf(token)
	shared := make([]int, len(x.entries))
	for _, g := range gs {
		for _, i := range x.wordsContaining(g) {
			shared[i]++
		}
	}
	var out []int
	for i, n := range shared {
		if n == 0 {
			continue
		}
		if titlecase && !x.entries[i].Titlecase {
			continue
		}
		if dice(n, len(gs), x.grams[i]) > x.minDice {
			out = append(out, i)
		}
	}
	return out
}

// TailMatches returns the recall words of which word looks like the final
// fragment: they share both of word's closing bigrams, end with word, and
// are longer than it by more than the allowed slack.
func (x *BigramIndex) TailMatches(word string) []string {
	rs := []rune(word)
	if len(rs) < 2 {
		return nil
	}
	last := bigram{bucketOf(rs[len(rs)-1]), bucketBoundary}
	nextToLast := bigram{bucketOf(rs[len(rs)-2]), bucketOf(rs[len(rs)-1])}

	hits := make(map[int]int)
	for _, i := range x.wordsContaining(last) {
		hits[i]++
	}
	for _, i := range x.wordsContaining(nextToLast) {
		hits[i]++
	}

	allowable := 0
	if len(rs) > 5 {
		allowable = 1
	}
	var out []string
	for _, i := range x.wordsContaining(nextToLast) {
		if hits[i] < 2 {
			continue
		}
		cand := x.entries[i].Word
		if runeLen(cand) <= len(rs)+allowable {
			continue
		}
		if strings.HasSuffix(cand, word) {
			out = append(out, cand)
		}
	}
	return out
}
