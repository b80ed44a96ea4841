package corrector

import (
	"log/slog"
	"math"
	"strings"

	"ocrmatch/pkg/options"
)

// =====================

// SpellCorrector decides, token by token, whether an OCR type is already a
// word, a mechanical variant of one, a tail fragment, a fuzzy correction, or
// a failure. Cheap rules run before the bigram index and the weighted
// alignment are consulted.
//
// A SpellCorrector is read-only after construction. Learning counts go to the
// Accumulator passed into each call, so one corrector can be shared by
// workers that each own an Accumulator.
type SpellCorrector struct {
	config CorrectorConfig
	opts   options.IndexOptions
	lex    *Lexicon
	index  *BigramIndex
	lev    *Levenshtein
	log    *slog.Logger

	// splitTails maps the words inside the split-search bound to their
	// recall positions.
	splitTails map[string][]int
}

// NewSpellCorrector indexes the recall lexicon of lex (bounded by the recall
// limit) and aligns with costs from matrix.
func NewSpellCorrector(cfg CorrectorConfig, lex *Lexicon, matrix *ConfusionMatrix, opts ...options.Options) *SpellCorrector {
	o := options.Resolve(opts...)
	recall := lex.Recall
	if o.RecallLimit > 0 && len(recall) > o.RecallLimit {
		recall = recall[:o.RecallLimit]
	}
	sc := &SpellCorrector{
		config: cfg,
		opts:   o,
		lex:    lex,
		index:  BuildIndex(recall, o.DiceThreshold),
		lev:    NewLevenshtein(matrix),
		log:    slog.Default(),
	}

	limit := min(o.SplitSearchLimit, len(recall))
	sc.splitTails = make(map[string][]int, limit)
	for i := 0; i < limit; i++ {
		w := recall[i].Word
		sc.splitTails[w] = append(sc.splitTails[w], i)
	}
	return sc
}

// WithLogger returns sc logging to l.
func (sc *SpellCorrector) WithLogger(l *slog.Logger) *SpellCorrector {
	if l != nil {
		sc.log = l
	}
	return sc
}

// Levenshtein exposes the alignment engine.
func (sc *SpellCorrector) Levenshtein() *Levenshtein { return sc.lev }

// Index exposes the candidate index.
func (sc *SpellCorrector) Index() *BigramIndex { return sc.index }

// Lexicon exposes the lexicon the corrector checks against.
func (sc *SpellCorrector) Lexicon() *Lexicon { return sc.lex }

// =====================
// Decision rules
// =====================

// MineMatches classifies tokens in order.
func (sc *SpellCorrector) MineMatches(tokens []Token, acc *Accumulator) []MatchResult {
	out := make([]MatchResult, len(tokens))
	for i, t := range tokens {
		out[i] = sc.Classify(t, acc)
	}
	return out
}

// Classify applies the rules in priority order; the first that fires wins.
func (sc *SpellCorrector) Classify(tok Token, acc *Accumulator) MatchResult {
	word, title := tok.Word, tok.Titlecase

	if sc.lex.Contains(word) || sc.lex.Contains(strings.ToLower(word)) {
		return MatchResult{Outcome: Unchanged, Word: word}
	}
	if runeLen(word) < sc.config.MinTokenLength {
		return MatchResult{Outcome: Failed}
	}
	if runeLen(word) >= 2 && digitFraction(word) > sc.config.NumericFraction {
		return MatchResult{Outcome: Failed}
	}

	reg := regularize(word)

	if strings.HasSuffix(reg, "'s") || (strings.HasSuffix(reg, "ly") && runeLen(reg) > 6) {
		if sc.lex.Contains(reg[:len(reg)-2]) {
			return MatchResult{Outcome: Unchanged, Word: reg}
		}
	}

	// appre-henfion: drop the punctuation and try again.
	fused := fuse(reg)
	if sc.lex.Contains(strings.ToLower(fused)) {
		return MatchResult{Outcome: Unchanged, Word: fused}
	}
	if runeLen(fused) < runeLen(reg) {
		// Short matches on fused junk like .^a*-n are accidents.
		if possible := sc.findClosest(fused, title, acc); runeLen(possible) > sc.config.MinFusedMatchLen {
			return MatchResult{Outcome: Correction, Word: possible}
		}
	}

	if strings.Contains(reg, "-") {
		if res, ok := sc.matchHyphenated(reg, title, acc); ok {
			return res
		}
	}

	// Fragments are resolved later against their neighbours, so no rule here.
	if !title {
		if tails := sc.index.TailMatches(reg); len(tails) > 0 {
			return MatchResult{Outcome: TailFragment, Word: tails[0]}
		}
	}

	if sc.archaicForm(reg) {
		return MatchResult{Outcome: Unchanged, Word: reg}
	}

	if match := sc.findClosest(reg, title, acc); match != "" {
		return MatchResult{Outcome: Correction, Word: match}
	}
	return MatchResult{Outcome: Failed}
}

// matchHyphenated resolves each hyphen-separated segment on its own. Only
// the first segment inherits the token's titlecase.
func (sc *SpellCorrector) matchHyphenated(reg string, title bool, acc *Accumulator) (MatchResult, bool) {
	segments := splitHyphens(reg)
	if len(segments) == 0 {
		return MatchResult{}, false
	}
	resolved := 0
	changed := false
	parts := make([]string, 0, len(segments))
	for i, seg := range segments {
		switch {
		case seg == "":
			parts = append(parts, seg)
		case sc.lex.Contains(seg):
			resolved++
			parts = append(parts, seg)
		default:
			match := sc.findClosest(seg, i == 0 && title, acc)
			if match == "" {
				parts = append(parts, seg)
				continue
			}
			resolved++
			changed = true
			parts = append(parts, match)
		}
	}
	if float64(resolved)/float64(len(segments)) <= sc.config.HyphenResolvedRatio {
		return MatchResult{}, false
	}
	if changed {
		return MatchResult{Outcome: Correction, Word: strings.Join(parts, " ")}, true
	}
	return MatchResult{Outcome: Unchanged, Word: reg}, true
}

// archaicForm reports whether reg is an -eth/-est/-llest form of a known word.
func (sc *SpellCorrector) archaicForm(reg string) bool {
	if (strings.HasSuffix(reg, "eth") || strings.HasSuffix(reg, "est")) && runeLen(reg) > 5 {
		if sc.lex.Contains(reg[:len(reg)-2]) || sc.lex.Contains(reg[:len(reg)-3]) {
			return true
		}
	}
	if strings.HasSuffix(reg, "llest") && sc.lex.Contains(reg[:len(reg)-4]) {
		return true
	}
	return false
}

// =====================
// Fuzzy matching
// =====================

// findClosest returns the accepted fuzzy match for word, a "head tail"
// split, or "" when nothing qualifies. An accepted match is traced into acc.
func (sc *SpellCorrector) findClosest(word string, titlecase bool, acc *Accumulator) string {
	candidates := sc.index.Retrieve(strings.ToLower(word), titlecase)
	if titlecase {
		word = title(word)
	}

	best, second, ok := sc.bestMatch(word, candidates)
	if ok {
		sc.log.Debug("fuzzy match accepted",
			"token", word, "match", best.Term, "confidence", best.Confidence,
			"runner_up", second.Term, "runner_up_confidence", second.Confidence)
		if acc != nil {
			sc.lev.Traceback(word, best.Term, acc)
		}
		return best.Term
	}
	if runeLen(word) > sc.config.SplitMinLength && !titlecase {
		return sc.splitWord(strings.ToLower(word))
	}
	return ""
}

// bestMatch scores candidates by frequency-discounted distance and accepts
// the lowest if it falls under the length-dependent cutoff.
func (sc *SpellCorrector) bestMatch(word string, candidates []int) (best, second Candidate, ok bool) {
	best.Confidence, second.Confidence = math.Inf(1), math.Inf(1)
	for _, i := range candidates {
		e := sc.index.Entry(i)
		distance := sc.lev.Distance(word, e.Word)
		c := Candidate{Term: e.Word, Distance: distance, Confidence: distance - distance*e.Weight}
		switch {
		case c.Confidence < best.Confidence:
			second, best = best, c
		case c.Confidence < second.Confidence:
			second = c
		}
	}
	cutoff := sc.config.CutoffBase + float64(runeLen(word))/sc.config.CutoffDivisor
	return best, second, best.Term != "" && best.Confidence < cutoff
}

// splitWord looks for two frequent recall words that concatenate to word.
func (sc *SpellCorrector) splitWord(word string) string {
	wl := runeLen(word)
	cutoff := sc.config.SplitCutoffBase - sc.config.SplitCutoffSlope*float64(wl)
	limit := min(sc.opts.SplitSearchLimit, sc.index.Len())

	var (
		bestScore float64
		split     string
	)
	for i := 0; i < limit; i++ {
		head := sc.index.Entry(i)
		if runeLen(head.Word) < 2 || !strings.HasPrefix(word, head.Word) {
			continue
		}
		tail := word[len(head.Word):]
		if runeLen(tail) < 2 {
			continue
		}
		for _, j := range sc.splitTails[tail] {
			p := head.Weight * sc.index.Entry(j).Weight
			if p > cutoff && p > bestScore {
				bestScore = p
				split = head.Word + " " + tail
			}
		}
	}
	if split != "" {
		sc.log.Debug("split accepted", "token", word, "split", split, "score", bestScore)
	}
	return split
}
