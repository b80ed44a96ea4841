package corrector

// Glyph confusions that span two characters on one side of an alignment,
// written as <dictionary>-<observed>.
//
// textInsertions: one dictionary letter scanned as two glyphs ("li" for "h").
var textInsertions = []string{
	"h-li", "m-in", "d-cl", "u-ii", "n-ii", "w-Av", "w-iv", "w-v/", "w-V/",
}

// dictInsertions: two dictionary letters fused into one glyph ("rn" read as "m").
var dictInsertions = []string{
	"li-h", "li-H", "in-m", "ct-d", "ct-&", "ll-U", "li-U", "li-u", "rn-m", "ri-n", "ct-6", "sh-m",
}

var (
	textPatterns = patternSet(textInsertions)
	dictPatterns = patternSet(dictInsertions)

	// Prefilters indexed by the observed code and dictionary slot of the
	// current cell, so the string check only runs where a pattern can end.
	textInsertable = func() (g [TextCodes][DictCodes]bool) {
		for _, p := range textInsertions {
			rs := []rune(p)
			g[TextCodeOf(rs[3])][DictCodeOf(rs[0])] = true
		}
		return g
	}()
	dictInsertable = func() (g [TextCodes][DictCodes]bool) {
		for _, p := range dictInsertions {
			rs := []rune(p)
			g[TextCodeOf(rs[3])][DictCodeOf(rs[1])] = true
		}
		return g
	}()
)

func patternSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, p := range list {
		m[p] = struct{}{}
	}
	return m
}

// textPattern builds <dict>-<text1><text2>.
func textPattern(dict, text1, text2 rune) string {
	return string([]rune{dict, '-', text1, text2})
}

// dictPattern builds <dict1><dict2>-<text>.
func dictPattern(dict1, dict2, text rune) string {
	return string([]rune{dict1, dict2, '-', text})
}
