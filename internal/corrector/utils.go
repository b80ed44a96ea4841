package corrector

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonWordRe = regexp.MustCompile(`\W`)
	hyphensRe = regexp.MustCompile(`-+`)
)

var ligatures = strings.NewReplacer(
	"ſ", "s",
	"ﬁ", "fi",
	"ﬅ", "st",
	"ﬆ", "st",
	"æ", "ae",
)

// regularize replaces ligatures and long s with their plain spelling.
func regularize(word string) string { return ligatures.Replace(word) }

// fuse strips everything but ASCII word characters.
func fuse(word string) string { return nonWordRe.ReplaceAllString(word, "") }

// splitHyphens splits at runs of hyphens, dropping trailing empty segments.
func splitHyphens(word string) []string {
	parts := hyphensRe.Split(word, -1)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// digitFraction is the share of ASCII digits among the runes of s.
func digitFraction(s string) float64 {
	n, digits := 0, 0
	for _, r := range s {
		n++
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(digits) / float64(n)
}

func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
