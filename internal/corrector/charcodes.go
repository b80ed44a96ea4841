package corrector

import "unicode/utf8"

const (
	// TextCodes is the number of observed-side character slots.
	TextCodes = 256
	// DictCodes is the number of dictionary-side character slots.
	DictCodes = 71

	maxTextCode = TextCodes - 1
)

// DictCode is a slot in the dictionary-side alphabet.
type DictCode int

// CatchAll is the dictionary slot shared by every character outside the alphabet.
const CatchAll DictCode = DictCodes - 1

// dictionaryCharacters lists the dictionary alphabet in slot order; the last
// rune stands for CatchAll.
const dictionaryCharacters = "abcdefghijklmnopqrstuvwxyz0123456789ßàáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ'-÷"

var dictSlots = func() map[rune]DictCode {
	m := make(map[rune]DictCode, DictCodes+26)
	i := 0
	for _, r := range dictionaryCharacters {
		m[r] = DictCode(i)
		i++
	}
	for r := 'A'; r <= 'Z'; r++ {
		m[r] = DictCode(r - 'A')
	}
	return m
}()

// DictCodeOf maps a dictionary character to its slot. Upper-case ASCII
// letters fold onto their lower-case slots; anything unknown is CatchAll.
func DictCodeOf(r rune) DictCode {
	if c, ok := dictSlots[r]; ok {
		return c
	}
	return CatchAll
}

// IsCatchAll reports whether c is the catch-all slot.
func (c DictCode) IsCatchAll() bool { return c == CatchAll }

// TextCodeOf addresses an observed character by its code point, clamped to 255.
func TextCodeOf(r rune) int {
	if r < 0 || r > maxTextCode {
		return maxTextCode
	}
	return int(r)
}

func textCodes(rs []rune) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = TextCodeOf(r)
	}
	return out
}

func dictCodes(rs []rune) []DictCode {
	out := make([]DictCode, len(rs))
	for i, r := range rs {
		out[i] = DictCodeOf(r)
	}
	return out
}

// runeLen is the length used by every length rule in the matcher.
func runeLen(s string) int { return utf8.RuneCountInString(s) }
