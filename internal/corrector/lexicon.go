package corrector

import (
	"math"
	"strings"
	"sync"
)

// DictionaryEntry is one word of the recall lexicon.
type DictionaryEntry struct {
	Word      string
	Count     int
	Weight    float64
	Titlecase bool
}

// NewEntry derives the frequency weight from count. titlecase says the word
// is usually capitalized.
func NewEntry(word string, count int, titlecase bool) DictionaryEntry {
	return DictionaryEntry{Word: word, Count: count, Weight: FreqWeight(count), Titlecase: titlecase}
}

// FreqWeight is log(count)/60, or 0 for counts below one.
func FreqWeight(count int) float64 {
	if count < 1 {
		return 0
	}
	return math.Log(float64(count)) / 60
}

// Lexicon pairs the recall lexicon, which feeds fuzzy candidate generation,
// with the precision lexicon, which is only ever used for membership tests so
// correctly spelled rare words are left alone.
//
// The precision lexicon is the base words given at construction plus custom
// words added while the lexicon is shared. Only custom words can be removed,
// so a base word is never lost. Membership checks take a read lock.
type Lexicon struct {
	Recall []DictionaryEntry

	base map[string]struct{}

	mu     sync.RWMutex
	custom map[string]struct{}
}

// NewLexicon builds a lexicon. Every recall word is also a precision word.
func NewLexicon(recall []DictionaryEntry, precision []string) *Lexicon {
	lex := &Lexicon{
		Recall: recall,
		base:   make(map[string]struct{}, len(recall)+len(precision)),
		custom: make(map[string]struct{}),
	}
	for _, e := range recall {
		lex.base[e.Word] = struct{}{}
	}
	for _, w := range precision {
		lex.base[w] = struct{}{}
	}
	return lex
}

// Contains is an exact, case-sensitive membership test.
func (l *Lexicon) Contains(word string) bool {
	if _, ok := l.base[word]; ok {
		return true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.custom[word]
	return ok
}

// Add inserts custom words into the precision lexicon.
func (l *Lexicon) Add(words ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range words {
		l.custom[strings.TrimSpace(w)] = struct{}{}
	}
}

// Remove deletes a custom word. Base words stay.
func (l *Lexicon) Remove(word string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.custom, word)
}

// Size is the number of distinct precision words.
func (l *Lexicon) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.base)
	for w := range l.custom {
		if _, ok := l.base[w]; !ok {
			n++
		}
	}
	return n
}
