package cabinet

import (
	"log/slog"
	"strconv"
	"strings"

	"ocrmatch/internal/corrector"
)

// malformedOdds stands in for a title-odds field that does not parse.
const malformedOdds = 0.01

// ReadMainDictionary reads word\tcount\ttitleodds lines, most frequent
// first. The first recallLimit lines form the recall lexicon; every word is
// returned in precision. A word is titlecase when its odds exceed
// titlecaseOdds.
func ReadMainDictionary(path string, recallLimit int, titlecaseOdds float64) (recall []corrector.DictionaryEntry, precision []string, err error) {
	err = readLines(path, func(n int, line string) error {
		fields := strings.Split(line, "\t")
		word := fields[0]
		if word == "" {
			return nil
		}
		precision = append(precision, word)
		if len(recall) >= recallLimit {
			return nil
		}
		count := parseCount(path, n, field(fields, 1))
		odds := parseOdds(path, n, field(fields, 2))
		recall = append(recall, corrector.NewEntry(word, count, odds > titlecaseOdds))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return recall, precision, nil
}

// ReadWordList returns the lowercased first field of every line. Gazetteers
// and lists of archaic forms use this format.
func ReadWordList(path string) ([]string, error) {
	var words []string
	err := readLines(path, func(_ int, line string) error {
		if w, _, _ := strings.Cut(line, "\t"); w != "" {
			words = append(words, strings.ToLower(w))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func parseCount(path string, n int, s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		slog.Warn("malformed count", "path", path, "line", n, "value", s)
		return 0
	}
	return v
}

func parseOdds(path string, n int, s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		slog.Warn("malformed title odds", "path", path, "line", n, "value", s)
		return malformedOdds
	}
	return v
}
