package cabinet

import "strings"

// TokenRecord is one line of a token file:
// word\t_\tcount\t_\ttitleodds. Line is kept verbatim for the failed-words
// output.
type TokenRecord struct {
	Line      string
	Word      string
	Count     int
	Titlecase bool
}

// ReadTokens reads a token file. A token is titlecase when its odds exceed
// titlecaseOdds.
func ReadTokens(path string, titlecaseOdds float64) ([]TokenRecord, error) {
	var out []TokenRecord
	err := readLines(path, func(n int, line string) error {
		fields := strings.Split(line, "\t")
		if fields[0] == "" {
			return nil
		}
		out = append(out, TokenRecord{
			Line:      line,
			Word:      fields[0],
			Count:     parseCount(path, n, field(fields, 2)),
			Titlecase: parseOdds(path, n, field(fields, 4)) > titlecaseOdds,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) <= size {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for len(items) > size {
		out = append(out, items[:size:size])
		items = items[size:]
	}
	return append(out, items)
}
