package cabinet

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"ocrmatch/internal/corrector"
)

// ReadCountTable loads a substitution count table: one line per observed
// code, each holding comma-separated counts per dictionary slot. Missing
// lines and cells are zero; cells that do not parse are marked
// corrector.Malformed and logged.
func ReadCountTable(path string) (*corrector.CountTable, error) {
	table := new(corrector.CountTable)
	err := readLines(path, func(n int, line string) error {
		row := n - 1
		if row >= corrector.TextCodes {
			return nil
		}
		for col, cell := range strings.Split(line, ",") {
			if col >= corrector.DictCodes {
				break
			}
			v, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
			if err != nil || v < 0 {
				slog.Warn("malformed count cell", "path", path, "line", n, "column", col+1, "value", cell)
				table[row][col] = corrector.Malformed
				continue
			}
			table[row][col] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// WriteCountTable writes table in the format ReadCountTable reads.
// Malformed cells are written as zero.
func WriteCountTable(path string, table *corrector.CountTable) error {
	lines := make([]string, corrector.TextCodes)
	var b strings.Builder
	for t := 0; t < corrector.TextCodes; t++ {
		b.Reset()
		for d := 0; d < corrector.DictCodes; d++ {
			if d > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(max(table[t][d], 0), 10))
		}
		lines[t] = b.String()
	}
	return WriteLines(path, lines)
}

// WriteInsertionReport writes one pattern\tcount line per pattern.
func WriteInsertionReport(path string, report []corrector.PatternCount) error {
	lines := make([]string, len(report))
	for i, p := range report {
		lines[i] = fmt.Sprintf("%s\t%d", p.Pattern, p.Count)
	}
	return WriteLines(path, lines)
}

// FormatAlphabet renders the a-z block of m as 26 CSV lines, one per
// observed letter.
func FormatAlphabet(m *corrector.ConfusionMatrix) []string {
	lines := make([]string, 26)
	cells := make([]string, 26)
	for i := range lines {
		for j := range cells {
			cells[j] = strconv.FormatFloat(m['a'+i][j], 'g', -1, 64)
		}
		lines[i] = strings.Join(cells, ",")
	}
	return lines
}
