// Package cabinet reads and writes the tab- and comma-separated files a
// matching run works from: the substitution count table, the main
// dictionary, extra word lists, token files, and the categorized outputs.
//
// Inputs are memory-mapped and scanned line by line; token and dictionary
// files run to millions of lines.
package cabinet

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Output file names inside a run's output directory.
const (
	FailedWords     = "failedWords.txt"
	TailWords       = "tailWords.txt"
	RuleSet         = "ruleSet.txt"
	AddToDictionary = "addToDictionary.txt"
	CharMatrix      = "CharMatrix.txt"
	InsertionReport = "insertionPatterns.txt"
	AlphabetSoup    = "alphabetSoup.csv"
)

// readLines maps path and calls fn with each line, numbered from 1, without
// its line terminator. A trailing newline does not produce an empty line.
func readLines(path string, fn func(n int, line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cabinet: open %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("cabinet: stat %q: %w", path, err)
	}
	if info.Size() == 0 {
		return nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("cabinet: map %q: %w", path, err)
	}
	defer data.Unmap()

	rest := []byte(data)
	for n := 1; len(rest) > 0; n++ {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = nil
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if err := fn(n, string(line)); err != nil {
			return fmt.Errorf("cabinet: %s:%d: %w", path, n, err)
		}
	}
	return nil
}

// WriteLines replaces path with lines.
func WriteLines(path string, lines []string) error {
	return writeFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, lines)
}

// AppendLines appends lines to path, creating it if needed. Nothing is
// written for an empty slice.
func AppendLines(path string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	return writeFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, lines)
}

func writeFile(path string, flag int, lines []string) error {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("cabinet: open %q: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, l := range lines {
		w.WriteString(l)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("cabinet: write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cabinet: close %q: %w", path, err)
	}
	return nil
}
