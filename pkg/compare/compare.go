// Package compare diffs two pattern outputs independently of record order.
package compare

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const lz4Suffix = ".lz4"

// Result lists the records present on only one side.
type Result struct {
	Removed []string
	Added   []string
	Common  int
}

// Equal reports whether both sides hold the same records.
func (r Result) Equal() bool {
	return len(r.Removed) == 0 && len(r.Added) == 0
}

// Normalize reads records from r, collapsing runs of whitespace so column
// padding does not matter, and returns them sorted. Blank lines are dropped.
func Normalize(r io.Reader) ([]string, error) {
	var out []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line != "" {
			out = append(out, line)
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	slices.Sort(out)

	return out, nil
}

// Lines diffs two sorted record lists line by line.
func Lines(before, after []string) Result {
	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToRunes(joinLines(before), joinLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	var res Result

	for _, d := range diffs {
		if d.Text == "" {
			continue
		}

		records := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			res.Removed = append(res.Removed, records...)
		case diffmatchpatch.DiffInsert:
			res.Added = append(res.Added, records...)
		case diffmatchpatch.DiffEqual:
			res.Common += len(records)
		}
	}

	return res
}

// Readers normalizes both inputs and diffs them.
func Readers(before, after io.Reader) (Result, error) {
	a, err := Normalize(before)
	if err != nil {
		return Result{}, err
	}

	b, err := Normalize(after)
	if err != nil {
		return Result{}, err
	}

	return Lines(a, b), nil
}

// Files diffs two pattern files. Files ending in ".lz4" are decompressed.
func Files(beforePath, afterPath string) (Result, error) {
	before, err := normalizeFile(beforePath)
	if err != nil {
		return Result{}, err
	}

	after, err := normalizeFile(afterPath)
	if err != nil {
		return Result{}, err
	}

	return Lines(before, after), nil
}

func normalizeFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, lz4Suffix) {
		r = lz4.NewReader(f)
	}

	records, err := Normalize(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

func joinLines(records []string) string {
	if len(records) == 0 {
		return ""
	}

	return strings.Join(records, "\n") + "\n"
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
