package seqdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// lz4Suffix selects transparent lz4 frame decompression in LoadFile.
const lz4Suffix = ".lz4"

// maxLineBytes bounds a single input line.
const maxLineBytes = 64 << 20

// Load parses one sequence per non-empty line of comma-separated integer
// tokens. A missing terminator is appended; tokens after the first
// terminator on a line are ignored.
func Load(r io.Reader) (*Database, error) {
	db := New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		seq, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		db.Append(seq)
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return db, nil
}

func parseLine(line string) (Sequence, error) {
	fields := strings.Split(line, ",")
	seq := make(Sequence, 0, len(fields)+1)

	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		tok, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedToken, field)
		}

		seq = append(seq, tok)

		if tok == Terminator {
			break
		}
	}

	return seq, nil
}

// LoadFile opens path and parses it with Load. Files ending in ".lz4" are
// decompressed on the fly. A non-zero maxSize rejects larger files before
// parsing.
func LoadFile(path string, maxSize uint64) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenInput, err)
	}
	defer f.Close()

	if maxSize > 0 {
		info, statErr := f.Stat()
		if statErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpenInput, statErr)
		}

		if info.Size() > 0 && uint64(info.Size()) > maxSize {
			return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrInputTooLarge, path, info.Size(), maxSize)
		}
	}

	var r io.Reader = f
	if strings.HasSuffix(path, lz4Suffix) {
		r = lz4.NewReader(f)
	}

	db, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return db, nil
}
