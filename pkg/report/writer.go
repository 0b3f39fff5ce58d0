package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// TextColumnWidth is the padded width of the pattern column in text output.
const TextColumnWidth = 30

// StdoutPath selects standard output as the destination in Create.
const StdoutPath = "-"

const lz4Suffix = ".lz4"

var (
	// ErrNoOutput is returned when no output destination is configured.
	ErrNoOutput = errors.New("report: output destination must be provided")

	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("report: unknown output format")

	// ErrCreateOutput is returned when the output destination cannot be created.
	ErrCreateOutput = errors.New("report: create output")
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// FormatRecord renders a pattern as a single text record without newline.
func FormatRecord(p Pattern) string {
	return fmt.Sprintf("%-*s #SUP: %d", TextColumnWidth, p.String(), p.Support)
}

type encodeFunc func(w io.Writer, p Pattern) error

// StreamReporter writes one record per pattern to a buffered stream.
type StreamReporter struct {
	buf     *bufio.Writer
	encode  encodeFunc
	closers []io.Closer
	written int
}

// NewWriter returns a reporter writing records in format to w. The caller
// keeps ownership of w.
func NewWriter(w io.Writer, format string) (*StreamReporter, error) {
	enc, err := encoderFor(format)
	if err != nil {
		return nil, err
	}

	return &StreamReporter{buf: bufio.NewWriter(w), encode: enc}, nil
}

// Create opens path as an output destination. StdoutPath writes to standard
// output; paths ending in ".lz4" are lz4 frame compressed.
func Create(path, format string) (*StreamReporter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoOutput
	}

	enc, err := encoderFor(format)
	if err != nil {
		return nil, err
	}

	if path == StdoutPath {
		return &StreamReporter{buf: bufio.NewWriter(os.Stdout), encode: enc}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateOutput, err)
	}

	rep := &StreamReporter{encode: enc}

	if strings.HasSuffix(path, lz4Suffix) {
		zw := lz4.NewWriter(f)
		rep.buf = bufio.NewWriter(zw)
		rep.closers = []io.Closer{zw, f}
	} else {
		rep.buf = bufio.NewWriter(f)
		rep.closers = []io.Closer{f}
	}

	return rep, nil
}

// Report encodes one pattern.
func (r *StreamReporter) Report(p Pattern) error {
	err := r.encode(r.buf, p)
	if err != nil {
		return fmt.Errorf("write pattern %s: %w", p, err)
	}

	r.written++

	return nil
}

// Written returns the number of records written so far.
func (r *StreamReporter) Written() int {
	return r.written
}

// Close flushes buffered records and closes owned resources.
func (r *StreamReporter) Close() error {
	errs := []error{r.buf.Flush()}

	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}

	r.closers = nil

	return errors.Join(errs...)
}

func encoderFor(format string) (encodeFunc, error) {
	switch format {
	case FormatText, "":
		return encodeText, nil
	case FormatJSON:
		return encodeJSON, nil
	case FormatYAML:
		return encodeYAML, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

func encodeText(w io.Writer, p Pattern) error {
	_, err := io.WriteString(w, FormatRecord(p)+"\n")

	return err
}

func encodeJSON(w io.Writer, p Pattern) error {
	return json.NewEncoder(w).Encode(p)
}

// encodeYAML writes the pattern as a single sequence entry, so that the
// concatenated output is one YAML list.
func encodeYAML(w io.Writer, p Pattern) error {
	data, err := yaml.Marshal([]Pattern{p})
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
