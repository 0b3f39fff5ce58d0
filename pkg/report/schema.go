package report

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/pattern-schema.json
var schemaFS embed.FS

const schemaFile = "schema/pattern-schema.json"

// RecordError describes one invalid JSON record.
type RecordError struct {
	Line    int
	Field   string
	Message string
}

// Validation is the outcome of checking a JSON pattern stream.
type Validation struct {
	Records int
	Errors  []RecordError
}

// Valid reports whether every record matched the schema.
func (v Validation) Valid() bool {
	return len(v.Errors) == 0
}

// PatternSchema returns the embedded JSON schema for one pattern record.
func PatternSchema() ([]byte, error) {
	data, err := schemaFS.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}

	return data, nil
}

// ValidateJSON checks every non-empty line of a JSON-lines pattern stream
// against the embedded schema. Lines that are not JSON are reported as
// record errors; only read and schema failures are returned as errors.
func ValidateJSON(r io.Reader) (Validation, error) {
	schemaBytes, err := PatternSchema()
	if err != nil {
		return Validation{}, err
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	if err != nil {
		return Validation{}, fmt.Errorf("compile schema: %w", err)
	}

	var out Validation

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxRecordBytes)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		out.Records++

		if !json.Valid(line) {
			out.Errors = append(out.Errors, RecordError{Line: lineNo, Field: "(root)", Message: "invalid JSON"})

			continue
		}

		result, validateErr := schema.Validate(gojsonschema.NewBytesLoader(line))
		if validateErr != nil {
			return out, fmt.Errorf("validate line %d: %w", lineNo, validateErr)
		}

		for _, verr := range result.Errors() {
			out.Errors = append(out.Errors, RecordError{Line: lineNo, Field: verr.Field(), Message: verr.Description()})
		}
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		return out, fmt.Errorf("read records: %w", scanErr)
	}

	return out, nil
}

const maxRecordBytes = 16 << 20
