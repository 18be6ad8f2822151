package seed

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// CSV read errors
var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	ErrMissingHeader   = errors.New("file has no header row")
)

// Row is one parsed CSV data row keyed by header name.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or the default when empty
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if val, ok := r.Data[header]; ok && val != "" {
		return val
	}
	return defaultVal
}

// isEmpty reports whether the row has no non-empty values
func (r *Row) isEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRows parses a whole UTF-8 CSV stream into header-keyed rows. A UTF-8
// BOM is stripped when present. Blank rows are skipped.
func ReadRows(r io.Reader) ([]*Row, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if sample, err := buf.Peek(4096); err == nil || err == io.EOF {
		if !utf8.Valid(sample) {
			return nil, ErrInvalidEncoding
		}
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []*Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return rows, fmt.Errorf("error reading row %d: %w", line, err)
		}

		row := &Row{LineNumber: line, Data: make(map[string]string, len(header))}
		for i, h := range header {
			if i < len(record) {
				row.Data[h] = strings.TrimSpace(record[i])
			} else {
				row.Data[h] = ""
			}
		}
		if row.isEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile parses a CSV file. A missing file yields no rows and no error so
// optional seed files can be skipped.
func ReadFile(path string) ([]*Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ReadRows(f)
}
