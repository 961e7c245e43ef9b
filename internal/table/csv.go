package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptyInput is returned when a delimited file has no header row.
var ErrEmptyInput = errors.New("empty input: no header row")

// ReadOptions controls how delimited text is loaded.
type ReadOptions struct {
	// Delimiter for fields. If 0, it is chosen from the file extension
	// ('\t' for .tsv, ',' otherwise).
	Delimiter rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// ReadFile loads a delimited file with a header row. Every cell is loaded as
// text; cleaning and coercion happen in later stages.
func ReadFile(path string, opt ReadOptions) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = SniffDelimiter(path)
	}
	return Read(bytes.NewReader(b), opt)
}

// Read parses delimited text with a header row from r.
func Read(r io.Reader, opt ReadOptions) (*Table, error) {
	br, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	br = bytes.TrimPrefix(br, []byte{0xEF, 0xBB, 0xBF})
	cr := csv.NewReader(bytes.NewReader(br))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	if ncol == 0 {
		return nil, ErrEmptyInput
	}
	maxRows := opt.MaxRows
	var rows [][]Value
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
		row := make([]Value, ncol)
		for j := 0; j < ncol && j < len(rec); j++ {
			row[j] = String(rec[j])
		}
		rows = append(rows, row)
	}
	return New(uniqueNames(header, false), rows)
}

// SniffDelimiter picks a delimiter from the file name alone.
func SniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// Write encodes t as delimited text with a header row. Absent cells are
// written as empty fields.
func Write(w io.Writer, t *Table, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(t.columns))
	for i, r := range t.rows {
		for j, v := range r {
			rec[j] = v.Text()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Encode is Write into a byte slice.
func Encode(t *Table, delim rune) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t, delim); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
