package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/perov/internal/ir"
)

// ReadCSV reads a frame from CSV with a header row. Every cell is kept as a
// string. Rows with a different field count than the header are an error.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("read csv: duplicate column %q", name)
		}
		seen[name] = true
	}

	f := &Frame{Columns: header, Rows: []Record{}}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rec := make(Record, len(header))
		for j, name := range header {
			rec[name] = fields[j]
		}
		f.Rows = append(f.Rows, rec)
	}
	return f, nil
}

// WriteCSV writes f with a header row in column order. Coefficients are
// written in their String form; unset cells are empty.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fields := make([]string, len(f.Columns))
	for _, rec := range f.Rows {
		for j, name := range f.Columns {
			fields[j] = CellString(rec[name])
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// CellString renders a frame cell as text.
func CellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case ir.Coefficient:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
