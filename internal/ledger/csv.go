package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses a ledger dataset. The first record is the header; rows may
// be ragged (missing trailing cells read back as empty).
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("ReadCSV: empty dataset, no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: reading header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: reading row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}

	return NewTable(header, rows), nil
}

// WriteCSV serializes the table back to CSV, header first, preserving row
// order and every column.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("WriteCSV: writing header: %w", err)
	}
	for i, row := range t.Rows {
		// Pad short rows so every record matches the header width.
		padded := make([]string, len(t.Header))
		copy(padded, row)
		if err := writer.Write(padded); err != nil {
			return fmt.Errorf("WriteCSV: writing row %d: %w", i+2, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// EncodeCSV renders the table to bytes, for upload to the dataset bucket.
func EncodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
