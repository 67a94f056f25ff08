// Package ledger models the expense ledger: a raw tabular snapshot as read
// from the dataset bucket, plus a typed per-row view for aggregation.
package ledger

import "strings"

// Column names of the ledger dataset.
const (
	ColAmount    = "amount"
	ColDate      = "date"
	ColCategory  = "category"
	ColMerchant  = "description/merchant"
	ColLabel     = "expense_type"
	ColPredicted = "predicted_expense_type"
)

// RequiredColumns are the columns every ledger dataset must carry.
var RequiredColumns = []string{ColAmount, ColDate, ColCategory, ColMerchant}

// Table is an immutable snapshot of the ledger. Cells are kept raw so the
// dataset can be written back unchanged except for appended columns; typed
// access goes through Records and the feature pipeline.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table over the given header and rows. Short rows are
// padded on access, not rejected.
func NewTable(header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return &Table{Header: header, Rows: rows, index: index}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the subset of names absent from the header.
func (t *Table) MissingColumns(names []string) []string {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Cell returns the raw cell value for a row and column, or "" when the
// column is absent or the row is short.
func (t *Table) Cell(row int, name string) string {
	col, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Column returns the full column as raw strings. The second return value is
// false when the column does not exist.
func (t *Table) Column(name string) ([]string, bool) {
	if _, ok := t.index[name]; !ok {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i := range t.Rows {
		values[i] = t.Cell(i, name)
	}
	return values, true
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(cell string) bool {
	trimmed := strings.TrimSpace(cell)
	return trimmed == "" || strings.EqualFold(trimmed, "nan")
}

// WithColumn returns a copy of the table with the named column set for the
// given rows. Rows absent from values keep (or get) an empty cell. If the
// column already exists it is overwritten in place; otherwise it is appended
// to the header. The receiver is never mutated.
func (t *Table) WithColumn(name string, values map[int]string) *Table {
	header := append([]string(nil), t.Header...)
	col, exists := t.index[name]
	if !exists {
		col = len(header)
		header = append(header, name)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		next := make([]string, len(header))
		copy(next, row)
		if v, ok := values[i]; ok {
			next[col] = v
		}
		rows[i] = next
	}

	return NewTable(header, rows)
}
