package features

import (
	"math"
	"strconv"
	"strings"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
)

// CategoricalColumns are the ledger columns that go through vocabulary
// encoding rather than numeric coercion.
var CategoricalColumns = []string{ledger.ColCategory, ledger.ColMerchant}

// Options selects fit or apply mode per component. A nil Encoders map or nil
// Scaler means "fit and return"; supplying one means strict apply-only mode,
// as used at inference time.
type Options struct {
	Encoders map[string]*Vocabulary
	Scaler   *Scaler
}

// FeatureSet is the assembled numeric matrix plus everything needed to map
// predictions back onto the source table.
type FeatureSet struct {
	// Matrix rows correspond 1:1 to RowIndex entries; columns follow Columns.
	Matrix  [][]float64
	Columns []string

	// RowIndex holds the original table row index behind each matrix row.
	// Rows excluded by either filter never appear here and must not receive
	// a predicted label.
	RowIndex []int

	// Encoders and Scaler are the freshly fitted components, set only when
	// the corresponding option was nil.
	Encoders map[string]*Vocabulary
	Scaler   *Scaler
}

// Assemble turns raw rows into the feature matrix for the requested columns,
// in that exact order. Rows missing any requested source column are excluded
// before transformation; rows still holding an undetermined value afterwards
// (unparseable day-of-week, failed numeric coercion) are excluded again.
func Assemble(table *ledger.Table, featureCols []string, opts Options, diag *Diagnostics) (*FeatureSet, error) {
	requested := presentColumns(table, featureCols)

	// Pre-filter on raw completeness.
	rowIdx := make([]int, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		complete := true
		for _, col := range requested {
			if ledger.IsMissing(table.Cell(i, col)) {
				complete = false
				break
			}
		}
		if complete {
			rowIdx = append(rowIdx, i)
		}
	}

	fs := &FeatureSet{}
	columns := make([][]float64, 0, len(requested))

	for _, col := range requested {
		values := cellsAt(table, col, rowIdx)
		switch {
		case col == ledger.ColDate:
			fs.Columns = append(fs.Columns, DerivedDayOfWeek)
			columns = append(columns, DayOfWeek(values, diag))
		case isCategorical(col):
			fs.Columns = append(fs.Columns, col+"_enc")
			columns = append(columns, encodeColumn(col, values, opts, fs, diag))
		default:
			fs.Columns = append(fs.Columns, col)
			columns = append(columns, coerceNumeric(values))
		}
	}

	// Post-filter rows that still hold an undetermined value.
	for r, origIdx := range rowIdx {
		row := make([]float64, len(columns))
		keep := true
		for c := range columns {
			v := columns[c][r]
			if math.IsNaN(v) {
				keep = false
				break
			}
			row[c] = v
		}
		if keep {
			fs.Matrix = append(fs.Matrix, row)
			fs.RowIndex = append(fs.RowIndex, origIdx)
		}
	}

	if opts.Scaler != nil {
		if err := opts.Scaler.Transform(fs.Matrix, fs.Columns); err != nil {
			return nil, err
		}
	} else if len(fs.Matrix) > 0 {
		fs.Scaler = FitScaler(fs.Matrix, fs.Columns)
		if err := fs.Scaler.Transform(fs.Matrix, fs.Columns); err != nil {
			return nil, err
		}
	}

	return fs, nil
}

func encodeColumn(col string, values []string, opts Options, fs *FeatureSet, diag *Diagnostics) []float64 {
	if opts.Encoders != nil {
		vocab, ok := opts.Encoders[col]
		if !ok {
			// No vocabulary supplied for this column: fit a throwaway one.
			vocab = FitVocabulary(values)
		}
		encoded, unseen := vocab.Apply(values)
		if unseen > 0 && diag != nil {
			diag.Warnf("found %d unseen categories in %s", unseen, col)
		}
		return encoded
	}

	vocab := FitVocabulary(values)
	if fs.Encoders == nil {
		fs.Encoders = make(map[string]*Vocabulary)
	}
	fs.Encoders[col] = vocab
	encoded, _ := vocab.Apply(values)
	return encoded
}

func coerceNumeric(values []string) []float64 {
	out := make([]float64, len(values))
	for i, raw := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

func presentColumns(table *ledger.Table, featureCols []string) []string {
	out := make([]string, 0, len(featureCols))
	for _, col := range featureCols {
		if table.HasColumn(col) {
			out = append(out, col)
		}
	}
	return out
}

func cellsAt(table *ledger.Table, col string, rows []int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = table.Cell(r, col)
	}
	return out
}

func isCategorical(col string) bool {
	for _, c := range CategoricalColumns {
		if c == col {
			return true
		}
	}
	return false
}
