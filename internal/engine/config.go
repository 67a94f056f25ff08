// Package engine ties the feature pipeline and the snapshot aggregator to
// the trained models and produces the two user-facing results: the
// want/need classification and the current-month spending forecast.
package engine

import "github.com/juandiazx/hackupc-2025/internal/ledger"

// Actions dispatched by the request boundary.
const (
	ActionClassify = "classify-expenses"
	ActionPredict  = "predict-expenses"
)

// Stable object keys of the persisted artifacts.
const (
	KeyClassifierModel = "expense_classifier_model.json"
	KeyScaler          = "expense_scaler.json"
	KeyTargetEncoder   = "expense_target_label_encoder.json"
	KeyCategoryEncoder = "expense_category_label_encoder.json"
	KeyMerchantEncoder = "expense_merchant_label_encoder.json"
	KeyPredictorModel  = "expenses_predictor_model.json"
)

// Expense type labels produced by the classifier.
const (
	LabelWant = "want"
	LabelNeed = "need"
)

// FeatureColumns is the classification feature order; the assembler emits
// the matrix in exactly this order, which is also the scaler's fit order.
var FeatureColumns = []string{ledger.ColAmount, ledger.ColDate, ledger.ColCategory, ledger.ColMerchant}

// Config names the buckets and dataset keys of one deployment.
type Config struct {
	// ClassifierBucket holds the classification artifacts.
	ClassifierBucket string
	// PredictorBucket holds the forecast model.
	PredictorBucket string
	// DataBucket holds the ledger datasets.
	DataBucket string
	// DatasetKey is the input ledger object.
	DatasetKey string
	// ReviewedKey is where the ledger augmented with predicted labels goes.
	ReviewedKey string
}

// DefaultConfig mirrors the production bucket layout.
func DefaultConfig() Config {
	return Config{
		ClassifierBucket: "expenses-classifier-model",
		PredictorBucket:  "expenses-predictor-model",
		DataBucket:       "datasets-expenses",
		DatasetKey:       "expenses.csv",
		ReviewedKey:      "reviewed_expenses.csv",
	}
}
