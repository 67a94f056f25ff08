package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/juandiazx/hackupc-2025/internal/engine"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

var testArtifacts = map[string]string{
	engine.KeyClassifierModel: `{"kind":"forest","version":1,"task":"classification","n_features":4,"trees":[{"feature":[0,-1,-1],"threshold":[50,0,0],"left":[1,-1,-1],"right":[2,-1,-1],"value":[0,0,1]}]}`,
	engine.KeyScaler:          `{"columns":["amount","DayOfWeek","category_enc","description/merchant_enc"],"mean":[0,0,0,0],"scale":[1,1,1,1]}`,
	engine.KeyTargetEncoder:   `{"column":"expense_type","classes":["need","want"]}`,
	engine.KeyCategoryEncoder: `{"column":"category","classes":["Food"]}`,
	engine.KeyMerchantEncoder: `{"column":"description/merchant","classes":["Cafe"]}`,
}

const testPredictor = `{"kind":"forest","version":1,"task":"regression","n_features":7,"trees":[{"feature":[-1],"threshold":[0],"left":[-1],"right":[-1],"value":[321]}]}`

func newTestHandler(t *testing.T, dataset string, now time.Time) (*ExpensesHandler, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()
	cfg := engine.DefaultConfig()

	for key, body := range testArtifacts {
		if err := s.Put(ctx, cfg.ClassifierBucket, key, []byte(body), "application/json"); err != nil {
			t.Fatalf("seeding %s: %v", key, err)
		}
	}
	if err := s.Put(ctx, cfg.PredictorBucket, engine.KeyPredictorModel, []byte(testPredictor), "application/json"); err != nil {
		t.Fatalf("seeding predictor: %v", err)
	}
	if err := s.Put(ctx, cfg.DataBucket, cfg.DatasetKey, []byte(dataset), "text/csv"); err != nil {
		t.Fatalf("seeding dataset: %v", err)
	}

	log := zerolog.Nop()
	classifier := &engine.Classifier{Store: s, Config: cfg}
	forecaster := &engine.Forecaster{Store: s, Config: cfg, Now: func() time.Time { return now }}
	return NewExpensesHandler(s, cfg, classifier, forecaster, log), s
}

func TestHandleExpensesInvalidAction(t *testing.T) {
	h, _ := newTestHandler(t, "amount,date,category,description/merchant\n", time.Now())

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?action=bogus", nil)
	rec := httptest.NewRecorder()
	h.HandleExpenses(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid action specified.") {
		t.Errorf("body = %q, want the invalid-action message", rec.Body.String())
	}
}

func TestHandleExpensesClassify(t *testing.T) {
	dataset := "amount,date,category,description/merchant\n" +
		"20,2024-01-15,Food,Cafe\n" +
		"200,2024-01-16,Food,Cafe\n"
	h, _ := newTestHandler(t, dataset, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?action=classify-expenses", nil)
	rec := httptest.NewRecorder()
	h.HandleExpenses(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result engine.ClassificationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.NeedsPercentage != 50 || result.WantsPercentage != 50 {
		t.Errorf("percentages = %v/%v, want 50/50", result.WantsPercentage, result.NeedsPercentage)
	}
	if len(result.Expenses) != 2 {
		t.Errorf("got %d expenses, want 2", len(result.Expenses))
	}
}

func TestHandleExpensesPredict(t *testing.T) {
	dataset := "amount,date,category,description/merchant\n" +
		"100,2024-03-02,Food,Cafe\n" +
		"50,2024-03-05,Food,Cafe\n"
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	h, _ := newTestHandler(t, dataset, now)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?action=predict-expenses", nil)
	rec := httptest.NewRecorder()
	h.HandleExpenses(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result engine.ForecastResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.FinalMonthPrediction != 321 {
		t.Errorf("prediction = %v, want 321", result.FinalMonthPrediction)
	}
	if len(result.ExpensesPerDayCurrentMonth) != 10 {
		t.Errorf("series length = %d, want 10", len(result.ExpensesPerDayCurrentMonth))
	}
}

func TestUploadDatasetValidatesColumns(t *testing.T) {
	s := store.NewMemory()
	cfg := engine.DefaultConfig()
	h := NewDatasetsHandler(s, cfg, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", strings.NewReader("amount,date\n1,2024-01-01\n"))
	rec := httptest.NewRecorder()
	h.UploadDataset(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing required columns") {
		t.Errorf("body = %q, want a missing-columns message", rec.Body.String())
	}
}

func TestUploadDatasetStoresObject(t *testing.T) {
	s := store.NewMemory()
	cfg := engine.DefaultConfig()
	h := NewDatasetsHandler(s, cfg, zerolog.Nop())

	csv := "amount,date,category,description/merchant\n20,2024-01-15,Food,Cafe\n"
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	h.UploadDataset(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	stored, err := s.Get(context.Background(), cfg.DataBucket, cfg.DatasetKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(stored) != csv {
		t.Errorf("stored dataset differs from upload")
	}
}
