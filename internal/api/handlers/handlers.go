// Package handlers implements the HTTP endpoints of the expenses API.
package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/juandiazx/hackupc-2025/internal/api/middleware"
	"github.com/juandiazx/hackupc-2025/internal/engine"
	infraBQ "github.com/juandiazx/hackupc-2025/internal/infra/bigquery"
	"github.com/juandiazx/hackupc-2025/internal/jobs"
	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

// ExpensesHandler serves GET /api/expenses, dispatching on the action query
// parameter.
type ExpensesHandler struct {
	store      store.Store
	cfg        engine.Config
	classifier *engine.Classifier
	forecaster *engine.Forecaster
	log        zerolog.Logger
}

// NewExpensesHandler creates the expenses handler.
func NewExpensesHandler(s store.Store, cfg engine.Config, classifier *engine.Classifier, forecaster *engine.Forecaster, log zerolog.Logger) *ExpensesHandler {
	return &ExpensesHandler{
		store:      s,
		cfg:        cfg,
		classifier: classifier,
		forecaster: forecaster,
		log:        log,
	}
}

// HandleExpenses handles GET /api/expenses?action=...
func (h *ExpensesHandler) HandleExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithContext(r.Context(), h.log)

	action := r.URL.Query().Get("action")
	if action != engine.ActionClassify && action != engine.ActionPredict {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid action specified.")
		return
	}

	table, err := engine.LoadDataset(ctx, h.store, h.cfg)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load dataset")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load expense dataset")
		return
	}

	switch action {
	case engine.ActionClassify:
		result, err := h.classifier.Classify(ctx, table)
		if err != nil {
			h.log.Error().Err(err).Msg("Classification failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to classify expenses")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, result)

	case engine.ActionPredict:
		result, err := h.forecaster.Forecast(ctx, table)
		if err != nil {
			h.log.Error().Err(err).Msg("Forecast failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to predict expenses")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, result)
	}
}

// DatasetsHandler handles dataset uploads.
type DatasetsHandler struct {
	store store.Store
	cfg   engine.Config
	log   zerolog.Logger
}

// NewDatasetsHandler creates the datasets handler.
func NewDatasetsHandler(s store.Store, cfg engine.Config, log zerolog.Logger) *DatasetsHandler {
	return &DatasetsHandler{store: s, cfg: cfg, log: log}
}

// UploadDataset handles POST /api/datasets/upload. The body is the CSV
// dataset; it must parse and carry the required columns before it replaces
// the active object.
func (h *DatasetsHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Dataset body is required")
		return
	}

	table, err := ledger.ReadCSV(bytes.NewReader(body))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid CSV dataset")
		return
	}
	if missing := table.MissingColumns(ledger.RequiredColumns); len(missing) > 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Dataset is missing required columns: "+strings.Join(missing, ", "))
		return
	}

	if err := h.store.Put(ctx, h.cfg.DataBucket, h.cfg.DatasetKey, body, "text/csv"); err != nil {
		h.log.Error().Err(err).Msg("Failed to upload dataset")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload dataset")
		return
	}

	h.log.Info().
		Str("bucket", h.cfg.DataBucket).
		Str("object", h.cfg.DatasetKey).
		Int("rows", table.Len()).
		Msg("Dataset uploaded")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bucket": h.cfg.DataBucket,
		"object": h.cfg.DatasetKey,
		"rows":   table.Len(),
	})
}

// RunsHandler serves the scoring run audit trail.
type RunsHandler struct {
	repo infraBQ.ScoringRunRepository
	log  zerolog.Logger
}

// NewRunsHandler creates the runs handler.
func NewRunsHandler(repo infraBQ.ScoringRunRepository, log zerolog.Logger) *RunsHandler {
	return &RunsHandler{repo: repo, log: log}
}

// ListRuns handles GET /api/runs
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		middleware.WriteError(w, http.StatusNotFound, "Scoring run bookkeeping is not configured")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.repo.ListRecentRuns(ctx, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list scoring runs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list scoring runs")
		return
	}

	if runs == nil {
		runs = []*infraBQ.ScoringRunRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// JobsHandler serves the write-back job status endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates the jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		ScoringRunID: query.Get("scoring_run_id"),
		Status:       jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
