package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/juandiazx/hackupc-2025/internal/api/handlers"
	"github.com/juandiazx/hackupc-2025/internal/api/middleware"
	"github.com/juandiazx/hackupc-2025/internal/engine"
	infraBQ "github.com/juandiazx/hackupc-2025/internal/infra/bigquery"
	"github.com/juandiazx/hackupc-2025/internal/jobs"
	"github.com/juandiazx/hackupc-2025/internal/jobs/inmemory"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

func main() {
	var (
		port             = flag.String("port", "8080", "HTTP server port")
		projectID        = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID for scoring run bookkeeping (or set GCP_PROJECT env); empty disables it")
		classifierBucket = flag.String("classifier-bucket", envOr("CLASSIFIER_MODEL_BUCKET", ""), "GCS bucket holding the classification artifacts")
		predictorBucket  = flag.String("predictor-bucket", envOr("PREDICTOR_MODEL_BUCKET", ""), "GCS bucket holding the forecast model")
		dataBucket       = flag.String("data-bucket", envOr("DATA_BUCKET", ""), "GCS bucket holding the expense datasets")
	)
	flag.Parse()

	log := logger.New()

	cfg := engine.DefaultConfig()
	if *classifierBucket != "" {
		cfg.ClassifierBucket = *classifierBucket
	}
	if *predictorBucket != "" {
		cfg.PredictorBucket = *predictorBucket
	}
	if *dataBucket != "" {
		cfg.DataBucket = *dataBucket
	}

	ctx := context.Background()

	gcs, err := store.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcs.Close()

	// Scoring run bookkeeping is optional; without a project the engines run
	// without the audit trail.
	var runs infraBQ.ScoringRunRepository
	if *projectID != "" {
		repo, err := infraBQ.NewRepository(ctx, *projectID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create scoring run repository")
		}
		defer repo.Close()
		runs = repo
	} else {
		log.Warn().Msg("No GCP project configured - scoring run bookkeeping is disabled")
	}

	// Job infrastructure for the asynchronous reviewed-dataset write-back.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(logger.WithContext(ctx, log))
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		wb, ok := job.(*jobs.WriteBackJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", wb.JobID).
			Str("bucket", wb.Bucket).
			Str("object", wb.Object).
			Msg("Uploading reviewed dataset")

		if err := gcs.Put(ctx, wb.Bucket, wb.Object, wb.Payload, "text/csv"); err != nil {
			log.Error().Err(err).Str("job_id", wb.JobID).Msg("Reviewed dataset upload failed")
			return err
		}
		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	classifier := &engine.Classifier{Store: gcs, Config: cfg, Runs: runs, Publisher: jobQueue}
	forecaster := &engine.Forecaster{Store: gcs, Config: cfg, Runs: runs}

	expensesHandler := handlers.NewExpensesHandler(gcs, cfg, classifier, forecaster, log)
	datasetsHandler := handlers.NewDatasetsHandler(gcs, cfg, log)
	runsHandler := handlers.NewRunsHandler(runs, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			expensesHandler.HandleExpenses(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/datasets/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			datasetsHandler.UploadDataset(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			runsHandler.ListRuns(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting expenses API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
