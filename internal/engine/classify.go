package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/juandiazx/hackupc-2025/internal/features"
	infra "github.com/juandiazx/hackupc-2025/internal/infra/bigquery"
	"github.com/juandiazx/hackupc-2025/internal/jobs"
	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/money"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

// Classifier runs the want/need classification over a ledger dataset using
// the pre-fitted artifacts. Runs and Publisher are optional: a nil Runs
// disables the audit trail, a nil Publisher makes the reviewed-dataset
// upload synchronous.
type Classifier struct {
	Store     store.Store
	Config    Config
	Runs      infra.ScoringRunRepository
	Publisher jobs.Publisher
}

// classifyState carries one classification run through the pipeline steps.
type classifyState struct {
	Table     *ledger.Table
	Diag      *features.Diagnostics
	Artifacts *ClassifierArtifacts
	Features  *features.FeatureSet

	// Labels maps original table row index to the predicted label. Only rows
	// that survived both feature filters appear here.
	Labels map[int]string

	Reviewed *ledger.Table
	Result   *ClassificationResult
}

// classifyStep is one stage of the classification pipeline.
type classifyStep interface {
	Name() string
	Execute(ctx context.Context, state *classifyState) error
}

// Classify scores the table and returns the aggregated result. The input
// table is never mutated; the labeled copy is written back to the dataset
// bucket, asynchronously when a publisher is configured.
func (c *Classifier) Classify(ctx context.Context, table *ledger.Table) (*ClassificationResult, error) {
	log := logger.FromContext(ctx)

	if missing := table.MissingColumns(ledger.RequiredColumns); len(missing) > 0 {
		return nil, fmt.Errorf("Classify: dataset is missing required columns: %s", strings.Join(missing, ", "))
	}

	runID := startRun(ctx, c.Runs, ActionClassify)

	state := &classifyState{Table: table, Diag: &features.Diagnostics{}}
	steps := []classifyStep{
		&loadArtifactsStep{store: c.Store, bucket: c.Config.ClassifierBucket},
		&assembleFeaturesStep{},
		&predictLabelsStep{},
		&writeBackStep{classifier: c, scoringRunID: runID},
		&buildResultStep{},
	}
	for _, step := range steps {
		if err := step.Execute(ctx, state); err != nil {
			failRun(ctx, c.Runs, runID, err)
			return nil, fmt.Errorf("Classify: step %s: %w", step.Name(), err)
		}
	}

	for _, w := range state.Diag.Warnings() {
		log.Warn().Msg(w)
	}
	finishRun(ctx, c.Runs, runID, table.Len(), len(state.Labels))

	return state.Result, nil
}

type loadArtifactsStep struct {
	store  store.Store
	bucket string
}

func (s *loadArtifactsStep) Name() string { return "load_artifacts" }

func (s *loadArtifactsStep) Execute(ctx context.Context, state *classifyState) error {
	artifacts, err := LoadClassifierArtifacts(ctx, s.store, s.bucket)
	if err != nil {
		return err
	}
	state.Artifacts = artifacts
	return nil
}

type assembleFeaturesStep struct{}

func (s *assembleFeaturesStep) Name() string { return "assemble_features" }

func (s *assembleFeaturesStep) Execute(ctx context.Context, state *classifyState) error {
	fs, err := features.Assemble(state.Table, FeatureColumns, features.Options{
		Encoders: state.Artifacts.Encoders,
		Scaler:   state.Artifacts.Scaler,
	}, state.Diag)
	if err != nil {
		return err
	}
	state.Features = fs
	return nil
}

type predictLabelsStep struct{}

func (s *predictLabelsStep) Name() string { return "predict_labels" }

func (s *predictLabelsStep) Execute(ctx context.Context, state *classifyState) error {
	state.Labels = make(map[int]string)
	if len(state.Features.Matrix) == 0 {
		// Nothing scoreable; the model is never invoked.
		return nil
	}

	codes, err := state.Artifacts.Model.Predict(state.Features.Matrix)
	if err != nil {
		return err
	}
	for i, code := range codes {
		label, err := state.Artifacts.Target.Decode(code)
		if err != nil {
			return fmt.Errorf("decoding prediction for row %d: %w", state.Features.RowIndex[i], err)
		}
		state.Labels[state.Features.RowIndex[i]] = label
	}
	return nil
}

type writeBackStep struct {
	classifier   *Classifier
	scoringRunID string
}

func (s *writeBackStep) Name() string { return "write_back" }

func (s *writeBackStep) Execute(ctx context.Context, state *classifyState) error {
	c := s.classifier

	values := make(map[int]string, len(state.Labels))
	for row, label := range state.Labels {
		values[row] = label
	}
	state.Reviewed = state.Table.WithColumn(ledger.ColPredicted, values)

	payload, err := ledger.EncodeCSV(state.Reviewed)
	if err != nil {
		return err
	}

	if c.Publisher != nil {
		job := &jobs.WriteBackJob{
			ScoringRunID: s.scoringRunID,
			Bucket:       c.Config.DataBucket,
			Object:       c.Config.ReviewedKey,
			Payload:      payload,
		}
		if err := c.Publisher.PublishWriteBack(ctx, job); err != nil {
			return fmt.Errorf("publishing write-back job: %w", err)
		}
		return nil
	}

	return c.Store.Put(ctx, c.Config.DataBucket, c.Config.ReviewedKey, payload, "text/csv")
}

type buildResultStep struct{}

func (s *buildResultStep) Name() string { return "build_result" }

func (s *buildResultStep) Execute(ctx context.Context, state *classifyState) error {
	wants, needs := 0, 0
	expenses := make([]ExpenseDetail, 0, len(state.Labels))

	for i := 0; i < state.Table.Len(); i++ {
		label, ok := state.Labels[i]
		if !ok {
			continue
		}
		switch label {
		case LabelWant:
			wants++
		case LabelNeed:
			needs++
		}

		amount, err := ledger.ParseAmount(state.Table.Cell(i, ledger.ColAmount))
		if err != nil {
			// Labeled rows passed numeric coercion already.
			return fmt.Errorf("parsing amount of labeled row %d: %w", i, err)
		}
		expenses = append(expenses, ExpenseDetail{
			Amount:      money.Round2(amount),
			Date:        state.Table.Cell(i, ledger.ColDate),
			Category:    state.Table.Cell(i, ledger.ColCategory),
			Description: state.Table.Cell(i, ledger.ColMerchant),
			Want:        label == LabelWant,
		})
	}

	// Shares are over all dataset rows, scored or not.
	total := state.Table.Len()
	state.Result = &ClassificationResult{
		WantsPercentage: money.Percentage(wants, total),
		NeedsPercentage: money.Percentage(needs, total),
		Expenses:        expenses,
	}
	return nil
}
