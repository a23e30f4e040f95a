// Package pipeline orchestrates ruleset execution end to end:
// fetch data and ruleset blobs, parse, dispatch, store the result.
package pipeline

import (
	"context"
	"time"

	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/logger"
	"github.com/datareef/reef/rules"
	"github.com/datareef/reef/tabular"
	"github.com/datareef/reef/walrus"
)

// BlobStore is the subset of the walrus client the executor needs.
type BlobStore interface {
	ReadJSON(ctx context.Context, blobID string, v interface{}) error
	StoreJSON(ctx context.Context, v interface{}, epochs int) (*walrus.Blob, error)
	BlobURL(blobID string) string
}

// Executor runs rulesets against stored datasets.
type Executor struct {
	store  BlobStore
	engine *rules.Engine
	epochs int
}

// NewExecutor creates a pipeline executor. Results are stored for the
// given number of epochs.
func NewExecutor(store BlobStore, engine *rules.Engine, epochs int) *Executor {
	if epochs <= 0 {
		epochs = walrus.DefaultEpochs
	}
	return &Executor{store: store, engine: engine, epochs: epochs}
}

// Result reports a completed ruleset execution. VerificationHash is
// the canonical content hash of the stored result blob, so any party
// can re-download and verify it.
type Result struct {
	ResultBlobID     string                 `json:"result_blob_id"`
	VerificationHash string                 `json:"verification_hash"`
	ExecutionTimeMS  int64                  `json:"execution_time_ms"`
	RowCount         int                    `json:"row_count"`
	Summary          map[string]interface{} `json:"summary"`
	AggregatorURL    string                 `json:"aggregator_url"`
}

// Execute downloads the data and ruleset blobs, runs the ruleset of
// the given kind over the parsed table, and stores the result record.
// Any blob fetch failure aborts with ErrStore; unparseable data
// aborts with ErrParse.
func (e *Executor) Execute(ctx context.Context, dataBlobID, rulesetBlobID string, kind rules.Kind) (*Result, error) {
	start := time.Now()

	logger.Infow("Executing ruleset",
		logger.FieldBlobID, dataBlobID,
		"ruleset_blob_id", rulesetBlobID,
		logger.FieldRuleKind, kind.String())

	var data interface{}
	if err := e.store.ReadJSON(ctx, dataBlobID, &data); err != nil {
		return nil, errors.Wrap(err, "failed to fetch data blob")
	}

	var ruleset rules.Ruleset
	if err := e.store.ReadJSON(ctx, rulesetBlobID, &ruleset); err != nil {
		return nil, errors.Wrap(err, "failed to fetch ruleset blob")
	}

	table, err := tabular.Parse(data)
	if err != nil {
		return nil, err
	}

	record, err := e.engine.Execute(ctx, table, &ruleset, kind)
	if err != nil {
		return nil, err
	}

	blob, err := e.store.StoreJSON(ctx, record, e.epochs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store execution result")
	}

	elapsed := time.Since(start).Milliseconds()
	logger.Infow("Ruleset execution complete",
		logger.FieldBlobID, blob.BlobID,
		logger.FieldRuleKind, kind.String(),
		logger.FieldRowCount, table.RowCount(),
		logger.FieldDurationMS, elapsed)

	return &Result{
		ResultBlobID:     blob.BlobID,
		VerificationHash: blob.ContentHash,
		ExecutionTimeMS:  elapsed,
		RowCount:         table.RowCount(),
		Summary:          rules.Summarize(record),
		AggregatorURL:    e.store.BlobURL(blob.BlobID),
	}, nil
}
