// Package ingest implements the dataset upload pipeline: parse,
// validate, infer schema, wrap and store on Walrus.
package ingest

import (
	"context"
	"time"

	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/logger"
	"github.com/datareef/reef/tabular"
	"github.com/datareef/reef/walrus"
)

// BlobStore is the subset of the walrus client the uploader needs.
type BlobStore interface {
	StoreJSON(ctx context.Context, v interface{}, epochs int) (*walrus.Blob, error)
	BlobURL(blobID string) string
}

// Uploader validates datasets and stores them as wrapped blobs.
type Uploader struct {
	store  BlobStore
	epochs int
}

// NewUploader creates an uploader storing blobs for the given number
// of epochs.
func NewUploader(store BlobStore, epochs int) *Uploader {
	if epochs <= 0 {
		epochs = walrus.DefaultEpochs
	}
	return &Uploader{store: store, epochs: epochs}
}

// Result reports a completed (or rejected) dataset upload.
// A validation rejection carries the report with empty blob fields
// and is not an error.
type Result struct {
	BlobID        string          `json:"blob_id,omitempty"`
	ContentHash   string          `json:"content_hash,omitempty"`
	AggregatorURL string          `json:"aggregator_url,omitempty"`
	RowCount      int             `json:"row_count"`
	ColumnCount   int             `json:"column_count"`
	Schema        *tabular.Schema `json:"schema,omitempty"`
	Validation    *tabular.Report `json:"validation"`
	SizeBytes     int             `json:"size_bytes,omitempty"`
}

// Accepted reports whether the dataset passed validation and was stored.
func (r *Result) Accepted() bool {
	return r.Validation != nil && r.Validation.IsValid
}

// wrappedBlob is the stored dataset envelope.
type wrappedBlob struct {
	Data       []map[string]interface{} `json:"data"`
	Metadata   map[string]interface{}   `json:"metadata"`
	Schema     *tabular.Schema          `json:"schema"`
	RowCount   int                      `json:"row_count"`
	Validation *tabular.Report          `json:"validation"`
}

// Upload parses and validates a dataset, infers its schema, and
// stores the wrapped records on Walrus. Validation failure returns a
// Result carrying the report and no error; parse failures return
// ErrParse.
func (u *Uploader) Upload(ctx context.Context, data interface{}, metadata map[string]interface{}) (*Result, error) {
	start := time.Now()

	table, err := tabular.Parse(data)
	if err != nil {
		return nil, err
	}

	report := tabular.Validate(table)
	if !report.IsValid {
		logger.Warnw("Dataset rejected by validation",
			logger.FieldRowCount, table.RowCount(),
			"errors", report.Errors)
		return &Result{
			RowCount:    table.RowCount(),
			ColumnCount: table.ColumnCount(),
			Validation:  report,
		}, nil
	}

	schema := tabular.InferSchema(table)

	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	blob, err := u.store.StoreJSON(ctx, &wrappedBlob{
		Data:       table.Records(),
		Metadata:   metadata,
		Schema:     schema,
		RowCount:   table.RowCount(),
		Validation: report,
	}, u.epochs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store dataset")
	}

	logger.Infow("Dataset uploaded",
		logger.FieldBlobID, blob.BlobID,
		logger.FieldRowCount, table.RowCount(),
		logger.FieldColumnCount, table.ColumnCount(),
		logger.FieldSizeBytes, blob.SizeBytes,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Result{
		BlobID:        blob.BlobID,
		ContentHash:   blob.ContentHash,
		AggregatorURL: u.store.BlobURL(blob.BlobID),
		RowCount:      table.RowCount(),
		ColumnCount:   table.ColumnCount(),
		Schema:        schema,
		Validation:    report,
		SizeBytes:     blob.SizeBytes,
	}, nil
}
