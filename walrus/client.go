// Package walrus is a client for the Walrus decentralized blob store.
//
// Writes go to a publisher endpoint, reads to an aggregator endpoint. Blobs
// are immutable and identified by an opaque store-assigned ID; integrity is
// checked client-side with a SHA-256 over the canonical JSON serialization.
package walrus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/internal/httpclient"
	"github.com/datareef/reef/logger"
)

const (
	// DefaultTimeout bounds a single store round trip. There are no
	// retries; failures surface immediately to the caller.
	DefaultTimeout = 30 * time.Second

	// DefaultEpochs is the storage duration when the caller passes 0.
	DefaultEpochs = 1
)

// Client talks to a Walrus publisher/aggregator pair.
type Client struct {
	publisherURL  string
	aggregatorURL string
	httpClient    *http.Client
}

// Config holds Walrus client configuration
type Config struct {
	PublisherURL  string
	AggregatorURL string
	Timeout       time.Duration // 0 = DefaultTimeout
}

// NewClient creates a Walrus client.
// Private-address blocking is disabled: endpoints are operator-configured
// and local aggregator nodes are a supported deployment.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	blockPrivate := false
	return &Client{
		publisherURL:  cfg.PublisherURL,
		aggregatorURL: cfg.AggregatorURL,
		httpClient: httpclient.NewWithOptions(timeout, httpclient.Options{
			BlockPrivateIP: &blockPrivate,
		}),
	}
}

// BlobURL returns the aggregator retrieval URL for a blob ID.
func (c *Client) BlobURL(blobID string) string {
	return fmt.Sprintf("%s/v1/%s", c.aggregatorURL, blobID)
}

// storeResponse covers the two success shapes the publisher returns:
// a fresh write ("newlyCreated") or a deduplicated one ("alreadyCertified").
type storeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			ID     string `json:"id"`
			BlobID string `json:"blobId"`
			Size   int    `json:"size"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID   string `json:"blobId"`
		EndEpoch int    `json:"endEpoch"`
	} `json:"alreadyCertified"`
}

// StoreJSON serializes v canonically and stores it, returning the blob
// record with its content hash. epochs = 0 uses DefaultEpochs.
func (c *Client) StoreJSON(ctx context.Context, v interface{}, epochs int) (*Blob, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return nil, err
	}

	blob, err := c.Store(ctx, canonical, epochs)
	if err != nil {
		return nil, err
	}

	// Hash the canonical serialization, not whatever bytes went on the wire
	blob.ContentHash = HashBytes(canonical)
	return blob, nil
}

// Store uploads raw bytes to the publisher. The content hash is over the
// raw payload; use StoreJSON for structured data that must be verifiable
// through Verify.
func (c *Client) Store(ctx context.Context, payload []byte, epochs int) (*Blob, error) {
	if epochs <= 0 {
		epochs = DefaultEpochs
	}

	url := fmt.Sprintf("%s/v1/store?epochs=%d", c.publisherURL, epochs)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Infow("Uploading blob to Walrus",
		logger.FieldSizeBytes, len(payload),
		logger.FieldEpochs, epochs)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStoreError("upload failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var storeResp storeResponse
	if err := json.Unmarshal(body, &storeResp); err != nil {
		return nil, errors.NewStoreError("unexpected store response: %s", truncate(string(body), 200))
	}

	blobID, status := extractBlobID(&storeResp)
	if blobID == "" {
		return nil, errors.NewStoreError("store response missing blob identifier: %s", truncate(string(body), 200))
	}

	blob := &Blob{
		BlobID:      blobID,
		ContentHash: HashBytes(payload),
		SizeBytes:   len(payload),
		Epochs:      epochs,
		Status:      status,
		UploadedAt:  time.Now().UTC(),
		URL:         c.BlobURL(blobID),
	}

	logger.Infow("Blob stored",
		logger.FieldBlobID, blobID,
		logger.FieldStoreState, status,
		logger.FieldSizeBytes, len(payload))

	return blob, nil
}

// extractBlobID normalizes the two known success shapes into one identifier.
func extractBlobID(resp *storeResponse) (blobID, status string) {
	if resp.NewlyCreated != nil {
		obj := resp.NewlyCreated.BlobObject
		if obj.BlobID != "" {
			return obj.BlobID, StatusNewlyCreated
		}
		return obj.ID, StatusNewlyCreated
	}
	if resp.AlreadyCertified != nil {
		return resp.AlreadyCertified.BlobID, StatusAlreadyCertified
	}
	return "", ""
}

// Read fetches a blob's raw bytes from the aggregator.
// No content-type assumptions are made.
func (c *Client) Read(ctx context.Context, blobID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BlobURL(blobID), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(errors.ErrNotFound, "blob %s", blobID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStoreError("download of %s failed with status %d", blobID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}

	return body, nil
}

// ReadJSON fetches a blob and decodes it as JSON into v.
func (c *Client) ReadJSON(ctx context.Context, blobID string, v interface{}) error {
	body, err := c.Read(ctx, blobID)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(errors.ErrParse, "blob %s is not valid JSON: %s", blobID, err.Error())
	}
	return nil
}

// Verify re-downloads a blob, recomputes the canonical content hash and
// compares it to expectedHash. A mismatch returns false with no error;
// download and parse failures propagate as errors.
func (c *Client) Verify(ctx context.Context, blobID string, expectedHash string) (bool, error) {
	body, err := c.Read(ctx, blobID)
	if err != nil {
		return false, err
	}

	canonical, err := Canonicalize(body)
	if err != nil {
		return false, errors.Wrapf(err, "blob %s", blobID)
	}

	actual := HashBytes(canonical)
	if actual != expectedHash {
		logger.Warnw("Blob verification failed",
			logger.FieldBlobID, blobID,
			"expected_hash", expectedHash,
			"actual_hash", actual)
		return false, nil
	}

	return true, nil
}

// VerifyRaw re-downloads a blob and compares the hash of its raw bytes
// to expectedHash. This is the verification path for blobs written with
// Store: CSV files and other opaque content never round-trip through
// canonical JSON, so Verify cannot check them. A mismatch returns false
// with no error; download failures propagate.
func (c *Client) VerifyRaw(ctx context.Context, blobID string, expectedHash string) (bool, error) {
	body, err := c.Read(ctx, blobID)
	if err != nil {
		return false, err
	}

	actual := HashBytes(body)
	if actual != expectedHash {
		logger.Warnw("Blob verification failed",
			logger.FieldBlobID, blobID,
			"expected_hash", expectedHash,
			"actual_hash", actual)
		return false, nil
	}

	return true, nil
}

// Metadata issues a HEAD request against the aggregator for size and
// content-type without downloading the blob body.
func (c *Client) Metadata(ctx context.Context, blobID string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.BlobURL(blobID), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(errors.ErrNotFound, "blob %s", blobID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStoreError("metadata fetch for %s failed with status %d", blobID, resp.StatusCode)
	}

	meta := &Metadata{
		BlobID:      blobID,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			meta.SizeBytes = n
		}
	}

	return meta, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
