package walrus

import "time"

// Store status values reported by the publisher, normalized.
const (
	StatusNewlyCreated     = "newly_created"
	StatusAlreadyCertified = "already_certified"
)

// Blob describes a stored blob. The blob ID is assigned by the store at
// write time; the content hash is computed client-side over the canonical
// JSON serialization and is independent of the store's own identifier.
type Blob struct {
	BlobID      string    `json:"blob_id"`
	ContentHash string    `json:"content_hash,omitempty"`
	SizeBytes   int       `json:"size_bytes"`
	Epochs      int       `json:"epochs"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	URL         string    `json:"aggregator_url"`
}

// Metadata describes a blob without downloading its content.
type Metadata struct {
	BlobID      string `json:"blob_id"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}
