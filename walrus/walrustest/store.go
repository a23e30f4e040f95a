// Package walrustest provides an in-memory fake Walrus publisher/aggregator
// for tests. One httptest server answers both the publisher store route and
// the aggregator read routes, so a single URL configures both client sides.
package walrustest

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Store is a fake Walrus node backed by a map.
type Store struct {
	mu    sync.Mutex
	blobs map[string][]byte
	srv   *httptest.Server

	// FailUploads makes every store request return 500, for error-path tests.
	FailUploads bool
}

// NewStore starts a fake Walrus node.
func NewStore() *Store {
	s := &Store{blobs: make(map[string][]byte)}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the base URL, usable as both publisher and aggregator URL.
func (s *Store) URL() string {
	return s.srv.URL
}

// Close shuts the fake node down.
func (s *Store) Close() {
	s.srv.Close()
}

// Tamper overwrites the stored bytes for a blob out-of-band,
// simulating corruption or a malicious aggregator.
func (s *Store) Tamper(blobID string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[blobID] = payload
}

// BlobCount reports how many distinct blobs are stored.
func (s *Store) BlobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

func (s *Store) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v1/store"):
		s.handleStore(w, r)
	case (r.Method == http.MethodGet || r.Method == http.MethodHead) && strings.HasPrefix(r.URL.Path, "/v1/"):
		s.handleRead(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Store) handleStore(w http.ResponseWriter, r *http.Request) {
	if s.FailUploads {
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read failed", http.StatusBadRequest)
		return
	}

	// Content-addressed like the real store: identical payloads dedupe
	sum := sha256.Sum256(body)
	blobID := base64.RawURLEncoding.EncodeToString(sum[:])

	s.mu.Lock()
	_, exists := s.blobs[blobID]
	s.blobs[blobID] = body
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if exists {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"alreadyCertified": map[string]interface{}{
				"blobId":   blobID,
				"endEpoch": 100,
			},
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"newlyCreated": map[string]interface{}{
			"blobObject": map[string]interface{}{
				"id":     "0xobj" + blobID[:8],
				"blobId": blobID,
				"size":   len(body),
			},
		},
	})
}

func (s *Store) handleRead(w http.ResponseWriter, r *http.Request) {
	blobID := strings.TrimPrefix(r.URL.Path, "/v1/")

	s.mu.Lock()
	body, ok := s.blobs[blobID]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Content-Type", "application/octet-stream")
	if r.Method == http.MethodHead {
		return
	}
	w.Write(body)
}
