package server

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/datareef/reef/errors"
	"github.com/datareef/reef/logger"
	"github.com/datareef/reef/rules"
	"github.com/datareef/reef/tabular"
	"github.com/datareef/reef/version"
)

// maxUploadBytes caps multipart file uploads at 32 MiB
const maxUploadBytes = 32 << 20

// handleHealth reports service status and build info.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "running",
		"service": "Reef API",
		"version": version.Get().Version,
	})
}

// handleReadBlob returns blob content in the requested format:
// json (decoded), text (with CSV detection), or binary (hex).
func (s *Server) handleReadBlob(w http.ResponseWriter, r *http.Request) {
	blobID := r.PathValue("id")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "text"
	}

	logger.FromContext(r.Context()).Infow("Reading blob",
		logger.FieldBlobID, shortID(blobID), "format", format)

	content, err := s.store.Read(r.Context(), blobID)
	if err != nil {
		s.writeBlobError(w, blobID, err)
		return
	}

	// Metadata is decoration only; fetch failures are tolerated.
	var meta map[string]interface{}
	if m, err := s.store.Metadata(r.Context(), blobID); err == nil {
		meta = map[string]interface{}{
			"size_bytes":   m.SizeBytes,
			"content_type": m.ContentType,
		}
	}

	switch format {
	case "json":
		var parsed interface{}
		if err := json.Unmarshal(content, &parsed); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"blob_id":    blobID,
			"format":     "json",
			"size_bytes": len(content),
			"content":    parsed,
			"metadata":   meta,
		})

	case "binary":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"blob_id":     blobID,
			"format":      "binary",
			"size_bytes":  len(content),
			"content_hex": hex.EncodeToString(content),
			"metadata":    meta,
		})

	case "text":
		if !utf8.Valid(content) {
			writeError(w, http.StatusBadRequest, "Content is not valid UTF-8 text. Try format=binary")
			return
		}
		text := string(content)
		resp := map[string]interface{}{
			"success":      true,
			"blob_id":      blobID,
			"format":       "text",
			"size_bytes":   len(content),
			"content":      text,
			"metadata":     meta,
			"content_type": "text",
		}

		// CSV-ish content gets a structural preview.
		lines := strings.Split(strings.TrimSpace(text), "\n")
		if len(lines) > 0 && strings.Contains(lines[0], ",") {
			resp["content_type"] = "csv"
			if len(lines) > 1 {
				headers := strings.Split(lines[0], ",")
				resp["csv_info"] = map[string]interface{}{
					"headers":      headers,
					"row_count":    len(lines) - 1,
					"column_count": len(headers),
				}
			}
		}
		writeJSON(w, http.StatusOK, resp)

	default:
		writeError(w, http.StatusBadRequest, "Invalid format: "+format+" (valid: json, text, binary)")
	}
}

// handleReadBlobAsCSV parses blob content strictly as CSV.
func (s *Server) handleReadBlobAsCSV(w http.ResponseWriter, r *http.Request) {
	blobID := r.PathValue("id")

	content, err := s.store.Read(r.Context(), blobID)
	if err != nil {
		s.writeBlobError(w, blobID, err)
		return
	}

	table, err := tabular.ParseCSV(string(content))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"blob_id":      blobID,
		"format":       "csv",
		"headers":      table.Columns,
		"row_count":    table.RowCount(),
		"column_count": table.ColumnCount(),
		"data":         table.Records(),
	})
}

// handleBlobMetadata fetches size and content type without
// downloading the blob.
func (s *Server) handleBlobMetadata(w http.ResponseWriter, r *http.Request) {
	blobID := r.PathValue("id")

	meta, err := s.store.Metadata(r.Context(), blobID)
	if err != nil {
		s.writeBlobError(w, blobID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"blob_id": blobID,
		"metadata": map[string]interface{}{
			"size_bytes":   meta.SizeBytes,
			"content_type": meta.ContentType,
		},
	})
}

// handleFileUpload stores a raw multipart file as an opaque blob.
// Requires the operator to have configured a Sui key for payment.
func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	cfg := s.config()
	if cfg.Upload.SuiPrivateKey == "" {
		writeError(w, http.StatusForbidden, "SUI_PRIVATE_KEY not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "Empty filename")
		return
	}

	epochs := cfg.Walrus.Epochs
	if v := r.FormValue("epochs"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid epochs value")
			return
		}
		epochs = parsed
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
		return
	}

	logger.FromContext(r.Context()).Infow("Uploading file",
		"filename", header.Filename,
		logger.FieldSizeBytes, len(content),
		logger.FieldEpochs, epochs)

	blob, err := s.store.Store(r.Context(), content, epochs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Upload failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"blob_id":        blob.BlobID,
		"content_hash":   blob.ContentHash,
		"size_bytes":     blob.SizeBytes,
		"epochs":         epochs,
		"aggregator_url": blob.URL,
	})
}

// dataUploadRequest is the body of POST /api/data/upload.
type dataUploadRequest struct {
	Data     interface{}            `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

// handleDataUpload runs the full ingest pipeline on inline data.
func (s *Server) handleDataUpload(w http.ResponseWriter, r *http.Request) {
	var req dataUploadRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if req.Data == nil {
		writeError(w, http.StatusBadRequest, "Missing data")
		return
	}

	result, err := s.uploader.Upload(r.Context(), req.Data, req.Metadata)
	if err != nil {
		if errors.IsParseError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !result.Accepted() {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success":    false,
			"error":      "Validation failed",
			"validation": result.Validation,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// executeRequest is the body of POST /api/execute.
type executeRequest struct {
	DataBlobID    string `json:"data_blob_id"`
	RulesetBlobID string `json:"ruleset_blob_id"`
	RuleType      int    `json:"rule_type"`
}

// handleExecute runs a stored ruleset against a stored dataset.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if req.DataBlobID == "" || req.RulesetBlobID == "" {
		writeError(w, http.StatusBadRequest, "data_blob_id and ruleset_blob_id are required")
		return
	}

	kind, err := rules.ParseKind(req.RuleType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.executor.Execute(r.Context(), req.DataBlobID, req.RulesetBlobID, kind)
	if err != nil {
		switch {
		case errors.IsNotFoundError(err):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.IsParseError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.IsStoreError(err):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// writeBlobError maps walrus read failures to HTTP statuses.
func (s *Server) writeBlobError(w http.ResponseWriter, blobID string, err error) {
	logger.Errorw("Blob operation failed",
		logger.FieldBlobID, shortID(blobID),
		logger.FieldError, err)

	if errors.IsNotFoundError(err) {
		writeError(w, http.StatusNotFound, "Blob not found: "+blobID)
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}
