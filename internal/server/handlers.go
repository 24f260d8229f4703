package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/findoc/findoc/internal/document"
)

// processResponse is the envelope for a successful run
type processResponse struct {
	Success bool             `json:"success"`
	Data    *document.Result `json:"data"`
	Meta    *Meta            `json:"meta"`
}

// errorResponse is the envelope for a failed run
type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// writeError writes a JSON error envelope with CORS headers set
func writeError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	})
}

// readUpload extracts the "document" multipart field from the request
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	maxFormSize := s.service.maxBytes + (1 << 20) // headroom for the form envelope
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, "document upload failed", http.StatusBadRequest)
		return "", nil, false
	}

	f, header, err := r.FormFile("document")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, "no document was uploaded", http.StatusBadRequest)
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, "error reading uploaded document", http.StatusBadRequest)
		return "", nil, false
	}

	return header.Filename, data, true
}

// handleProcess runs the pipeline synchronously and replies with the full
// processing result
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, meta, err := s.service.ProcessUpload(r.Context(), filename, data, nil)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(processResponse{
		Success: true,
		Data:    result,
		Meta:    meta,
	}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
