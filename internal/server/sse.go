package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// progressEvent is the payload of an SSE progress event
type progressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// sseWriter serializes events onto an open SSE stream
type sseWriter struct {
	w       io.Writer
	flusher http.Flusher
}

// send writes one named event with a JSON payload and flushes it
func (s *sseWriter) send(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Error encoding SSE payload", "event", event, "error", err)
		return
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data)
	s.flusher.Flush()
}

// progress emits a progress event
func (s *sseWriter) progress(step, message string, percent int) {
	s.send("progress", progressEvent{Step: step, Message: message, Percent: percent})
}

// handleProcessStream runs the pipeline and streams stage-boundary progress
// as Server-Sent Events, terminated by a single result or error event.
// Stage boundaries are the only points at which progress is emitted.
func (s *Server) handleProcessStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	stream := &sseWriter{w: w, flusher: flusher}

	// The request body must be consumed before the first write to the
	// response: net/http closes the request body once the handler starts
	// writing, so the form is parsed up front and any failure is reported
	// on the stream afterwards, keeping the event order unchanged.
	var uploadError string
	var header *multipart.FileHeader
	var data []byte

	maxFormSize := s.service.maxBytes + (1 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		uploadError = "document upload failed"
	} else if f, h, err := r.FormFile("document"); err != nil {
		uploadError = "no document was uploaded"
	} else {
		defer f.Close()
		header = h
		if data, err = io.ReadAll(f); err != nil {
			uploadError = "error reading uploaded document"
		}
	}

	stream.progress("init", "initializing...", 5)

	if uploadError != "" {
		stream.send("error", errorResponse{
			Success:   false,
			Error:     uploadError,
			Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		})
		return
	}

	stream.progress("upload", "document received, validating...", 10)

	// r.Context() is cancelled if the client disconnects, which abandons
	// any in-flight completion call without retry
	result, meta, err := s.service.ProcessUpload(r.Context(), header.Filename, data, stream.progress)
	if err != nil {
		stream.send("error", errorResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		})
		return
	}

	stream.send("result", processResponse{
		Success: true,
		Data:    result,
		Meta:    meta,
	})
}
