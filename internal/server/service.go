package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/findoc/findoc/internal/document"
)

// allowedExtensions are the upload formats the pipeline accepts
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
	"heic": true,
	"heif": true,
}

// Pipeline is the processing capability the service drives
type Pipeline interface {
	ProcessWithProgress(ctx context.Context, data []byte, mimeType string, progress document.ProgressFunc) (*document.Result, error)
}

// IDGenerator generates unique names for stored uploads
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Meta describes one processed upload
type Meta struct {
	OriginalFilename string `json:"original_filename"`
	FileSize         int    `json:"file_size"`
	ProcessingTime   string `json:"processing_time"`
	Timestamp        string `json:"timestamp"`
}

// Service validates uploads, stores them while the pipeline runs, and cleans
// up afterwards
type Service struct {
	pipeline    Pipeline
	storage     Storage
	maxBytes    int64
	keepUploads bool
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(pipeline Pipeline, storage Storage, maxBytes int64, keepUploads bool) *Service {
	return &Service{
		pipeline:    pipeline,
		storage:     storage,
		maxBytes:    maxBytes,
		keepUploads: keepUploads,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(pipeline Pipeline, storage Storage, maxBytes int64, keepUploads bool, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		pipeline:    pipeline,
		storage:     storage,
		maxBytes:    maxBytes,
		keepUploads: keepUploads,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// supportedFormats lists the allowed extensions for error messages
func supportedFormats() string {
	formats := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return strings.Join(formats, ", ")
}

// ProcessUpload runs one uploaded document through the pipeline. The upload
// is stored under a unique name for the duration of the run and deleted
// afterwards unless retention is configured. progress may be nil.
func (s *Service) ProcessUpload(ctx context.Context, filename string, data []byte, progress document.ProgressFunc) (*document.Result, *Meta, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, nil, fmt.Errorf("file exceeds the size limit (%dMB)", s.maxBytes/1024/1024)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return nil, nil, fmt.Errorf("unsupported document format, supported formats: %s", supportedFormats())
	}

	start := s.timeSource.Now()
	storedName := fmt.Sprintf("doc_%s_%d.%s", s.idGenerator.Generate(), start.Unix(), ext)

	savedPath, err := s.storage.Save(storedName, data)
	if err != nil {
		return nil, nil, fmt.Errorf("saving upload: %w", err)
	}
	if !s.keepUploads {
		defer func() {
			if err := s.storage.Delete(savedPath); err != nil {
				slog.Warn("Failed to delete upload", "path", savedPath, "error", err)
			}
		}()
	}

	if progress != nil {
		progress("save", "document stored, preparing analysis...", 15)
	}

	result, err := s.pipeline.ProcessWithProgress(ctx, data, document.MIMETypeForExtension(ext), progress)
	if err != nil {
		slog.Error("Failed to process document",
			"filename", filename,
			"file_size", len(data),
			"error", err,
		)
		return nil, nil, fmt.Errorf("processing document: %w", err)
	}

	elapsed := s.timeSource.Now().Sub(start)
	meta := &Meta{
		OriginalFilename: filename,
		FileSize:         len(data),
		ProcessingTime:   fmt.Sprintf("%.2fs", elapsed.Seconds()),
		Timestamp:        s.timeSource.Now().Format("2006-01-02 15:04:05"),
	}

	return result, meta, nil
}
