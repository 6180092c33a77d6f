// Package store tracks uploaded drawings and their derived results.
//
// Each upload gets an opaque UUID and a record carrying its on-disk
// location and processing status. Records live in memory for the life
// of the process: there is no eviction and no cross-process sharing, so
// a deployment must keep a single worker process authoritative. When
// processing for the same id runs twice the record is last-write-wins.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for operations against an unregistered id.
var ErrNotFound = errors.New("file id not found")

// Status is the lifecycle state of an upload.
type Status string

const (
	StatusUploaded  Status = "uploaded"
	StatusProcessed Status = "processed"
)

// UploadRecord describes one uploaded file and, once processing
// completes, its result artifact.
type UploadRecord struct {
	ID             string    `json:"file_id"`
	OriginalName   string    `json:"original_name"`
	FilePath       string    `json:"file_path"`
	FileSize       int64     `json:"file_size"`
	ContentType    string    `json:"content_type"`
	Status         Status    `json:"status"`
	UploadedAt     time.Time `json:"uploaded_at"`
	ResultPath     string    `json:"result_path,omitempty"`
	ResultFilename string    `json:"result_filename,omitempty"`
}

// Store is the identity and result registry consumed by the endpoint
// handlers. FileStore is the in-memory implementation; multi-worker
// deployments would need an externalized one behind this interface.
type Store interface {
	// Register persists an uploaded file and returns its fresh id.
	Register(filename, contentType string, r io.Reader) (string, error)

	// Lookup returns the record for id, reporting whether it exists.
	Lookup(id string) (UploadRecord, bool)

	// CompleteProcessing writes the result artifact for a registered id,
	// flips the record to processed, and returns the result path.
	// Returns ErrNotFound for unknown ids.
	CompleteProcessing(id string, content []byte, kind string) (string, error)
}

// FileStore keeps upload records in memory and files under two roots:
// one for uploads, one for results. Safe for concurrent use within a
// single process.
type FileStore struct {
	uploadDir string
	resultDir string

	mu    sync.RWMutex
	files map[string]*UploadRecord
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore, creating both directories if needed.
func NewFileStore(uploadDir, resultDir string) (*FileStore, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	if err := os.MkdirAll(resultDir, 0o755); err != nil {
		return nil, fmt.Errorf("create result directory: %w", err)
	}
	return &FileStore{
		uploadDir: uploadDir,
		resultDir: resultDir,
		files:     make(map[string]*UploadRecord),
	}, nil
}

// Register stores the uploaded bytes at {uploadDir}/{id}_{filename} and
// records the upload. Ids are independent random UUIDs, so concurrent
// registrations never collide.
func (s *FileStore) Register(filename, contentType string, r io.Reader) (string, error) {
	id := uuid.NewString()
	// strip any client-supplied directory components
	filename = filepath.Base(filename)
	path := filepath.Join(s.uploadDir, id+"_"+filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	rec := &UploadRecord{
		ID:           id,
		OriginalName: filename,
		FilePath:     path,
		FileSize:     size,
		ContentType:  contentType,
		Status:       StatusUploaded,
		UploadedAt:   time.Now(),
	}

	s.mu.Lock()
	s.files[id] = rec
	s.mu.Unlock()

	return id, nil
}

// Lookup returns a copy of the record for id.
func (s *FileStore) Lookup(id string) (UploadRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.files[id]
	if !ok {
		return UploadRecord{}, false
	}
	return *rec, true
}

// CompleteProcessing writes content to
// {resultDir}/{id}_{stem(original)}_result.{kind} and marks the record
// processed. The original upload stays on disk untouched.
func (s *FileStore) CompleteProcessing(id string, content []byte, kind string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[id]
	if !ok {
		return "", fmt.Errorf("complete processing %s: %w", id, ErrNotFound)
	}

	stem := strings.TrimSuffix(rec.OriginalName, filepath.Ext(rec.OriginalName))
	resultFilename := fmt.Sprintf("%s_result.%s", stem, kind)
	resultPath := filepath.Join(s.resultDir, id+"_"+resultFilename)

	if err := os.WriteFile(resultPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}

	rec.ResultPath = resultPath
	rec.ResultFilename = resultFilename
	rec.Status = StatusProcessed

	return resultPath, nil
}
