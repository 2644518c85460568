package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/job-board/internal/storage"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

var allowedResumeExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

// ResumeUpload is a resume file received with a request.
type ResumeUpload struct {
	FileName string
	Size     int64
	Content  io.Reader
}

// ResumeStore validates and stores resume files.
type ResumeStore struct {
	storage  storage.Storage
	maxBytes int64
}

// NewResumeStore wires the store. maxBytes <= 0 disables the size check.
func NewResumeStore(store storage.Storage, maxBytes int64) *ResumeStore {
	return &ResumeStore{storage: store, maxBytes: maxBytes}
}

// Save writes the upload under resumes/<ownerID>/ and returns the stored path.
func (r *ResumeStore) Save(ctx context.Context, ownerID string, upload *ResumeUpload) (string, error) {
	if r == nil || r.storage == nil {
		return "", apperrors.NewInternalError(fmt.Errorf("resume storage not configured"))
	}
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if _, ok := allowedResumeExtensions[ext]; !ok {
		return "", apperrors.NewValidationError("Resume must be a PDF or Word document", map[string]any{"resume": "Allowed types: pdf, doc, docx"})
	}
	if r.maxBytes > 0 && upload.Size > r.maxBytes {
		return "", apperrors.NewValidationError("Resume file is too large", map[string]any{"resume": fmt.Sprintf("Must be at most %d bytes", r.maxBytes)})
	}

	path := fmt.Sprintf("resumes/%s/%s%s", ownerID, uuid.NewString(), ext)
	location, err := r.storage.Save(ctx, path, upload.Content)
	if err != nil {
		return "", err
	}
	return location, nil
}

// Discard removes a stored resume whose owning write failed.
func (r *ResumeStore) Discard(ctx context.Context, location string) {
	if r == nil || r.storage == nil || location == "" {
		return
	}
	_ = r.storage.Delete(ctx, location)
}
