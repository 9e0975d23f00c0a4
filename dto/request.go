package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
)

// DocumentUploadRequest represents one file selection for a document kind
type DocumentUploadRequest struct {
	Kind     DocumentKind
	File     *multipart.FileHeader
	Password string
}

// Validate performs basic validation on the request
func (r *DocumentUploadRequest) Validate(maxSize int64) error {
	if r.File == nil {
		return errors.New("file is required")
	}
	if !strings.HasSuffix(strings.ToLower(r.File.Filename), ".pdf") {
		return fmt.Errorf("invalid file type %q. Supported: PDF", r.File.Filename)
	}
	if maxSize > 0 && r.File.Size > maxSize {
		return fmt.Errorf("file exceeds maximum size of %d bytes", maxSize)
	}
	return nil
}

type CreateSessionRequest struct {
	Plan string `json:"plan"`
}

type ApplyPlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// UpdateFieldsRequest carries manual overrides keyed by wire field name
type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// Validate resolves every key to a known field
func (r *UpdateFieldsRequest) Validate() (map[FieldName]string, error) {
	if len(r.Fields) == 0 {
		return nil, errors.New("fields is required")
	}
	out := make(map[FieldName]string, len(r.Fields))
	for k, v := range r.Fields {
		name, err := ParseFieldName(k)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
