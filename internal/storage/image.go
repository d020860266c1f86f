// Package storage keeps uploaded incident images in a blob backend
// (local disk, S3-compatible bucket or Firebase Storage).
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"rakshak-service/pkg/apperror"

	"github.com/google/uuid"
)

const DefaultMaxBytes = 5 * 1024 * 1024

var allowedImages = map[string][]string{
	".jpg":  {"image/jpeg", "image/jpg"},
	".jpeg": {"image/jpeg", "image/jpg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
}

// File is an upload as received from the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Backend stores raw bytes under a key and returns a reference that can
// later be passed back to Remove. Remove must treat unknown or already
// deleted references as success.
type Backend interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, ref string) error
}

type ImageStore struct {
	backend  Backend
	maxBytes int64
	now      func() time.Time
}

func NewImageStore(backend Backend, maxBytes int64) *ImageStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &ImageStore{
		backend:  backend,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// ValidateImage checks extension, declared content type and size.
func ValidateImage(f File, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	types, ok := allowedImages[ext]
	if !ok {
		return "", apperror.Validation("only image files are allowed (jpeg, jpg, png, gif)")
	}

	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	matched := false
	for _, t := range types {
		if ct == t {
			matched = true
			break
		}
	}
	if !matched {
		return "", apperror.Validation("only image files are allowed (jpeg, jpg, png, gif)")
	}

	if f.Size > maxBytes {
		return "", apperror.Validation("image exceeds the %d MB limit", maxBytes/(1024*1024))
	}
	return ext, nil
}

// Save validates f and writes it to the backend under a unique name.
func (s *ImageStore) Save(ctx context.Context, f File) (string, error) {
	ext, err := ValidateImage(f, s.maxBytes)
	if err != nil {
		return "", err
	}

	// Size is client supplied, so enforce the limit on the bytes as well.
	data, err := io.ReadAll(io.LimitReader(f.Reader, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperror.Validation("image exceeds the %d MB limit", s.maxBytes/(1024*1024))
	}

	key := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	ref, err := s.backend.Put(ctx, key, contentTypeFor(ext), data)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return ref, nil
}

func (s *ImageStore) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return s.backend.Remove(ctx, ref)
}

func contentTypeFor(ext string) string {
	return allowedImages[ext][0]
}
