package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// MaxUploadSize caps every user-supplied file.
const MaxUploadSize = 10 << 20 // 10MB

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")

	// Upload rejections. Callers wrap ErrInvalidFileType with the formats
	// they accept.
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file size exceeds 10MB limit")
)

// FileStorage is an object store addressed by slash-separated keys such as
// "notices/<uuid>.pdf". Keys that escape the store fail with ErrInvalidPath.
type FileStorage interface {
	// Upload writes file under key and returns the cleaned key. A reader
	// error aborts the upload and leaves no object behind.
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download opens the object; a missing key fails with ErrFileNotFound
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete is idempotent
	Delete(ctx context.Context, key string) error

	// GetURL returns a URL the object can be fetched from. Stores that sign
	// URLs honor expiry; public stores ignore it.
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
