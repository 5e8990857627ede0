package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// ObjectInfo describes a stored object as returned by List.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// List returns every object under prefix, newest first.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Get opens the object body. The caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	GetPublicURL(key string) string
}
