// Package storage abstracts where report files live: local disk or an
// S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrFileNotFound = errors.New("file not found")

// Object is a downloadable file. Exactly one of URL and Reader is set: URL
// when the backing store is URL-addressable (the handler redirects), Reader
// when the bytes are streamed through the service.
type Object struct {
	URL         string
	Reader      io.ReadCloser
	Size        int64
	ContentType string
}

// FileStore stores and retrieves report files by an opaque key. Open takes
// the client-facing filename so URL-addressable stores can bake it into the
// download disposition.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key, filename string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
