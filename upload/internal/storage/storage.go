// Package storage puts uploaded images where the storefront can serve them.
package storage

import (
	"context"
	"io"
)

const (
	BackendDisk  = "disk"
	BackendMinio = "minio"
)

// Storage stores one object under key and returns the path or URL the
// catalog should reference.
type Storage interface {
	Put(c context.Context, key string, contentType string, r io.Reader, size int64) (string, error)
	Backend() string
}
