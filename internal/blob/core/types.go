// Package core holds the blob storage contract shared by all backends.
package core

import (
	"context"
	"errors"
)

// Object is a stored document with its MIME type.
type Object struct {
	Content     []byte
	ContentType string
}

// Store is a minimal named-object storage collaborator. Put overwrites an
// existing object of the same name (finalize retries re-store the same
// document under the same protocol-addressed name).
type Store interface {
	Put(ctx context.Context, name string, content []byte, contentType string) error
	Get(ctx context.Context, name string) (Object, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// ErrNotFound indicates the named object does not exist.
var ErrNotFound = errors.New("blob: object not found")
