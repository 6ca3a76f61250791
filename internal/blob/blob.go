// Package blob abstracts the document storage collaborator behind a small
// named-object interface with filesystem, in-memory, and S3 backends.
package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/imago-sys/occurrence-backend/internal/blob/core"
	"github.com/imago-sys/occurrence-backend/internal/blob/fs"
	"github.com/imago-sys/occurrence-backend/internal/blob/memory"
	"github.com/imago-sys/occurrence-backend/internal/blob/s3"
	"github.com/imago-sys/occurrence-backend/internal/config"
)

type (
	// Object is a stored document with its MIME type.
	Object = core.Object
	// Store is the interface implemented by all backends.
	Store = core.Store
)

// ErrNotFound indicates the named object does not exist.
var ErrNotFound = core.ErrNotFound

// NewStore constructs the blob backend selected by DocumentConfig.Driver.
func NewStore(ctx context.Context, cfg config.DocumentConfig) (Store, error) {
	switch cfg.Driver {
	case "fs":
		return fs.New(cfg.FSRoot)
	case "memory":
		return memory.New(), nil
	case "s3":
		return s3.New(ctx, s3.Config{
			Bucket:         cfg.S3.Bucket,
			Region:         cfg.S3.Region,
			Endpoint:       cfg.S3.Endpoint,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
	default:
		return nil, fmt.Errorf("blob: unknown driver %q", cfg.Driver)
	}
}

// IsNotFound reports whether err means the object is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
