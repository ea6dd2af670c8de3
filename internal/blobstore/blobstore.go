// Package blobstore abstracts storage of uploaded image binaries. The rest
// of the system only ever sees the generated filename.
package blobstore

import (
	"context"
	"io"
)

type Store interface {
	// Save stores the content of r and returns the generated filename.
	// ext must include the leading dot.
	Save(ctx context.Context, prefix, ext string, r io.Reader) (filename string, err error)
	// Open returns the stored content and its mime type.
	Open(ctx context.Context, filename string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, filename string) error
}
