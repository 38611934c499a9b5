// Package blob stores the raw bytes of uploaded files. The metadata row in
// the files table must only be written after Save returns, so a crash can
// leave an orphaned blob but never a row pointing at missing bytes.
package blob

import (
	"context"
	"io"
)

// Storage is one blob backend. The location returned by Save is what gets
// persisted in files.file_path: a filesystem path for the local backend, a
// public URL for the remote one.
type Storage interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64) (location string, err error)
	// Remove deletes the stored bytes. Bytes already gone is not an error.
	Remove(ctx context.Context, location string) error
	// Redirectable reports whether downloads should redirect to the
	// location instead of streaming it from local disk.
	Redirectable() bool
}
