// Package file reads the sheet from the local filesystem.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one path on every Open, so edits to the file are picked up by
// the next reload.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured path.
func (l *Local) Path() string { return l.path }

// Open returns the file for reading. A context that is already done
// short-circuits without touching the filesystem. Filesystem errors are
// wrapped with the path and still match errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
