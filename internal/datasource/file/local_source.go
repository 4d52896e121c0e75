// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens a dataset file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path. A Local is safe for concurrent use;
// each Open returns its own descriptor.
func NewLocal(path string) *Local { return &Local{path: path} }

// Name returns the bound path.
func (l *Local) Name() string { return l.path }

// Open opens the bound path for reading.
//
// Behavior:
//   - A context that is already done short-circuits with ctx.Err() without
//     touching the filesystem.
//   - Filesystem errors are wrapped with the path and remain matchable with
//     errors.Is (e.g. errors.Is(err, fs.ErrNotExist)).
//   - On success the kernel is told the file will be read sequentially once.
//     The hint is best effort; failures are ignored.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}
