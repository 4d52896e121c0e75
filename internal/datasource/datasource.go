// Package datasource defines how the loader obtains raw bytes for a dataset
// file. Decompression and tokenizing happen downstream; a Source only opens.
package datasource

import (
	"context"
	"io"
)

// Source opens a fresh reader over one dataset file. Every call must return
// an independent handle positioned at the start, so streams built on top of a
// Source can be re-run.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the source in errors and logs, typically its path.
	Name() string
}

// Func adapts a plain open function into a Source.
type Func struct {
	Label    string
	OpenFunc func(ctx context.Context) (io.ReadCloser, error)
}

// Open calls f.OpenFunc.
func (f Func) Open(ctx context.Context) (io.ReadCloser, error) { return f.OpenFunc(ctx) }

// Name returns f.Label.
func (f Func) Name() string { return f.Label }
