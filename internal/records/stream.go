package records

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"cine/internal/datasource"
	"cine/internal/datasource/file"
	"cine/internal/parser/tsv"
)

// Options tune a record stream.
type Options struct {
	// IncludeAdult keeps titles flagged as adult. They are dropped by default.
	IncludeAdult bool
	// Lenient yields decode errors and carries on with the next row instead
	// of ending the stream. Source errors always end the stream.
	Lenient bool
}

// Option mutates Options.
type Option func(*Options)

// WithIncludeAdult toggles the adult title filter off (true) or on (false).
func WithIncludeAdult(v bool) Option { return func(o *Options) { o.IncludeAdult = v } }

// WithLenient toggles catch-and-continue handling of malformed rows.
func WithLenient(v bool) Option { return func(o *Options) { o.Lenient = v } }

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Path returns the location of the entity's file inside dir.
func (l *Layout[R]) Path(dir string) string {
	return filepath.Join(dir, l.Meta().File)
}

// FromSource streams the records of the entity's file in dir. See Stream.
func (l *Layout[R]) FromSource(ctx context.Context, dir string, opts ...Option) iter.Seq2[R, error] {
	return l.Stream(ctx, file.NewLocal(l.Path(dir)), opts...)
}

// Stream returns a lazy, restartable record sequence over a gzip TSV source.
// Nothing is opened until the sequence is ranged over, and each range starts
// from the first data row again.
//
// Error handling:
//   - a missing file yields one error matching ErrSourceNotFound;
//   - read and decompression failures yield one *tsv.SourceError;
//   - a malformed row yields a *DecodeError, which ends the stream unless
//     the Lenient option is set.
//
// Filtered records (see Layout.Keep) are skipped silently.
func (l *Layout[R]) Stream(ctx context.Context, src datasource.Source, opts ...Option) iter.Seq2[R, error] {
	o := NewOptions(opts...)
	return func(yield func(R, error) bool) {
		var zero R
		for row, err := range tsv.Stream(ctx, src, tsv.Options{SkipHeader: true}) {
			if err != nil {
				var se *tsv.SourceError
				if errors.As(err, &se) && se.Line == 0 && errors.Is(err, fs.ErrNotExist) {
					err = fmt.Errorf("%w: %w", ErrSourceNotFound, err)
				}
				yield(zero, err)
				return
			}
			rec, err := l.FromStrings(row.Fields)
			if err != nil {
				var de *DecodeError
				if errors.As(err, &de) {
					de.Path = src.Name()
					de.Row = row.Line
				}
				if !yield(zero, err) || !o.Lenient {
					return
				}
				continue
			}
			if l.Keep != nil && !l.Keep(&rec, o) {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
