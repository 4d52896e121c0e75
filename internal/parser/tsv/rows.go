// Package tsv streams rows out of gzip-compressed, tab-separated dataset
// files.
//
// The format is deliberately simpler than CSV: fields are separated by a
// single tab, rows by a newline, and there is no quoting or escaping at all.
// A double quote is ordinary data. encoding/csv cannot be told to stop
// treating quotes specially, so rows are split by hand.
package tsv

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"

	"cine/internal/datasource"
	"cine/internal/datasource/file"
)

// Separator is the only field delimiter.
const Separator = '\t'

// ErrInvalidUTF8 is wrapped by the SourceError of a line that is not valid
// UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// readBufferSize bounds the line buffer; longer lines are stitched together.
const readBufferSize = 1 << 20

// Row is one tokenized line.
//
// Fields is reused between iterations; copy the slice (not the strings) to
// keep it past the next step. Each string is its own allocation and never
// aliases the read buffer.
type Row struct {
	Line   int // 1-based line number in the decompressed file
	Fields []string
}

// Options tune a row stream.
type Options struct {
	// SkipHeader drops the first line. Dataset files always carry one.
	SkipHeader bool
	// Plain disables gzip decompression. Used for already-inflated files.
	Plain bool
}

// SourceError reports a failure to open, decompress or read a source. It is
// yielded at most once and ends the stream.
type SourceError struct {
	Path string
	// Line is the offending line for invalid content, otherwise the last
	// line fully read before the failure; 0 when opening failed.
	Line int
	Err  error
}

func (e *SourceError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("tsv: %s: %v", e.Path, e.Err)
	}
	if errors.Is(e.Err, ErrInvalidUTF8) {
		return fmt.Sprintf("tsv: %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("tsv: %s: after line %d: %v", e.Path, e.Line, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Rows streams the rows of the gzip file at path. See Stream.
func Rows(ctx context.Context, path string, opts Options) iter.Seq2[Row, error] {
	return Stream(ctx, file.NewLocal(path), opts)
}

// Stream returns a lazy, restartable row sequence over src. Each range opens
// a fresh handle and closes it when iteration stops, early or not.
//
// The sequence yields (Row, nil) per data line and at most one
// (Row{}, error) before ending. Context cancellation is checked between rows
// and yielded as the error.
func Stream(ctx context.Context, src datasource.Source, opts Options) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		rc, err := src.Open(ctx)
		if err != nil {
			yield(Row{}, &SourceError{Path: src.Name(), Err: err})
			return
		}
		defer rc.Close()

		var r io.Reader = rc
		if !opts.Plain {
			zr, err := gzip.NewReader(rc)
			if err != nil {
				yield(Row{}, &SourceError{Path: src.Name(), Err: fmt.Errorf("gzip header: %w", err)})
				return
			}
			defer zr.Close()
			r = zr
		}

		lr := newLineReader(r)
		var (
			line   int
			fields []string
		)
		for {
			if err := ctx.Err(); err != nil {
				yield(Row{}, err)
				return
			}
			b, err := lr.next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				yield(Row{}, &SourceError{Path: src.Name(), Line: line, Err: err})
				return
			}
			line++
			if !utf8.Valid(b) {
				yield(Row{}, &SourceError{Path: src.Name(), Line: line, Err: ErrInvalidUTF8})
				return
			}
			if line == 1 && opts.SkipHeader {
				continue
			}
			fields = Split(fields[:0], b)
			if !yield(Row{Line: line, Fields: fields}, nil) {
				return
			}
		}
	}
}

// Split appends the tab-separated fields of b to dst, copying each one into
// a fresh string.
func Split(dst []string, b []byte) []string {
	for {
		i := bytes.IndexByte(b, Separator)
		if i < 0 {
			return append(dst, string(b))
		}
		dst = append(dst, string(b[:i]))
		b = b[i+1:]
	}
}

// lineReader yields newline-terminated lines without the terminator. The
// returned slice is only valid until the next call.
type lineReader struct {
	br    *bufio.Reader
	carry []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, readBufferSize)}
}

func (lr *lineReader) next() ([]byte, error) {
	lr.carry = lr.carry[:0]
	for {
		chunk, err := lr.br.ReadSlice('\n')
		switch {
		case err == nil:
			if len(lr.carry) > 0 {
				lr.carry = append(lr.carry, chunk...)
				return trimEOL(lr.carry), nil
			}
			return trimEOL(chunk), nil
		case errors.Is(err, bufio.ErrBufferFull):
			lr.carry = append(lr.carry, chunk...)
		case errors.Is(err, io.EOF):
			// A final line without a trailing newline still counts.
			lr.carry = append(lr.carry, chunk...)
			if len(lr.carry) == 0 {
				return nil, io.EOF
			}
			return trimEOL(lr.carry), nil
		default:
			return nil, err
		}
	}
}

func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte{'\n'})
	return bytes.TrimSuffix(b, []byte{'\r'})
}
