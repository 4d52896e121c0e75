package storage

import "iter"

// DefaultChunkSize is the number of records committed per transaction.
const DefaultChunkSize = 10_000

// Chunkify groups seq into consecutive slices of size elements; the last
// one may be shorter. Every yielded slice is freshly allocated, so callers
// may keep it. A non-positive size falls back to DefaultChunkSize.
//
// Only the chunk being filled is held in memory.
func Chunkify[T any](seq iter.Seq[T], size int) iter.Seq[[]T] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func([]T) bool) {
		chunk := make([]T, 0, size)
		for v := range seq {
			chunk = append(chunk, v)
			if len(chunk) < size {
				continue
			}
			if !yield(chunk) {
				return
			}
			chunk = make([]T, 0, size)
		}
		if len(chunk) > 0 {
			yield(chunk)
		}
	}
}
