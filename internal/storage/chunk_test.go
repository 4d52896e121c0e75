package storage

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChunkify(t *testing.T) {
	t.Parallel()

	letters := slices.Values(strings.Split("abcdefghijklmnopqrstuvwxyz", ""))
	var got []string
	for c := range Chunkify(letters, 10) {
		got = append(got, strings.Join(c, ""))
	}
	want := []string{"abcdefghij", "klmnopqrst", "uvwxyz"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Chunkify mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkifyKeepsYieldedSlices(t *testing.T) {
	t.Parallel()

	var kept [][]int
	for c := range Chunkify(slices.Values([]int{1, 2, 3, 4, 5}), 2) {
		kept = append(kept, c)
	}
	if diff := cmp.Diff([][]int{{1, 2}, {3, 4}, {5}}, kept); diff != "" {
		t.Fatalf("chunks were overwritten (-want +got):\n%s", diff)
	}
}

func TestChunkifyDefaultsAndStops(t *testing.T) {
	t.Parallel()

	n := 0
	for c := range Chunkify(slices.Values(make([]int, DefaultChunkSize+1)), 0) {
		n++
		if len(c) != DefaultChunkSize {
			t.Fatalf("first chunk len = %d, want %d", len(c), DefaultChunkSize)
		}
		break
	}
	if n != 1 {
		t.Fatalf("iterated %d chunks after break", n)
	}
	for range Chunkify(slices.Values([]int(nil)), 3) {
		t.Fatal("empty input yielded a chunk")
	}
}
