package importer

import (
	"fmt"
	"testing"
)

func TestKeySet(t *testing.T) {
	t.Parallel()
	var ks KeySet
	for _, id := range []string{"tt0000001", "tt0000009", "tt0000001"} {
		ks.Add(id)
	}
	if !ks.Has("tt0000001") || !ks.Has("tt0000009") {
		t.Fatal("added ids not found")
	}
	if ks.Has("tt0000002") || ks.Has("") {
		t.Fatal("unknown id found")
	}
	if ks.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ks.Len())
	}

	ks.Add("tt0000002")
	if !ks.Has("tt0000002") {
		t.Fatal("id added after a lookup not found")
	}
}

func BenchmarkKeySetHas(b *testing.B) {
	var ks KeySet
	for i := range 1_000_000 {
		ks.Add(fmt.Sprintf("tt%07d", i))
	}
	ks.Has("tt0000000")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ks.Has("tt0500000")
	}
}
