package mapping_test

import (
	"testing"

	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/mapping"
)

// BenchmarkAll_Hexagonal enumerates the full mapping set of a hexagonal
// cell onto itself.
func BenchmarkAll_Hexagonal(b *testing.B) {
	l, err := lattice.FromParameters(3.2, 3.2, 5.2, 90, 90, 120)
	if err != nil {
		b.Fatalf("FromParameters: %v", err)
	}
	opts := mapping.DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq, err := mapping.All(l, l, opts)
		if err != nil {
			b.Fatalf("All: %v", err)
		}
		n := 0
		for range seq {
			n++
		}
		if n == 0 {
			b.Fatal("no mappings")
		}
	}
}
