package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 64; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}
}

func TestRNGFloat64Range(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of range: %v", v)
		}
	}
}

func TestRNGSeedsDiffer(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(2)
	same := 0
	for i := 0; i < 32; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	require.Less(t, same, 32, "different seeds should not produce identical streams")
}

func TestRNGInt64NonNegative(t *testing.T) {
	r := NewRNG(99)
	for i := 0; i < 256; i++ {
		require.GreaterOrEqual(t, r.Int64(), int64(0))
	}
}
