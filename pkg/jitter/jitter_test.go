package jitter

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := 100 * time.Millisecond

	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		require.GreaterOrEqual(t, d, base)
		require.LessOrEqual(t, d, base+base/2)
	}
}

func TestDuration_ZeroJitter(t *testing.T) {
	base := 100 * time.Millisecond
	require.Equal(t, base, Duration(base, 0))
}

func TestDurationWithRand_Deterministic(t *testing.T) {
	base := time.Second

	a := DurationWithRand(base, DefaultJitter, rand.New(rand.NewPCG(1, 2)))
	b := DurationWithRand(base, DefaultJitter, rand.New(rand.NewPCG(1, 2)))

	require.Equal(t, a, b)
}

func TestExponentialBackoff_GrowsAndCaps(t *testing.T) {
	const (
		base = time.Second
		max  = 10 * time.Second
	)

	require.LessOrEqual(t, ExponentialBackoff(base, max, 0, 0), base)

	// 1s -> 2s -> 4s -> 8s -> 10s (cap)
	require.Equal(t, 2*base, ExponentialBackoff(base, max, 1, 0))
	require.Equal(t, 4*base, ExponentialBackoff(base, max, 2, 0))
	require.Equal(t, max, ExponentialBackoff(base, max, 4, 0))
	require.Equal(t, max, ExponentialBackoff(base, max, 20, 0))
}
