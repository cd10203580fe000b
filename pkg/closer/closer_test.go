package closer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClose_LIFOOrder(t *testing.T) {
	c := NewCloser(0)

	var order []int
	for i := 1; i <= 3; i++ {
		c.Add(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	require.Equal(t, []int{3, 2, 1}, order)
}

func TestClose_CollectsErrors(t *testing.T) {
	c := NewCloser(0)

	c.Add(func(ctx context.Context) error { return nil })
	c.Add(func(ctx context.Context) error { return errors.New("redis close failed") })

	err := c.Close(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis close failed")
}

func TestClose_OnlyOnce(t *testing.T) {
	c := NewCloser(0)

	calls := 0
	c.Add(func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	require.Equal(t, 1, calls)
}

func TestClose_ForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(time.Second)

	var forced bool
	c.Add(func(ctx context.Context) error {
		forced = true
		return nil
	})

	blocker := make(chan struct{})
	c.Add(func(ctx context.Context) error {
		select {
		case <-blocker:
		case <-ctx.Done():
		}
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	defer close(blocker)

	err := c.Close(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "shutdown interrupted")
	require.True(t, forced, "remaining funcs must be force-closed")
}
