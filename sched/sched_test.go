package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHost_Sleep(t *testing.T) {
	s := New()

	start := time.Now()
	require.NoError(t, s.Sleep(context.Background(), 10*time.Millisecond))
	require.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Sleep(ctx, time.Hour), context.Canceled)
}

func TestHost_Yield(t *testing.T) {
	require.NoError(t, New().Yield(context.Background()))
}

func TestHost_PollTimeout(t *testing.T) {
	start := time.Now()
	events, err := New().Poll(context.Background(), nil, 5*time.Millisecond)
	require.NoError(t, err)
	require.Empty(t, events)
	require.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
