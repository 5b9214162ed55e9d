package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerRunsImmediatelyOnStart(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{})
	p := New("test", time.Hour, func(ctx context.Context) {
		if runs.Add(1) == 1 {
			close(ran)
		}
	}, nil)

	p.Start(context.Background())
	defer p.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not run on start")
	}
	assert.True(t, p.Running())
}

func TestPollerTicks(t *testing.T) {
	var runs atomic.Int32
	p := New("test", 10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}, nil)

	p.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	require.GreaterOrEqual(t, runs.Load(), int32(2), "expected the initial run plus at least one tick")
}

func TestPollerStopIsDeterministic(t *testing.T) {
	var runs atomic.Int32
	p := New("test", 5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}, nil)

	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	p.Stop()
	assert.False(t, p.Running())

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop returned")
}

func TestPollerStopWithoutStart(t *testing.T) {
	p := New("test", time.Second, func(ctx context.Context) {}, nil)
	p.Stop() // must not panic or block
	assert.False(t, p.Running())
}

func TestPollerDoubleStart(t *testing.T) {
	var runs atomic.Int32
	p := New("test", time.Hour, func(ctx context.Context) {
		runs.Add(1)
	}, nil)

	p.Start(context.Background())
	p.Start(context.Background()) // no-op
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestPollerStopsWhenParentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New("test", time.Hour, func(ctx context.Context) {}, nil)
	p.Start(ctx)
	cancel()

	// Stop still returns promptly: the loop already exited with the context
	p.Stop()
	assert.False(t, p.Running())
}
