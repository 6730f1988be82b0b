package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubPruner struct{ calls atomic.Int32 }

func (p *stubPruner) CleanupOldSessions() { p.calls.Add(1) }

type stubSessions struct {
	calls   atomic.Int32
	removed int64
}

func (s *stubSessions) DeleteExpiredSessions() (int64, error) {
	s.calls.Add(1)
	return s.removed, nil
}

func TestWorkerRunOnce(t *testing.T) {
	pruner := &stubPruner{}
	sessions := &stubSessions{removed: 3}
	w := NewWorker(pruner, sessions, time.Minute)

	w.runOnce()

	require.Equal(t, int32(1), pruner.calls.Load())
	require.Equal(t, int32(1), sessions.calls.Load())
}

func TestWorkerStopsOnCancel(t *testing.T) {
	pruner := &stubPruner{}
	sessions := &stubSessions{}
	w := NewWorker(pruner, sessions, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return pruner.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerDefaultInterval(t *testing.T) {
	w := NewWorker(&stubPruner{}, &stubSessions{}, 0)
	require.Equal(t, 15*time.Minute, w.interval)
}
