package scheduler

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greentask/pkg/logger"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(logger.New(io.Discard, io.Discard, false))
	require.NoError(t, err)
	s.Start()
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func TestScheduler_After(t *testing.T) {
	s := newTestScheduler(t)
	var ran atomic.Int32

	require.NoError(t, s.After(20*time.Millisecond, "session-1", func() { ran.Add(1) }))

	assert.Eventually(t, func() bool { return ran.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_AfterWithoutDelay(t *testing.T) {
	s := newTestScheduler(t)
	var ran atomic.Int32

	require.NoError(t, s.After(0, "session-1", func() { ran.Add(1) }))

	assert.Eventually(t, func() bool { return ran.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_Cancel(t *testing.T) {
	s := newTestScheduler(t)
	var ran atomic.Int32

	require.NoError(t, s.After(300*time.Millisecond, "session-1", func() { ran.Add(1) }))
	require.NoError(t, s.After(300*time.Millisecond, "session-2", func() { ran.Add(10) }))
	assert.Equal(t, 1, s.Pending("session-1"))

	s.Cancel("session-1")
	assert.Equal(t, 0, s.Pending("session-1"))

	assert.Eventually(t, func() bool { return ran.Load() == 10 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(10), ran.Load())
}
