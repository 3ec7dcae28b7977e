package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyphrases/polyphrases/internal/logger"
)

func TestAdd(t *testing.T) {
	s := New(time.UTC, logger.Nop())

	require.NoError(t, s.Add("dispatch", "*/10 6-9 * * *", func(context.Context) error { return nil }))
	require.NoError(t, s.Add("illustrate", "", func(context.Context) error { return nil }))
	assert.Equal(t, 1, s.Entries())

	err := s.Add("broken", "every tuesday", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, 1, s.Entries())
}

func TestWrap_SkipsOverlappingRuns(t *testing.T) {
	s := New(time.UTC, logger.Nop())

	var runs atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	job := s.wrap(&jobState{status: RunStatus{Job: "dispatch"}}, func(context.Context) error {
		runs.Add(1)
		close(started)
		<-release
		return nil
	})

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-started

	// returns immediately because the first run is still busy
	job.Run()
	assert.Equal(t, int32(1), runs.Load())

	close(release)
	<-done
}

func TestWrap_RecoversAndReportsErrors(t *testing.T) {
	s := New(time.UTC, logger.Nop())

	assert.NotPanics(t, func() {
		s.wrap(&jobState{status: RunStatus{Job: "boom"}}, func(context.Context) error { panic("kaboom") }).Run()
	})
}

func TestWrap_RecordsStatus(t *testing.T) {
	s := New(time.UTC, logger.Nop())
	state := &jobState{status: RunStatus{Job: "illustrate", Spec: "0 2 * * *"}}

	s.wrap(state, func(context.Context) error { return errors.New("nope") }).Run()
	assert.Equal(t, 1, state.status.Runs)
	assert.Equal(t, "nope", state.status.LastError)
	assert.False(t, state.status.LastStart.IsZero())

	s.wrap(state, func(context.Context) error { return nil }).Run()
	assert.Equal(t, 2, state.status.Runs)
	assert.Empty(t, state.status.LastError)
}

func TestStatus(t *testing.T) {
	s := New(time.UTC, logger.Nop())
	require.NoError(t, s.Add("dispatch", "*/10 6-9 * * *", func(context.Context) error { return nil }))

	status := s.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "dispatch", status[0].Job)
	assert.Equal(t, "*/10 6-9 * * *", status[0].Spec)
	assert.Zero(t, status[0].Runs)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New(time.UTC, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
