package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	swept    []string
	affected []string
	err      error
}

func (s *stubSweeper) SweepProduct(_ context.Context, productID string) ([]string, error) {
	s.swept = append(s.swept, productID)
	return s.affected, s.err
}

func TestCartSweepHandle(t *testing.T) {
	sweeper := &stubSweeper{affected: []string{"1", "4"}}
	job := NewCartSweepJob(sweeper, slog.Default(), nil)

	task, err := NewCartSweepTask("42")
	require.NoError(t, err)
	require.Equal(t, TaskCartSweep, task.Type())

	err = job.Handle(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, sweeper.swept)
}

func TestCartSweepHandleBadPayload(t *testing.T) {
	job := NewCartSweepJob(&stubSweeper{}, slog.Default(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskCartSweep, []byte("{broken")))
	require.Error(t, err)
}

func TestCartSweepHandleEmptyProductID(t *testing.T) {
	sweeper := &stubSweeper{}
	job := NewCartSweepJob(sweeper, slog.Default(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskCartSweep, []byte(`{"product_id": ""}`)))
	require.Error(t, err)
	assert.Empty(t, sweeper.swept)
}

func TestCartSweepHandleRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	job := NewCartSweepJob(&stubSweeper{}, slog.Default(), NewMetrics(registry))

	task, err := NewCartSweepTask("42")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["mitienda_jobs_total"])
	assert.True(t, names["mitienda_job_duration_seconds"])
}

func TestCartSweepHandleSweepFailure(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("store down")}
	job := NewCartSweepJob(sweeper, slog.Default(), nil)

	task, err := NewCartSweepTask("42")
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	require.Error(t, err, "failure propagates so the task retries")
}
