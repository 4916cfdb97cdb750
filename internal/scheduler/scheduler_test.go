package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	err   error
	sleep time.Duration
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	if j.sleep > 0 {
		time.Sleep(j.sleep)
	}
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@every 60s", &countingJob{name: "a"}))
	assert.Error(t, s.AddJob("@every 60s", &countingJob{name: "a"}), "duplicate name")
	assert.Error(t, s.AddJob("not a schedule", &countingJob{name: "b"}))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "@every 60s", jobs[0].Schedule)
}

func TestScheduler_RunNowRecordsStatus(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "refresh", err: errors.New("upstream down")}
	require.NoError(t, s.AddJob("@every 60s", job))

	err := s.RunNow(job)
	assert.EqualError(t, err, "upstream down")

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].Runs)
	assert.Equal(t, "upstream down", jobs[0].LastError)
	assert.False(t, jobs[0].LastRun.IsZero())

	job.err = nil
	require.NoError(t, s.RunNow(job))
	assert.Empty(t, s.Jobs()[0].LastError)
	assert.Equal(t, 2, s.Jobs()[0].Runs)
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "tick"}
	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()

	assert.False(t, s.Jobs()[0].NextRun.IsZero())
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "slow", sleep: 3 * time.Second}
	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	time.Sleep(2500 * time.Millisecond)
	s.Stop()

	// The first run starts within a second and holds for three, so every later tick is skipped.
	assert.Equal(t, int32(1), job.runs.Load())
}
