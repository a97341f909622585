package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls   int
	removed int
}

func (s *countingSweeper) Sweep() int {
	s.calls++
	return s.removed
}

func TestCronService_StartWithoutAudit(t *testing.T) {
	sweeper := &countingSweeper{}
	service := NewCronService(sweeper, NewAuditService(nil, newTestLogger()), newTestLogger())

	require.NoError(t, service.Start("@every 1m"))
	defer service.Stop()

	status := service.GetJobStatus()
	assert.Equal(t, 1, status["job_count"])
	assert.Equal(t, true, status["running"])
}

func TestCronService_StartWithAudit(t *testing.T) {
	service := NewCronService(&countingSweeper{}, NewAuditService(&fakeRecorder{}, newTestLogger()), newTestLogger())

	require.NoError(t, service.Start("@every 30s"))
	defer service.Stop()

	assert.Equal(t, 2, service.GetJobStatus()["job_count"])
}

func TestCronService_InvalidSchedule(t *testing.T) {
	service := NewCronService(&countingSweeper{}, nil, newTestLogger())

	err := service.Start("every minute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache sweep")
}

func TestCronService_RunSweepNow(t *testing.T) {
	sweeper := &countingSweeper{removed: 3}
	service := NewCronService(sweeper, nil, newTestLogger())

	assert.Equal(t, 3, service.RunSweepNow())
	service.sweepCacheJob()
	assert.Equal(t, 2, sweeper.calls)
}

func TestCronService_CleanupJob(t *testing.T) {
	recorder := &fakeRecorder{removed: 4}
	service := NewCronService(&countingSweeper{}, NewAuditService(recorder, newTestLogger()), newTestLogger())

	service.cleanupAuditJob()

	assert.False(t, recorder.cutoff.IsZero())
}
