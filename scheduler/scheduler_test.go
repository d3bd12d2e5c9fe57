package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesystem/core"
)

type fakeTarget struct {
	ticks     atomic.Int32
	rollovers atomic.Int32
	err       error
}

func (f *fakeTarget) Tick(context.Context) { f.ticks.Add(1) }

func (f *fakeTarget) GenerateDailyQuests(context.Context) ([]core.Quest, error) {
	f.rollovers.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []core.Quest{{ID: "q"}}, nil
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, Config{Interval: time.Second})
	assert.Error(t, err)

	_, err = New(&fakeTarget{}, Config{})
	assert.Error(t, err)
}

func TestJobsRegistered(t *testing.T) {
	s, err := New(&fakeTarget{}, Config{Interval: time.Second, Location: time.UTC})
	require.NoError(t, err)
	defer s.Stop()

	assert.Equal(t, 2, s.Jobs())
}

func TestNextRollover(t *testing.T) {
	s, err := New(&fakeTarget{}, Config{Interval: time.Second, Location: time.UTC})
	require.NoError(t, err)
	defer s.Stop()

	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), s.NextRollover(now))

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	s2, err := New(&fakeTarget{}, Config{Interval: time.Second, Location: plus2})
	require.NoError(t, err)
	defer s2.Stop()

	// 23:30 UTC is already 01:30 the next day in UTC+2
	late := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.True(t, time.Date(2024, 3, 12, 0, 0, 0, 0, plus2).Equal(s2.NextRollover(late)))
}

func TestJobsCallTarget(t *testing.T) {
	target := &fakeTarget{}
	s, err := New(target, Config{Interval: time.Second})
	require.NoError(t, err)
	defer s.Stop()

	s.tick()
	s.rolloverQuests()
	assert.Equal(t, int32(1), target.ticks.Load())
	assert.Equal(t, int32(1), target.rollovers.Load())

	target.err = errors.New("boom")
	assert.NotPanics(t, s.rolloverQuests)
}

func TestStartTicks(t *testing.T) {
	target := &fakeTarget{}
	s, err := New(target, Config{Interval: time.Second})
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return target.ticks.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()

	after := target.ticks.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, after, target.ticks.Load(), "no ticks after Stop")
}
