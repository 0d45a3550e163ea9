package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPurger struct {
	mock.Mock
}

func (m *MockPurger) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestSweepPurgesEveryTable(t *testing.T) {
	at := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	leads := new(MockPurger)
	contacts := new(MockPurger)
	leads.On("DeleteExpired", mock.Anything, at).Return(int64(4), nil)
	contacts.On("DeleteExpired", mock.Anything, at).Return(int64(0), errors.New("locked"))

	w := NewRetentionWorker(map[string]Purger{"leads": leads, "contact_submissions": contacts}, time.Minute)
	w.now = func() time.Time { return at }

	got := w.Sweep(context.Background())

	assert.Equal(t, map[string]int64{"leads": 4}, got)
	leads.AssertExpectations(t)
	contacts.AssertExpectations(t)
}

func TestStartStopsOnCancel(t *testing.T) {
	p := new(MockPurger)
	p.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil)

	w := NewRetentionWorker(map[string]Purger{"leads": p}, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	require.GreaterOrEqual(t, len(p.Calls), 2)
}
