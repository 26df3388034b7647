package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestJanitorInvalidSchedule(t *testing.T) {
	store := newTestStore(t, time.Hour)

	_, err := NewJanitor(store, "every tuesday", nil)
	assert.Error(t, err)
}

func TestJanitorRunOnce(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	_, err := store.New(ctx)
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)

	janitor, err := NewJanitor(store, "", nil)
	require.NoError(t, err)

	purged, err := janitor.RunOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}

func TestJanitorStopLeavesNoGoroutines(t *testing.T) {
	store := newTestStore(t, time.Hour)

	// The connection pool keeps its own goroutines for the life of the test
	ignore := goleak.IgnoreCurrent()

	janitor, err := NewJanitor(store, "@every 1h", nil)
	require.NoError(t, err)

	janitor.Start()
	janitor.Stop()

	goleak.VerifyNone(t, ignore)
}
