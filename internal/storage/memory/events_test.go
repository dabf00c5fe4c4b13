package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/models"
)

func TestEventLog_RecentNewestFirst(t *testing.T) {
	log := NewEventLog(10)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		err := log.Record(ctx, models.BookEvent{
			Time:   now.Add(time.Duration(i) * time.Second),
			Action: models.ActionCreated,
			BookID: fmt.Sprintf("%d", i),
		})
		require.NoError(t, err)
	}

	events, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "2", events[0].BookID)
	assert.Equal(t, "1", events[1].BookID)
	assert.Equal(t, "0", events[2].BookID)
}

func TestEventLog_Limit(t *testing.T) {
	log := NewEventLog(10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Record(ctx, models.BookEvent{BookID: fmt.Sprintf("%d", i)}))
	}

	events, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "4", events[0].BookID)
	assert.Equal(t, "3", events[1].BookID)
}

func TestEventLog_RingOverwritesOldest(t *testing.T) {
	log := NewEventLog(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Record(ctx, models.BookEvent{BookID: fmt.Sprintf("%d", i)}))
	}

	events, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "4", events[0].BookID)
	assert.Equal(t, "3", events[1].BookID)
	assert.Equal(t, "2", events[2].BookID)
}

func TestEventLog_Empty(t *testing.T) {
	log := NewEventLog(0)

	events, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}
