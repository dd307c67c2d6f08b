package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
)

func TestFeedCache_RoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	fc := NewFeedCache(NewMemoryStore(), time.Minute, nil)

	_, key, ok := fc.Load(ctx, "2024-06-01", "2024-06-30")
	assert.False(t, ok)
	require.NotEmpty(t, key)

	booked := time.Date(2024, 6, 10, 0, 30, 0, 0, time.UTC)
	fc.Save(ctx, key, &calendar.Feed{
		BookedTimestamps: []time.Time{booked},
		DayExceptions: []calendar.DayException{
			{Date: "2024-06-10", Name: "端午節", IsHoliday: true},
		},
	})

	feed, _, ok := fc.Load(ctx, "2024-06-01", "2024-06-30")
	require.True(t, ok)
	require.Len(t, feed.BookedTimestamps, 1)
	assert.True(t, feed.BookedTimestamps[0].Equal(booked))
	assert.Equal(t, "端午節", feed.DayExceptions[0].Name)

	fc.CalendarChanged(ctx, calendar.Change{Kind: calendar.ChangeAppointmentCreated})

	_, _, ok = fc.Load(ctx, "2024-06-01", "2024-06-30")
	assert.False(t, ok)
}

func TestFeedCache_SaveAfterInvalidateIsOrphaned(t *testing.T) {
	ctx := context.Background()
	fc := NewFeedCache(NewMemoryStore(), time.Minute, nil)

	_, key, ok := fc.Load(ctx, "2024-06-10", "2024-06-10")
	require.False(t, ok)

	// a change lands while the feed is being built
	require.NoError(t, fc.Invalidate(ctx))
	fc.Save(ctx, key, &calendar.Feed{
		BookedTimestamps: []time.Time{time.Date(2024, 6, 10, 0, 30, 0, 0, time.UTC)},
	})

	_, fresh, ok := fc.Load(ctx, "2024-06-10", "2024-06-10")
	assert.False(t, ok)
	assert.NotEqual(t, key, fresh)
}

func TestFeedCache_SaveWithoutKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	fc := NewFeedCache(NewMemoryStore(), time.Minute, nil)

	fc.Save(ctx, "", &calendar.Feed{})
	_, _, ok := fc.Load(ctx, "2024-06-10", "2024-06-10")
	assert.False(t, ok)
}
