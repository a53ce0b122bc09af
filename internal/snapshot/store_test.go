package snapshot

import (
	"testing"
	"time"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead_RoundTrips(t *testing.T) {
	store := New(t.TempDir(), 0)
	ts := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	env := models.FeedEnvelope{
		Data:            map[string]interface{}{"foo": "bar"},
		SourceTimestamp: ts,
		QualityFlags:    []string{},
		Warnings:        []string{},
	}
	require.NoError(t, store.Append(1, 2026, 3, "weather", env))

	records, err := store.Read(1, 2026, 3, "weather", ts.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bar", records[0].Data["foo"])
	assert.True(t, records[0].SourceTimestamp.Equal(ts))
}

func TestAppend_MultipleRecordsAccumulate(t *testing.T) {
	store := New(t.TempDir(), 0)
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		env := models.FeedEnvelope{
			Data:            map[string]interface{}{"i": float64(i)},
			SourceTimestamp: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.Append(1, 2026, 3, "market", env))
	}
	records, err := store.Read(1, 2026, 3, "market", base.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestAsOf_BackwardPublishTimeNeverReturnsFuture(t *testing.T) {
	store := New(t.TempDir(), 0)
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(1, 2026, 3, "odds", models.FeedEnvelope{
		Data: map[string]interface{}{"v": "early"}, SourceTimestamp: base,
	}))
	require.NoError(t, store.Append(1, 2026, 3, "odds", models.FeedEnvelope{
		Data: map[string]interface{}{"v": "late"}, SourceTimestamp: base.Add(48 * time.Hour),
	}))

	resolved, err := store.AsOf(1, 2026, 3, "odds", base.Add(time.Hour), PolicyBackwardPublishTime)
	require.NoError(t, err)
	assert.Equal(t, "early", resolved.Data["v"])
}

func TestAsOf_BackwardPublishTimeErrorsWhenNothingQualifies(t *testing.T) {
	store := New(t.TempDir(), 0)
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(1, 2026, 3, "odds", models.FeedEnvelope{
		Data: map[string]interface{}{"v": "late"}, SourceTimestamp: base.Add(48 * time.Hour),
	}))

	_, err := store.AsOf(1, 2026, 3, "odds", base, PolicyBackwardPublishTime)
	assert.Error(t, err)
}

func TestAsOf_DegradeWarnFallsBackWithStalenessWarning(t *testing.T) {
	store := New(t.TempDir(), 0)
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(1, 2026, 3, "odds", models.FeedEnvelope{
		Data: map[string]interface{}{"v": "late"}, SourceTimestamp: base.Add(48 * time.Hour),
	}))

	resolved, err := store.AsOf(1, 2026, 3, "odds", base, PolicyDegradeWarn)
	require.NoError(t, err)
	assert.Equal(t, "late", resolved.Data["v"])
	assert.Contains(t, resolved.Warnings, "snapshot_stale")
}

func TestRetentionFilter_KeepsUnparseableTimestamps(t *testing.T) {
	store := New(t.TempDir(), 7)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	records := []models.FeedEnvelope{
		{Data: map[string]interface{}{"v": "old"}, SourceTimestamp: now.AddDate(0, 0, -30)},
		{Data: map[string]interface{}{"v": "recent"}, SourceTimestamp: now.AddDate(0, 0, -1)},
		{Data: map[string]interface{}{"v": "unparseable"}}, // zero-value timestamp
	}
	kept := store.filterRetention(records, now)
	var vals []string
	for _, k := range kept {
		vals = append(vals, k.Data["v"].(string))
	}
	assert.NotContains(t, vals, "old")
	assert.Contains(t, vals, "recent")
	assert.Contains(t, vals, "unparseable")
}
