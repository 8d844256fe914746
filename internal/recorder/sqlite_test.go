package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockBalancer/internal/model"
)

func sampleReport(at time.Time, total float64) *model.Report {
	return &model.Report{
		At:         at,
		Trigger:    model.TriggerScheduled,
		Currency:   "USD",
		TotalValue: total,
		Holdings: []model.Holding{
			{Name: "A", Quantity: 10, Price: 10, Value: 100, CurrentFraction: 0.5, TargetFraction: 0.7},
			{Name: "B", Quantity: 10, Price: 10, Value: 100, CurrentFraction: 0.5, TargetFraction: 0.3},
		},
		Actions: []model.RebalanceAction{
			{Stock: "A", Action: model.ActionBuy, Quantity: 4},
			{Stock: "B", Action: model.ActionSell, Quantity: 4},
		},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer rec.Close()

	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	first := NewRun(sampleReport(t0, 200))
	second := NewRun(sampleReport(t0.Add(24*time.Hour), 210))
	require.NotEqual(t, first.ID, second.ID)

	require.NoError(t, rec.RecordRun(first))
	require.NoError(t, rec.RecordRun(second))

	runs, err := rec.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	got := runs[0]
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, second.At.UnixMilli(), got.At.UnixMilli())
	assert.Equal(t, model.TriggerScheduled, got.Trigger)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, 210.0, got.TotalValue)
	assert.Equal(t, second.Holdings, got.Holdings)
	assert.Equal(t, second.Actions, got.Actions)
	assert.Equal(t, first.ID, runs[1].ID)

	runs, err = rec.RecentRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.ID, runs[0].ID)
}

func TestSQLiteRecorder_DuplicateIDRollsBack(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer rec.Close()

	run := NewRun(sampleReport(time.Now(), 200))
	require.NoError(t, rec.RecordRun(run))
	assert.Error(t, rec.RecordRun(run))

	runs, err := rec.RecentRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Actions, 2)
}

func TestSQLiteRecorder_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	rec, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, rec.RecordRun(NewRun(sampleReport(time.Now(), 200))))
	require.NoError(t, rec.Close())

	rec, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer rec.Close()
	runs, err := rec.RecentRuns(5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	require.NoError(t, rec.RecordRun(NewRun(sampleReport(time.Now(), 1))))
	runs, err := rec.RecentRuns(3)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, rec.Close())
}
