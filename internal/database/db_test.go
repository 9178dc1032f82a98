package database

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitaldrywood/fitsession/internal/fit"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(dir)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestRecordInsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	src := fit.NewStepSource("com.example", fit.DefaultStreamName)

	require.NoError(t, db.RecordInsert(ctx, fit.NewStepSample(src, 950, now), nil))
	require.NoError(t, db.RecordInsert(ctx, fit.NewStepSample(src, 10, now.Add(time.Hour)), errors.New("quota exceeded")))

	records, err := db.RecentInserts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(10), records[0].Steps)
	assert.True(t, records[0].Error.Valid)
	assert.Equal(t, "quota exceeded", records[0].Error.String)

	first := records[1]
	assert.Equal(t, fit.DefaultStreamName, first.DataSource)
	assert.Equal(t, fit.StepCountDelta.Name, first.DataType)
	assert.Equal(t, int64(950), first.Steps)
	assert.Equal(t, now.Add(-time.Hour), first.Start)
	assert.Equal(t, now, first.End)
	assert.False(t, first.Error.Valid)

	limited, err := db.RecentInserts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	req := fit.NewHistoryRequest(now)
	resp := &fit.ReadResponse{Buckets: []fit.Bucket{
		{DataSets: []fit.DataSet{{Points: []fit.DataPoint{
			{DataType: fit.AggregateStepCountDelta, Values: []fit.Value{fit.IntValue(1200)}},
		}}}},
		{DataSets: []fit.DataSet{{}}},
	}}

	require.NoError(t, db.RecordRead(ctx, req, resp, nil))
	require.NoError(t, db.RecordRead(ctx, req, nil, errors.New("backend unavailable")))

	records, err := db.RecentReads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "backend unavailable", records[0].Error.String)
	assert.Zero(t, records[0].Buckets)

	ok := records[1]
	assert.Equal(t, 2, ok.Buckets)
	assert.Equal(t, 2, ok.DataSets)
	assert.Equal(t, 1, ok.Points)
	assert.Equal(t, int64(1200), ok.Steps)
	assert.Equal(t, req.Start, ok.Start)
	assert.Equal(t, req.End, ok.End)
}
