package fit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepSample(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	src := NewStepSource("com.example.fit", DefaultStreamName)

	ds := NewStepSample(src, 950, now)

	require.Len(t, ds.Points, 1)
	p := ds.Points[0]
	assert.True(t, p.End.Equal(now))
	assert.Equal(t, time.Hour, p.End.Sub(p.Start))
	v, ok := p.Value(FieldSteps)
	require.True(t, ok)
	assert.Equal(t, int64(950), v.Int)
	assert.Equal(t, SourceRaw, ds.DataSource.Type)
	assert.Equal(t, StepCountDelta.Name, ds.DataType.Name)
}

func TestNewHistoryRequest(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 30, 0, 0, time.UTC)

	req := NewHistoryRequest(now)

	assert.True(t, req.End.Equal(now))
	assert.Equal(t, 7*24*time.Hour, req.End.Sub(req.Start))
	assert.Equal(t, 24*time.Hour, req.BucketDuration)
	assert.True(t, req.Bucketed())
	require.Len(t, req.Aggregates, 1)
	assert.Equal(t, StepCountDelta.Name, req.Aggregates[0].Input.Name)
}

func TestRequestWindowsAreIndependent(t *testing.T) {
	insertAt := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	readAt := insertAt.Add(3 * time.Second)

	sample := NewStepSample(NewStepSource("pkg", "s"), 1, insertAt)
	req := NewHistoryRequest(readAt)

	assert.True(t, sample.Points[0].End.Equal(insertAt))
	assert.True(t, req.End.Equal(readAt))
}

func TestNewRawReadRequest(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	req := NewRawReadRequest("raw:com.google.step_count.delta:42:step count", now)

	assert.False(t, req.Bucketed())
	assert.Equal(t, []string{"raw:com.google.step_count.delta:42:step count"}, req.DataSourceIDs)
	assert.Equal(t, HistoryWindow, req.End.Sub(req.Start))
}

func TestStreamID(t *testing.T) {
	src := NewStepSource("com.example.fit", "step count")
	assert.Equal(t, "raw:com.google.step_count.delta:123456:step count", src.StreamID("123456"))
}

func TestLookupDataType(t *testing.T) {
	dt, ok := LookupDataType("com.google.step_count.delta")
	assert.True(t, ok)
	assert.Equal(t, []Field{FieldSteps}, dt.Fields)

	dt, ok = LookupDataType("com.google.heart_rate.bpm")
	assert.False(t, ok)
	assert.Equal(t, "com.google.heart_rate.bpm", dt.Name)
	assert.Empty(t, dt.Fields)
}

func TestDataPointValue_Missing(t *testing.T) {
	p := DataPoint{DataType: StepCountDelta}
	_, ok := p.Value(FieldSteps)
	assert.False(t, ok)
}
