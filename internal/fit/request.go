package fit

import "time"

const (
	SampleWindow      = time.Hour
	HistoryWindow     = 7 * 24 * time.Hour
	HistoryBucket     = 24 * time.Hour
	DefaultStreamName = "step count"
)

// NewStepSource returns the raw application source for step count samples.
func NewStepSource(packageName, streamName string) DataSource {
	return DataSource{
		AppPackageName: packageName,
		DataType:       StepCountDelta,
		StreamName:     streamName,
		Type:           SourceRaw,
	}
}

// NewStepSample builds a dataset holding one step count point covering the
// hour ending at now.
func NewStepSample(src DataSource, steps int64, now time.Time) DataSet {
	end := now.UTC()
	start := end.Add(-SampleWindow)
	return DataSet{
		DataSource: src,
		DataType:   src.DataType,
		Points: []DataPoint{{
			DataType: src.DataType,
			Start:    start,
			End:      end,
			Values:   []Value{IntValue(steps)},
		}},
	}
}

// NewHistoryRequest asks for step counts over the week ending at now,
// aggregated into daily buckets.
func NewHistoryRequest(now time.Time) ReadRequest {
	end := now.UTC()
	return ReadRequest{
		Aggregates:     []AggregateSpec{{Input: StepCountDelta, Output: AggregateStepCountDelta}},
		Start:          end.Add(-HistoryWindow),
		End:            end,
		BucketDuration: HistoryBucket,
	}
}

// NewRawReadRequest reads the points of a single source over the same week
// without bucketing.
func NewRawReadRequest(sourceID string, now time.Time) ReadRequest {
	end := now.UTC()
	return ReadRequest{
		Aggregates:    []AggregateSpec{{Input: StepCountDelta, Output: StepCountDelta}},
		DataSourceIDs: []string{sourceID},
		Start:         end.Add(-HistoryWindow),
		End:           end,
	}
}
