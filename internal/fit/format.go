package fit

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is used for point interval bounds in dumps.
const TimeLayout = "Jan 2, 2006 3:04:05 PM MST"

// FormatResponse flattens a read response into display text. Buckets win
// over top-level datasets; a response with neither formats to "".
func FormatResponse(resp *ReadResponse) string {
	if resp == nil {
		return ""
	}

	var output strings.Builder
	switch {
	case len(resp.Buckets) > 0:
		for _, bucket := range resp.Buckets {
			for _, ds := range bucket.DataSets {
				output.WriteString(DumpDataSet(ds))
			}
		}
	case len(resp.DataSets) > 0:
		for _, ds := range resp.DataSets {
			output.WriteString(DumpDataSet(ds))
		}
	}
	return output.String()
}

// DumpDataSet renders one dataset: its type name, then every point with its
// interval and each declared field of the type.
func DumpDataSet(ds DataSet) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("\n\nData returned for Data type: %s\n", ds.DataType.Name))
	for _, dp := range ds.Points {
		output.WriteString("Data point:\n")
		output.WriteString(fmt.Sprintf("\tType: %s\n", dp.DataType.Name))
		output.WriteString(fmt.Sprintf("\tStart: %s\n", formatTime(dp.Start)))
		output.WriteString(fmt.Sprintf("\tEnd: %s\n", formatTime(dp.End)))
		for _, field := range dp.DataType.Fields {
			value, _ := dp.Value(field)
			output.WriteString(fmt.Sprintf("\tField: %s Value: %s\n", field.Name, value))
		}
	}

	return output.String()
}

func formatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// Stats summarizes a response for the journal and export.
type Stats struct {
	Buckets  int
	DataSets int
	Points   int
	Totals   map[string]float64
}

func ResponseStats(resp *ReadResponse) Stats {
	stats := Stats{Totals: make(map[string]float64)}
	if resp == nil {
		return stats
	}

	stats.Buckets = len(resp.Buckets)
	add := func(ds DataSet) {
		stats.DataSets++
		for _, dp := range ds.Points {
			stats.Points++
			for _, field := range dp.DataType.Fields {
				v, ok := dp.Value(field)
				if !ok {
					continue
				}
				switch v.Format {
				case FormatInteger:
					stats.Totals[field.Name] += float64(v.Int)
				case FormatFloatPoint:
					stats.Totals[field.Name] += v.Float
				}
			}
		}
	}

	if len(resp.Buckets) > 0 {
		for _, bucket := range resp.Buckets {
			for _, ds := range bucket.DataSets {
				add(ds)
			}
		}
		return stats
	}
	for _, ds := range resp.DataSets {
		add(ds)
	}
	return stats
}

// BucketTotal sums an integer or float field across every point of a bucket.
func BucketTotal(b Bucket, field Field) float64 {
	total := 0.0
	for _, ds := range b.DataSets {
		for _, dp := range ds.Points {
			v, ok := dp.Value(field)
			if !ok {
				continue
			}
			if v.Format == FormatFloatPoint {
				total += v.Float
			} else {
				total += float64(v.Int)
			}
		}
	}
	return total
}
