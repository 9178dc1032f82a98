// Package fit holds the platform-independent fitness model: data types,
// capabilities, samples, read requests and responses.
package fit

import (
	"fmt"
	"strconv"
	"time"
)

type FieldFormat string

const (
	FormatInteger    FieldFormat = "integer"
	FormatFloatPoint FieldFormat = "floatPoint"
	FormatString     FieldFormat = "string"
)

type Field struct {
	Name   string
	Format FieldFormat
}

var FieldSteps = Field{Name: "steps", Format: FormatInteger}

// DataType names a kind of measurement. Aggregate types share the name of
// their input type and are told apart by the Aggregate flag.
type DataType struct {
	Name      string
	Fields    []Field
	Aggregate bool
}

var (
	StepCountDelta          = DataType{Name: "com.google.step_count.delta", Fields: []Field{FieldSteps}}
	AggregateStepCountDelta = DataType{Name: "com.google.step_count.delta", Fields: []Field{FieldSteps}, Aggregate: true}
)

var knownTypes = map[string]DataType{
	StepCountDelta.Name: StepCountDelta,
}

// LookupDataType returns the registered data type for name. Unknown names get
// a type with no declared fields.
func LookupDataType(name string) (DataType, bool) {
	dt, ok := knownTypes[name]
	if !ok {
		return DataType{Name: name}, false
	}
	return dt, true
}

type SourceType string

const (
	SourceRaw     SourceType = "raw"
	SourceDerived SourceType = "derived"
)

// DataSource identifies where a sample came from.
type DataSource struct {
	AppPackageName string
	DataType       DataType
	StreamName     string
	Type           SourceType
}

// StreamID composes the platform data stream identifier for the source.
// The platform keys application sources by the developer project number.
func (s DataSource) StreamID(projectNumber string) string {
	return fmt.Sprintf("%s:%s:%s:%s", s.Type, s.DataType.Name, projectNumber, s.StreamName)
}

type Value struct {
	Format FieldFormat
	Int    int64
	Float  float64
	Str    string
}

func IntValue(v int64) Value { return Value{Format: FormatInteger, Int: v} }

func FloatValue(v float64) Value { return Value{Format: FormatFloatPoint, Float: v} }

func StringValue(v string) Value { return Value{Format: FormatString, Str: v} }

func (v Value) String() string {
	switch v.Format {
	case FormatInteger:
		return strconv.FormatInt(v.Int, 10)
	case FormatFloatPoint:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return v.Str
	}
}

// DataPoint is one measurement over the half-open interval [Start, End).
// Values are positional and line up with DataType.Fields.
type DataPoint struct {
	DataType DataType
	Start    time.Time
	End      time.Time
	Values   []Value
}

// Value returns the value stored for field, if the point carries one.
func (p DataPoint) Value(field Field) (Value, bool) {
	for i, f := range p.DataType.Fields {
		if f.Name == field.Name && i < len(p.Values) {
			return p.Values[i], true
		}
	}
	return Value{}, false
}

type DataSet struct {
	DataSource DataSource
	DataType   DataType
	Points     []DataPoint
}

type Bucket struct {
	Start    time.Time
	End      time.Time
	DataSets []DataSet
}

type AggregateSpec struct {
	Input  DataType
	Output DataType
}

// ReadRequest describes a history read. A zero BucketDuration asks for the
// raw datasets of DataSourceIDs instead of aggregated buckets.
type ReadRequest struct {
	Aggregates     []AggregateSpec
	DataSourceIDs  []string
	Start          time.Time
	End            time.Time
	BucketDuration time.Duration
}

func (r ReadRequest) Bucketed() bool {
	return r.BucketDuration > 0
}

type ReadResponse struct {
	Buckets  []Bucket
	DataSets []DataSet
}
