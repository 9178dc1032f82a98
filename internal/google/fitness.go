package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/fitness/v1"
	"google.golang.org/api/googleapi"

	"github.com/digitaldrywood/fitsession/internal/fit"
)

const userID = "me"

// HistoryClient talks to the Fitness REST history endpoints.
type HistoryClient struct {
	service       *fitness.Service
	projectNumber string
	log           *zap.SugaredLogger
}

func NewHistoryClient(service *fitness.Service, projectNumber string, log *zap.SugaredLogger) *HistoryClient {
	return &HistoryClient{
		service:       service,
		projectNumber: projectNumber,
		log:           log,
	}
}

// InsertData makes sure the application data source exists, then patches the
// dataset covering the points' time span.
func (c *HistoryClient) InsertData(ctx context.Context, ds fit.DataSet) error {
	if len(ds.Points) == 0 {
		return errors.New("dataset has no points")
	}

	sourceID, err := c.ensureDataSource(ctx, ds.DataSource)
	if err != nil {
		return err
	}

	dataset := toDataset(sourceID, ds)
	datasetID := fmt.Sprintf("%d-%d", dataset.MinStartTimeNs, dataset.MaxEndTimeNs)
	c.log.Debugw("patching dataset", "source", sourceID, "dataset", datasetID, "points", len(dataset.Point))

	_, err = c.service.Users.DataSources.Datasets.Patch(userID, sourceID, datasetID, dataset).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "unable to insert dataset")
	}
	return nil
}

func (c *HistoryClient) ensureDataSource(ctx context.Context, src fit.DataSource) (string, error) {
	id := src.StreamID(c.projectNumber)

	existing, err := c.service.Users.DataSources.Get(userID, id).Context(ctx).Do()
	if err == nil {
		return existing.DataStreamId, nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		return "", errors.Wrap(err, "unable to look up data source")
	}

	c.log.Infow("creating data source", "stream", src.StreamName, "type", src.DataType.Name)
	created, err := c.service.Users.DataSources.Create(userID, toDataSource(src)).Context(ctx).Do()
	if err != nil {
		return "", errors.Wrap(err, "unable to create data source")
	}
	if created.DataStreamId == "" {
		return id, nil
	}
	return created.DataStreamId, nil
}

// ReadData aggregates into buckets when the request is bucketed and fetches
// raw datasets otherwise.
func (c *HistoryClient) ReadData(ctx context.Context, req fit.ReadRequest) (*fit.ReadResponse, error) {
	if req.Bucketed() {
		return c.aggregate(ctx, req)
	}
	return c.readDataSets(ctx, req)
}

func (c *HistoryClient) aggregate(ctx context.Context, req fit.ReadRequest) (*fit.ReadResponse, error) {
	if len(req.Aggregates) == 0 {
		return nil, errors.New("aggregate read needs at least one data type")
	}

	body := &fitness.AggregateRequest{
		BucketByTime:    &fitness.BucketByTime{DurationMillis: req.BucketDuration.Milliseconds()},
		StartTimeMillis: req.Start.UnixMilli(),
		EndTimeMillis:   req.End.UnixMilli(),
	}
	for _, agg := range req.Aggregates {
		body.AggregateBy = append(body.AggregateBy, &fitness.AggregateBy{DataTypeName: agg.Input.Name})
	}

	resp, err := c.service.Users.Dataset.Aggregate(userID, body).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "unable to aggregate history")
	}

	out := &fit.ReadResponse{}
	for _, b := range resp.Bucket {
		bucket := fit.Bucket{
			Start: time.UnixMilli(b.StartTimeMillis).UTC(),
			End:   time.UnixMilli(b.EndTimeMillis).UTC(),
		}
		for i, d := range b.Dataset {
			bucket.DataSets = append(bucket.DataSets, toDataSet(d, outputType(req, i)))
		}
		out.Buckets = append(out.Buckets, bucket)
	}
	c.log.Debugw("aggregate read", "buckets", len(out.Buckets))
	return out, nil
}

func (c *HistoryClient) readDataSets(ctx context.Context, req fit.ReadRequest) (*fit.ReadResponse, error) {
	if len(req.DataSourceIDs) == 0 {
		return nil, errors.New("raw read needs at least one data source")
	}

	datasetID := fmt.Sprintf("%d-%d", req.Start.UnixNano(), req.End.UnixNano())
	out := &fit.ReadResponse{}
	for i, sourceID := range req.DataSourceIDs {
		var merged *fitness.Dataset
		pageToken := ""
		for {
			call := c.service.Users.DataSources.Datasets.Get(userID, sourceID, datasetID).Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			page, err := call.Do()
			if err != nil {
				return nil, errors.Wrapf(err, "unable to read dataset of %s", sourceID)
			}
			if merged == nil {
				merged = page
			} else {
				merged.Point = append(merged.Point, page.Point...)
			}
			if page.NextPageToken == "" {
				break
			}
			pageToken = page.NextPageToken
		}
		out.DataSets = append(out.DataSets, toDataSet(merged, outputType(req, i)))
	}
	return out, nil
}

func outputType(req fit.ReadRequest, i int) fit.DataType {
	if i < len(req.Aggregates) {
		return req.Aggregates[i].Output
	}
	if len(req.Aggregates) > 0 {
		return req.Aggregates[0].Output
	}
	return fit.DataType{}
}

func toDataSource(src fit.DataSource) *fitness.DataSource {
	dt := &fitness.DataType{Name: src.DataType.Name}
	for _, f := range src.DataType.Fields {
		dt.Field = append(dt.Field, &fitness.DataTypeField{Name: f.Name, Format: string(f.Format)})
	}
	return &fitness.DataSource{
		Application:    &fitness.Application{PackageName: src.AppPackageName},
		DataStreamName: src.StreamName,
		DataType:       dt,
		Type:           string(src.Type),
	}
}

func toDataset(sourceID string, ds fit.DataSet) *fitness.Dataset {
	out := &fitness.Dataset{DataSourceId: sourceID}
	for i, p := range ds.Points {
		start, end := p.Start.UnixNano(), p.End.UnixNano()
		if i == 0 || start < out.MinStartTimeNs {
			out.MinStartTimeNs = start
		}
		if i == 0 || end > out.MaxEndTimeNs {
			out.MaxEndTimeNs = end
		}

		point := &fitness.DataPoint{
			DataTypeName:   p.DataType.Name,
			StartTimeNanos: start,
			EndTimeNanos:   end,
		}
		for j, f := range p.DataType.Fields {
			v := fit.Value{Format: f.Format}
			if j < len(p.Values) {
				v = p.Values[j]
			}
			point.Value = append(point.Value, toAPIValue(v))
		}
		out.Point = append(out.Point, point)
	}
	return out
}

func toAPIValue(v fit.Value) *fitness.Value {
	switch v.Format {
	case fit.FormatInteger:
		return &fitness.Value{IntVal: v.Int}
	case fit.FormatFloatPoint:
		return &fitness.Value{FpVal: v.Float}
	default:
		return &fitness.Value{StringVal: v.Str}
	}
}

// toDataSet converts an API dataset. fallback names the type the caller asked
// for; point types the registry knows override it.
func toDataSet(d *fitness.Dataset, fallback fit.DataType) fit.DataSet {
	out := fit.DataSet{DataType: fallback}
	if d == nil {
		return out
	}
	out.DataSource = parseStreamID(d.DataSourceId)
	if out.DataType.Name == "" {
		out.DataType = out.DataSource.DataType
	}

	for _, p := range d.Point {
		dt := pointType(p, fallback)
		point := fit.DataPoint{
			DataType: dt,
			Start:    time.Unix(0, p.StartTimeNanos).UTC(),
			End:      time.Unix(0, p.EndTimeNanos).UTC(),
		}
		for i, f := range dt.Fields {
			if i >= len(p.Value) {
				break
			}
			point.Values = append(point.Values, fromAPIValue(p.Value[i], f.Format))
		}
		out.Points = append(out.Points, point)
	}
	return out
}

func pointType(p *fitness.DataPoint, fallback fit.DataType) fit.DataType {
	if dt, ok := fit.LookupDataType(p.DataTypeName); ok {
		return dt
	}
	if p.DataTypeName == fallback.Name && len(fallback.Fields) > 0 {
		return fallback
	}

	dt := fit.DataType{Name: p.DataTypeName}
	for i, v := range p.Value {
		f := fit.Field{Name: fmt.Sprintf("field%d", i), Format: fit.FormatInteger}
		switch {
		case v.StringVal != "":
			f.Format = fit.FormatString
		case v.FpVal != 0:
			f.Format = fit.FormatFloatPoint
		}
		dt.Fields = append(dt.Fields, f)
	}
	return dt
}

func fromAPIValue(v *fitness.Value, format fit.FieldFormat) fit.Value {
	if v == nil {
		return fit.Value{Format: format}
	}
	switch format {
	case fit.FormatInteger:
		return fit.IntValue(v.IntVal)
	case fit.FormatFloatPoint:
		return fit.FloatValue(v.FpVal)
	default:
		return fit.StringValue(v.StringVal)
	}
}

// parseStreamID splits "type:data.type:...:stream name". The middle parts
// (project, device) are not kept.
func parseStreamID(id string) fit.DataSource {
	parts := strings.Split(id, ":")
	if len(parts) < 2 {
		return fit.DataSource{}
	}

	dt, _ := fit.LookupDataType(parts[1])
	src := fit.DataSource{Type: fit.SourceType(parts[0]), DataType: dt}
	if len(parts) > 2 {
		src.StreamName = parts[len(parts)-1]
	}
	return src
}
