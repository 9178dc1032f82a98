package google

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/sheets/v4"

	"github.com/digitaldrywood/fitsession/internal/fit"
)

// SheetsExporter appends one row per daily bucket to a spreadsheet.
type SheetsExporter struct {
	service       *sheets.Service
	spreadsheetID string
	sheetRange    string
}

func NewSheetsExporter(service *sheets.Service, spreadsheetID, sheetRange string) *SheetsExporter {
	return &SheetsExporter{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
	}
}

// AppendBuckets writes (date, steps) rows and returns how many were written.
// Bucketless responses export nothing.
func (s *SheetsExporter) AppendBuckets(ctx context.Context, resp *fit.ReadResponse) (int, error) {
	if resp == nil || len(resp.Buckets) == 0 {
		return 0, nil
	}

	values := make([][]interface{}, 0, len(resp.Buckets))
	for _, b := range resp.Buckets {
		values = append(values, []interface{}{
			b.Start.Format("2006-01-02"),
			fit.BucketTotal(b, fit.FieldSteps),
		})
	}

	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetRange,
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, errors.Wrap(err, "unable to append data to sheet")
	}

	return len(values), nil
}
