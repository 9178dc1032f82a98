// Package session runs the fit workflow: make sure the user granted the
// declared capabilities, insert one step sample, read back the last week
// and show it.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/digitaldrywood/fitsession/internal/fit"
)

const (
	MsgSignInError = "There was an error signing into Fit. Please ask the owner of this app to grant you access for using this app, then Restart it."

	MsgCreatingInsert = "Creating a new data insert request."
	MsgInserting      = "Inserting data into the History API..."
	MsgInsertOK       = "Data insert was successful!"
	MsgInsertFailed   = "There was a problem inserting the dataset."
	MsgReadFailed     = "There was a problem reading the data."

	rangeDateLayout = "Jan 2, 2006"
)

type Options struct {
	Authorizer   Authorizer
	History      HistoryClient
	Display      Display
	Journal      Journal
	Capabilities fit.Capabilities
	Source       fit.DataSource
	Steps        int64
	// ProjectNumber keys the application data source on the platform.
	ProjectNumber string
	// RawRead reads the inserted source without bucketing instead of the
	// aggregated weekly history.
	RawRead bool
	Now     func() time.Time
	Logger  *zap.SugaredLogger
}

type Session struct {
	auth          Authorizer
	history       HistoryClient
	display       Display
	journal       Journal
	caps          fit.Capabilities
	source        fit.DataSource
	steps         int64
	projectNumber string
	rawRead       bool
	now           func() time.Time
	log           *zap.SugaredLogger
}

func New(opts Options) *Session {
	s := &Session{
		auth:          opts.Authorizer,
		history:       opts.History,
		display:       opts.Display,
		journal:       opts.Journal,
		caps:          opts.Capabilities,
		source:        opts.Source,
		steps:         opts.Steps,
		projectNumber: opts.ProjectNumber,
		rawRead:       opts.RawRead,
		now:           opts.Now,
		log:           opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	return s
}

// Outcome reports the insert and the read as separate results. The read is
// attempted whether or not the insert succeeded.
type Outcome struct {
	Authorized bool
	InsertErr  error
	ReadErr    error
	Response   *fit.ReadResponse
}

func (o *Outcome) Err() error {
	return multierr.Combine(o.InsertErr, o.ReadErr)
}

// Run checks authorization and either proceeds straight to insert and read or
// asks the user for consent first.
func (s *Session) Run(ctx context.Context) (*Outcome, error) {
	ok, err := s.CheckAuthorization(ctx)
	if err != nil {
		s.log.Warnw("permission check failed, requesting consent", "error", err)
	}
	if ok {
		return s.insertAndRead(ctx), nil
	}
	return s.RequestAuthorization(ctx)
}

// CheckAuthorization asks the platform whether the capability set is granted.
func (s *Session) CheckAuthorization(ctx context.Context) (bool, error) {
	ok, err := s.auth.HasPermissions(ctx, s.caps)
	if err != nil {
		return false, err
	}
	s.log.Debugw("permission check", "granted", ok, "capabilities", s.caps.String())
	return ok, nil
}

// RequestAuthorization blocks until the consent flow delivers a result, then
// continues as OnPermissionResult.
func (s *Session) RequestAuthorization(ctx context.Context) (*Outcome, error) {
	s.log.Infow("requesting permissions", "capabilities", s.caps.String())
	res, err := s.auth.RequestPermissions(ctx, s.caps)
	if err != nil {
		s.log.Errorw("permission request failed", "error", err)
		res = PermissionResult{Code: ResultError}
	}
	return s.OnPermissionResult(ctx, res)
}

// OnPermissionResult resumes the workflow after consent. Anything but
// ResultOK ends the session with the sign-in error message.
func (s *Session) OnPermissionResult(ctx context.Context, res PermissionResult) (*Outcome, error) {
	if res.Code != ResultOK {
		s.log.Warnw("permission not granted", "result", res.Code.String())
		s.display.SetText(MsgSignInError)
		return &Outcome{}, ErrAuthorizationDenied
	}
	return s.insertAndRead(ctx), nil
}

func (s *Session) insertAndRead(ctx context.Context) *Outcome {
	out := &Outcome{Authorized: true}
	out.InsertErr = s.InsertSample(ctx)
	out.Response, out.ReadErr = s.ReadHistory(ctx)
	return out
}

// InsertSample writes one step sample covering the hour ending now.
func (s *Session) InsertSample(ctx context.Context) error {
	s.display.SetText(MsgCreatingInsert)
	ds := fit.NewStepSample(s.source, s.steps, s.now())

	s.display.SetText(MsgInserting)
	err := s.history.InsertData(ctx, ds)
	s.recordInsert(ctx, ds, err)
	if err != nil {
		s.log.Errorw("insert failed", "error", err)
		s.display.SetText(fmt.Sprintf("%s %v", MsgInsertFailed, err))
		return &RequestFailedError{Op: "insert", Cause: err}
	}

	s.log.Infow("inserted sample", "steps", s.steps, "source", s.source.StreamName)
	s.display.SetText(MsgInsertOK)
	return nil
}

// ReadHistory reads the trailing week and replaces the display with the
// formatted response.
func (s *Session) ReadHistory(ctx context.Context) (*fit.ReadResponse, error) {
	req := s.readRequest()

	s.display.SetText("Range Start: " + req.Start.Local().Format(rangeDateLayout))
	s.display.SetText("Range End: " + req.End.Local().Format(rangeDateLayout))

	resp, err := s.history.ReadData(ctx, req)
	s.recordRead(ctx, req, resp, err)
	if err != nil {
		s.log.Errorw("read failed", "error", err)
		s.display.SetText(fmt.Sprintf("%s %v", MsgReadFailed, err))
		return nil, &RequestFailedError{Op: "read", Cause: err}
	}

	s.show(resp)
	return resp, nil
}

func (s *Session) readRequest() fit.ReadRequest {
	now := s.now()
	if s.rawRead {
		return fit.NewRawReadRequest(s.source.StreamID(s.projectNumber), now)
	}
	return fit.NewHistoryRequest(now)
}

func (s *Session) show(resp *fit.ReadResponse) {
	switch {
	case resp == nil:
	case len(resp.Buckets) > 0:
		s.display.SetText(fmt.Sprintf("Number of returned buckets of DataSets is: \t%d", len(resp.Buckets)))
		s.display.SetText(fit.FormatResponse(resp))
		return
	case len(resp.DataSets) > 0:
		s.display.SetText(fmt.Sprintf("Number of returned DataSets is:\t %d", len(resp.DataSets)))
		s.display.SetText(fit.FormatResponse(resp))
		return
	}
	s.log.Infow("read returned no data")
}

func (s *Session) recordInsert(ctx context.Context, ds fit.DataSet, insertErr error) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordInsert(ctx, ds, insertErr); err != nil {
		s.log.Warnw("journal insert record failed", "error", err)
	}
}

func (s *Session) recordRead(ctx context.Context, req fit.ReadRequest, resp *fit.ReadResponse, readErr error) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordRead(ctx, req, resp, readErr); err != nil {
		s.log.Warnw("journal read record failed", "error", err)
	}
}
