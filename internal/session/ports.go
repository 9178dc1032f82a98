package session

import (
	"context"
	"net/url"

	"github.com/digitaldrywood/fitsession/internal/fit"
)

type ResultCode int

const (
	ResultOK ResultCode = iota
	ResultCanceled
	ResultError
)

func (c ResultCode) String() string {
	switch c {
	case ResultOK:
		return "ok"
	case ResultCanceled:
		return "canceled"
	default:
		return "error"
	}
}

// PermissionResult is what the host hands back after an interactive consent
// request. Only Code is inspected by the workflow.
type PermissionResult struct {
	Code    ResultCode
	Payload url.Values
}

type Authorizer interface {
	HasPermissions(ctx context.Context, caps fit.Capabilities) (bool, error)
	RequestPermissions(ctx context.Context, caps fit.Capabilities) (PermissionResult, error)
}

type HistoryClient interface {
	InsertData(ctx context.Context, ds fit.DataSet) error
	ReadData(ctx context.Context, req fit.ReadRequest) (*fit.ReadResponse, error)
}

// Display is the single text surface. Every call replaces the whole text.
type Display interface {
	SetText(text string)
}

// Journal records what the workflow sent and got back. It has no say in
// control flow.
type Journal interface {
	RecordInsert(ctx context.Context, ds fit.DataSet, insertErr error) error
	RecordRead(ctx context.Context, req fit.ReadRequest, resp *fit.ReadResponse, readErr error) error
}
