package grpcfake

import (
	"context"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// StatusOK is the status reported by a fake call unless a builder overrides
// it.
var StatusOK = status.New(codes.OK, "")

// callResult holds the parts of a call that do not depend on its shape. None
// of its fields is ever nil.
type callResult struct {
	headers  *Future[metadata.MD]
	status   func() *status.Status
	trailers func() metadata.MD
	close    func()
}

func newCallResult() callResult {
	return callResult{
		headers:  Ready(metadata.MD{}),
		status:   func() *status.Status { return StatusOK },
		trailers: func() metadata.MD { return metadata.MD{} },
		close:    func() {},
	}
}

func (r *callResult) setHeaders(md metadata.MD) {
	mustNotBeNil(md == nil, "headers")
	r.headers = Ready(md)
}

func (r *callResult) setHeadersFuture(f *Future[metadata.MD]) {
	mustNotBeNil(f == nil, "headers")
	r.headers = f
}

func (r *callResult) setStatus(st *status.Status) {
	mustNotBeNil(st == nil, "status")
	r.status = func() *status.Status { return st }
}

func (r *callResult) setStatusFunc(fn func() *status.Status) {
	mustNotBeNil(fn == nil, "status func")
	r.status = fn
}

func (r *callResult) setTrailers(md metadata.MD) {
	mustNotBeNil(md == nil, "trailers")
	r.trailers = func() metadata.MD { return md }
}

func (r *callResult) setTrailersFunc(fn func() metadata.MD) {
	mustNotBeNil(fn == nil, "trailers func")
	r.trailers = fn
}

func (r *callResult) setClose(fn func()) {
	mustNotBeNil(fn == nil, "close func")
	r.close = fn
}

// callState is embedded by every call object.
type callState struct {
	result    callResult
	closeOnce sync.Once
}

func newCallState(r callResult) *callState {
	return &callState{result: r}
}

// ResponseHeaders returns the future producing the response headers.
func (c *callState) ResponseHeaders() *Future[metadata.MD] {
	return c.result.headers
}

// Header waits for the response headers.
func (c *callState) Header() (metadata.MD, error) {
	return c.result.headers.Await(context.Background())
}

// Status returns the status of the call.
func (c *callState) Status() *status.Status {
	return c.result.status()
}

// Trailer returns the trailing metadata of the call.
func (c *callState) Trailer() metadata.MD {
	return c.result.trailers()
}

// Context returns the background context; fake calls are never cancelled.
func (c *callState) Context() context.Context {
	return context.Background()
}

// Close releases the call. The close func runs at most once per call.
func (c *callState) Close() {
	c.closeOnce.Do(c.result.close)
}

// err returns the status error of the call, or nil when it is OK.
func (c *callState) err() error {
	return c.Status().Err()
}
