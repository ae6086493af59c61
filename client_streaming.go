package grpcfake

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ClientStreamingCall is a fake streamed request, single response call.
type ClientStreamingCall[Req, Res any] struct {
	*callState

	requests *StreamWriter[*Req]
	response *Future[*Res]
}

var _ grpc.ClientStreamingClient[struct{}, struct{}] = (*ClientStreamingCall[struct{}, struct{}])(nil)

// Requests returns the writer that records the requests sent on the call.
func (c *ClientStreamingCall[Req, Res]) Requests() *StreamWriter[*Req] {
	return c.requests
}

// Response returns the future producing the response message.
func (c *ClientStreamingCall[Req, Res]) Response() *Future[*Res] {
	return c.response
}

// Send records req.
func (c *ClientStreamingCall[Req, Res]) Send(req *Req) error {
	return c.requests.Write(context.Background(), req)
}

// SendMsg records m, which must be a *Req.
func (c *ClientStreamingCall[Req, Res]) SendMsg(m any) error {
	req, err := asMessage[Req](m)
	if err != nil {
		return err
	}
	return c.Send(req)
}

// CloseSend completes the request writer.
func (c *ClientStreamingCall[Req, Res]) CloseSend() error {
	return c.requests.Complete(context.Background())
}

// CloseAndRecv completes the request writer and waits for the response. It
// returns the status error of the call when the status is not OK.
func (c *ClientStreamingCall[Req, Res]) CloseAndRecv() (*Res, error) {
	if err := c.CloseSend(); err != nil {
		return nil, err
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return c.response.Await(context.Background())
}

// RecvMsg waits for the response and copies it into m.
func (c *ClientStreamingCall[Req, Res]) RecvMsg(m any) error {
	if err := c.err(); err != nil {
		return err
	}
	res, err := c.response.Await(context.Background())
	if err != nil {
		return err
	}
	return copyMessage(m, res)
}

// ClientStreamingBuilder builds a [ClientStreamingCall].
type ClientStreamingBuilder[Req, Res any] struct {
	result   callResult
	requests *StreamWriter[*Req]
	response *Future[*Res]
}

// NewClientStreamingBuilder returns a builder for a client streaming call
// recording requests into requests and answering with response. It panics if
// either argument is nil.
func NewClientStreamingBuilder[Req, Res any](requests *StreamWriter[*Req], response *Future[*Res]) *ClientStreamingBuilder[Req, Res] {
	mustNotBeNil(requests == nil, "requests")
	mustNotBeNil(response == nil, "response")

	return &ClientStreamingBuilder[Req, Res]{
		result:   newCallResult(),
		requests: requests,
		response: response,
	}
}

// WithResponseHeaders sets the response headers.
func (b *ClientStreamingBuilder[Req, Res]) WithResponseHeaders(md metadata.MD) *ClientStreamingBuilder[Req, Res] {
	b.result.setHeaders(md)
	return b
}

// WithResponseHeadersFuture sets the future producing the response headers.
func (b *ClientStreamingBuilder[Req, Res]) WithResponseHeadersFuture(f *Future[metadata.MD]) *ClientStreamingBuilder[Req, Res] {
	b.result.setHeadersFuture(f)
	return b
}

// WithStatus sets the status of the call.
func (b *ClientStreamingBuilder[Req, Res]) WithStatus(st *status.Status) *ClientStreamingBuilder[Req, Res] {
	b.result.setStatus(st)
	return b
}

// WithStatusFunc sets the function producing the status of the call.
func (b *ClientStreamingBuilder[Req, Res]) WithStatusFunc(fn func() *status.Status) *ClientStreamingBuilder[Req, Res] {
	b.result.setStatusFunc(fn)
	return b
}

// WithTrailers sets the trailing metadata.
func (b *ClientStreamingBuilder[Req, Res]) WithTrailers(md metadata.MD) *ClientStreamingBuilder[Req, Res] {
	b.result.setTrailers(md)
	return b
}

// WithTrailersFunc sets the function producing the trailing metadata.
func (b *ClientStreamingBuilder[Req, Res]) WithTrailersFunc(fn func() metadata.MD) *ClientStreamingBuilder[Req, Res] {
	b.result.setTrailersFunc(fn)
	return b
}

// WithCloseFunc sets the function run when the call is closed.
func (b *ClientStreamingBuilder[Req, Res]) WithCloseFunc(fn func()) *ClientStreamingBuilder[Req, Res] {
	b.result.setClose(fn)
	return b
}

// Build returns a new call. Calls built from the same builder share its
// request writer.
func (b *ClientStreamingBuilder[Req, Res]) Build() *ClientStreamingCall[Req, Res] {
	return &ClientStreamingCall[Req, Res]{
		callState: newCallState(b.result),
		requests:  b.requests,
		response:  b.response,
	}
}
