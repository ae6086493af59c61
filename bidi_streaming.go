package grpcfake

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// BidiStreamingCall is a fake call with both request and response streamed.
type BidiStreamingCall[Req, Res any] struct {
	*callState

	requests  *StreamWriter[*Req]
	responses *StreamReader[*Res]
}

var _ grpc.BidiStreamingClient[struct{}, struct{}] = (*BidiStreamingCall[struct{}, struct{}])(nil)

// Requests returns the writer that records the requests sent on the call.
func (c *BidiStreamingCall[Req, Res]) Requests() *StreamWriter[*Req] {
	return c.requests
}

// Responses returns the reader the responses are replayed from.
func (c *BidiStreamingCall[Req, Res]) Responses() *StreamReader[*Res] {
	return c.responses
}

// Send records req.
func (c *BidiStreamingCall[Req, Res]) Send(req *Req) error {
	return c.requests.Write(context.Background(), req)
}

// SendMsg records m, which must be a *Req.
func (c *BidiStreamingCall[Req, Res]) SendMsg(m any) error {
	req, err := asMessage[Req](m)
	if err != nil {
		return err
	}
	return c.Send(req)
}

// CloseSend completes the request writer.
func (c *BidiStreamingCall[Req, Res]) CloseSend() error {
	return c.requests.Complete(context.Background())
}

// Recv returns the next response. Once the responses are exhausted it returns
// the status error of the call, or io.EOF when the status is OK.
func (c *BidiStreamingCall[Req, Res]) Recv() (*Res, error) {
	return recv(c.callState, c.responses)
}

// RecvMsg copies the next response into m.
func (c *BidiStreamingCall[Req, Res]) RecvMsg(m any) error {
	return recvMsg(c.callState, c.responses, m)
}

// Close releases the response reader and runs the close func.
func (c *BidiStreamingCall[Req, Res]) Close() {
	c.responses.Close()
	c.callState.Close()
}

// BidiStreamingBuilder builds a [BidiStreamingCall].
type BidiStreamingBuilder[Req, Res any] struct {
	result    callResult
	requests  *StreamWriter[*Req]
	responses *StreamReader[*Res]
}

// NewBidiStreamingBuilder returns a builder for a bidirectional streaming call
// recording requests into requests and replaying responses. It panics if
// either argument is nil.
func NewBidiStreamingBuilder[Req, Res any](requests *StreamWriter[*Req], responses *StreamReader[*Res]) *BidiStreamingBuilder[Req, Res] {
	mustNotBeNil(requests == nil, "requests")
	mustNotBeNil(responses == nil, "responses")

	return &BidiStreamingBuilder[Req, Res]{
		result:    newCallResult(),
		requests:  requests,
		responses: responses,
	}
}

// WithResponseHeaders sets the response headers.
func (b *BidiStreamingBuilder[Req, Res]) WithResponseHeaders(md metadata.MD) *BidiStreamingBuilder[Req, Res] {
	b.result.setHeaders(md)
	return b
}

// WithResponseHeadersFuture sets the future producing the response headers.
func (b *BidiStreamingBuilder[Req, Res]) WithResponseHeadersFuture(f *Future[metadata.MD]) *BidiStreamingBuilder[Req, Res] {
	b.result.setHeadersFuture(f)
	return b
}

// WithStatus sets the status of the call.
func (b *BidiStreamingBuilder[Req, Res]) WithStatus(st *status.Status) *BidiStreamingBuilder[Req, Res] {
	b.result.setStatus(st)
	return b
}

// WithStatusFunc sets the function producing the status of the call.
func (b *BidiStreamingBuilder[Req, Res]) WithStatusFunc(fn func() *status.Status) *BidiStreamingBuilder[Req, Res] {
	b.result.setStatusFunc(fn)
	return b
}

// WithTrailers sets the trailing metadata.
func (b *BidiStreamingBuilder[Req, Res]) WithTrailers(md metadata.MD) *BidiStreamingBuilder[Req, Res] {
	b.result.setTrailers(md)
	return b
}

// WithTrailersFunc sets the function producing the trailing metadata.
func (b *BidiStreamingBuilder[Req, Res]) WithTrailersFunc(fn func() metadata.MD) *BidiStreamingBuilder[Req, Res] {
	b.result.setTrailersFunc(fn)
	return b
}

// WithCloseFunc sets the function run when the call is closed.
func (b *BidiStreamingBuilder[Req, Res]) WithCloseFunc(fn func()) *BidiStreamingBuilder[Req, Res] {
	b.result.setClose(fn)
	return b
}

// Build returns a new call. Calls built from the same builder share its
// request writer and response reader.
func (b *BidiStreamingBuilder[Req, Res]) Build() *BidiStreamingCall[Req, Res] {
	return &BidiStreamingCall[Req, Res]{
		callState: newCallState(b.result),
		requests:  b.requests,
		responses: b.responses,
	}
}
