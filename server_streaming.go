package grpcfake

import (
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ServerStreamingCall is a fake single request, streamed response call.
type ServerStreamingCall[Res any] struct {
	*callState

	responses *StreamReader[*Res]
}

var _ grpc.ServerStreamingClient[struct{}] = (*ServerStreamingCall[struct{}])(nil)

// Responses returns the reader the responses are replayed from.
func (c *ServerStreamingCall[Res]) Responses() *StreamReader[*Res] {
	return c.responses
}

// Recv returns the next response. Once the responses are exhausted it returns
// the status error of the call, or io.EOF when the status is OK.
func (c *ServerStreamingCall[Res]) Recv() (*Res, error) {
	return recv(c.callState, c.responses)
}

// RecvMsg copies the next response into m.
func (c *ServerStreamingCall[Res]) RecvMsg(m any) error {
	return recvMsg(c.callState, c.responses, m)
}

// SendMsg is not supported once the request has been sent.
func (c *ServerStreamingCall[Res]) SendMsg(any) error {
	return invalidState("server streaming call has no request stream")
}

// CloseSend is a no-op; the single request has already been sent.
func (c *ServerStreamingCall[Res]) CloseSend() error {
	return nil
}

// Close releases the response reader and runs the close func.
func (c *ServerStreamingCall[Res]) Close() {
	c.responses.Close()
	c.callState.Close()
}

// ServerStreamingBuilder builds a [ServerStreamingCall].
type ServerStreamingBuilder[Res any] struct {
	result    callResult
	responses *StreamReader[*Res]
}

// NewServerStreamingBuilder returns a builder for a server streaming call
// replaying responses. It panics if responses is nil.
func NewServerStreamingBuilder[Res any](responses *StreamReader[*Res]) *ServerStreamingBuilder[Res] {
	mustNotBeNil(responses == nil, "responses")

	return &ServerStreamingBuilder[Res]{
		result:    newCallResult(),
		responses: responses,
	}
}

// WithResponseHeaders sets the response headers.
func (b *ServerStreamingBuilder[Res]) WithResponseHeaders(md metadata.MD) *ServerStreamingBuilder[Res] {
	b.result.setHeaders(md)
	return b
}

// WithResponseHeadersFuture sets the future producing the response headers.
func (b *ServerStreamingBuilder[Res]) WithResponseHeadersFuture(f *Future[metadata.MD]) *ServerStreamingBuilder[Res] {
	b.result.setHeadersFuture(f)
	return b
}

// WithStatus sets the status of the call.
func (b *ServerStreamingBuilder[Res]) WithStatus(st *status.Status) *ServerStreamingBuilder[Res] {
	b.result.setStatus(st)
	return b
}

// WithStatusFunc sets the function producing the status of the call.
func (b *ServerStreamingBuilder[Res]) WithStatusFunc(fn func() *status.Status) *ServerStreamingBuilder[Res] {
	b.result.setStatusFunc(fn)
	return b
}

// WithTrailers sets the trailing metadata.
func (b *ServerStreamingBuilder[Res]) WithTrailers(md metadata.MD) *ServerStreamingBuilder[Res] {
	b.result.setTrailers(md)
	return b
}

// WithTrailersFunc sets the function producing the trailing metadata.
func (b *ServerStreamingBuilder[Res]) WithTrailersFunc(fn func() metadata.MD) *ServerStreamingBuilder[Res] {
	b.result.setTrailersFunc(fn)
	return b
}

// WithCloseFunc sets the function run when the call is closed.
func (b *ServerStreamingBuilder[Res]) WithCloseFunc(fn func()) *ServerStreamingBuilder[Res] {
	b.result.setClose(fn)
	return b
}

// Build returns a new call. Calls built from the same builder share its
// response reader.
func (b *ServerStreamingBuilder[Res]) Build() *ServerStreamingCall[Res] {
	return &ServerStreamingCall[Res]{
		callState: newCallState(b.result),
		responses: b.responses,
	}
}

func recv[Res any](c *callState, r *StreamReader[*Res]) (*Res, error) {
	msg, err := r.Recv()
	if err == io.EOF {
		if err := c.err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return msg, err
}

func recvMsg[Res any](c *callState, r *StreamReader[*Res], m any) error {
	msg, err := recv(c, r)
	if err != nil {
		return err
	}
	return copyMessage(m, msg)
}
