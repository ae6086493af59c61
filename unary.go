package grpcfake

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryCall is a fake single request, single response call.
type UnaryCall[Res any] struct {
	*callState

	response *Future[*Res]
}

// Response returns the future producing the response message.
func (c *UnaryCall[Res]) Response() *Future[*Res] {
	return c.response
}

// Invoke completes the call the way a generated client method would. It
// waits for the response, fills any [grpc.Header] and [grpc.Trailer] call
// options and returns the status error when the status is not OK.
//
// A fake client can therefore implement a unary method as:
//
//	func (c *fakeClient) Get(ctx context.Context, in *pb.GetRequest, opts ...grpc.CallOption) (*pb.Item, error) {
//		return c.call.Invoke(ctx, opts...)
//	}
func (c *UnaryCall[Res]) Invoke(ctx context.Context, opts ...grpc.CallOption) (*Res, error) {
	header, err := c.ResponseHeaders().Await(ctx)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		switch o := opt.(type) {
		case grpc.HeaderCallOption:
			if o.HeaderAddr != nil {
				*o.HeaderAddr = header
			}
		case grpc.TrailerCallOption:
			if o.TrailerAddr != nil {
				*o.TrailerAddr = c.Trailer()
			}
		}
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	return c.response.Await(ctx)
}

// UnaryBuilder builds a [UnaryCall].
type UnaryBuilder[Res any] struct {
	result   callResult
	response *Future[*Res]
}

// NewUnaryBuilder returns a builder for a unary call whose response is
// produced by response. It panics if response is nil.
func NewUnaryBuilder[Res any](response *Future[*Res]) *UnaryBuilder[Res] {
	mustNotBeNil(response == nil, "response")

	return &UnaryBuilder[Res]{
		result:   newCallResult(),
		response: response,
	}
}

// WithResponseHeaders sets the response headers.
func (b *UnaryBuilder[Res]) WithResponseHeaders(md metadata.MD) *UnaryBuilder[Res] {
	b.result.setHeaders(md)
	return b
}

// WithResponseHeadersFuture sets the future producing the response headers.
func (b *UnaryBuilder[Res]) WithResponseHeadersFuture(f *Future[metadata.MD]) *UnaryBuilder[Res] {
	b.result.setHeadersFuture(f)
	return b
}

// WithStatus sets the status of the call.
func (b *UnaryBuilder[Res]) WithStatus(st *status.Status) *UnaryBuilder[Res] {
	b.result.setStatus(st)
	return b
}

// WithStatusFunc sets the function producing the status of the call.
func (b *UnaryBuilder[Res]) WithStatusFunc(fn func() *status.Status) *UnaryBuilder[Res] {
	b.result.setStatusFunc(fn)
	return b
}

// WithTrailers sets the trailing metadata.
func (b *UnaryBuilder[Res]) WithTrailers(md metadata.MD) *UnaryBuilder[Res] {
	b.result.setTrailers(md)
	return b
}

// WithTrailersFunc sets the function producing the trailing metadata.
func (b *UnaryBuilder[Res]) WithTrailersFunc(fn func() metadata.MD) *UnaryBuilder[Res] {
	b.result.setTrailersFunc(fn)
	return b
}

// WithCloseFunc sets the function run when the call is closed.
func (b *UnaryBuilder[Res]) WithCloseFunc(fn func()) *UnaryBuilder[Res] {
	b.result.setClose(fn)
	return b
}

// Build returns a new call. It does not run any of the configured functions.
func (b *UnaryBuilder[Res]) Build() *UnaryCall[Res] {
	return &UnaryCall[Res]{
		callState: newCallState(b.result),
		response:  b.response,
	}
}
