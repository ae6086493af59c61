package grpcfake

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// ServerStream is the server side of a stream, for calling streaming handlers
// directly in unit tests.
//
// Requests are replayed from a [StreamReader] and responses are recorded into
// a [StreamWriter]. The same value satisfies the server interfaces of all
// three streaming shapes.
type ServerStream[Req, Res any] struct {
	serverMetadata

	ctx       context.Context
	requests  *StreamReader[*Req]
	responses *StreamWriter[*Res]
}

var (
	_ grpc.ServerStreamingServer[struct{}]           = (*ServerStream[struct{}, struct{}])(nil)
	_ grpc.ClientStreamingServer[struct{}, struct{}] = (*ServerStream[struct{}, struct{}])(nil)
	_ grpc.BidiStreamingServer[struct{}, struct{}]   = (*ServerStream[struct{}, struct{}])(nil)
)

// NewServerStream returns a server stream bound to ctx that replays requests.
func NewServerStream[Req, Res any](ctx context.Context, requests ...*Req) *ServerStream[Req, Res] {
	return NewServerStreamFrom[Req, Res](ctx, StreamReaderOf(requests...))
}

// NewServerStreamFrom returns a server stream bound to ctx that replays
// requests from r. It panics if ctx or r is nil.
func NewServerStreamFrom[Req, Res any](ctx context.Context, r *StreamReader[*Req]) *ServerStream[Req, Res] {
	mustNotBeNil(ctx == nil, "ctx")
	mustNotBeNil(r == nil, "requests")

	return &ServerStream[Req, Res]{
		ctx:       ctx,
		requests:  r,
		responses: NewStreamWriter[*Res](),
		serverMetadata: serverMetadata{
			header:  metadata.MD{},
			trailer: metadata.MD{},
		},
	}
}

// Context returns the context the stream was created with.
func (s *ServerStream[Req, Res]) Context() context.Context {
	return s.ctx
}

// Recv returns the next request, or io.EOF once the requests are exhausted.
func (s *ServerStream[Req, Res]) Recv() (*Req, error) {
	return s.requests.Recv()
}

// RecvMsg copies the next request into m.
func (s *ServerStream[Req, Res]) RecvMsg(m any) error {
	req, err := s.Recv()
	if err != nil {
		return err
	}
	return copyMessage(m, req)
}

// Send records res. Sending implicitly sends the header.
func (s *ServerStream[Req, Res]) Send(res *Res) error {
	if err := s.responses.Write(s.ctx, res); err != nil {
		return err
	}
	s.headerSent = true
	return nil
}

// SendMsg records m, which must be a *Res.
func (s *ServerStream[Req, Res]) SendMsg(m any) error {
	res, err := asMessage[Res](m)
	if err != nil {
		return err
	}
	return s.Send(res)
}

// SendAndClose records res and completes the response stream.
func (s *ServerStream[Req, Res]) SendAndClose(res *Res) error {
	if err := s.Send(res); err != nil {
		return err
	}
	return s.responses.Complete(s.ctx)
}

// SetHeader merges md into the header. It fails once the header was sent.
func (s *ServerStream[Req, Res]) SetHeader(md metadata.MD) error {
	return s.setHeader(md)
}

// SendHeader merges md into the header and marks it as sent. It may only be
// called once.
func (s *ServerStream[Req, Res]) SendHeader(md metadata.MD) error {
	return s.sendHeader(md)
}

// SetTrailer merges md into the trailer.
func (s *ServerStream[Req, Res]) SetTrailer(md metadata.MD) {
	s.setTrailer(md)
}

// Responses returns the writer the responses are recorded into.
func (s *ServerStream[Req, Res]) Responses() *StreamWriter[*Res] {
	return s.responses
}

// Close releases the request reader.
func (s *ServerStream[Req, Res]) Close() {
	s.requests.Close()
}

// UnaryServerStream records the metadata a unary handler sets with
// [grpc.SetHeader], [grpc.SendHeader] and [grpc.SetTrailer].
type UnaryServerStream struct {
	serverMetadata

	method string
}

var _ grpc.ServerTransportStream = (*UnaryServerStream)(nil)

// NewUnaryServerStream returns a stream for the given full method name.
func NewUnaryServerStream(method string) *UnaryServerStream {
	return &UnaryServerStream{
		method: method,
		serverMetadata: serverMetadata{
			header:  metadata.MD{},
			trailer: metadata.MD{},
		},
	}
}

// NewContext returns a copy of parent carrying s, for passing to a unary
// handler called directly.
func (s *UnaryServerStream) NewContext(parent context.Context) context.Context {
	return grpc.NewContextWithServerTransportStream(parent, s)
}

// Method returns the full method name.
func (s *UnaryServerStream) Method() string {
	return s.method
}

// SetHeader merges md into the header. It fails once the header was sent.
func (s *UnaryServerStream) SetHeader(md metadata.MD) error {
	return s.setHeader(md)
}

// SendHeader merges md into the header and marks it as sent.
func (s *UnaryServerStream) SendHeader(md metadata.MD) error {
	return s.sendHeader(md)
}

// SetTrailer merges md into the trailer.
func (s *UnaryServerStream) SetTrailer(md metadata.MD) error {
	s.setTrailer(md)
	return nil
}

// serverMetadata tracks the header and trailer set by a handler.
type serverMetadata struct {
	header     metadata.MD
	trailer    metadata.MD
	headerSent bool
}

func (m *serverMetadata) setHeader(md metadata.MD) error {
	if m.headerSent {
		return invalidState("header already sent")
	}
	m.header = metadata.Join(m.header, md)
	return nil
}

func (m *serverMetadata) sendHeader(md metadata.MD) error {
	if err := m.setHeader(md); err != nil {
		return err
	}
	m.headerSent = true
	return nil
}

func (m *serverMetadata) setTrailer(md metadata.MD) {
	m.trailer = metadata.Join(m.trailer, md)
}

// Header returns the header set by the handler.
func (m *serverMetadata) Header() metadata.MD {
	return m.header
}

// HeaderSent reports whether the header has been sent.
func (m *serverMetadata) HeaderSent() bool {
	return m.headerSent
}

// Trailer returns the trailer set by the handler.
func (m *serverMetadata) Trailer() metadata.MD {
	return m.trailer
}
