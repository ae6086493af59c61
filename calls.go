package grpcfake

import "iter"

// Unary returns a builder for a unary call answering with response.
func Unary[Res any](response *Res) *UnaryBuilder[Res] {
	return NewUnaryBuilder(Ready(response))
}

// UnaryFrom returns a builder for a unary call answering with the value of
// response.
func UnaryFrom[Res any](response *Future[*Res]) *UnaryBuilder[Res] {
	return NewUnaryBuilder(response)
}

// ClientStreaming returns a builder for a client streaming call recording
// requests into requests and answering with response.
func ClientStreaming[Req, Res any](requests *StreamWriter[*Req], response *Res) *ClientStreamingBuilder[Req, Res] {
	return NewClientStreamingBuilder(requests, Ready(response))
}

// ClientStreamingFrom returns a builder for a client streaming call recording
// requests into requests and answering with the value of response.
func ClientStreamingFrom[Req, Res any](requests *StreamWriter[*Req], response *Future[*Res]) *ClientStreamingBuilder[Req, Res] {
	return NewClientStreamingBuilder(requests, response)
}

// ServerStreaming returns a builder for a server streaming call replaying
// responses in order.
func ServerStreaming[Res any](responses ...*Res) *ServerStreamingBuilder[Res] {
	return NewServerStreamingBuilder(StreamReaderOf(responses...))
}

// ServerStreamingSeq returns a builder for a server streaming call replaying
// the responses yielded by seq.
func ServerStreamingSeq[Res any](seq iter.Seq[*Res]) *ServerStreamingBuilder[Res] {
	return NewServerStreamingBuilder(NewStreamReader(seq))
}

// ServerStreamingFrom returns a builder for a server streaming call replaying
// responses from r.
func ServerStreamingFrom[Res any](r *StreamReader[*Res]) *ServerStreamingBuilder[Res] {
	return NewServerStreamingBuilder(r)
}

// BidiStreaming returns a builder for a bidirectional streaming call
// recording requests into requests and replaying responses in order.
func BidiStreaming[Req, Res any](requests *StreamWriter[*Req], responses ...*Res) *BidiStreamingBuilder[Req, Res] {
	mustNotBeNil(requests == nil, "requests")
	return NewBidiStreamingBuilder(requests, StreamReaderOf(responses...))
}

// BidiStreamingFrom returns a builder for a bidirectional streaming call
// recording requests into requests and replaying responses from r.
func BidiStreamingFrom[Req, Res any](requests *StreamWriter[*Req], r *StreamReader[*Res]) *BidiStreamingBuilder[Req, Res] {
	return NewBidiStreamingBuilder(requests, r)
}
