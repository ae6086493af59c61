// Package grpcfake provides fake gRPC calls and in-memory stream doubles for
// testing gRPC clients and servers.
//
// Code under test that talks to a generated gRPC client can be given calls
// built from fixed values instead of a running server. Each of the four call
// shapes has a builder that seeds sensible defaults (empty headers, an OK
// status, empty trailers and a no-op close) and lets a test override them:
//
//	call := grpcfake.ServerStreaming(&pb.Item{Name: "a"}, &pb.Item{Name: "b"}).
//		WithTrailers(metadata.Pairs("x-count", "2")).
//		Build()
//
// The built calls implement the generic streaming interfaces of package grpc
// ([grpc.ServerStreamingClient], [grpc.ClientStreamingClient] and
// [grpc.BidiStreamingClient]) so they can be returned from a fake client
// directly.
//
// The stream doubles never block. Operations that look asynchronous accept a
// [context.Context] for signature compatibility but complete immediately and
// never inspect it, so tests must not rely on them for concurrency behaviour.
//
// For end-to-end tests the package also provides [Server], an in-memory gRPC
// server listening on a buffered connection, which mirrors the design of
// [httptest.Server].
package grpcfake
