package grpcfake_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	testpb "google.golang.org/grpc/interop/grpc_testing"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/tomasbasham/grpcfake"
	"github.com/tomasbasham/grpcfake/examples/payload/server"
)

func Example_integration() {
	s := grpcfake.NewServer()
	defer s.Stop()

	testpb.RegisterTestServiceServer(s, &server.PayloadServer{Name: "example"})
	s.Serve()

	conn, err := s.ClientConn()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create connection: %v", err)
		return
	}
	defer conn.Close()

	client := testpb.NewTestServiceClient(conn)
	resp, err := client.UnaryCall(context.Background(), &testpb.SimpleRequest{
		Payload: &testpb.Payload{Body: []byte("Hello, world")},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "unexpected error: %v", err)
		return
	}

	fmt.Println(string(resp.GetPayload().GetBody()))
	// Output:
	// Hello, world
}

func ExampleServer_Err() {
	s := grpcfake.NewServer()
	s.Serve()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	fmt.Println("waiting for server to stop...")
	if err := s.Err(); err != nil && err != grpc.ErrServerStopped {
		// Handle server error.
	}
	fmt.Println("server stopped")
	// Output:
	// waiting for server to stop...
	// server stopped
}

func ExampleUnary() {
	call := grpcfake.Unary(&testpb.SimpleResponse{Username: "gopher"}).
		WithStatus(status.New(codes.PermissionDenied, "denied")).
		Build()
	defer call.Close()

	_, err := call.Invoke(context.Background())
	fmt.Println(status.Code(err), status.Convert(err).Message())
	// Output:
	// PermissionDenied denied
}

func ExampleServerStreaming() {
	a, b, c := "a", "b", "c"
	call := grpcfake.ServerStreaming(&a, &b, &c).
		WithTrailers(metadata.Pairs("x-count", "3")).
		Build()
	defer call.Close()

	for {
		msg, err := call.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		fmt.Println(*msg)
	}
	fmt.Println(call.Trailer().Get("x-count"))
	// Output:
	// a
	// b
	// c
	// [3]
}

func ExampleClientStreaming() {
	requests := grpcfake.NewStreamWriter[*string]()
	response := "R"

	call := grpcfake.ClientStreaming(requests, &response).Build()
	defer call.Close()

	m1, m2 := "m1", "m2"
	call.Send(&m1) //nolint:errcheck
	call.Send(&m2) //nolint:errcheck

	resp, _ := call.CloseAndRecv()
	for msg := range requests.All() {
		fmt.Println(*msg)
	}
	fmt.Println(*resp)
	// Output:
	// m1
	// m2
	// R
}
