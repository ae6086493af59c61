package grpcfake

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// bufferSize is the default size of the buffered connection.
var bufferSize int64 = 1 << 20 // 1 MiB

// SetBufferSize sets the default buffer size for new servers. Must be called
// before creating any servers. Thread-safe.
func SetBufferSize(size int) {
	if size <= 0 {
		panic("grpcfake: buffer size must be positive")
	}
	atomic.StoreInt64(&bufferSize, int64(size))
}

// getBufferSize returns the current buffer size.
func getBufferSize() int {
	return int(atomic.LoadInt64(&bufferSize))
}

type serverConfig struct {
	bufferSize int
	logger     *zap.Logger
	opts       []grpc.ServerOption
}

// Option configures a [Server].
type Option func(*serverConfig)

// WithBufferSize overrides the default buffer size for a single server.
func WithBufferSize(size int) Option {
	if size <= 0 {
		panic("grpcfake: buffer size must be positive")
	}
	return func(c *serverConfig) {
		c.bufferSize = size
	}
}

// WithLogger logs every call handled by the server to l.
func WithLogger(l *zap.Logger) Option {
	mustNotBeNil(l == nil, "logger")
	return func(c *serverConfig) {
		c.logger = l
	}
}

// WithServerOptions passes opts to [grpc.NewServer].
func WithServerOptions(opts ...grpc.ServerOption) Option {
	return func(c *serverConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// Server is a gRPC server listening on a buffered in-memory connection.
type Server struct {
	*grpc.Server

	logger    *zap.Logger
	listener  *bufconn.Listener
	size      int
	once      sync.Once
	serveErr  error
	serveDone chan struct{}
}

// NewServer creates a new in-memory test gRPC server. Services must be
// registered before calling [Server.Serve].
func NewServer(opts ...Option) *Server {
	cfg := serverConfig{
		bufferSize: getBufferSize(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Logging interceptors run before any the caller installs.
	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(unaryLogger(cfg.logger)),
		grpc.ChainStreamInterceptor(streamLogger(cfg.logger)),
	}, cfg.opts...)

	return &Server{
		Server:    grpc.NewServer(serverOpts...),
		logger:    cfg.logger,
		listener:  bufconn.Listen(cfg.bufferSize),
		size:      cfg.bufferSize,
		serveDone: make(chan struct{}),
	}
}

// Serve begins serving the gRPC server. Safe to call multiple times.
func (s *Server) Serve() {
	s.once.Do(func() {
		s.logger.Debug("serving", zap.String("buffer", humanize.IBytes(uint64(s.size))))
		go func() {
			s.serveErr = s.Server.Serve(s.listener)
			close(s.serveDone)
		}()
	})
}

// Err blocks until [Server.Serve] completes and returns any error. Useful for
// detecting serve failures in tests.
//
// Example:
//
//	go func() {
//	    if err := s.Err(); err != nil && err != grpc.ErrServerStopped {
//	        t.Errorf("server error: %v", err)
//	    }
//	}()
func (s *Server) Err() error {
	<-s.serveDone
	return s.serveErr
}

// Close shuts down the server and closes the listener.
func (s *Server) Close() {
	s.Stop()
	if err := s.listener.Close(); err != nil {
		s.logger.Debug("closing listener", zap.Error(err))
	}
}

// CloseOnCleanup registers the server to be closed automatically when the test
// ends.
func (s *Server) CloseOnCleanup(t testing.TB) {
	t.Cleanup(s.Close)
}

// ClientConn returns a gRPC client connection to the test server.
//
// The connection is configured to dial the server's in-memory listener.
// Additional [grpc.DialOptions] may be provided but the ContextDialer is fixed
// and cannot be overridden.
func (s *Server) ClientConn(opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	return s.ClientConnContext(context.Background(), opts...)
}

// ClientConnContext returns a gRPC client connection to the test server.
//
// The connection is configured to dial the server's in-memory listener.
// Additional [grpc.DialOptions] may be provided but the ContextDialer is fixed
// and cannot be overridden.
func (s *Server) ClientConnContext(ctx context.Context, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)

	// Use a custom dialer that dials the bufconn listener.
	opts = append(opts, grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return s.listener.Dial()
	}))

	conn, err := grpc.NewClient("passthrough:///test", opts...)
	if err != nil {
		return nil, err
	}

	// Drive the connection out of idle and wait until ready.
	conn.Connect()

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return conn, nil
		}
		if !conn.WaitForStateChange(connCtx, state) {
			conn.Close()
			return nil, connCtx.Err()
		}
	}
}

func unaryLogger(l *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(l, info.FullMethod, start, err)
		return resp, err
	}
}

func streamLogger(l *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logCall(l, info.FullMethod, start, err)
		return err
	}
}

func logCall(l *zap.Logger, method string, start time.Time, err error) {
	l.Info("handled call",
		zap.String("method", method),
		zap.Stringer("code", status.Code(err)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
