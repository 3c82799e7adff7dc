package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// stubServer blocks in Start until Shutdown, and takes drain to finish
// shutting down.
type stubServer struct {
	closed      chan struct{}
	drain       time.Duration
	startErr    error
	shutdownErr error
	drained     atomic.Bool
}

func newStubServer() *stubServer {
	return &stubServer{closed: make(chan struct{})}
}

func (s *stubServer) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.closed
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(ctx context.Context) error {
	close(s.closed)
	select {
	case <-time.After(s.drain):
		s.drained.Store(true)
		return s.shutdownErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestServe_WaitsForShutdown(t *testing.T) {
	srv := newStubServer()
	srv.drain = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := serve(ctx, srv, time.Second); err != nil {
		t.Fatalf("serve() error = %v", err)
	}
	if !srv.drained.Load() {
		t.Error("serve returned before shutdown finished draining")
	}
}

func TestServe_Errors(t *testing.T) {
	listenErr := errors.New("address already in use")

	tests := []struct {
		name    string
		setup   func(*stubServer)
		cancel  bool
		timeout time.Duration
		wantErr error
	}{
		{
			name:    "start fails",
			setup:   func(s *stubServer) { s.startErr = listenErr },
			timeout: time.Second,
			wantErr: listenErr,
		},
		{
			name:    "drain exceeds timeout",
			setup:   func(s *stubServer) { s.drain = time.Second },
			cancel:  true,
			timeout: 20 * time.Millisecond,
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newStubServer()
			tt.setup(srv)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}

			err := serve(ctx, srv, tt.timeout)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("serve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
