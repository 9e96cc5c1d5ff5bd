package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout     = 5 * time.Second
	defaultWriteTimeout = 60 * time.Second
	writeTimeoutMargin  = 15 * time.Second
)

// Option configures Run.
type Option func(*http.Server)

// WithWriteTimeout overrides the response write timeout. Zero disables it.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *http.Server) { s.WriteTimeout = d }
}

// WriteTimeoutFor returns a write timeout that outlasts a contact
// submission bounded by submit. An unbounded submission gets no write
// timeout.
func WriteTimeoutFor(submit time.Duration) time.Duration {
	if submit <= 0 {
		return 0
	}
	return max(defaultWriteTimeout, submit+writeTimeoutMargin)
}

// NewEngine returns a gin engine with recovery and request logging.
func NewEngine(mode string, log *slog.Logger) *gin.Engine {
	gin.SetMode(mode)
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))
	return r
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, log *slog.Logger, opts ...Option) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(srv)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
