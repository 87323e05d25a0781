package wireform

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Listen serves the router over net/http until SIGINT/SIGTERM.
func (r *Router) Listen(addr string) error {
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second, WriteTimeout: 15 * time.Second, IdleTimeout: 60 * time.Second}
	r.log.Info("listening", zap.String("addr", addr))
	return runGraceful(srv, r.log)
}

func runGraceful(srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return multierr.Append(srv.Shutdown(ctx), flushLogger(log))
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// flushLogger syncs the logger, ignoring the errors terminals report for
// fsync.
func flushLogger(log *zap.Logger) error {
	err := log.Sync()
	if err != nil && (errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL)) {
		return nil
	}
	return err
}
