package wireform

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Middleware func(Handler) Handler

func chain(mws ...Middleware) func(Handler) Handler {
	return func(h Handler) Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}

// Recover turns handler panics into a logged 500 response. The router applies
// this to every route on its own; the exported form exists for composing
// standalone handler chains.
func Recover(log *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(c *Context) {
			defer recoverPanic(log, c)
			next(c)
		}
	}
}

func recoverPanic(log *zap.Logger, c *Context) {
	if v := recover(); v != nil {
		log.Error("handler panic",
			zap.Any("panic", v),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		_ = c.JSON(http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

// Logger records one structured entry per completed request.
func Logger(log *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(c *Context) {
			start := time.Now()
			next(c)
			log.Info("request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("route", c.Route),
				zap.Int("status", c.Status()),
				zap.Int("bytes", c.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		}
	}
}

type timeoutWriter struct {
	http.ResponseWriter
	timedOut atomic.Bool
}

func (tw *timeoutWriter) markTimedOut() bool {
	return tw.timedOut.CompareAndSwap(false, true)
}
func (tw *timeoutWriter) WriteHeader(code int) {
	if tw.timedOut.Load() {
		return
	}
	tw.ResponseWriter.WriteHeader(code)
}
func (tw *timeoutWriter) Write(p []byte) (int, error) {
	if tw.timedOut.Load() {
		return 0, http.ErrHandlerTimeout
	}
	return tw.ResponseWriter.Write(p)
}

func Timeout(d time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(c *Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), d)
			defer cancel()

			tw := &timeoutWriter{ResponseWriter: c.Writer}

			// The handler runs on a detached context; a late finisher must not
			// touch the pooled one after the router has reused it.
			inner := &Context{
				Writer:  tw,
				Request: c.Request.WithContext(ctx),
				Route:   c.Route,
				maxBody: c.maxBody,
			}
			inner.params = append(inner.pbuf[:0], c.params...)

			done := make(chan struct{}, 1)
			go func() {
				next(inner)
				done <- struct{}{} // 通知完成
			}()

			select {
			case <-done:
				return
			case <-ctx.Done():
				if tw.markTimedOut() {
					// Handler writes are suppressed from here on; the timeout
					// response goes straight to the underlying writer.
					_ = (&Context{Writer: tw.ResponseWriter, Request: c.Request}).
						JSON(http.StatusGatewayTimeout, map[string]string{"error": "timeout"})
				}
				return
			}
		}
	}
}
