package wireform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/panjf2000/ants/v2"
	gnet "github.com/panjf2000/gnet/v2"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
)

type gnetHTTPHandler struct {
	gnet.BuiltinEventEngine

	router          *Router
	maxHeaderBytes  int
	maxBodyBytes    int
	shutdownSignals []os.Signal
	shutdownTimeout time.Duration
	serverHeader    string
	log             *zap.Logger

	engine  gnet.Engine
	bufPool *bytebufferpool.Pool
	workers *ants.Pool
}

func newGNetHTTPHandler(r *Router, cfg gnetRunConfig) (*gnetHTTPHandler, error) {
	h := &gnetHTTPHandler{
		router:          r,
		maxHeaderBytes:  cfg.maxHeaderBytes,
		maxBodyBytes:    cfg.maxBodyBytes,
		shutdownSignals: cfg.shutdownSignals,
		shutdownTimeout: cfg.shutdownTimeout,
		serverHeader:    cfg.serverHeader,
		log:             cfg.logger,
		bufPool:         &bytebufferpool.Pool{},
	}
	if cfg.workers > 0 {
		// Nonblocking so a saturated pool sheds load instead of stalling the
		// event loops.
		pool, err := ants.NewPool(cfg.workers, ants.WithNonblocking(true))
		if err != nil {
			return nil, err
		}
		h.workers = pool
	}
	return h, nil
}

func (h *gnetHTTPHandler) OnBoot(engine gnet.Engine) (action gnet.Action) {
	h.engine = engine
	if len(h.shutdownSignals) > 0 {
		go h.handleSignals()
	}
	return gnet.None
}

func (h *gnetHTTPHandler) OnShutdown(gnet.Engine) {
	if h.workers != nil {
		h.workers.Release()
	}
}

func (h *gnetHTTPHandler) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, h.shutdownSignals...)
	sig := <-sigCh
	h.log.Info("gnet shutting down", zap.String("signal", sig.String()))
	timeout := h.shutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := h.engine.Stop(ctx); err != nil {
		h.log.Error("gnet stop", zap.Error(err))
	}
}

func (h *gnetHTTPHandler) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	c.SetContext(&gnetConnContext{})
	return nil, gnet.None
}

func (h *gnetHTTPHandler) OnClose(c gnet.Conn, err error) (action gnet.Action) {
	if ctx, ok := c.Context().(*gnetConnContext); ok {
		ctx.reset()
	}
	return gnet.None
}

func (h *gnetHTTPHandler) OnTraffic(c gnet.Conn) gnet.Action {
	ctx, _ := c.Context().(*gnetConnContext)
	if ctx == nil {
		ctx = &gnetConnContext{}
		c.SetContext(ctx)
	}

	if n := c.InboundBuffered(); n > 0 {
		data, err := c.Next(n)
		if err != nil {
			h.writeError(c, http.StatusInternalServerError, "read error")
			return gnet.Close
		}
		ctx.append(data)
	}

	if h.workers != nil {
		return h.serveAsync(c, ctx)
	}
	return h.serveLoop(c, ctx)
}

// serveLoop handles every complete buffered request on the event loop.
func (h *gnetHTTPHandler) serveLoop(c gnet.Conn, ctx *gnetConnContext) gnet.Action {
	for len(ctx.buf) > 0 {
		req, consumed, closeAfter, err := parseHTTPRequest(ctx.buf, h.maxHeaderBytes, h.maxBodyBytes)
		if err != nil {
			if errors.Is(err, errNeedMoreData) {
				break
			}
			h.writeError(c, errorStatus(err), err.Error())
			return gnet.Close
		}

		req.RemoteAddr = c.RemoteAddr().String()

		writer := acquireGNetResponseWriter(h.bufPool)
		writer.serverHdr = h.serverHeader
		h.router.ServeHTTP(writer, req)
		_ = req.Body.Close()

		respBuf := h.bufPool.Get()
		respBuf.Reset()
		respBuf, shouldClose := writer.finalize(req, closeAfter, respBuf)
		if _, err := c.Write(respBuf.Bytes()); err != nil {
			h.bufPool.Put(respBuf)
			releaseGNetResponseWriter(h.bufPool, writer)
			return gnet.Close
		}
		h.bufPool.Put(respBuf)
		releaseGNetResponseWriter(h.bufPool, writer)

		ctx.discard(consumed)

		if shouldClose {
			return gnet.Close
		}
	}
	return gnet.None
}

// serveAsync hands one request at a time to the worker pool. Pipelined
// requests stay buffered until the in-flight response's write callback wakes
// the connection again.
func (h *gnetHTTPHandler) serveAsync(c gnet.Conn, ctx *gnetConnContext) gnet.Action {
	if ctx.inflight || len(ctx.buf) == 0 {
		return gnet.None
	}
	req, consumed, closeAfter, err := parseHTTPRequest(ctx.buf, h.maxHeaderBytes, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, errNeedMoreData) {
			return gnet.None
		}
		h.writeError(c, errorStatus(err), err.Error())
		return gnet.Close
	}

	req.RemoteAddr = c.RemoteAddr().String()
	ctx.discard(consumed)
	ctx.inflight = true

	if err := h.workers.Submit(func() { h.handleOffLoop(c, req, closeAfter) }); err != nil {
		ctx.inflight = false
		h.log.Warn("worker pool rejected request", zap.Error(err))
		h.writeError(c, http.StatusServiceUnavailable, "server overloaded")
		return gnet.Close
	}
	return gnet.None
}

func (h *gnetHTTPHandler) handleOffLoop(c gnet.Conn, req *http.Request, closeAfter bool) {
	writer := acquireGNetResponseWriter(h.bufPool)
	writer.serverHdr = h.serverHeader
	h.router.ServeHTTP(writer, req)
	_ = req.Body.Close()

	respBuf := h.bufPool.Get()
	respBuf.Reset()
	respBuf, shouldClose := writer.finalize(req, closeAfter, respBuf)
	releaseGNetResponseWriter(h.bufPool, writer)

	err := c.AsyncWrite(respBuf.Bytes(), func(conn gnet.Conn, err error) error {
		h.bufPool.Put(respBuf)
		if err != nil || shouldClose {
			return conn.Close()
		}
		if cc, ok := conn.Context().(*gnetConnContext); ok {
			cc.inflight = false
		}
		// Pick up any pipelined request buffered while this one was in flight.
		return conn.Wake(nil)
	})
	if err != nil {
		h.bufPool.Put(respBuf)
		h.log.Error("async write", zap.Error(err))
		_ = c.Close()
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, errHeaderTooLarge):
		return http.StatusRequestHeaderFieldsTooLarge
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

func (h *gnetHTTPHandler) writeError(c gnet.Conn, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	body := []byte(msg + "\n")
	buf := h.bufPool.Get()
	buf.Reset()
	fmt.Fprintf(buf, "HTTP/1.1 %d %s%s", status, http.StatusText(status), crlf)
	fmt.Fprintf(buf, "Content-Type: text/plain; charset=utf-8%s", crlf)
	fmt.Fprintf(buf, "Content-Length: %d%s", len(body), crlf)
	buf.WriteString("Connection: close\r\n")
	buf.WriteString(crlf)
	buf.Write(body)
	_, _ = c.Write(buf.Bytes())
	h.bufPool.Put(buf)
}
