package wireform

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Engine struct {
	R          *Router
	mws        []Middleware
	httpServer *http.Server
	log        *zap.Logger
}

func NewEngine() *Engine { return &Engine{R: NewRouter(), log: zap.NewNop()} }

// SetLogger wires a logger into the engine and its router. Call it before
// registering routes so panic reports carry it.
func (e *Engine) SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	e.log = l
	e.R.SetLogger(l)
}

func (e *Engine) Use(mw ...Middleware) { e.mws = append(e.mws, mw...) }

func (e *Engine) GET(path string, h Handler)    { _ = e.R.Handle(http.MethodGet, path, h, e.mws...) }
func (e *Engine) POST(path string, h Handler)   { _ = e.R.Handle(http.MethodPost, path, h, e.mws...) }
func (e *Engine) PUT(path string, h Handler)    { _ = e.R.Handle(http.MethodPut, path, h, e.mws...) }
func (e *Engine) PATCH(path string, h Handler)  { _ = e.R.Handle(http.MethodPatch, path, h, e.mws...) }
func (e *Engine) DELETE(path string, h Handler) { _ = e.R.Handle(http.MethodDelete, path, h, e.mws...) }

// ServeHTTP just delegates to the underlying Router
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) { e.R.ServeHTTP(w, r) }

// Run starts a net/http server with graceful shutdown
func (e *Engine) Run(addr string) error {
	e.httpServer = &http.Server{Addr: addr, Handler: e, ReadHeaderTimeout: 5 * time.Second, WriteTimeout: 15 * time.Second, IdleTimeout: 60 * time.Second}
	e.log.Info("listening", zap.String("addr", addr))
	return runGraceful(e.httpServer, e.log)
}
