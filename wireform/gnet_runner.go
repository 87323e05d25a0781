package wireform

import (
	"fmt"

	gnet "github.com/panjf2000/gnet/v2"
	"go.uber.org/zap"
)

// RunGNet starts an HTTP server backed by gnet and blocks until shutdown.
func (e *Engine) RunGNet(addr string, opts ...GNetRunOption) error {
	if addr == "" {
		return fmt.Errorf("missing address")
	}
	cfg := defaultGNetRunConfig()
	cfg.logger = e.log
	for _, opt := range opts {
		opt(&cfg)
	}
	e.R.SetMaxBodyBytes(cfg.maxBodyBytes)
	handler, err := newGNetHTTPHandler(e.R, cfg)
	if err != nil {
		return err
	}
	protoAddr := ensureProtoAddr(addr)
	cfg.logger.Info("gnet listening",
		zap.String("addr", protoAddr),
		zap.Int("workers", cfg.workers),
	)
	gnetOpts := append([]gnet.Option{gnet.WithLogger(cfg.logger.Sugar())}, cfg.opts...)
	return gnet.Run(handler, protoAddr, gnetOpts...)
}
