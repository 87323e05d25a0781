package wireform

import (
	"os"
	"syscall"
	"time"

	gnet "github.com/panjf2000/gnet/v2"
	"go.uber.org/zap"
)

const (
	defaultMaxHeaderBytes  = 8 << 10
	defaultMaxBodyBytes    = 4 << 20
	defaultShutdownTimeout = 5 * time.Second
	defaultServerHeader    = "wireform-gnet"
)

type gnetRunConfig struct {
	maxHeaderBytes  int
	maxBodyBytes    int
	workers         int
	shutdownSignals []os.Signal
	shutdownTimeout time.Duration
	opts            []gnet.Option
	serverHeader    string
	logger          *zap.Logger
}

func defaultGNetRunConfig() gnetRunConfig {
	return gnetRunConfig{
		maxHeaderBytes:  defaultMaxHeaderBytes,
		maxBodyBytes:    defaultMaxBodyBytes,
		shutdownSignals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		shutdownTimeout: defaultShutdownTimeout,
		serverHeader:    defaultServerHeader,
		logger:          zap.NewNop(),
	}
}

// GNetRunOption configures RunGNet behaviour.
type GNetRunOption func(*gnetRunConfig)

// WithGNetMaxHeaderBytes sets the maximum allowed header size for incoming requests.
func WithGNetMaxHeaderBytes(n int) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		if n > 0 {
			cfg.maxHeaderBytes = n
		}
	}
}

// WithGNetMaxBodyBytes sets the maximum allowed body size for incoming requests.
func WithGNetMaxBodyBytes(n int) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		if n > 0 {
			cfg.maxBodyBytes = n
		}
	}
}

// WithGNetWorkers moves request handling off the event loops onto a worker
// pool of the given size. Zero keeps handling on the loops.
func WithGNetWorkers(n int) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithGNetShutdownSignals overrides the OS signals that trigger graceful shutdown.
func WithGNetShutdownSignals(signals ...os.Signal) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		if len(signals) > 0 {
			cfg.shutdownSignals = signals
		}
	}
}

// WithGNetShutdownTimeout overrides the graceful shutdown timeout.
func WithGNetShutdownTimeout(d time.Duration) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		if d > 0 {
			cfg.shutdownTimeout = d
		}
	}
}

// WithGNetServerHeader overrides the default Server response header.
func WithGNetServerHeader(header string) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		if header != "" {
			cfg.serverHeader = header
		}
	}
}

// WithGNetLogger overrides the logger handed to the event engine and handler.
func WithGNetLogger(l *zap.Logger) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithGNetOption forwards a gnet.Option to the underlying event engine.
func WithGNetOption(opt gnet.Option) GNetRunOption {
	return func(cfg *gnetRunConfig) {
		cfg.opts = append(cfg.opts, opt)
	}
}
