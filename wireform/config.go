package wireform

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config describes the TOML configuration of a server binary. Zero values
// fall back to the package defaults; DefaultConfig spells those out.
type Config struct {
	Listen          string    `toml:"listen"`
	ServerHeader    string    `toml:"server-header"`
	MaxHeaderBytes  int       `toml:"max-header-bytes"`
	MaxBodyBytes    int       `toml:"max-body-bytes"`
	Workers         int       `toml:"workers"`
	Gzip            bool      `toml:"gzip"`
	ShutdownTimeout Duration  `toml:"shutdown-timeout"`
	Logging         LogConfig `toml:"logging"`
}

// Duration decodes TOML strings like "5s" or "1m30s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func DefaultConfig() Config {
	return Config{
		Listen:          ":8080",
		ServerHeader:    defaultServerHeader,
		MaxHeaderBytes:  defaultMaxHeaderBytes,
		MaxBodyBytes:    defaultMaxBodyBytes,
		ShutdownTimeout: Duration{defaultShutdownTimeout},
		Logging:         LogConfig{Level: "info"},
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error
// so typos surface at startup instead of silently keeping a default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}

// Options bridges the file configuration onto RunGNet's functional options.
func (c Config) Options() []GNetRunOption {
	var opts []GNetRunOption
	if c.MaxHeaderBytes > 0 {
		opts = append(opts, WithGNetMaxHeaderBytes(c.MaxHeaderBytes))
	}
	if c.MaxBodyBytes > 0 {
		opts = append(opts, WithGNetMaxBodyBytes(c.MaxBodyBytes))
	}
	if c.Workers > 0 {
		opts = append(opts, WithGNetWorkers(c.Workers))
	}
	if c.ServerHeader != "" {
		opts = append(opts, WithGNetServerHeader(c.ServerHeader))
	}
	if c.ShutdownTimeout.Duration > 0 {
		opts = append(opts, WithGNetShutdownTimeout(c.ShutdownTimeout.Duration))
	}
	return opts
}
