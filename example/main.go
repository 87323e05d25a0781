package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wireform/wireform/wireform"
)

var (
	configPath = flag.String("config", "", "path to TOML config file")
	addr       = flag.String("addr", "", "listen address override")
)

func main() {
	flag.Parse()

	cfg := wireform.DefaultConfig()
	if *configPath != "" {
		loaded, err := wireform.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	log, err := wireform.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	e := wireform.NewEngine()
	e.SetLogger(log)
	e.Use(wireform.Logger(log), wireform.Timeout(10*time.Second))
	if cfg.Gzip {
		e.Use(wireform.Gzip())
	}

	e.GET("/ping", PingHandler)
	e.GET("/hello/:name", func(c *wireform.Context) {
		_ = c.JSON(200, map[string]string{"hi": c.Param("name")})
	})
	e.POST("/upload", UploadHandler)
	e.POST("/echo", EchoHandler)
	e.GET("/export", ExportHandler)

	if err := e.R.Verify(); err != nil {
		log.Fatal("route table", zap.Error(err))
	}

	if err := e.RunGNet(cfg.Listen, cfg.Options()...); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
