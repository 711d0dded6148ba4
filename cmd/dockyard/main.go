package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/five82/dockyard/internal/app"
	"github.com/five82/dockyard/internal/config"
	"github.com/five82/dockyard/internal/instrument"
	"github.com/five82/dockyard/internal/logging"
	"github.com/five82/dockyard/internal/platform/tty"
	"github.com/five82/dockyard/internal/resources"
	"github.com/five82/dockyard/internal/window"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	title := flag.String("title", "", "window title (optional)")
	scale := flag.Float64("scale", 0, "display content scale (optional, defaults to GDK_SCALE or 1)")
	tracePath := flag.String("trace", "", "write a Chrome trace to this file (optional)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dockyard: %v\n", err)
		return int(app.Failure)
	}
	if *title != "" {
		cfg.Title = *title
	}
	if *scale != 0 {
		cfg.DisplayScale = *scale
	}
	if *tracePath != "" {
		cfg.TracePath = *tracePath
	}
	if *logLevel != "" {
		cfg.LogLevel = strings.ToLower(*logLevel)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "dockyard: %v\n", err)
		return int(app.Failure)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Path: cfg.LogPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dockyard: %v\n", err)
		return int(app.Failure)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res := resources.Resolver{Dir: cfg.ResourceDir}
	plat := tty.New(tty.Options{
		Context:     ctx,
		Logger:      logger.Named("tty"),
		Scale:       float32(cfg.DisplayScale),
		RefreshRate: cfg.RefreshRate,
	})

	a := app.New(cfg.Title, app.Options{
		Platform: plat,
		Logger:   logger,
		Profiler: instrument.New(cfg.TracePath),
		Width:    cfg.Width,
		Height:   cfg.Height,
		Window: window.Options{
			FontPath:   res.FontPath(cfg.Font),
			LogPath:    cfg.LogPath,
			ClearColor: cfg.ClearColor,
		},
	})
	status := a.Run()
	if err := a.Close(); err != nil {
		logger.Warn("teardown failed", zap.Error(err))
	}
	if status == app.Failure {
		fmt.Fprintf(os.Stderr, "dockyard: exited with failure, see %s\n", cfg.LogPath)
	}
	return int(status)
}
