package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zephyrtronium/arith/internal/web"
)

func main() {
	log.SetFlags(0)
	var (
		addr, native, level string
		timeout             time.Duration
		maxInput, maxDepth  int
	)
	flag.StringVar(&addr, "addr", "localhost:8080", "address to serve on")
	flag.StringVar(&native, "native", "", "path to a native evaluator binary, e.g. the arith command (optional)")
	flag.DurationVar(&timeout, "native-timeout", web.DefaultNativeTimeout, "time limit for each native evaluation")
	flag.IntVar(&maxInput, "max-input", web.DefaultMaxInput, "maximum expression length in bytes")
	flag.IntVar(&maxDepth, "max-depth", 0, "maximum nesting of parentheses and signs (0 for the default)")
	flag.StringVar(&level, "log-level", "info", "log level: debug, info, warn, or error")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		log.Fatalf("bad -log-level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	cfg := web.Config{
		MaxInput: maxInput,
		MaxDepth: maxDepth,
		Logger:   logger,
	}
	if native != "" {
		cfg.Native = &web.Native{
			Path:    native,
			Args:    web.ArithArgs,
			Timeout: timeout,
		}
		if !cfg.Native.Available() {
			logger.Warn("native evaluator not found", slog.String("path", native))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := web.NewServer(cfg).Run(ctx, addr); err != nil {
		logger.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
