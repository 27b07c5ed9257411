package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/webhookrelay/relay-go/client"
	"github.com/webhookrelay/relay-go/pkg/config"
	"github.com/webhookrelay/relay-go/pkg/config/flags"
	"github.com/webhookrelay/relay-go/pkg/logger"
	"github.com/webhookrelay/relay-go/pkg/metrics"
	"github.com/webhookrelay/relay-go/pkg/telemetry"
	"github.com/webhookrelay/relay-go/pkg/util/version"
)

const (
	exitFatal  = 1
	exitConfig = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := flags.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitConfig
	}
	if opts.ShowVersion {
		fmt.Println(version.Full())
		return 0
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitConfig
	}

	level := cfg.Log.Level
	if opts.Debug {
		level = "debug"
	}
	log, err := logger.New(os.Stderr, level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitConfig
	}
	slog.SetDefault(log)

	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.InitTracer("relayd", os.Stderr, log)
		if err != nil {
			log.Error("failed to initialize tracer", slog.String("error", err.Error()))
			return exitFatal
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	c, err := client.New(cfg.Client(),
		client.WithLogger(log),
		client.WithRecorder(m),
	)
	if err != nil {
		log.Error("invalid relay configuration", slog.String("error", err.Error()))
		return exitConfig
	}

	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, reg, func() string { return c.State().String() }, log)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = c.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("Exited.")
		return 0
	}
	log.Error("relay session terminated", slog.String("error", err.Error()))
	return exitFatal
}
