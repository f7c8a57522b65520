// Package main provides the entry point for tessplay, a player for
// vector animation bundles rendered with Ebiten and scripted with Golua.
package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-tessplay/internal/config"
	"github.com/opd-ai/go-tessplay/internal/profiling"
	"github.com/opd-ai/go-tessplay/internal/render"
	"github.com/opd-ai/go-tessplay/pkg/tessplay"
)

// Version is the current version of tessplay.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if cli.version {
		fmt.Printf("tessplay version %s\n", Version)
		return 0
	}

	logger := newLogger(cli.logLevel, cli.jsonLogs)

	cfg, err := loadConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	if err := config.ValidateConfigStrict(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	// Initialize profiling if requested
	profConfig := profiling.Config{
		CPUProfilePath: cli.cpuProfile,
		MemProfilePath: cli.memProfile,
		TracePath:      cli.trace,
	}
	profiler := profiling.New(profConfig)

	if profConfig.ProfilingEnabled() {
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cli.memWatch {
		monitor := profiling.NewHeapMonitor(profiling.DefaultMonitorConfig(), logger.Slog())
		go monitor.Run(ctx)
	}

	metrics := tessplay.NewMetrics()
	metrics.RegisterExpvar()
	if cli.metricsAddr != "" {
		addr, err := serveMetrics(ctx, cli.metricsAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to serve metrics: %v\n", err)
			return 1
		}
		logger.Info("serving metrics", "addr", addr)
	}

	p, err := tessplay.New(cfg.Bundle.Path, playerOptions(cfg, logger, metrics))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bundle: %v\n", err)
		return 1
	}
	defer p.Close()
	if expvar.Get("tessplay_health") == nil {
		expvar.Publish("tessplay_health", expvar.Func(func() any { return p.Health() }))
	}

	p.SetErrorHandler(func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	})

	stopSignals := handleSignals(p, cancel, logger)
	defer stopSignals()

	logger.Info("tessplay starting", "version", Version, "bundle", cfg.Bundle.Path)
	if err := p.Run(ctx, renderConfig(cfg)); err != nil && !errors.Is(err, render.ErrGameTerminated) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// handleSignals reloads the bundle on SIGHUP and cancels the game on
// SIGINT or SIGTERM. The returned function stops signal delivery.
func handleSignals(p *tessplay.Player, cancel context.CancelFunc, logger tessplay.Logger) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading bundle")
					if err := p.Reload(); err != nil {
						logger.Error("reload failed", "error", err)
					}
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				cancel()
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// serveMetrics publishes the expvar handler on addr until ctx is done. It
// returns the bound address.
func serveMetrics(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	srv := &http.Server{Handler: mux}

	go srv.Serve(ln)
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	return ln.Addr().String(), nil
}
