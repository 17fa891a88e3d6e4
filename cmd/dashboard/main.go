// Command dashboard serves the interactive energy forecast page.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/go-powercast"
	"github.com/aouyang1/go-powercast/dashboard"
	"github.com/aouyang1/go-powercast/internal/cli"
)

func main() {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	common := cli.RegisterCommon(fs)
	fs.Parse(os.Args[1:])

	cfg, err := common.Load(fs)
	if err != nil {
		cli.Fatal("unable to load config", err)
	}

	prof, err := common.StartProfile()
	if err != nil {
		cli.Fatal("unable to start profile", err)
	}
	defer prof.Stop()

	rt, err := powercast.Setup(cfg)
	if err != nil {
		cli.Fatal("unable to set up forecaster", err)
	}

	srv, err := dashboard.New(rt.Forecaster, rt.LastTime(), &dashboard.Options{
		DefaultHorizon: cfg.Forecast.DefaultHorizon,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		Metrics:        cfg.Server.Metrics,
		AccessLog:      os.Stderr,
		Holidays:       rt.Holidays,
	})
	if err != nil {
		cli.Fatal("unable to create dashboard", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			prof.Stop()
			cli.Fatal("dashboard stopped", err)
		}
		return
	case <-quit:
	}

	slog.Info("shutting down dashboard")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("unable to shut down dashboard cleanly", "error", err.Error())
	}
}
