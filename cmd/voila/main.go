package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/idleartist/voila"
	"github.com/idleartist/voila/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "voila: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := voila.LoadConfig(args)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogMode, cfg.Debug)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	app, err := voila.New(cfg, voila.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(); err != nil {
			log.Warnw("cleanup failed", "error", err)
		}
	}()

	res := app.Resolution()
	log.Infow("template resolution",
		"template", res.TemplateName,
		"template_paths", res.TemplatePaths,
		"static_paths", res.StaticPaths,
		"conversion_paths", res.ConversionPaths,
	)
	server := &http.Server{
		Addr:    app.Addr(),
		Handler: app.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("voila listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
