package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv, os.Getwd, os.Args[1:]); err != nil {
		slog.Error("Server stopped with error", "error", err.Error())
		os.Exit(1)
	}
}

// Config sources by priority: flags, environment, '.env' file, defaults
func run(ctx context.Context, getenv func(string) string, getwd func() (string, error), args []string) error {
	c := NewConfig()

	if err := c.LoadDotEnv(getwd); err != nil {
		return err
	}
	if err := c.LoadEnv(getenv); err != nil {
		return err
	}
	if err := c.ParseFlags(args); err != nil {
		return err
	}

	srv, err := NewServerApp(ctx, c)
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
