package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, done := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := a.Server(ctx)
	if a.Config.Log.Level == "debug" {
		srv.Echo.Logger.SetLevel(log.DEBUG)
	} else {
		srv.Echo.Logger.SetLevel(log.INFO)
	}

	finishedShutDown := make(chan struct{})
	go func() {
		defer close(finishedShutDown)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Shutdown failed", "error", err)
		}
	}()

	if err := srv.Start(a.Config.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		done()
		<-finishedShutDown
		return err
	}
	<-finishedShutDown
	return nil
}
