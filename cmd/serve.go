/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kingjoe/internal/bootstrap"
	"kingjoe/internal/bootstrap/logging"
	"kingjoe/internal/usecase/inspection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inspection HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *inspection.Service) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logging.Info(ctx, "serving inspection api", slog.String("addr", app.Config.HTTP.Addr))
		<-ctx.Done()
		logging.Info(ctx, "shutdown requested")
		return nil
	}, bootstrap.HTTPModule),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
