/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"kingjoe/internal/bootstrap"
	"kingjoe/internal/bootstrap/logging"
	"kingjoe/internal/errs"
	"kingjoe/internal/usecase/inspection"
)

// initDbCmd represents the initDb command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize inspection database schema",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *inspection.Service) error {
		ctx := cmd.Context()
		logging.Info(ctx, "start init-db")

		if err := app.InitSchema(ctx); err != nil {
			logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}

		version, err := app.SchemaVersion(ctx)
		if err != nil {
			return err
		}

		logging.Info(ctx, "init-db finished", slog.String("schema_version", version))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "database schema initialized (version %s)\n", version); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
