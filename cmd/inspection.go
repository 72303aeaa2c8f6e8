/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"kingjoe/internal/bootstrap"
	"kingjoe/internal/bootstrap/logging"
	domain "kingjoe/internal/domain/inspection"
	"kingjoe/internal/errs"
	"kingjoe/internal/interfaces/httpapi"
	"kingjoe/internal/usecase/inspection"
)

var inspectionCmd = &cobra.Command{
	Use:   "inspection",
	Short: "Read and change production order inspections",
}

var inspectionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the inspection of an order, or the raw order when not inspected",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		orderCode, _ := cmd.Flags().GetString("order")
		raw, _ := cmd.Flags().GetBool("raw")

		var (
			order *domain.Order
			err   error
		)
		if raw {
			order, err = svc.GetProductionOrder(cmd.Context(), orderCode)
		} else {
			order, err = svc.GetOrder(cmd.Context(), orderCode)
		}
		if err != nil {
			return err
		}
		return writeInspectionJSON(cmd.OutOrStdout(), httpapi.NewOrderResponse(order))
	}),
}

var inspectionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open an inspection for a production order",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		orderCode, _ := cmd.Flags().GetString("order")
		userID, _ := cmd.Flags().GetUint64("user")

		order, err := svc.CreateInspection(cmd.Context(), inspection.CreateInspectionInput{
			OrderCode: orderCode,
			UserID:    userID,
		})
		if err != nil {
			return err
		}
		return writeInspectionJSON(cmd.OutOrStdout(), httpapi.NewOrderResponse(order))
	}),
}

var inspectionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the inspection of a production order",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		orderCode, _ := cmd.Flags().GetString("order")

		order, err := svc.DeleteInspection(cmd.Context(), orderCode)
		if err != nil {
			return err
		}
		return writeInspectionJSON(cmd.OutOrStdout(), httpapi.NewOrderResponse(order))
	}),
}

var inspectionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Change the status of an inspection",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *inspection.Service) error {
		orderCode, _ := cmd.Flags().GetString("order")
		status, _ := cmd.Flags().GetString("status")
		userID, _ := cmd.Flags().GetUint64("user")

		stamp, err := svc.UpdateStatus(cmd.Context(), inspection.UpdateStatusInput{
			OrderCode: orderCode,
			Status:    status,
			UserID:    userID,
		})
		if err != nil {
			return err
		}

		logging.Info(cmd.Context(), "inspection status updated", slog.String("order_code", orderCode), slog.String("status", status))
		return writeInspectionJSON(cmd.OutOrStdout(), map[string]string{"modification_timestamp": stamp})
	}),
}

func writeInspectionJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return errs.Wrap(err, "write inspection output")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(inspectionCmd)
	inspectionCmd.AddCommand(inspectionShowCmd, inspectionCreateCmd, inspectionDeleteCmd, inspectionStatusCmd)

	inspectionCmd.PersistentFlags().String("order", "", "Production order code")
	_ = inspectionCmd.MarkPersistentFlagRequired("order")

	inspectionShowCmd.Flags().Bool("raw", false, "Show the production order projection even when an inspection exists")
	inspectionCreateCmd.Flags().Uint64("user", 0, "Id of the user opening the inspection")
	inspectionStatusCmd.Flags().Uint64("user", 0, "Id of the user changing the status")
	inspectionStatusCmd.Flags().String("status", "", "Target status: Pendente, Andamento, Encerrada or Finalizada")
	_ = inspectionCreateCmd.MarkFlagRequired("user")
	_ = inspectionStatusCmd.MarkFlagRequired("user")
	_ = inspectionStatusCmd.MarkFlagRequired("status")
}
