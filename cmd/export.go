package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/export"
	"github.com/sells-group/discovery-cli/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored engagements and their scores",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "store")
		if err != nil {
			return err
		}
		defer env.Close()

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		rows, err := export.Collect(ctx, env.Store, model.EngagementFilter{
			Status: model.EngagementStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export: writing", zap.Int("rows", len(rows)), zap.String("format", format))
		return writeRows(rows, format, output)
	},
}

func init() {
	exportCmd.Flags().String("format", formatCSV, "output format (table, json, csv, xlsx)")
	exportCmd.Flags().String("output", "", "output path (default stdout)")
	exportCmd.Flags().String("status", "", "only export engagements with this status")
	exportCmd.Flags().Int("limit", 500, "max number of engagements")
	rootCmd.AddCommand(exportCmd)
}
