package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/export"
	"github.com/sells-group/discovery-cli/internal/intake"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/report"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single assessment response file",
	Long:  "Reads a JSON or YAML response file, runs the scoring engine and prints the service scores, detected patterns and data completeness.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("score"); err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		responses, err := intake.LoadFile(file)
		if err != nil {
			return eris.Wrap(err, "score")
		}

		r := report.NewConfig(cfg).Build("", responses)
		zap.L().Debug("score: complete",
			zap.String("file", file),
			zap.Int("recommended", len(r.Primary)+len(r.Secondary)),
		)

		if format == formatTable && output == "" {
			formatScoreDetail(os.Stdout, r)
			return nil
		}
		return writeRows([]export.Row{{Engagement: model.Engagement{}, Report: r}}, format, output)
	},
}

func init() {
	scoreCmd.Flags().String("file", "", "path to a JSON or YAML response file")
	scoreCmd.Flags().String("format", formatTable, "output format (table, json, csv, xlsx)")
	scoreCmd.Flags().String("output", "", "output path (default stdout)")
	_ = scoreCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(scoreCmd)
}
