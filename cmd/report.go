package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/discovery-cli/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run and inspect the report passes",
	Long:  "Pass 1 scores an engagement and stores the deterministic report. Pass 2 writes the client narrative with Claude.",
}

var reportPass1Cmd = &cobra.Command{
	Use:   "pass1 <engagement-id>",
	Short: "Score an engagement and store its report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "store")
		if err != nil {
			return err
		}
		defer env.Close()

		r, err := env.Generator.Pass1(ctx, args[0])
		if err != nil {
			return err
		}
		formatScoreDetail(os.Stdout, r)
		return nil
	},
}

var reportPass2Cmd = &cobra.Command{
	Use:   "pass2 <engagement-id>",
	Short: "Generate the client narrative for a scored engagement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "report")
		if err != nil {
			return err
		}
		defer env.Close()

		force, _ := cmd.Flags().GetBool("force")
		r, err := env.Generator.Pass2(ctx, args[0], force)
		if eris.Is(err, report.ErrIncomplete) {
			return eris.Wrap(err, "rerun with --force to generate anyway")
		}
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(os.Stdout, r.Narrative)
		_, _ = fmt.Fprintf(os.Stderr, "\nmodel=%s input=%d output=%d cost=$%.4f\n",
			r.LLMModel, r.TokenUsage.InputTokens, r.TokenUsage.OutputTokens, r.TokenUsage.Cost)
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <engagement-id>",
	Short: "Print a stored report as JSON, or its narrative as HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "store")
		if err != nil {
			return err
		}
		defer env.Close()

		r, err := env.Store.GetReport(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "report show")
		}

		asHTML, _ := cmd.Flags().GetBool("html")
		if !asHTML {
			return writeJSON(os.Stdout, r)
		}
		if r.Narrative == "" {
			return eris.Errorf("report %s has no narrative; run pass2 first", args[0])
		}
		html, err := report.RenderHTML(r.Narrative)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(os.Stdout, html)
		return err
	},
}

func init() {
	reportPass2Cmd.Flags().Bool("force", false, "generate even when data completeness is insufficient")
	reportShowCmd.Flags().Bool("html", false, "render the narrative as HTML")

	reportCmd.AddCommand(reportPass1Cmd)
	reportCmd.AddCommand(reportPass2Cmd)
	reportCmd.AddCommand(reportShowCmd)
	rootCmd.AddCommand(reportCmd)
}
