package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/discovery-cli/internal/scorer"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Inspect the service catalogue and the scoring ruleset",
}

var catalogueServicesCmd = &cobra.Command{
	Use:   "services [code]",
	Short: "List advisory services, or show one by code",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services := scorer.Services()
		if len(args) == 1 {
			def, ok := scorer.LookupService(scorer.ServiceCode(args[0]))
			if !ok {
				return eris.Errorf("unknown service %q", args[0])
			}
			services = []scorer.ServiceDefinition{def}
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeJSON(os.Stdout, services)
		}
		formatServices(os.Stdout, services)
		return nil
	},
}

var catalogueQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the response keys the scoring rules read",
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, q := range scorer.ScoredQuestions() {
			_, _ = fmt.Fprintln(os.Stdout, q)
		}
		_, _ = fmt.Fprintf(os.Stderr, "ruleset %s\n", scorer.RulesetHash())
		return nil
	},
}

var catalogueKeywordsCmd = &cobra.Command{
	Use:   "keywords <set>",
	Short: "Print a named keyword set (exit, burnout, capital, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		kws := scorer.KeywordSet(args[0])
		if kws == nil {
			return eris.Errorf("unknown keyword set %q", args[0])
		}
		for _, kw := range kws {
			_, _ = fmt.Fprintln(os.Stdout, kw)
		}
		return nil
	},
}

func init() {
	catalogueServicesCmd.Flags().Bool("json", false, "print as JSON")

	catalogueCmd.AddCommand(catalogueServicesCmd)
	catalogueCmd.AddCommand(catalogueQuestionsCmd)
	catalogueCmd.AddCommand(catalogueKeywordsCmd)
	rootCmd.AddCommand(catalogueCmd)
}

func formatServices(out io.Writer, services []scorer.ServiceDefinition) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CODE\tNAME")
	for _, s := range services {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", s.Code, s.Name)
	}
	_ = w.Flush()
}
