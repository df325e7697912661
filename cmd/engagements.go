package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/discovery-cli/internal/intake"
	"github.com/sells-group/discovery-cli/internal/model"
)

var engagementsCmd = &cobra.Command{
	Use:     "engagements",
	Aliases: []string{"eng"},
	Short:   "Create and inspect engagements",
	Long:    "Commands for storing assessment responses as engagements and inspecting their status.",
}

// -- engagements create --

var engagementsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Store every respondent in a file as a pending engagement",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "store")
		if err != nil {
			return err
		}
		defer env.Close()

		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")
		company, _ := cmd.Flags().GetString("company")
		email, _ := cmd.Flags().GetString("email")
		pass1, _ := cmd.Flags().GetBool("pass1")

		respondents, err := intake.LoadRespondents(file)
		if err != nil {
			return eris.Wrap(err, "engagements create")
		}
		if len(respondents) == 1 {
			applyClientOverrides(&respondents[0].Client, name, company, email)
		}

		for _, r := range respondents {
			e, err := env.Store.CreateEngagement(ctx, r.Client, r.Responses)
			if err != nil {
				return eris.Wrap(err, "engagements create")
			}
			if pass1 {
				if _, err := env.Generator.Pass1(ctx, e.ID); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintln(os.Stdout, e.ID)
		}
		return nil
	},
}

// -- engagements list --

var engagementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List engagements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "store")
		if err != nil {
			return err
		}
		defer env.Close()

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		filter := model.EngagementFilter{Status: model.EngagementStatus(status), Limit: limit, Offset: offset}
		if filter.Status != "" && !filter.Status.Valid() {
			return eris.Errorf("unknown status %q", status)
		}

		engagements, err := env.Store.ListEngagements(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "engagements list")
		}

		if len(engagements) == 0 {
			fmt.Fprintln(os.Stderr, "No engagements found.")
			return nil
		}

		formatEngagementsList(os.Stdout, engagements)
		return nil
	},
}

// -- engagements show --

var engagementsShowCmd = &cobra.Command{
	Use:   "show <engagement-id>",
	Short: "Show an engagement with its trigger audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "store")
		if err != nil {
			return err
		}
		defer env.Close()

		e, err := env.Store.GetEngagement(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "engagements show")
		}
		triggers, err := env.Store.ListTriggers(ctx, e.ID)
		if err != nil {
			return eris.Wrap(err, "engagements show")
		}

		return writeJSON(os.Stdout, struct {
			*model.Engagement
			Triggers []model.TriggerRecord `json:"triggers"`
		}{e, triggers})
	},
}

func init() {
	engagementsCreateCmd.Flags().String("file", "", "respondent file (json, yaml, csv or xlsx)")
	engagementsCreateCmd.Flags().String("name", "", "client name (single-respondent files only)")
	engagementsCreateCmd.Flags().String("company", "", "client company (single-respondent files only)")
	engagementsCreateCmd.Flags().String("email", "", "client email (single-respondent files only)")
	engagementsCreateCmd.Flags().Bool("pass1", false, "run pass 1 immediately")
	_ = engagementsCreateCmd.MarkFlagRequired("file")

	engagementsListCmd.Flags().String("status", "", "filter by status (pending, pass1_complete, pass2_complete, failed, ...)")
	engagementsListCmd.Flags().Int("limit", 50, "max number of engagements to display")
	engagementsListCmd.Flags().Int("offset", 0, "number of engagements to skip")

	engagementsCmd.AddCommand(engagementsCreateCmd)
	engagementsCmd.AddCommand(engagementsListCmd)
	engagementsCmd.AddCommand(engagementsShowCmd)
	rootCmd.AddCommand(engagementsCmd)
}

func applyClientOverrides(c *model.Client, name, company, email string) {
	if name != "" {
		c.Name = name
	}
	if company != "" {
		c.Company = company
	}
	if email != "" {
		c.Email = email
	}
}

// formatEngagementsList writes a tabular list of engagements to out.
func formatEngagementsList(out io.Writer, engagements []model.Engagement) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCLIENT\tCOMPANY\tSTATUS\tCREATED\tNOTION")
	for _, e := range engagements {
		notion := "-"
		if e.NotionPageID != "" {
			notion = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Client.Name,
			e.Client.Company,
			e.Status,
			e.CreatedAt.Local().Format(time.DateTime),
			notion,
		)
	}
	_ = w.Flush()
}
