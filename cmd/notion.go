package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/model"
)

var notionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Sync engagements to the Notion engagement database",
}

var notionSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create or update the Notion page for one or all engagements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "notion")
		if err != nil {
			return err
		}
		defer env.Close()

		id, _ := cmd.Flags().GetString("id")
		all, _ := cmd.Flags().GetBool("all")
		status, _ := cmd.Flags().GetString("status")

		switch {
		case id != "":
			pageID, err := env.Notion.Sync(ctx, id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, pageID)
		case all:
			n, err := env.Notion.SyncAll(ctx, model.EngagementFilter{Status: model.EngagementStatus(status), Limit: 500})
			if err != nil {
				return err
			}
			zap.L().Info("notion: sync complete", zap.Int("pages", n))
		default:
			return eris.New("one of --id or --all is required")
		}
		return nil
	},
}

func init() {
	notionSyncCmd.Flags().String("id", "", "engagement ID to sync")
	notionSyncCmd.Flags().Bool("all", false, "sync every engagement")
	notionSyncCmd.Flags().String("status", "", "with --all, only engagements with this status")

	notionCmd.AddCommand(notionSyncCmd)
	rootCmd.AddCommand(notionCmd)
}
