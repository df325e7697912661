package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/discovery-cli/internal/export"
	"github.com/sells-group/discovery-cli/internal/intake"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score many respondents from a CSV, XLSX, JSON or YAML file",
	Long:  "Scores every respondent concurrently and writes the results in input order. With --persist each respondent becomes an engagement with a stored Pass 1 report.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		input, _ := cmd.Flags().GetString("csv")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		persist, _ := cmd.Flags().GetBool("persist")

		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		respondents, err := intake.LoadRespondents(input)
		if err != nil {
			return eris.Wrap(err, "batch: load respondents")
		}

		scoreFn := scoreInMemory(report.NewConfig(cfg))
		if persist {
			env, err := initEnv(ctx, "store")
			if err != nil {
				return err
			}
			defer env.Close()
			scoreFn = scorePersisted(env)
		}

		rows, err := processBatch(ctx, respondents, concurrency, scoreFn)
		if err != nil {
			return err
		}
		return writeRows(rows, format, output)
	},
}

func init() {
	batchCmd.Flags().String("csv", "", "respondents file (csv, xlsx, json or yaml)")
	batchCmd.Flags().Int("concurrency", 0, "max respondents scored at once (default batch.max_concurrent)")
	batchCmd.Flags().String("format", formatCSV, "output format (table, json, csv, xlsx)")
	batchCmd.Flags().String("output", "", "output path (default stdout)")
	batchCmd.Flags().Bool("persist", false, "store each respondent as an engagement and run pass 1")
	_ = batchCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(batchCmd)
}

// scoreFunc turns one respondent into an output row.
type scoreFunc func(ctx context.Context, r intake.Respondent) (export.Row, error)

func scoreInMemory(rc report.Config) scoreFunc {
	return func(_ context.Context, r intake.Respondent) (export.Row, error) {
		e := model.Engagement{ID: r.ID, Client: r.Client, Responses: r.Responses, Status: model.EngagementStatusPass1Complete}
		return export.Row{Engagement: e, Report: rc.Build(r.ID, r.Responses)}, nil
	}
}

func scorePersisted(env *env) scoreFunc {
	return func(ctx context.Context, r intake.Respondent) (export.Row, error) {
		e, err := env.Store.CreateEngagement(ctx, r.Client, r.Responses)
		if err != nil {
			return export.Row{}, eris.Wrap(err, "batch: create engagement")
		}
		rep, err := env.Generator.Pass1(ctx, e.ID)
		if err != nil {
			return export.Row{}, err
		}
		e.Status = model.EngagementStatusPass1Complete
		return export.Row{Engagement: *e, Report: rep}, nil
	}
}

// processBatch scores respondents with at most concurrency in flight.
// Results keep input order. A failed respondent is logged and left with a
// nil report; only cancellation aborts the batch.
func processBatch(ctx context.Context, respondents []intake.Respondent, concurrency int, score scoreFunc) ([]export.Row, error) {
	rows := make([]export.Row, len(respondents))
	if len(respondents) == 0 {
		zap.L().Info("batch: no respondents found")
		return rows, nil
	}

	zap.L().Info("batch: processing",
		zap.Int("respondents", len(respondents)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))

	var succeeded, failed atomic.Int64

	for i, r := range respondents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := score(gctx, r)
			if err != nil {
				failed.Add(1)
				zap.L().Error("batch: respondent failed", zap.Int("row", i+1), zap.String("id", r.ID), zap.Error(err))
				rows[i] = export.Row{Engagement: model.Engagement{ID: r.ID, Client: r.Client, Status: model.EngagementStatusFailed, Error: err.Error()}}
				return nil
			}
			succeeded.Add(1)
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch: complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return rows, nil
}
