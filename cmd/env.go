package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-cli/internal/cost"
	"github.com/sells-group/discovery-cli/internal/export"
	"github.com/sells-group/discovery-cli/internal/report"
	"github.com/sells-group/discovery-cli/internal/store"
	"github.com/sells-group/discovery-cli/pkg/anthropic"
	"github.com/sells-group/discovery-cli/pkg/notion"
)

// env bundles the long-lived dependencies a command needs.
type env struct {
	Store     store.Store
	Generator *report.Generator
	Notion    *export.NotionSync
}

// initEnv validates cfg for mode and opens the store. The LLM client and
// Notion syncer are wired only when their credentials are present.
func initEnv(ctx context.Context, mode string) (*env, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	rc := report.NewConfig(cfg)
	if err := report.ValidateConfig(rc); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	var llm anthropic.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	}
	e := &env{
		Store:     st,
		Generator: report.NewGenerator(st, llm, cost.NewCalculator(cfg.Pricing), rc),
	}

	if cfg.Notion.Token != "" && cfg.Notion.EngagementDB != "" {
		e.Notion = export.NewNotionSync(notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit)), st, cfg.Notion.EngagementDB)
	}
	return e, nil
}

// Close releases the store.
func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}
