package report

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/cost"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/resilience"
	"github.com/sells-group/discovery-cli/internal/store"
	"github.com/sells-group/discovery-cli/pkg/anthropic"
)

var (
	// ErrNotReady is returned when Pass2 runs before Pass1 has completed.
	ErrNotReady = eris.New("report: pass 1 not complete")
	// ErrIncomplete is returned when the data-completeness check blocks a
	// client narrative and the caller did not force it.
	ErrIncomplete = eris.New("report: insufficient data for client report")
	// ErrNoLLM is returned by Pass2 when the generator has no LLM client.
	ErrNoLLM = eris.New("report: pass2 requires an LLM client")
)

// Generator runs both report passes against a store.
type Generator struct {
	store store.Store
	llm   anthropic.Client
	calc  *cost.Calculator
	cfg   Config
	retry resilience.RetryConfig
	now   func() time.Time
}

// NewGenerator wires a Generator. llm may be nil when only Pass1 is used.
func NewGenerator(st store.Store, llm anthropic.Client, calc *cost.Calculator, cfg Config) *Generator {
	retry := resilience.WithAttempts(cfg.MaxRetries)
	retry.OnRetry = resilience.RetryLogger("anthropic", "pass2")
	return &Generator{
		store: st,
		llm:   llm,
		calc:  calc,
		cfg:   cfg,
		retry: retry,
		now:   time.Now,
	}
}

// Pass1 scores the engagement and persists the deterministic report and the
// trigger audit trail. Any failure after processing starts marks the
// engagement failed.
func (g *Generator) Pass1(ctx context.Context, engagementID string) (*model.Report, error) {
	log := zap.L().With(zap.String("engagement_id", engagementID), zap.String("phase", "pass1"))
	start := g.now()

	if err := g.store.UpdateEngagementStatus(ctx, engagementID, model.EngagementStatusPass1Processing, ""); err != nil {
		return nil, eris.Wrap(err, "report: pass1 start")
	}

	r, err := g.pass1(ctx, engagementID, start)
	if err != nil {
		g.fail(ctx, engagementID, err)
		return nil, err
	}

	log.Info("report: pass 1 complete",
		zap.Int("primary", len(r.Primary)),
		zap.Int("secondary", len(r.Secondary)),
		zap.Int("completeness", r.Completeness.Score),
		zap.Int64("duration_ms", r.GenerationTimeMs),
	)
	return r, nil
}

func (g *Generator) pass1(ctx context.Context, engagementID string, start time.Time) (*model.Report, error) {
	e, err := g.store.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, eris.Wrap(err, "report: pass1 load engagement")
	}

	r := g.cfg.Build(e.ID, e.Responses)

	// Keep an earlier narrative's creation time when re-running.
	if prev, err := g.store.GetReport(ctx, e.ID); err == nil {
		r.CreatedAt = prev.CreatedAt
	} else if !eris.Is(err, store.ErrNotFound) {
		return nil, eris.Wrap(err, "report: pass1 load previous report")
	}

	r.GenerationTimeMs = g.now().Sub(start).Milliseconds()
	if err := g.store.SaveReport(ctx, r); err != nil {
		return nil, eris.Wrap(err, "report: pass1 save report")
	}
	if err := g.store.SaveTriggers(ctx, e.ID, model.TriggerRecords(e.ID, r.ServiceScores)); err != nil {
		return nil, eris.Wrap(err, "report: pass1 save triggers")
	}
	if err := g.store.UpdateEngagementStatus(ctx, e.ID, model.EngagementStatusPass1Complete, ""); err != nil {
		return nil, eris.Wrap(err, "report: pass1 finish")
	}
	return r, nil
}

// Pass2 writes the client narrative for an engagement whose Pass1 report
// exists. force bypasses the data-completeness gate.
func (g *Generator) Pass2(ctx context.Context, engagementID string, force bool) (*model.Report, error) {
	if g.llm == nil {
		return nil, ErrNoLLM
	}
	log := zap.L().With(zap.String("engagement_id", engagementID), zap.String("phase", "pass2"))

	r, err := g.store.GetReport(ctx, engagementID)
	if eris.Is(err, store.ErrNotFound) {
		return nil, ErrNotReady
	}
	if err != nil {
		return nil, eris.Wrap(err, "report: pass2 load report")
	}
	if r.Status != model.EngagementStatusPass1Complete && r.Status != model.EngagementStatusPass2Complete {
		return nil, ErrNotReady
	}
	if !r.Completeness.CanGenerateClientReport && !force {
		log.Warn("report: pass 2 blocked by completeness",
			zap.Int("score", r.Completeness.Score),
			zap.Strings("missing_critical", r.Completeness.MissingCritical),
		)
		return nil, ErrIncomplete
	}

	e, err := g.store.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, eris.Wrap(err, "report: pass2 load engagement")
	}
	if err := g.store.UpdateEngagementStatus(ctx, engagementID, model.EngagementStatusPass2Processing, ""); err != nil {
		return nil, eris.Wrap(err, "report: pass2 start")
	}

	start := g.now()
	resp, err := resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*anthropic.Narrative, error) {
		return g.llm.Narrate(ctx, buildNarrativeRequest(g.cfg, e, r))
	})
	if err == nil && resp.Text == "" {
		err = eris.Errorf("report: empty narrative (stop reason %q)", resp.StopReason)
	}
	if err != nil {
		g.fail(ctx, engagementID, err)
		return nil, eris.Wrap(err, "report: pass2 generate")
	}

	modelID := resp.Model
	if modelID == "" {
		modelID = g.cfg.Model
	}
	resp.Usage.LogCost(modelID, "pass2")

	r.Narrative = resp.Text
	r.LLMModel = modelID
	r.TokenUsage = model.TokenUsage{
		InputTokens:  resp.Usage.InputTokens + resp.Usage.CacheCreationInputTokens + resp.Usage.CacheReadInputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Cost:         g.priceUsage(modelID, resp.Usage),
	}
	r.Status = model.EngagementStatusPass2Complete
	r.PromptVersion = g.cfg.Pass2PromptVersion
	r.GenerationTimeMs = g.now().Sub(start).Milliseconds()

	if err := g.store.SaveReport(ctx, r); err != nil {
		g.fail(ctx, engagementID, err)
		return nil, eris.Wrap(err, "report: pass2 save report")
	}
	if err := g.store.UpdateEngagementStatus(ctx, engagementID, model.EngagementStatusPass2Complete, ""); err != nil {
		return nil, eris.Wrap(err, "report: pass2 finish")
	}

	log.Info("report: pass 2 complete",
		zap.String("model", modelID),
		zap.Int64("output_tokens", r.TokenUsage.OutputTokens),
		zap.Float64("cost_usd", r.TokenUsage.Cost),
		zap.Int64("duration_ms", r.GenerationTimeMs),
	)
	return r, nil
}

func (g *Generator) priceUsage(modelID string, u anthropic.TokenUsage) float64 {
	if g.calc != nil && g.calc.Known(modelID) {
		return g.calc.Claude(modelID, u.InputTokens, u.OutputTokens, u.CacheCreationInputTokens, u.CacheReadInputTokens)
	}
	return u.EstimateCost(modelID)
}

// fail records err on the engagement. The original error is what the caller
// sees, so a failure here is only logged.
func (g *Generator) fail(ctx context.Context, engagementID string, err error) {
	if uerr := g.store.UpdateEngagementStatus(context.WithoutCancel(ctx), engagementID, model.EngagementStatusFailed, err.Error()); uerr != nil {
		zap.L().Error("report: mark engagement failed",
			zap.String("engagement_id", engagementID),
			zap.Error(uerr),
		)
	}
}
