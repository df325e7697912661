package report

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/discovery-cli/internal/config"
	"github.com/sells-group/discovery-cli/internal/cost"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/resilience"
	"github.com/sells-group/discovery-cli/internal/scorer"
	"github.com/sells-group/discovery-cli/internal/store"
	"github.com/sells-group/discovery-cli/pkg/anthropic"
)

// fakeLLM replays scripted responses and records requests.
type fakeLLM struct {
	mu        sync.Mutex
	responses []*anthropic.Narrative
	errs      []error
	requests  []anthropic.NarrativeRequest
}

func (f *fakeLLM) Narrate(_ context.Context, req anthropic.NarrativeRequest) (*anthropic.Narrative, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func narrative(text string) *anthropic.Narrative {
	return &anthropic.Narrative{
		Model:      "claude-sonnet-4-5-20250929",
		StopReason: "end_turn",
		Text:       text,
		Usage:      anthropic.TokenUsage{InputTokens: 1_000_000, OutputTokens: 100_000},
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "report.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

func newTestGenerator(t *testing.T, st store.Store, llm anthropic.Client) *Generator {
	t.Helper()
	g := NewGenerator(st, llm, cost.NewCalculator(config.PricingConfig{}), DefaultConfig())
	g.retry = resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return g
}

func completeResponses() scorer.Responses {
	return scorer.Responses{
		"dd_five_year_vision":    "Working three days a week while the team runs the business without me",
		"dd_core_frustration":    "Every decision still lands on my desk and I am exhausted by it",
		"dd_emergency_log":       "Payroll failed last month and I had to fix it at midnight",
		"dd_sacrifice_list":      "Holidays, my health and most of my children's school events",
		"dd_weekly_hours":        "70+",
		"dd_change_readiness":    "Ready now",
		"dd_suspected_truth":     "I suspect we are less profitable than the accounts suggest",
		"dd_relationship_mirror": "Like a bad marriage I can't leave",
	}
}

func createEngagement(t *testing.T, st store.Store, responses scorer.Responses) *model.Engagement {
	t.Helper()
	e, err := st.CreateEngagement(context.Background(), model.Client{Name: "Sam Owner", Company: "Acme Ltd"}, responses)
	require.NoError(t, err)
	return e
}

func TestPass1(t *testing.T) {
	st := newTestStore(t)
	g := newTestGenerator(t, st, nil)
	ctx := context.Background()
	e := createEngagement(t, st, completeResponses())

	r, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)

	assert.Equal(t, model.EngagementStatusPass1Complete, r.Status)
	assert.Equal(t, "v2.0-pass1", r.PromptVersion)
	assert.Equal(t, scorer.RulesetHash(), r.RulesetHash)
	assert.Equal(t, "Ready now", r.ChangeReadiness)
	assert.LessOrEqual(t, len(r.Primary), 3)
	assert.True(t, r.Completeness.CanGenerateClientReport)
	assert.Len(t, r.ServiceScores, len(scorer.Services()))
	for _, s := range append(append([]*scorer.ServiceScore{}, r.Primary...), r.Secondary...) {
		assert.True(t, s.Recommended)
	}

	got, err := st.GetEngagement(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EngagementStatusPass1Complete, got.Status)

	saved, err := st.GetReport(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, r.RulesetHash, saved.RulesetHash)

	wantTriggers := 0
	for _, s := range r.ServiceScores {
		wantTriggers += len(s.Triggers)
	}
	triggers, err := st.ListTriggers(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, triggers, wantTriggers)
}

func TestPass1_Rerun(t *testing.T) {
	st := newTestStore(t)
	g := newTestGenerator(t, st, nil)
	ctx := context.Background()
	e := createEngagement(t, st, completeResponses())

	first, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)
	second, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
	triggers, err := st.ListTriggers(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, triggers, len(model.TriggerRecords(e.ID, second.ServiceScores)))
}

func TestPass1_UnknownEngagement(t *testing.T) {
	g := newTestGenerator(t, newTestStore(t), nil)
	_, err := g.Pass1(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPass2(t *testing.T) {
	st := newTestStore(t)
	llm := &fakeLLM{responses: []*anthropic.Narrative{narrative("## Where You Are Now\n\nYou are carrying the business.")}}
	g := newTestGenerator(t, st, llm)
	ctx := context.Background()
	e := createEngagement(t, st, completeResponses())

	_, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)

	r, err := g.Pass2(ctx, e.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.EngagementStatusPass2Complete, r.Status)
	assert.Equal(t, "v2.0-pass2", r.PromptVersion)
	assert.Contains(t, r.Narrative, "Where You Are Now")
	assert.Equal(t, "claude-sonnet-4-5-20250929", r.LLMModel)
	// 1M in at $3 + 0.1M out at $15
	assert.InDelta(t, 4.5, r.TokenUsage.Cost, 1e-9)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, "claude-sonnet-4-5-20250929", req.Model)
	assert.Equal(t, "1h", req.CacheTTL)
	assert.Contains(t, req.System, "British English")
	assert.Contains(t, req.Brief, "Owner: Sam Owner")
	assert.Contains(t, req.Brief, "Every decision still lands on my desk")

	got, err := st.GetEngagement(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EngagementStatusPass2Complete, got.Status)
}

func TestPass2_BeforePass1(t *testing.T) {
	st := newTestStore(t)
	g := newTestGenerator(t, st, &fakeLLM{responses: []*anthropic.Narrative{narrative("x")}})
	e := createEngagement(t, st, completeResponses())

	_, err := g.Pass2(context.Background(), e.ID, false)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestPass2_IncompleteUnlessForced(t *testing.T) {
	st := newTestStore(t)
	llm := &fakeLLM{responses: []*anthropic.Narrative{narrative("## Forced")}}
	g := newTestGenerator(t, st, llm)
	ctx := context.Background()
	e := createEngagement(t, st, scorer.Responses{"dd_weekly_hours": "70+"})

	_, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)

	_, err = g.Pass2(ctx, e.ID, false)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Empty(t, llm.requests)

	r, err := g.Pass2(ctx, e.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "## Forced", r.Narrative)
}

func TestPass2_RetriesTransientErrors(t *testing.T) {
	st := newTestStore(t)
	llm := &fakeLLM{
		errs:      []error{resilience.NewTransientError(errors.New("overloaded"), 529), nil},
		responses: []*anthropic.Narrative{nil, narrative("## After retry")},
	}
	g := newTestGenerator(t, st, llm)
	ctx := context.Background()
	e := createEngagement(t, st, completeResponses())

	_, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)

	r, err := g.Pass2(ctx, e.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "## After retry", r.Narrative)
	assert.Len(t, llm.requests, 2)
}

func TestPass2_PermanentErrorMarksFailed(t *testing.T) {
	st := newTestStore(t)
	llm := &fakeLLM{errs: []error{errors.New("invalid request")}}
	g := newTestGenerator(t, st, llm)
	ctx := context.Background()
	e := createEngagement(t, st, completeResponses())

	_, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)

	_, err = g.Pass2(ctx, e.ID, false)
	require.Error(t, err)
	assert.Len(t, llm.requests, 1)

	got, err := st.GetEngagement(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EngagementStatusFailed, got.Status)
	assert.Contains(t, got.Error, "invalid request")
}

func TestPass2_EmptyNarrativeFails(t *testing.T) {
	st := newTestStore(t)
	empty := narrative("")
	empty.StopReason = "max_tokens"
	g := newTestGenerator(t, st, &fakeLLM{responses: []*anthropic.Narrative{empty}})
	ctx := context.Background()
	e := createEngagement(t, st, completeResponses())

	_, err := g.Pass1(ctx, e.ID)
	require.NoError(t, err)

	_, err = g.Pass2(ctx, e.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty narrative")
}

func TestPass2_RequiresClient(t *testing.T) {
	g := newTestGenerator(t, newTestStore(t), nil)
	_, err := g.Pass2(context.Background(), "any", false)
	assert.ErrorIs(t, err, ErrNoLLM)
}
