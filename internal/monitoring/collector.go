package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/store"
)

// pageSize matches the store's maximum list limit.
const pageSize = 500

// MetricsSnapshot holds a point-in-time view of engagement health.
type MetricsSnapshot struct {
	// Engagements created within the lookback window, by status.
	EngagementsTotal int     `json:"engagements_total"`
	Pending          int     `json:"pending"`
	Processing       int     `json:"processing"`
	Pass1Complete    int     `json:"pass1_complete"`
	Pass2Complete    int     `json:"pass2_complete"`
	Failed           int     `json:"failed"`
	FailRate         float64 `json:"fail_rate"`

	// Stalled engagements have sat in a processing state past the stale cutoff.
	Stalled int `json:"stalled"`

	// Report metrics.
	Reports              int     `json:"reports"`
	InsufficientData     int     `json:"insufficient_data"`
	AvgCompleteness      float64 `json:"avg_completeness"`
	NarrativeCostUSD     float64 `json:"narrative_cost_usd"`
	NarrativeInputTokens int64   `json:"narrative_input_tokens"`
	NarrativeOutTokens   int64   `json:"narrative_output_tokens"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Source is the part of the store the collector reads.
type Source interface {
	ListEngagements(ctx context.Context, filter model.EngagementFilter) ([]model.Engagement, error)
	GetReport(ctx context.Context, engagementID string) (*model.Report, error)
}

// Collector gathers engagement metrics from the store.
type Collector struct {
	src        Source
	staleAfter time.Duration
	now        func() time.Time
}

// NewCollector creates a collector. Engagements processing for longer than
// staleAfter count as stalled; zero disables the check.
func NewCollector(src Source, staleAfter time.Duration) *Collector {
	return &Collector{src: src, staleAfter: staleAfter, now: time.Now}
}

// Collect gathers a snapshot over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	now := c.now().UTC()
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   now,
	}
	cutoff := now.Add(-time.Duration(lookbackHours) * time.Hour)

	var completenessTotal int
	for offset := 0; ; offset += pageSize {
		page, err := c.src.ListEngagements(ctx, model.EngagementFilter{
			CreatedAfter: cutoff,
			Limit:        pageSize,
			Offset:       offset,
		})
		if err != nil {
			return nil, eris.Wrap(err, "monitoring: list engagements")
		}

		for _, e := range page {
			snap.EngagementsTotal++
			switch e.Status {
			case model.EngagementStatusPending:
				snap.Pending++
			case model.EngagementStatusPass1Processing, model.EngagementStatusPass2Processing:
				snap.Processing++
				if c.staleAfter > 0 && now.Sub(e.UpdatedAt) > c.staleAfter {
					snap.Stalled++
				}
			case model.EngagementStatusPass1Complete:
				snap.Pass1Complete++
			case model.EngagementStatusPass2Complete:
				snap.Pass2Complete++
			case model.EngagementStatusFailed:
				snap.Failed++
			}

			r, err := c.src.GetReport(ctx, e.ID)
			if eris.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, eris.Wrapf(err, "monitoring: get report %s", e.ID)
			}
			snap.Reports++
			completenessTotal += r.Completeness.Score
			if !r.Completeness.CanGenerateClientReport {
				snap.InsufficientData++
			}
			snap.NarrativeCostUSD += r.TokenUsage.Cost
			snap.NarrativeInputTokens += r.TokenUsage.InputTokens
			snap.NarrativeOutTokens += r.TokenUsage.OutputTokens
		}

		if len(page) < pageSize {
			break
		}
	}

	finished := snap.Pass1Complete + snap.Pass2Complete + snap.Failed
	if finished > 0 {
		snap.FailRate = float64(snap.Failed) / float64(finished)
	}
	if snap.Reports > 0 {
		snap.AvgCompleteness = float64(completenessTotal) / float64(snap.Reports)
	}
	return snap, nil
}
