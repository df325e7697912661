// Package monitoring collects engagement health metrics and posts alerts to
// a webhook when thresholds are breached.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/config"
	"github.com/sells-group/discovery-cli/internal/resilience"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertFailureRate      AlertType = "engagement_failure_rate"
	AlertStalled          AlertType = "engagement_stalled"
	AlertCostOverrun      AlertType = "narrative_cost_overrun"
	AlertInsufficientData AlertType = "insufficient_data"
)

// minSample is the number of finished engagements (or reports) below which
// ratio alerts stay quiet.
const minSample = 5

// Alert represents a single threshold breach.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// webhookPayload is the body posted to the webhook for one check.
type webhookPayload struct {
	Source      string           `json:"source"`
	Alerts      []Alert          `json:"alerts"`
	Snapshot    *MetricsSnapshot `json:"snapshot,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// rule inspects a snapshot and returns an alert, or nil when healthy.
type rule func(cfg config.MonitoringConfig, snap *MetricsSnapshot) *Alert

var rules = []rule{
	failureRateRule,
	stalledRule,
	costRule,
	insufficientDataRule,
}

// Alerter evaluates snapshots against the configured thresholds and delivers
// breaches to a webhook.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
	retry  resilience.RetryConfig
}

// NewAlerter creates an Alerter for cfg.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
			OnRetry:        resilience.RetryLogger("webhook", "send_alerts"),
		},
	}
}

// Evaluate runs every rule against snap.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	now := time.Now().UTC()
	var alerts []Alert
	for _, r := range rules {
		if alert := r(a.cfg, snap); alert != nil {
			alert.Timestamp = now
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}

func failureRateRule(cfg config.MonitoringConfig, snap *MetricsSnapshot) *Alert {
	finished := snap.Pass1Complete + snap.Pass2Complete + snap.Failed
	if finished < minSample || snap.FailRate <= cfg.FailureRateThreshold {
		return nil
	}
	return &Alert{
		Type:     AlertFailureRate,
		Severity: "high",
		Message: fmt.Sprintf("%.1f%% of engagements failed in the last %dh (%d of %d, threshold %.1f%%)",
			snap.FailRate*100, snap.LookbackHours, snap.Failed, finished, cfg.FailureRateThreshold*100),
		Details: map[string]any{
			"failure_rate": snap.FailRate,
			"threshold":    cfg.FailureRateThreshold,
			"failed":       snap.Failed,
			"finished":     finished,
		},
	}
}

func stalledRule(cfg config.MonitoringConfig, snap *MetricsSnapshot) *Alert {
	if snap.Stalled == 0 {
		return nil
	}
	return &Alert{
		Type:     AlertStalled,
		Severity: "medium",
		Message:  fmt.Sprintf("%d engagement(s) stuck in a report pass for over %d minutes", snap.Stalled, cfg.StaleAfterMins),
		Details: map[string]any{
			"stalled":    snap.Stalled,
			"processing": snap.Processing,
		},
	}
}

func costRule(cfg config.MonitoringConfig, snap *MetricsSnapshot) *Alert {
	if cfg.CostThresholdUSD <= 0 || snap.NarrativeCostUSD <= cfg.CostThresholdUSD {
		return nil
	}
	return &Alert{
		Type:     AlertCostOverrun,
		Severity: "high",
		Message: fmt.Sprintf("Narrative spend $%.2f over the last %dh exceeds $%.2f",
			snap.NarrativeCostUSD, snap.LookbackHours, cfg.CostThresholdUSD),
		Details: map[string]any{
			"cost_usd":       snap.NarrativeCostUSD,
			"threshold_usd":  cfg.CostThresholdUSD,
			"pass2_complete": snap.Pass2Complete,
			"input_tokens":   snap.NarrativeInputTokens,
			"output_tokens":  snap.NarrativeOutTokens,
		},
	}
}

// insufficientDataRule fires when too many scored assessments cannot support
// a client narrative, which usually means the intake form is being skipped.
func insufficientDataRule(cfg config.MonitoringConfig, snap *MetricsSnapshot) *Alert {
	if cfg.InsufficientRatio <= 0 || snap.Reports < minSample {
		return nil
	}
	ratio := float64(snap.InsufficientData) / float64(snap.Reports)
	if ratio <= cfg.InsufficientRatio {
		return nil
	}
	return &Alert{
		Type:     AlertInsufficientData,
		Severity: "low",
		Message: fmt.Sprintf("%d of %d reports lack enough data for a client narrative (avg completeness %.0f)",
			snap.InsufficientData, snap.Reports, snap.AvgCompleteness),
		Details: map[string]any{
			"ratio":            ratio,
			"threshold":        cfg.InsufficientRatio,
			"avg_completeness": snap.AvgCompleteness,
		},
	}
}

// SendAlerts posts alerts in one webhook call. Server errors and 429s are
// retried. Returns the number of alerts delivered.
func (a *Alerter) SendAlerts(ctx context.Context, snap *MetricsSnapshot, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	payload, err := json.Marshal(webhookPayload{
		Source:      "discovery-cli",
		Alerts:      alerts,
		Snapshot:    snap,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		zap.L().Error("monitoring: marshal alerts", zap.Error(err))
		return 0
	}

	if err := resilience.Do(ctx, a.retry, func(ctx context.Context) error {
		return a.post(ctx, payload)
	}); err != nil {
		zap.L().Error("monitoring: failed to send alerts",
			zap.Int("alerts", len(alerts)),
			zap.Error(err),
		)
		return 0
	}

	for _, alert := range alerts {
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
	}
	return len(alerts)
}

func (a *Alerter) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		err := eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}
	return nil
}
