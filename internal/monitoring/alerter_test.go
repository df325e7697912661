package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/discovery-cli/internal/config"
)

func newTestAlerter(cfg config.MonitoringConfig) *Alerter {
	a := NewAlerter(cfg)
	a.retry.InitialBackoff = time.Millisecond
	a.retry.MaxBackoff = time.Millisecond
	a.retry.OnRetry = nil
	return a
}

func TestAlerter_Evaluate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MonitoringConfig
		snap MetricsSnapshot
		want []AlertType
		msg  string
	}{
		{
			name: "healthy",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.10, CostThresholdUSD: 50, InsufficientRatio: 0.5},
			snap: MetricsSnapshot{Pass1Complete: 40, Pass2Complete: 55, Failed: 5, FailRate: 0.05, NarrativeCostUSD: 10, Reports: 95, InsufficientData: 10},
		},
		{
			name: "failure rate",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.10},
			snap: MetricsSnapshot{Pass1Complete: 6, Pass2Complete: 6, Failed: 8, FailRate: 0.4, LookbackHours: 24},
			want: []AlertType{AlertFailureRate},
			msg:  "40.0%",
		},
		{
			name: "failure rate ignored on a small sample",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.10},
			snap: MetricsSnapshot{Pass1Complete: 1, Failed: 2, FailRate: 0.66},
		},
		{
			name: "stalled",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.5, StaleAfterMins: 30},
			snap: MetricsSnapshot{Processing: 3, Stalled: 2},
			want: []AlertType{AlertStalled},
			msg:  "30 minutes",
		},
		{
			name: "cost overrun",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.10, CostThresholdUSD: 5},
			snap: MetricsSnapshot{NarrativeCostUSD: 7.5, LookbackHours: 24},
			want: []AlertType{AlertCostOverrun},
			msg:  "$7.50",
		},
		{
			name: "cost check disabled",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.10},
			snap: MetricsSnapshot{NarrativeCostUSD: 1e6},
		},
		{
			name: "insufficient data",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.5, InsufficientRatio: 0.5},
			snap: MetricsSnapshot{Reports: 10, InsufficientData: 8, AvgCompleteness: 42},
			want: []AlertType{AlertInsufficientData},
			msg:  "8 of 10",
		},
		{
			name: "insufficient data on a small sample",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.5, InsufficientRatio: 0.5},
			snap: MetricsSnapshot{Reports: 2, InsufficientData: 2},
		},
		{
			name: "several at once",
			cfg:  config.MonitoringConfig{FailureRateThreshold: 0.1, CostThresholdUSD: 1, StaleAfterMins: 5},
			snap: MetricsSnapshot{Pass2Complete: 5, Failed: 5, FailRate: 0.5, Stalled: 1, NarrativeCostUSD: 3},
			want: []AlertType{AlertFailureRate, AlertStalled, AlertCostOverrun},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := NewAlerter(tt.cfg).Evaluate(&tt.snap)
			got := make([]AlertType, 0, len(alerts))
			for _, a := range alerts {
				got = append(got, a.Type)
				assert.False(t, a.Timestamp.IsZero())
			}
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
			if tt.msg != "" {
				assert.Contains(t, alerts[0].Message, tt.msg)
			}
		})
	}
}

func TestAlerter_SendAlerts(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body webhookPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "discovery-cli", body.Source)
		assert.Len(t, body.Alerts, 2)
		if assert.NotNil(t, body.Snapshot) {
			assert.Equal(t, 3, body.Snapshot.Stalled)
		}
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	sent := a.SendAlerts(context.Background(), &MetricsSnapshot{Stalled: 3}, []Alert{
		{Type: AlertStalled, Severity: "medium", Message: "m1"},
		{Type: AlertCostOverrun, Severity: "high", Message: "m2"},
	})
	assert.Equal(t, 2, sent)
	assert.Equal(t, int32(1), received.Load())
}

func TestAlerter_SendAlerts_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	a := newTestAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	sent := a.SendAlerts(context.Background(), nil, []Alert{{Type: AlertCostOverrun}})
	assert.Equal(t, 1, sent)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAlerter_SendAlerts_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	a := newTestAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	sent := a.SendAlerts(context.Background(), nil, []Alert{{Type: AlertCostOverrun}})
	assert.Equal(t, 0, sent)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAlerter_SendAlerts_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := newTestAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	assert.Equal(t, 0, a.SendAlerts(context.Background(), nil, []Alert{{Type: AlertStalled}}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestAlerter_SendAlerts_NoWebhook(t *testing.T) {
	a := newTestAlerter(config.MonitoringConfig{})
	assert.Equal(t, 0, a.SendAlerts(context.Background(), nil, []Alert{{Type: AlertCostOverrun}}))
}

func TestAlerter_SendAlerts_NothingToSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		require.Fail(t, "webhook should not be called")
	}))
	defer srv.Close()

	a := newTestAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	assert.Equal(t, 0, a.SendAlerts(context.Background(), nil, nil))
}
