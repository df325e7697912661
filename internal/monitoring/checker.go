package monitoring

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/discovery-cli/internal/config"
)

const defaultCheckInterval = 5 * time.Minute

// Checker collects a snapshot on a fixed interval and forwards new alerts.
// An alert type that was delivered within the cooldown is held back.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	lookback  int
	interval  time.Duration
	cooldown  time.Duration

	mu       sync.Mutex
	lastSent map[AlertType]time.Time
	now      func() time.Time
}

// NewChecker creates a background alert checker.
func NewChecker(collector *Collector, alerter *Alerter, cfg config.MonitoringConfig) *Checker {
	interval := time.Duration(cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &Checker{
		collector: collector,
		alerter:   alerter,
		lookback:  max(1, cfg.LookbackWindowHours),
		interval:  interval,
		cooldown:  time.Duration(cfg.AlertCooldownMins) * time.Minute,
		lastSent:  make(map[AlertType]time.Time),
		now:       time.Now,
	}
}

// Run checks once per interval until ctx is cancelled.
func (c *Checker) Run(ctx context.Context) {
	zap.L().Info("monitoring: checker started",
		zap.Duration("interval", c.interval),
		zap.Int("lookback_hours", c.lookback),
		zap.Duration("cooldown", c.cooldown),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("monitoring: checker stopped")
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check runs a single collect, evaluate and send cycle and returns the
// number of alerts delivered.
func (c *Checker) Check(ctx context.Context) int {
	snap, err := c.collector.Collect(ctx, c.lookback)
	if err != nil {
		zap.L().Error("monitoring: collect metrics", zap.Error(err))
		return 0
	}

	alerts := c.fresh(c.alerter.Evaluate(snap))
	if len(alerts) == 0 {
		return 0
	}

	sent := c.alerter.SendAlerts(ctx, snap, alerts)
	if sent > 0 {
		c.markSent(alerts)
	}
	zap.L().Info("monitoring: check complete",
		zap.Int("engagements", snap.EngagementsTotal),
		zap.Int("alerts", len(alerts)),
		zap.Int("sent", sent),
	)
	return sent
}

// fresh drops alerts whose type is still cooling down.
func (c *Checker) fresh(alerts []Alert) []Alert {
	if c.cooldown <= 0 {
		return alerts
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := alerts[:0]
	for _, a := range alerts {
		if last, ok := c.lastSent[a.Type]; ok && now.Sub(last) < c.cooldown {
			zap.L().Debug("monitoring: alert suppressed", zap.String("type", string(a.Type)))
			continue
		}
		out = append(out, a)
	}
	return out
}

func (c *Checker) markSent(alerts []Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for _, a := range alerts {
		c.lastSent[a.Type] = now
	}
}
