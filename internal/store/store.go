// Package store persists engagements, their reports and trigger audit rows.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-cli/internal/config"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
)

// ErrNotFound is returned (wrapped) when an engagement or report is missing.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for the engagement workflow.
type Store interface {
	// Engagements
	CreateEngagement(ctx context.Context, client model.Client, responses scorer.Responses) (*model.Engagement, error)
	GetEngagement(ctx context.Context, id string) (*model.Engagement, error)
	ListEngagements(ctx context.Context, filter model.EngagementFilter) ([]model.Engagement, error)
	UpdateEngagementStatus(ctx context.Context, id string, status model.EngagementStatus, errMsg string) error
	SetNotionPageID(ctx context.Context, id, pageID string) error

	// Reports
	SaveReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, engagementID string) (*model.Report, error)

	// Trigger audit trail
	SaveTriggers(ctx context.Context, engagementID string, triggers []model.TriggerRecord) error
	ListTriggers(ctx context.Context, engagementID string) ([]model.TriggerRecord, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the Store selected by cfg.Driver and applies migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		st, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		st, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func notFound(entity, id string) error {
	return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
}

func listLimit(filter model.EngagementFilter) int {
	if filter.Limit <= 0 || filter.Limit > 500 {
		return 100
	}
	return filter.Limit
}
