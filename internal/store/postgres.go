package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-cli/internal/db"
	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
)

// PostgresStore implements Store on top of a pgx pool.
type PostgresStore struct {
	pool db.Pool
	raw  *pgxpool.Pool
}

// NewPostgres connects to Postgres and returns a store backed by the pool.
func NewPostgres(ctx context.Context, connString string, cfg *db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, raw: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS engagements (
	id             TEXT PRIMARY KEY,
	client         JSONB NOT NULL,
	responses      JSONB NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending',
	error          TEXT NOT NULL DEFAULT '',
	notion_page_id TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reports (
	engagement_id TEXT PRIMARY KEY REFERENCES engagements(id),
	status        TEXT NOT NULL,
	data          JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS trigger_records (
	engagement_id TEXT NOT NULL REFERENCES engagements(id),
	service_code  TEXT NOT NULL,
	description   TEXT NOT NULL,
	position      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_engagements_status ON engagements(status);
CREATE INDEX IF NOT EXISTS idx_trigger_records_engagement ON trigger_records(engagement_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.raw != nil {
		return eris.Wrap(s.raw.Ping(ctx), "postgres: ping")
	}
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.raw != nil {
		s.raw.Close()
	}
	return nil
}

func (s *PostgresStore) CreateEngagement(ctx context.Context, client model.Client, responses scorer.Responses) (*model.Engagement, error) {
	if responses == nil {
		responses = scorer.Responses{}
	}
	clientJSON, err := json.Marshal(client)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal client")
	}
	respJSON, err := json.Marshal(responses)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal responses")
	}

	e := &model.Engagement{
		ID:        uuid.New().String(),
		Client:    client,
		Responses: responses,
		Status:    model.EngagementStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	e.UpdatedAt = e.CreatedAt

	_, err = s.pool.Exec(ctx,
		`INSERT INTO engagements (id, client, responses, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, clientJSON, respJSON, string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert engagement")
	}
	return e, nil
}

func (s *PostgresStore) GetEngagement(ctx context.Context, id string) (*model.Engagement, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+engagementColumns+` FROM engagements WHERE id = $1`, id)
	e, err := scanPgEngagement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("engagement", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get engagement %s", id)
	}
	return e, nil
}

func (s *PostgresStore) ListEngagements(ctx context.Context, filter model.EngagementFilter) ([]model.Engagement, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.CreatedAfter.IsZero() {
		args = append(args, filter.CreatedAfter)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := `SELECT ` + engagementColumns + ` FROM engagements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, listLimit(filter), max(0, filter.Offset))
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list engagements")
	}
	defer rows.Close()

	out := []model.Engagement{}
	for rows.Next() {
		e, err := scanPgEngagement(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan engagement")
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list engagements iterate")
}

func (s *PostgresStore) UpdateEngagementStatus(ctx context.Context, id string, status model.EngagementStatus, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE engagements SET status = $1, error = $2, updated_at = now() WHERE id = $3`,
		string(status), errMsg, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update engagement status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return notFound("engagement", id)
	}
	return nil
}

func (s *PostgresStore) SetNotionPageID(ctx context.Context, id, pageID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE engagements SET notion_page_id = $1, updated_at = now() WHERE id = $2`,
		pageID, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set notion page %s", id)
	}
	if tag.RowsAffected() == 0 {
		return notFound("engagement", id)
	}
	return nil
}

func (s *PostgresStore) SaveReport(ctx context.Context, report *model.Report) error {
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	data, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (engagement_id, status, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (engagement_id) DO UPDATE SET status = EXCLUDED.status, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		report.EngagementID, string(report.Status), data, report.CreatedAt, report.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: save report %s", report.EngagementID)
}

func (s *PostgresStore) GetReport(ctx context.Context, engagementID string) (*model.Report, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM reports WHERE engagement_id = $1`, engagementID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("report", engagementID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get report %s", engagementID)
	}

	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal report")
	}
	return &r, nil
}

var triggerColumns = []string{"engagement_id", "service_code", "description", "position"}

func (s *PostgresStore) SaveTriggers(ctx context.Context, engagementID string, triggers []model.TriggerRecord) error {
	rows := make([][]any, len(triggers))
	for i, t := range triggers {
		rows[i] = []any{engagementID, string(t.ServiceCode), t.Description, t.Position}
	}
	_, err := db.ReplaceRows(ctx, s.pool, "trigger_records", "engagement_id", engagementID, triggerColumns, rows)
	return err
}

func (s *PostgresStore) ListTriggers(ctx context.Context, engagementID string) ([]model.TriggerRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT engagement_id, service_code, description, position FROM trigger_records
		 WHERE engagement_id = $1 ORDER BY service_code, position`,
		engagementID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list triggers")
	}
	defer rows.Close()

	out := []model.TriggerRecord{}
	for rows.Next() {
		var (
			t    model.TriggerRecord
			code string
		)
		if err := rows.Scan(&t.EngagementID, &code, &t.Description, &t.Position); err != nil {
			return nil, eris.Wrap(err, "postgres: scan trigger")
		}
		t.ServiceCode = scorer.ServiceCode(code)
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list triggers iterate")
}

func scanPgEngagement(row scannable) (*model.Engagement, error) {
	var (
		e                    model.Engagement
		status               string
		clientJSON, respJSON []byte
	)
	if err := row.Scan(&e.ID, &clientJSON, &respJSON, &status, &e.Error, &e.NotionPageID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = model.EngagementStatus(status)
	if err := json.Unmarshal(clientJSON, &e.Client); err != nil {
		return nil, eris.Wrap(err, "unmarshal client")
	}
	if err := json.Unmarshal(respJSON, &e.Responses); err != nil {
		return nil, eris.Wrap(err, "unmarshal responses")
	}
	return &e, nil
}
