package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/discovery-cli/internal/model"
	"github.com/sells-group/discovery-cli/internal/scorer"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS engagements (
	id             TEXT PRIMARY KEY,
	client         TEXT NOT NULL,
	responses      TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending',
	error          TEXT NOT NULL DEFAULT '',
	notion_page_id TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS reports (
	engagement_id TEXT PRIMARY KEY REFERENCES engagements(id),
	status        TEXT NOT NULL,
	data          TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
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

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateEngagement(ctx context.Context, client model.Client, responses scorer.Responses) (*model.Engagement, error) {
	if responses == nil {
		responses = scorer.Responses{}
	}
	clientJSON, err := json.Marshal(client)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal client")
	}
	respJSON, err := json.Marshal(responses)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal responses")
	}

	e := &model.Engagement{
		ID:        uuid.New().String(),
		Client:    client,
		Responses: responses,
		Status:    model.EngagementStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	e.UpdatedAt = e.CreatedAt

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO engagements (id, client, responses, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, string(clientJSON), string(respJSON), string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert engagement")
	}
	return e, nil
}

const engagementColumns = `id, client, responses, status, error, notion_page_id, created_at, updated_at`

func (s *SQLiteStore) GetEngagement(ctx context.Context, id string) (*model.Engagement, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+engagementColumns+` FROM engagements WHERE id = ?`, id)
	e, err := scanEngagement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("engagement", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get engagement %s", id)
	}
	return e, nil
}

func (s *SQLiteStore) ListEngagements(ctx context.Context, filter model.EngagementFilter) ([]model.Engagement, error) {
	query := `SELECT ` + engagementColumns + ` FROM engagements WHERE 1=1`
	var args []any
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.CreatedAfter.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.CreatedAfter.UTC())
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, listLimit(filter), max(0, filter.Offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list engagements")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.Engagement{}
	for rows.Next() {
		e, err := scanEngagement(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan engagement")
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list engagements iterate")
}

func (s *SQLiteStore) UpdateEngagementStatus(ctx context.Context, id string, status model.EngagementStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE engagements SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errMsg, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update engagement status %s", id)
	}
	return checkRowsAffected(res, "engagement", id)
}

func (s *SQLiteStore) SetNotionPageID(ctx context.Context, id, pageID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE engagements SET notion_page_id = ?, updated_at = ? WHERE id = ?`,
		pageID, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set notion page %s", id)
	}
	return checkRowsAffected(res, "engagement", id)
}

func (s *SQLiteStore) SaveReport(ctx context.Context, report *model.Report) error {
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	data, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (engagement_id, status, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (engagement_id) DO UPDATE SET status = excluded.status, data = excluded.data, updated_at = excluded.updated_at`,
		report.EngagementID, string(report.Status), string(data), report.CreatedAt, report.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save report %s", report.EngagementID)
}

func (s *SQLiteStore) GetReport(ctx context.Context, engagementID string) (*model.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM reports WHERE engagement_id = ?`, engagementID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("report", engagementID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get report %s", engagementID)
	}

	var r model.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal report")
	}
	return &r, nil
}

func (s *SQLiteStore) SaveTriggers(ctx context.Context, engagementID string, triggers []model.TriggerRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin triggers tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM trigger_records WHERE engagement_id = ?`, engagementID); err != nil {
		return eris.Wrapf(err, "sqlite: clear triggers %s", engagementID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trigger_records (engagement_id, service_code, description, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare trigger insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, t := range triggers {
		if _, err := stmt.ExecContext(ctx, engagementID, string(t.ServiceCode), t.Description, t.Position); err != nil {
			return eris.Wrapf(err, "sqlite: insert trigger for %s", engagementID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit triggers")
}

func (s *SQLiteStore) ListTriggers(ctx context.Context, engagementID string) ([]model.TriggerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT engagement_id, service_code, description, position FROM trigger_records
		 WHERE engagement_id = ? ORDER BY rowid`,
		engagementID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list triggers")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.TriggerRecord{}
	for rows.Next() {
		var t model.TriggerRecord
		if err := rows.Scan(&t.EngagementID, &t.ServiceCode, &t.Description, &t.Position); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan trigger")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list triggers iterate")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEngagement(row scannable) (*model.Engagement, error) {
	var e model.Engagement
	var clientJSON, respJSON string
	if err := row.Scan(&e.ID, &clientJSON, &respJSON, &e.Status, &e.Error, &e.NotionPageID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(clientJSON), &e.Client); err != nil {
		return nil, eris.Wrap(err, "unmarshal client")
	}
	if err := json.Unmarshal([]byte(respJSON), &e.Responses); err != nil {
		return nil, eris.Wrap(err, "unmarshal responses")
	}
	return &e, nil
}
