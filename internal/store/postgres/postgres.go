// Package postgres implements the record store over PostgreSQL using the
// pgx stdlib driver, for shared deployments.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    record_id    TEXT PRIMARY KEY,
    parent_id    TEXT REFERENCES records(record_id) ON DELETE CASCADE,
    record_type  TEXT NOT NULL,
    record_class TEXT NOT NULL,
    start_time   TIMESTAMPTZ NOT NULL,
    end_time     TIMESTAMPTZ NOT NULL,
    payload      JSONB NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_records_type_start ON records(record_type, start_time);
CREATE INDEX IF NOT EXISTS idx_records_parent ON records(parent_id);
`

// Open connects via the pgx stdlib driver, verifies connectivity and
// bootstraps the schema.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens a Postgres-backed store for the given DSN.
func New(dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	return &pgStore{db: db}, nil
}

// NewWithDB wires a store over an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Records() store.Records         { return &records{db: s.db} }
func (s *pgStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *pgStore) Close() error                   { return s.db.Close() }

type records struct{ db *sql.DB }

func (r *records) Insert(ctx context.Context, recs []model.NativeRecord) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		id, err := insertOne(ctx, tx, rec, nil)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func insertOne(ctx context.Context, tx *sql.Tx, rec model.NativeRecord, parentID *string) (string, error) {
	row, err := store.Flatten(rec)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
        INSERT INTO records (record_id, parent_id, record_type, record_class, start_time, end_time, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, parentID, row.Type, string(row.Class), row.StartTime, row.EndTime, row.Payload)
	if err != nil {
		return "", err
	}

	if comp, ok := rec.(*model.CompositeSessionRecord); ok {
		for _, nested := range comp.Nested {
			if _, err := insertOne(ctx, tx, nested, &id); err != nil {
				return "", err
			}
		}
	}
	return id, nil
}

func (r *records) List(ctx context.Context, req model.ListRecordsRequest) ([]*model.StoredRecord, error) {
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT record_id, parent_id, record_type, record_class, start_time, end_time, payload, created_at
              FROM records WHERE parent_id IS NULL`
	args := []interface{}{}
	if req.Type != "" {
		query += fmt.Sprintf(` AND record_type = $%d`, len(args)+1)
		args = append(args, req.Type)
	}
	query += fmt.Sprintf(` ORDER BY start_time DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.StoredRecord
	for rows.Next() {
		var sr model.StoredRecord
		if err := rows.Scan(&sr.RecordID, &sr.ParentID, &sr.Type, &sr.Class,
			&sr.StartTime, &sr.EndTime, &sr.Payload, &sr.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &sr)
	}
	return out, rows.Err()
}
