// Package sqlite implements the record store over a local SQLite database,
// the default driver for single-device deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    record_id            TEXT PRIMARY KEY,
    parent_id            TEXT REFERENCES records(record_id) ON DELETE CASCADE,
    record_type          TEXT NOT NULL,
    record_class         TEXT NOT NULL,
    start_time           TIMESTAMP NOT NULL,
    end_time             TIMESTAMP NOT NULL,
    payload              TEXT NOT NULL,
    created_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_records_type_start ON records(record_type, start_time);
CREATE INDEX IF NOT EXISTS idx_records_parent ON records(parent_id);
`

// Open opens (or creates) the SQLite database at path with WAL mode and
// bootstraps the schema.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
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

// New opens a SQLite-backed store at path.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// NewWithDB wires a store over an existing connection (used by tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Records() store.Records         { return &records{db: s.db} }
func (s *sqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error                   { return s.db.Close() }

type records struct{ db *sql.DB }

// Insert persists the batch in one transaction so a transport-level error
// leaves no partial write behind. Nested records of a composite session are
// stored as child rows.
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
        VALUES (?,?,?,?,?,?,?)`,
		id, parentID, row.Type, string(row.Class), row.StartTime.UTC(), row.EndTime.UTC(), string(row.Payload))
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
		query += ` AND record_type = ?`
		args = append(args, req.Type)
	}
	query += ` ORDER BY start_time DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.StoredRecord
	for rows.Next() {
		var sr model.StoredRecord
		var payload string
		if err := rows.Scan(&sr.RecordID, &sr.ParentID, &sr.Type, &sr.Class,
			&sr.StartTime, &sr.EndTime, &payload, &sr.CreationTime); err != nil {
			return nil, err
		}
		sr.Payload = []byte(payload)
		out = append(out, &sr)
	}
	return out, rows.Err()
}
