// Package store defines the write-transport contract the decode engine
// hands its output to. Implementations live under internal/store/<driver>/.
package store

import (
	"context"

	"github.com/healthbridge/healthbridge/internal/model"
)

// Store exposes persistence operations required by the ingest service.
type Store interface {
	Records() Records
	Ping(ctx context.Context) error
	Close() error
}

// Records persists decoded native records. Insert returns assigned ids
// positionally aligned with its input so callers can correlate results back
// to the decode output.
type Records interface {
	Insert(ctx context.Context, recs []model.NativeRecord) ([]string, error)
	List(ctx context.Context, req model.ListRecordsRequest) ([]*model.StoredRecord, error)
}
