package services

import (
	"context"

	"github.com/healthbridge/healthbridge/internal/decode"
	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/registry"
	"github.com/healthbridge/healthbridge/internal/store"
)

// WriteStatus marks the outcome of one batch item.
type WriteStatus string

const (
	StatusOK     WriteStatus = "ok"
	StatusFailed WriteStatus = "failed"
)

// WriteResult is the per-item outcome, positionally aligned with the
// submitted batch.
type WriteResult struct {
	Status         WriteStatus     `json:"status"`
	RecordID       *string         `json:"recordId,omitempty"`
	Failure        *model.Failure  `json:"failure,omitempty"`
	NestedFailures []model.Failure `json:"nestedFailures,omitempty"`
}

// BatchWriteResult aggregates per-item outcomes plus the merged failure list
// (nil when every item decoded cleanly).
type BatchWriteResult struct {
	Results  []WriteResult   `json:"results"`
	Failures []model.Failure `json:"failures,omitempty"`
}

// IngestService decodes generic envelopes and persists the successes.
type IngestService struct {
	dec   *decode.Decoder
	reg   *registry.Registry
	store store.Store
}

func NewIngestService(dec *decode.Decoder, reg *registry.Registry, st store.Store) *IngestService {
	return &IngestService{dec: dec, reg: reg, store: st}
}

// WriteBatch decodes every envelope, writes whatever decoded successfully
// and returns per-item results in input order. A store-level error fails the
// call as a whole; decode failures never do.
func (s *IngestService) WriteBatch(ctx context.Context, envs []model.Envelope) (*BatchWriteResult, error) {
	batch := s.dec.DecodeBatch(ctx, envs)

	var toWrite []model.NativeRecord
	var writeIdx []int
	for i, item := range batch.Items {
		if item.Record != nil {
			toWrite = append(toWrite, item.Record)
			writeIdx = append(writeIdx, i)
		}
	}

	var ids []string
	if len(toWrite) > 0 {
		var err error
		ids, err = s.store.Records().Insert(ctx, toWrite)
		if err != nil {
			return nil, err
		}
	}

	results := make([]WriteResult, len(batch.Items))
	for i, item := range batch.Items {
		if item.Failure != nil {
			results[i] = WriteResult{Status: StatusFailed, Failure: item.Failure, NestedFailures: item.SubFailures}
			continue
		}
		results[i] = WriteResult{Status: StatusOK, NestedFailures: item.SubFailures}
	}
	for n, i := range writeIdx {
		id := ids[n]
		results[i].RecordID = &id
	}

	return &BatchWriteResult{Results: results, Failures: batch.Failures()}, nil
}

// ListRecords is a thin passthrough to the store's read surface.
func (s *IngestService) ListRecords(ctx context.Context, req model.ListRecordsRequest) ([]*model.StoredRecord, error) {
	return s.store.Records().List(ctx, req)
}

// TypeSupport reports whether a type id resolves, with the diagnostic reason
// when it does not.
type TypeSupport struct {
	Type      string `json:"type"`
	Supported bool   `json:"supported"`
	Kind      string `json:"kind,omitempty"`
	Class     string `json:"class,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func (s *IngestService) CheckType(typeID string) TypeSupport {
	entry, err := s.reg.Resolve(typeID)
	if err != nil {
		return TypeSupport{Type: typeID, Supported: false, Reason: s.reg.UnsupportedReason(typeID)}
	}
	return TypeSupport{
		Type:      typeID,
		Supported: true,
		Kind:      entry.Kind.String(),
		Class:     string(entry.Class),
	}
}

// Types lists all registered type ids.
func (s *IngestService) Types() []string { return s.reg.Types() }
