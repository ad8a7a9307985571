package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/healthbridge/healthbridge/internal/decode"
	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/registry"
	"github.com/healthbridge/healthbridge/internal/store"
)

type fakeRecords struct {
	inserted  []model.NativeRecord
	insertErr error
	listed    []*model.StoredRecord
}

func (f *fakeRecords) Insert(_ context.Context, recs []model.NativeRecord) ([]string, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, recs...)
	ids := make([]string, len(recs))
	for i := range recs {
		ids[i] = fmt.Sprintf("id-%d", len(f.inserted)-len(recs)+i)
	}
	return ids, nil
}

func (f *fakeRecords) List(_ context.Context, _ model.ListRecordsRequest) ([]*model.StoredRecord, error) {
	return f.listed, nil
}

type fakeStore struct{ recs *fakeRecords }

func (f *fakeStore) Records() store.Records       { return f.recs }
func (f *fakeStore) Ping(_ context.Context) error { return nil }
func (f *fakeStore) Close() error                 { return nil }

func newTestIngest(recs *fakeRecords) *IngestService {
	reg := registry.New(34, registry.NewStaticProber([]string{registry.FeatureSkinTemperature}))
	dec := decode.New(reg, zerolog.Nop())
	return NewIngestService(dec, reg, &fakeStore{recs: recs})
}

func quantityEnv(typeID string, value float64, unit string) model.Envelope {
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	return model.Envelope{
		Type:      typeID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Value:     model.ValuePayload{Kind: model.PayloadQuantity, Value: value, Unit: unit},
	}
}

func TestWriteBatch_PartialFailure(t *testing.T) {
	recs := &fakeRecords{}
	svc := newTestIngest(recs)

	res, err := svc.WriteBatch(context.Background(), []model.Envelope{
		quantityEnv("weight", 72.5, "kg"),
		quantityEnv("weight", 11.4, "stone"),
		quantityEnv("steps", 6000, "count"),
	})
	require.NoError(t, err, "decode failures must not fail the call")
	require.Len(t, res.Results, 3)

	require.Equal(t, StatusOK, res.Results[0].Status)
	require.NotNil(t, res.Results[0].RecordID)
	require.Equal(t, StatusFailed, res.Results[1].Status)
	require.Nil(t, res.Results[1].RecordID)
	require.NotNil(t, res.Results[1].Failure)
	require.Equal(t, []int{1}, res.Results[1].Failure.IndexPath)
	require.Equal(t, StatusOK, res.Results[2].Status)

	// only the two successes hit the store
	require.Len(t, recs.inserted, 2)
	require.Len(t, res.Failures, 1)
}

func TestWriteBatch_AllFailuresSkipStore(t *testing.T) {
	recs := &fakeRecords{insertErr: fmt.Errorf("store should not be called")}
	svc := newTestIngest(recs)

	res, err := svc.WriteBatch(context.Background(), []model.Envelope{
		quantityEnv("bloodType", 1, "count"),
	})
	require.NoError(t, err)
	require.Equal(t, StatusFailed, res.Results[0].Status)
}

func TestWriteBatch_StoreErrorFailsCall(t *testing.T) {
	recs := &fakeRecords{insertErr: fmt.Errorf("disk full")}
	svc := newTestIngest(recs)

	_, err := svc.WriteBatch(context.Background(), []model.Envelope{
		quantityEnv("weight", 72.5, "kg"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
}

func TestWriteBatch_NestedFailuresOnSuccessfulItem(t *testing.T) {
	recs := &fakeRecords{}
	svc := newTestIngest(recs)

	workout := model.Envelope{
		Type:      "workout",
		StartTime: time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		Value:     model.ValuePayload{Kind: model.PayloadCategory, CategoryFamily: "workoutActivity", Label: "running"},
		SubRecords: []model.Envelope{
			quantityEnv("distance", 5, "km"),
			quantityEnv("distance", 5, "furlongs"),
		},
	}
	res, err := svc.WriteBatch(context.Background(), []model.Envelope{workout})
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Results[0].Status)
	require.NotNil(t, res.Results[0].RecordID)
	require.Len(t, res.Results[0].NestedFailures, 1)
	require.Equal(t, []int{0, 1}, res.Results[0].NestedFailures[0].IndexPath)
}

func TestCheckType(t *testing.T) {
	svc := newTestIngest(&fakeRecords{})

	ts := svc.CheckType("weight")
	require.True(t, ts.Supported)
	require.Equal(t, "weight", ts.Kind)
	require.Equal(t, "instant", ts.Class)
	require.Empty(t, ts.Reason)

	ts = svc.CheckType("bloodType")
	require.False(t, ts.Supported)
	require.NotEmpty(t, ts.Reason)
}

func TestTypes_SortedAndNonEmpty(t *testing.T) {
	svc := newTestIngest(&fakeRecords{})
	types := svc.Types()
	require.NotEmpty(t, types)
	require.Contains(t, types, "sleepSession")
}
