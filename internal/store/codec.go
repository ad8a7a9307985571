package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/healthbridge/healthbridge/internal/model"
)

// Row is the flattened form drivers persist. Composite nested records are
// inserted as their own rows parented by the session row.
type Row struct {
	Type      string
	Class     model.RecordClass
	StartTime time.Time
	EndTime   time.Time
	Payload   []byte
}

// Flatten serializes a native record into a driver-neutral row. Instant
// records store their timestamp in both time columns.
func Flatten(rec model.NativeRecord) (Row, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return Row{}, fmt.Errorf("marshal %s record: %w", rec.RecordKind(), err)
	}

	row := Row{
		Type:    rec.RecordKind().String(),
		Class:   rec.Class(),
		Payload: payload,
	}
	switch r := rec.(type) {
	case *model.InstantRecord:
		row.StartTime, row.EndTime = r.Time, r.Time
	case *model.IntervalRecord:
		row.StartTime, row.EndTime = r.StartTime, r.EndTime
	case *model.SessionRecord:
		row.StartTime, row.EndTime = r.StartTime, r.EndTime
	case *model.CompositeSessionRecord:
		row.StartTime, row.EndTime = r.StartTime, r.EndTime
	default:
		return Row{}, fmt.Errorf("unknown native record form %T", rec)
	}
	return row, nil
}
