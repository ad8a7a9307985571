package model

import (
	"encoding/json"
	"time"
)

// StoredRecord is a persisted native record as returned by the store's read
// surface. Payload holds the full decoded record serialized as JSON.
type StoredRecord struct {
	RecordID     string          `json:"recordId"`
	ParentID     *string         `json:"parentId,omitempty"`
	Type         string          `json:"type"`
	Class        RecordClass     `json:"class"`
	StartTime    time.Time       `json:"startTime"`
	EndTime      time.Time       `json:"endTime"`
	Payload      json.RawMessage `json:"payload"`
	CreationTime time.Time       `json:"creationTime"`
}

// ListRecordsRequest captures filters used when listing stored records.
type ListRecordsRequest struct {
	Type  string
	Limit int
}
