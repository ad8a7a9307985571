package model

import "time"

// RecordingMethod describes how a record was captured at its origin.
type RecordingMethod string

const (
	RecordingManual  RecordingMethod = "manual"
	RecordingActive  RecordingMethod = "activelyRecorded"
	RecordingAuto    RecordingMethod = "autoRecorded"
	RecordingUnknown RecordingMethod = "unknown"
)

// DeviceInfo identifies the device that produced a measurement.
type DeviceInfo struct {
	Manufacturer *string `json:"manufacturer,omitempty"`
	Model        *string `json:"model,omitempty"`
	Type         string  `json:"type,omitempty"`
}

// SourceDescriptor carries provenance supplied by the submitting client.
type SourceDescriptor struct {
	RecordingMethod     RecordingMethod `json:"recordingMethod"`
	Device              *DeviceInfo     `json:"device,omitempty"`
	ClientRecordID      *string         `json:"clientRecordId,omitempty"`
	ClientRecordVersion *int64          `json:"clientRecordVersion,omitempty"`
}

// PayloadKind tags the variants of the generic value payload.
type PayloadKind string

const (
	PayloadQuantity PayloadKind = "quantity"
	PayloadCategory PayloadKind = "category"
	PayloadMultiple PayloadKind = "multiple"
	PayloadSamples  PayloadKind = "samples"
	PayloadLabel    PayloadKind = "label"
	PayloadNone     PayloadKind = "none"
)

// SamplePoint is one time-series point, offset-addressed from the record start.
type SamplePoint struct {
	OffsetMillis int64   `json:"offsetMillis"`
	Value        float64 `json:"value"`
}

// ValuePayload is the wire value union. Kind selects which of the remaining
// fields are meaningful; the rest are left at their zero values.
type ValuePayload struct {
	Kind PayloadKind `json:"kind"`

	// quantity
	Value float64 `json:"value,omitempty"`
	Unit  string  `json:"unit,omitempty"`

	// category
	CategoryFamily string `json:"categoryFamily,omitempty"`
	Label          string `json:"label,omitempty"`

	// multiple
	Fields map[string]ValuePayload `json:"fields,omitempty"`

	// samples (Unit shared with quantity)
	Points []SamplePoint `json:"points,omitempty"`

	// label
	Text string `json:"text,omitempty"`
}

// Envelope is the generic wire representation of one health record.
// Field names are part of the cross-platform contract and must not change.
// SubRecords is an additive extension consumed only by session-kind decoders
// (sleep stages, workout sub-records); data decoders ignore it.
type Envelope struct {
	ID                     *string                `json:"id,omitempty"`
	Type                   string                 `json:"type"`
	StartTime              time.Time              `json:"startTime"`
	EndTime                time.Time              `json:"endTime"`
	StartZoneOffsetSeconds int32                  `json:"startZoneOffsetSeconds"`
	EndZoneOffsetSeconds   int32                  `json:"endZoneOffsetSeconds"`
	Value                  ValuePayload           `json:"value"`
	Source                 *SourceDescriptor      `json:"source,omitempty"`
	Metadata               map[string]interface{} `json:"metadata,omitempty"`
	SubRecords             []Envelope             `json:"subRecords,omitempty"`
}
