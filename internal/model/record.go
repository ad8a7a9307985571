package model

import "time"

// NativeKind is the closed set of native record variants the bridge can
// produce. Adding a kind means adding a case to the data decoder's switch;
// there is no reflective "recognized but not implemented" path.
type NativeKind int

const (
	KindUnspecified NativeKind = iota

	// instantaneous measurements
	KindWeight
	KindHeight
	KindBodyFat
	KindBodyWaterMass
	KindBoneMass
	KindLeanBodyMass
	KindBloodGlucose
	KindBloodPressure
	KindBodyTemperature
	KindBasalBodyTemperature
	KindRestingHeartRate
	KindHeartRateVariabilityRmssd
	KindRespiratoryRate
	KindOxygenSaturation
	KindVo2Max
	KindCervicalMucus
	KindOvulationTest
	KindSexualActivity
	KindMenstruationFlow
	KindIntermenstrualBleeding

	// interval accumulations
	KindSteps
	KindDistance
	KindFlightsClimbed
	KindActiveEnergyBurned
	KindTotalEnergyBurned
	KindBasalEnergyBurned
	KindHydration
	KindWheelchairPushes
	KindMenstruationPeriod

	// interval time-series
	KindHeartRateSeries
	KindSpeedSeries
	KindPowerSeries
	KindCyclingCadenceSeries
	KindStepsCadenceSeries
	KindSkinTemperature

	// sessions
	KindMindfulnessSession
	KindSleepSession
	KindSleepStage
	KindWorkout
)

var kindNames = map[NativeKind]string{
	KindUnspecified:               "unspecified",
	KindWeight:                    "weight",
	KindHeight:                    "height",
	KindBodyFat:                   "bodyFat",
	KindBodyWaterMass:             "bodyWaterMass",
	KindBoneMass:                  "boneMass",
	KindLeanBodyMass:              "leanBodyMass",
	KindBloodGlucose:              "bloodGlucose",
	KindBloodPressure:             "bloodPressure",
	KindBodyTemperature:           "bodyTemperature",
	KindBasalBodyTemperature:      "basalBodyTemperature",
	KindRestingHeartRate:          "restingHeartRate",
	KindHeartRateVariabilityRmssd: "heartRateVariabilityRmssd",
	KindRespiratoryRate:           "respiratoryRate",
	KindOxygenSaturation:          "oxygenSaturation",
	KindVo2Max:                    "vo2Max",
	KindCervicalMucus:             "cervicalMucus",
	KindOvulationTest:             "ovulationTest",
	KindSexualActivity:            "sexualActivity",
	KindMenstruationFlow:          "menstruationFlow",
	KindIntermenstrualBleeding:    "intermenstrualBleeding",
	KindSteps:                     "steps",
	KindDistance:                  "distance",
	KindFlightsClimbed:            "flightsClimbed",
	KindActiveEnergyBurned:        "activeEnergyBurned",
	KindTotalEnergyBurned:         "totalEnergyBurned",
	KindBasalEnergyBurned:         "basalEnergyBurned",
	KindHydration:                 "hydration",
	KindWheelchairPushes:          "wheelchairPushes",
	KindMenstruationPeriod:        "menstruationPeriod",
	KindHeartRateSeries:           "heartRate",
	KindSpeedSeries:               "speed",
	KindPowerSeries:               "power",
	KindCyclingCadenceSeries:      "cyclingCadence",
	KindStepsCadenceSeries:        "stepsCadence",
	KindSkinTemperature:           "skinTemperature",
	KindMindfulnessSession:        "mindfulnessSession",
	KindSleepSession:              "sleepSession",
	KindSleepStage:                "sleepStage",
	KindWorkout:                   "workout",
}

func (k NativeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unspecified"
}

// RecordClass distinguishes the structural form of a native record.
type RecordClass string

const (
	ClassInstant   RecordClass = "instant"
	ClassInterval  RecordClass = "interval"
	ClassSession   RecordClass = "session"
	ClassComposite RecordClass = "composite"
)

// FieldKind tags the typed-field union carried by decoded records.
type FieldKind string

const (
	FieldQuantity FieldKind = "quantity"
	FieldCategory FieldKind = "category"
	FieldSamples  FieldKind = "samples"
	FieldCount    FieldKind = "count"
)

// Field is one typed constructor argument of a native record. Quantities and
// sample values are already converted to the canonical unit named by Unit.
type Field struct {
	Kind FieldKind `json:"kind"`

	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`

	Family   string `json:"family,omitempty"`
	Category int32  `json:"category,omitempty"`

	Samples []SamplePoint `json:"samples,omitempty"`

	Count int64 `json:"count,omitempty"`
}

// QuantityField builds a canonical quantity field.
func QuantityField(value float64, unit string) Field {
	return Field{Kind: FieldQuantity, Quantity: value, Unit: unit}
}

// CategoryField builds a native category-constant field.
func CategoryField(family string, constant int32) Field {
	return Field{Kind: FieldCategory, Family: family, Category: constant}
}

// SamplesField builds a canonical time-series field.
func SamplesField(points []SamplePoint, unit string) Field {
	return Field{Kind: FieldSamples, Samples: points, Unit: unit}
}

// CountField builds a whole-number field.
func CountField(n int64) Field {
	return Field{Kind: FieldCount, Count: n}
}

// Metadata is provenance attached to every decoded record.
type Metadata struct {
	RecordingMethod     RecordingMethod `json:"recordingMethod"`
	Device              *DeviceInfo     `json:"device,omitempty"`
	ClientRecordID      *string         `json:"clientRecordId,omitempty"`
	ClientRecordVersion int64           `json:"clientRecordVersion,omitempty"`
}

// NativeRecord is the closed set of decoded record forms ready for
// persistence in the target store.
type NativeRecord interface {
	RecordKind() NativeKind
	Class() RecordClass
}

// InstantRecord is a point-in-time measurement.
type InstantRecord struct {
	Kind              NativeKind       `json:"kind"`
	Time              time.Time        `json:"time"`
	ZoneOffsetSeconds int32            `json:"zoneOffsetSeconds"`
	Fields            map[string]Field `json:"fields"`
	Meta              Metadata         `json:"metadata"`
}

func (r *InstantRecord) RecordKind() NativeKind { return r.Kind }
func (r *InstantRecord) Class() RecordClass     { return ClassInstant }

// IntervalRecord is a measurement accumulated over a time range.
type IntervalRecord struct {
	Kind                   NativeKind       `json:"kind"`
	StartTime              time.Time        `json:"startTime"`
	EndTime                time.Time        `json:"endTime"`
	StartZoneOffsetSeconds int32            `json:"startZoneOffsetSeconds"`
	EndZoneOffsetSeconds   int32            `json:"endZoneOffsetSeconds"`
	Fields                 map[string]Field `json:"fields"`
	Meta                   Metadata         `json:"metadata"`
}

func (r *IntervalRecord) RecordKind() NativeKind { return r.Kind }
func (r *IntervalRecord) Class() RecordClass     { return ClassInterval }

// SleepStage is one ordered sub-item of a session record.
type SleepStage struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	StageKind int32     `json:"stageKind"`
}

// SessionRecord is a session with an ordered, non-overlapping stage list.
type SessionRecord struct {
	Kind                   NativeKind   `json:"kind"`
	StartTime              time.Time    `json:"startTime"`
	EndTime                time.Time    `json:"endTime"`
	StartZoneOffsetSeconds int32        `json:"startZoneOffsetSeconds"`
	EndZoneOffsetSeconds   int32        `json:"endZoneOffsetSeconds"`
	Title                  *string      `json:"title,omitempty"`
	Notes                  *string      `json:"notes,omitempty"`
	Stages                 []SleepStage `json:"stages"`
	Meta                   Metadata     `json:"metadata"`
}

func (r *SessionRecord) RecordKind() NativeKind { return r.Kind }
func (r *SessionRecord) Class() RecordClass     { return ClassSession }

// CompositeSessionRecord is a session carrying independently decoded nested
// records (workout with steps, distance, heart-rate series, ...).
type CompositeSessionRecord struct {
	StartTime              time.Time      `json:"startTime"`
	EndTime                time.Time      `json:"endTime"`
	StartZoneOffsetSeconds int32          `json:"startZoneOffsetSeconds"`
	EndZoneOffsetSeconds   int32          `json:"endZoneOffsetSeconds"`
	ActivityKind           int32          `json:"activityKind"`
	Title                  *string        `json:"title,omitempty"`
	Meta                   Metadata       `json:"metadata"`
	Nested                 []NativeRecord `json:"nested,omitempty"`
}

func (r *CompositeSessionRecord) RecordKind() NativeKind { return KindWorkout }
func (r *CompositeSessionRecord) Class() RecordClass     { return ClassComposite }
