// Package registry resolves generic type identifiers to native record
// variants, gated by platform version and optional feature availability.
// The table is built once at process start and never mutated.
package registry

import (
	"fmt"
	"sort"

	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/unwrap"
)

// FeatureStatus is the capability collaborator's answer for one feature.
type FeatureStatus int

const (
	FeatureUnknown FeatureStatus = iota
	FeatureAvailable
	FeatureUnavailable
)

// CapabilityProber queries the native store for optional feature support.
// Unknown and query errors are both treated as unavailable.
type CapabilityProber interface {
	FeatureStatus(featureID string) (FeatureStatus, error)
}

// Entry describes one supported record type.
type Entry struct {
	Kind        model.NativeKind
	Class       model.RecordClass
	Shape       unwrap.Shape
	MinPlatform int
	Feature     string // empty when no feature gate applies
}

// Feature identifiers consulted through the capability prober.
const (
	FeatureSkinTemperature = "feature.skinTemperature"
	FeaturePlannedExercise = "feature.plannedExercise"
)

// Registry holds the immutable type table plus the platform gates.
type Registry struct {
	platform int
	prober   CapabilityProber
	entries  map[string]Entry
}

// New builds a registry for the given platform version. prober may be nil,
// in which case every feature-gated type resolves as unsupported.
func New(platformVersion int, prober CapabilityProber) *Registry {
	return &Registry{platform: platformVersion, prober: prober, entries: buildEntries()}
}

// Resolve maps a type id to its native entry or an unsupported-type error.
func (r *Registry) Resolve(typeID string) (Entry, error) {
	e, ok := r.entries[typeID]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q is not a known record type", model.ErrUnsupportedType, typeID)
	}
	if r.platform < e.MinPlatform {
		return Entry{}, fmt.Errorf("%w: %q requires platform version %d, running %d",
			model.ErrUnsupportedType, typeID, e.MinPlatform, r.platform)
	}
	if e.Feature != "" && !r.featureAvailable(e.Feature) {
		return Entry{}, fmt.Errorf("%w: %q requires unavailable feature %s",
			model.ErrUnsupportedType, typeID, e.Feature)
	}
	return e, nil
}

// UnsupportedReason returns a human-readable cause for diagnostics, or ""
// when the type resolves. Never used for control flow.
func (r *Registry) UnsupportedReason(typeID string) string {
	if _, err := r.Resolve(typeID); err != nil {
		return err.Error()
	}
	return ""
}

// Types lists all registered type ids, sorted, for diagnostics.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) featureAvailable(featureID string) bool {
	if r.prober == nil {
		return false
	}
	st, err := r.prober.FeatureStatus(featureID)
	if err != nil {
		return false
	}
	return st == FeatureAvailable
}

// Platform baselines. Most types are available from the initial bridge
// release; later additions carry the version that introduced them.
const (
	platformBaseline        = 26
	platformSkinTemperature = 34
	platformPlannedExercise = 34
)

func buildEntries() map[string]Entry {
	q := unwrap.Quantity()
	c := unwrap.Category()
	none := unwrap.None()

	e := map[string]Entry{
		// instantaneous quantities
		"weight":                    {Kind: model.KindWeight, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"height":                    {Kind: model.KindHeight, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"bodyFat":                   {Kind: model.KindBodyFat, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"bodyWaterMass":             {Kind: model.KindBodyWaterMass, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"boneMass":                  {Kind: model.KindBoneMass, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"leanBodyMass":              {Kind: model.KindLeanBodyMass, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"restingHeartRate":          {Kind: model.KindRestingHeartRate, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"heartRateVariabilityRmssd": {Kind: model.KindHeartRateVariabilityRmssd, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"respiratoryRate":           {Kind: model.KindRespiratoryRate, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"oxygenSaturation":          {Kind: model.KindOxygenSaturation, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},
		"vo2Max":                    {Kind: model.KindVo2Max, Class: model.ClassInstant, Shape: q, MinPlatform: platformBaseline},

		// compound instantaneous records
		"bloodPressure": {
			Kind: model.KindBloodPressure, Class: model.ClassInstant,
			Shape: unwrap.Multiple(
				map[string]unwrap.Shape{"systolic": q, "diastolic": q},
				map[string]unwrap.Shape{"bodyPosition": c, "measurementLocation": c},
			),
			MinPlatform: platformBaseline,
		},
		"bloodGlucose": {
			Kind: model.KindBloodGlucose, Class: model.ClassInstant,
			Shape: unwrap.Multiple(
				map[string]unwrap.Shape{"level": q},
				map[string]unwrap.Shape{"mealType": c, "specimenSource": c, "relationToMeal": c},
			),
			MinPlatform: platformBaseline,
		},
		"bodyTemperature": {
			Kind: model.KindBodyTemperature, Class: model.ClassInstant,
			Shape: unwrap.Multiple(
				map[string]unwrap.Shape{"temperature": q},
				map[string]unwrap.Shape{"measurementLocation": c},
			),
			MinPlatform: platformBaseline,
		},
		"basalBodyTemperature": {
			Kind: model.KindBasalBodyTemperature, Class: model.ClassInstant,
			Shape: unwrap.Multiple(
				map[string]unwrap.Shape{"temperature": q},
				map[string]unwrap.Shape{"measurementLocation": c},
			),
			MinPlatform: platformBaseline,
		},
		"skinTemperature": {
			Kind: model.KindSkinTemperature, Class: model.ClassInterval,
			Shape: unwrap.Multiple(
				map[string]unwrap.Shape{"deltas": unwrap.Samples()},
				map[string]unwrap.Shape{"baseline": q, "measurementLocation": c},
			),
			MinPlatform: platformSkinTemperature,
			Feature:     FeatureSkinTemperature,
		},

		// instantaneous categories
		"cervicalMucus":          {Kind: model.KindCervicalMucus, Class: model.ClassInstant, Shape: c, MinPlatform: platformBaseline},
		"ovulationTest":          {Kind: model.KindOvulationTest, Class: model.ClassInstant, Shape: c, MinPlatform: platformBaseline},
		"sexualActivity":         {Kind: model.KindSexualActivity, Class: model.ClassInstant, Shape: c, MinPlatform: platformBaseline},
		"menstruationFlow":       {Kind: model.KindMenstruationFlow, Class: model.ClassInstant, Shape: c, MinPlatform: platformBaseline},
		"intermenstrualBleeding": {Kind: model.KindIntermenstrualBleeding, Class: model.ClassInstant, Shape: none, MinPlatform: platformBaseline},

		// interval accumulations
		"steps":              {Kind: model.KindSteps, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"distance":           {Kind: model.KindDistance, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"flightsClimbed":     {Kind: model.KindFlightsClimbed, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"activeEnergyBurned": {Kind: model.KindActiveEnergyBurned, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"totalEnergyBurned":  {Kind: model.KindTotalEnergyBurned, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"basalEnergyBurned":  {Kind: model.KindBasalEnergyBurned, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"hydration":          {Kind: model.KindHydration, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"wheelchairPushes":   {Kind: model.KindWheelchairPushes, Class: model.ClassInterval, Shape: q, MinPlatform: platformBaseline},
		"menstruationPeriod": {Kind: model.KindMenstruationPeriod, Class: model.ClassInterval, Shape: none, MinPlatform: platformBaseline},

		// interval time-series
		"heartRate":      {Kind: model.KindHeartRateSeries, Class: model.ClassInterval, Shape: unwrap.Samples(), MinPlatform: platformBaseline},
		"speed":          {Kind: model.KindSpeedSeries, Class: model.ClassInterval, Shape: unwrap.Samples(), MinPlatform: platformBaseline},
		"power":          {Kind: model.KindPowerSeries, Class: model.ClassInterval, Shape: unwrap.Samples(), MinPlatform: platformBaseline},
		"cyclingCadence": {Kind: model.KindCyclingCadenceSeries, Class: model.ClassInterval, Shape: unwrap.Samples(), MinPlatform: platformBaseline},
		"stepsCadence":   {Kind: model.KindStepsCadenceSeries, Class: model.ClassInterval, Shape: unwrap.Samples(), MinPlatform: platformBaseline},

		// sessions
		"mindfulnessSession": {Kind: model.KindMindfulnessSession, Class: model.ClassSession, Shape: none, MinPlatform: platformBaseline},
		"sleepSession":       {Kind: model.KindSleepSession, Class: model.ClassSession, Shape: none, MinPlatform: platformBaseline},
		"sleepStage":         {Kind: model.KindSleepStage, Class: model.ClassInterval, Shape: c, MinPlatform: platformBaseline},
		"workout":            {Kind: model.KindWorkout, Class: model.ClassComposite, Shape: c, MinPlatform: platformBaseline},
	}
	return e
}
