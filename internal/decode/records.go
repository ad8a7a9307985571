package decode

import (
	"fmt"
	"math"

	"github.com/healthbridge/healthbridge/internal/categories"
	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/provenance"
	"github.com/healthbridge/healthbridge/internal/registry"
	"github.com/healthbridge/healthbridge/internal/units"
	"github.com/healthbridge/healthbridge/internal/unwrap"
)

// Dimensionless unit literals accepted verbatim (no conversion applies).
const (
	unitCount       = "count"
	unitCountPerMin = "count/min"
	unitPercent     = "percent"
	unitMillis      = "ms"
	unitVo2         = "mL/kg/min"
)

// decodeData decodes every non-session record kind. It is invoked standalone
// for top-level batch items and recursively by the workout decoder for
// nested sub-records; it mutates no shared state.
func (d *Decoder) decodeData(env model.Envelope, entry registry.Entry) (model.NativeRecord, error) {
	meta, err := provenance.Build(env.Source)
	if err != nil {
		return nil, err
	}

	if entry.Class == model.ClassInterval && env.EndTime.Before(env.StartTime) {
		return nil, fmt.Errorf("%w: endTime %s precedes startTime %s",
			model.ErrInvalidTimeOrder, env.EndTime.Format("2006-01-02T15:04:05Z07:00"),
			env.StartTime.Format("2006-01-02T15:04:05Z07:00"))
	}

	v, derived, err := unwrap.Unwrap(env.Value, entry.Shape)
	if err != nil {
		return nil, err
	}

	fields := map[string]model.Field{}

	switch entry.Kind {
	// --- mass ---
	case model.KindWeight, model.KindBodyWaterMass, model.KindBoneMass, model.KindLeanBodyMass:
		f, err := quantityField(units.Mass, v)
		if err != nil {
			return nil, err
		}
		fields["mass"] = f

	case model.KindHeight:
		f, err := quantityField(units.Length, v)
		if err != nil {
			return nil, err
		}
		fields["height"] = f

	// --- dimensionless instants ---
	case model.KindBodyFat, model.KindOxygenSaturation:
		f, err := literalField(v, unitPercent)
		if err != nil {
			return nil, err
		}
		fields["percentage"] = f

	case model.KindRestingHeartRate:
		f, err := literalField(v, unitCountPerMin)
		if err != nil {
			return nil, err
		}
		fields["beatsPerMinute"] = f

	case model.KindRespiratoryRate:
		f, err := literalField(v, unitCountPerMin)
		if err != nil {
			return nil, err
		}
		fields["rate"] = f

	case model.KindHeartRateVariabilityRmssd:
		f, err := literalField(v, unitMillis)
		if err != nil {
			return nil, err
		}
		fields["heartRateVariabilityMillis"] = f

	case model.KindVo2Max:
		f, err := literalField(v, unitVo2)
		if err != nil {
			return nil, err
		}
		fields["vo2MillilitersPerMinuteKilogram"] = f

	// --- compound instants ---
	case model.KindBloodPressure:
		sys, err := quantityField(units.Pressure, v.Fields["systolic"])
		if err != nil {
			return nil, err
		}
		dia, err := quantityField(units.Pressure, v.Fields["diastolic"])
		if err != nil {
			return nil, err
		}
		fields["systolic"] = sys
		fields["diastolic"] = dia
		fields["bodyPosition"] = auxCategory(derived, "bodyPosition", categories.FamilyBodyPosition)
		fields["measurementLocation"] = auxCategory(derived, "measurementLocation", categories.FamilyMeasurementLocation)

	case model.KindBloodGlucose:
		level, err := quantityField(units.BloodGlucose, v.Fields["level"])
		if err != nil {
			return nil, err
		}
		fields["level"] = level
		fields["mealType"] = auxCategory(derived, "mealType", categories.FamilyMealType)
		fields["specimenSource"] = auxCategory(derived, "specimenSource", categories.FamilySpecimenSource)
		fields["relationToMeal"] = auxCategory(derived, "relationToMeal", categories.FamilyRelationToMeal)

	case model.KindBodyTemperature, model.KindBasalBodyTemperature:
		temp, err := quantityField(units.Temperature, v.Fields["temperature"])
		if err != nil {
			return nil, err
		}
		fields["temperature"] = temp
		fields["measurementLocation"] = auxCategory(derived, "measurementLocation", categories.FamilyMeasurementLocation)

	case model.KindSkinTemperature:
		deltas, err := samplesField(units.TemperatureDelta, v.Fields["deltas"])
		if err != nil {
			return nil, err
		}
		fields["deltas"] = deltas
		if base, ok := derived["baseline"]; ok {
			bf, err := quantityField(units.Temperature, base)
			if err != nil {
				return nil, err
			}
			fields["baseline"] = bf
		}
		fields["measurementLocation"] = auxCategory(derived, "measurementLocation", categories.FamilySkinTemperatureLocation)

	// --- instantaneous categories ---
	case model.KindCervicalMucus:
		f, err := categoryField(v, categories.FamilyCervicalMucus, false)
		if err != nil {
			return nil, err
		}
		fields["appearance"] = f

	case model.KindOvulationTest:
		f, err := categoryField(v, categories.FamilyOvulationTest, false)
		if err != nil {
			return nil, err
		}
		fields["result"] = f

	case model.KindSexualActivity:
		f, err := categoryField(v, categories.FamilySexualActivityProtection, false)
		if err != nil {
			return nil, err
		}
		fields["protectionUsed"] = f

	case model.KindMenstruationFlow:
		// Flow level is the record's defining discriminator: an unknown
		// label is a decode failure, not a fallback.
		f, err := categoryField(v, categories.FamilyMenstrualFlow, true)
		if err != nil {
			return nil, err
		}
		fields["flow"] = f

	case model.KindSleepStage:
		f, err := categoryField(v, categories.FamilySleepStage, false)
		if err != nil {
			return nil, err
		}
		fields["stage"] = f

	case model.KindIntermenstrualBleeding, model.KindMenstruationPeriod:
		// flag-only records, no value carried

	// --- interval accumulations ---
	case model.KindSteps, model.KindWheelchairPushes:
		f, err := countField(v)
		if err != nil {
			return nil, err
		}
		fields["count"] = f

	case model.KindFlightsClimbed:
		f, err := literalField(v, unitCount)
		if err != nil {
			return nil, err
		}
		fields["floors"] = f

	case model.KindDistance:
		f, err := quantityField(units.Length, v)
		if err != nil {
			return nil, err
		}
		fields["distance"] = f

	case model.KindActiveEnergyBurned, model.KindTotalEnergyBurned:
		f, err := quantityField(units.Energy, v)
		if err != nil {
			return nil, err
		}
		fields["energy"] = f

	case model.KindBasalEnergyBurned:
		f, err := quantityField(units.Power, v)
		if err != nil {
			return nil, err
		}
		fields["basalMetabolicRate"] = f

	case model.KindHydration:
		f, err := quantityField(units.Volume, v)
		if err != nil {
			return nil, err
		}
		fields["volume"] = f

	// --- interval time-series ---
	case model.KindHeartRateSeries:
		f, err := literalSamplesField(v, unitCountPerMin)
		if err != nil {
			return nil, err
		}
		fields["samples"] = f

	case model.KindSpeedSeries:
		f, err := samplesField(units.Velocity, v)
		if err != nil {
			return nil, err
		}
		fields["samples"] = f

	case model.KindPowerSeries:
		f, err := samplesField(units.Power, v)
		if err != nil {
			return nil, err
		}
		fields["samples"] = f

	case model.KindCyclingCadenceSeries, model.KindStepsCadenceSeries:
		f, err := literalSamplesField(v, unitCountPerMin)
		if err != nil {
			return nil, err
		}
		fields["samples"] = f

	default:
		return nil, fmt.Errorf("%w: no decoder for native kind %q", model.ErrUnsupportedType, entry.Kind)
	}

	if entry.Class == model.ClassInstant {
		return &model.InstantRecord{
			Kind:              entry.Kind,
			Time:              env.StartTime,
			ZoneOffsetSeconds: env.StartZoneOffsetSeconds,
			Fields:            fields,
			Meta:              meta,
		}, nil
	}
	return &model.IntervalRecord{
		Kind:                   entry.Kind,
		StartTime:              env.StartTime,
		EndTime:                env.EndTime,
		StartZoneOffsetSeconds: env.StartZoneOffsetSeconds,
		EndZoneOffsetSeconds:   env.EndZoneOffsetSeconds,
		Fields:                 fields,
		Meta:                   meta,
	}, nil
}

// quantityField converts an unwrapped quantity into the canonical unit of
// the dimension.
func quantityField(dim units.Dimension, v unwrap.Value) (model.Field, error) {
	cv, err := units.ToCanonical(dim, v.Quantity, v.Unit)
	if err != nil {
		return model.Field{}, err
	}
	return model.QuantityField(cv, units.CanonicalUnit(dim)), nil
}

// literalField accepts only the single dimensionless unit the kind defines.
func literalField(v unwrap.Value, want string) (model.Field, error) {
	if v.Unit != want {
		return model.Field{}, fmt.Errorf("%w: %q is not a recognized unit, expected %q",
			model.ErrInvalidUnit, v.Unit, want)
	}
	return model.QuantityField(v.Quantity, want), nil
}

func countField(v unwrap.Value) (model.Field, error) {
	if v.Unit != unitCount {
		return model.Field{}, fmt.Errorf("%w: %q is not a recognized unit, expected %q",
			model.ErrInvalidUnit, v.Unit, unitCount)
	}
	return model.CountField(int64(math.Round(v.Quantity))), nil
}

// samplesField converts every point of a time series to the canonical unit.
func samplesField(dim units.Dimension, v unwrap.Value) (model.Field, error) {
	out := make([]model.SamplePoint, len(v.Points))
	for i, p := range v.Points {
		cv, err := units.ToCanonical(dim, p.Value, v.Unit)
		if err != nil {
			return model.Field{}, err
		}
		out[i] = model.SamplePoint{OffsetMillis: p.OffsetMillis, Value: cv}
	}
	return model.SamplesField(out, units.CanonicalUnit(dim)), nil
}

func literalSamplesField(v unwrap.Value, want string) (model.Field, error) {
	if v.Unit != want {
		return model.Field{}, fmt.Errorf("%w: %q is not a recognized unit, expected %q",
			model.ErrInvalidUnit, v.Unit, want)
	}
	return model.SamplesField(v.Points, want), nil
}

// categoryField resolves a category-shaped leaf. The payload family must
// match the family the kind declares. When discriminator is set an unknown
// label escalates to a decode error; otherwise it falls back to Unknown.
func categoryField(v unwrap.Value, family string, discriminator bool) (model.Field, error) {
	if v.Family != family {
		return model.Field{}, fmt.Errorf("%w: category family %q, expected %q",
			model.ErrInvalidFieldType, v.Family, family)
	}
	c, ok := categories.Decode(family, v.Label)
	if !ok {
		if discriminator {
			return model.Field{}, fmt.Errorf("%w: %q is not a valid %s label",
				model.ErrInvalidCategoryValue, v.Label, family)
		}
		c = categories.Unknown
	}
	return model.CategoryField(family, c), nil
}

// auxCategory resolves an optional derived category field, falling back to
// the family Unknown constant on absence or a label miss.
func auxCategory(derived map[string]unwrap.Value, name, family string) model.Field {
	if v, ok := derived[name]; ok {
		return model.CategoryField(family, categories.DecodeOrUnknown(family, v.Label))
	}
	return model.CategoryField(family, categories.Unknown)
}
