package decode

import (
	"fmt"

	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/provenance"
	"github.com/healthbridge/healthbridge/internal/registry"
	"github.com/healthbridge/healthbridge/internal/unwrap"
)

// workoutActivityFamily is the wire family carried by workout envelopes.
// Activity kinds resolve through a direct table, not the category mapper.
const workoutActivityFamily = "workoutActivity"

// ActivityOther is the fallback kind for unrecognized activity labels.
const ActivityOther int32 = 0

var workoutActivities = map[string]int32{
	"other":                         ActivityOther,
	"running":                       1,
	"runningTreadmill":              2,
	"walking":                       3,
	"cycling":                       4,
	"cyclingStationary":             5,
	"swimmingPool":                  6,
	"swimmingOpenWater":             7,
	"hiking":                        8,
	"strengthTraining":              9,
	"weightlifting":                 10,
	"yoga":                          11,
	"pilates":                       12,
	"rowing":                        13,
	"rowingMachine":                 14,
	"elliptical":                    15,
	"stairClimbing":                 16,
	"highIntensityIntervalTraining": 17,
	"calisthenics":                  18,
	"tennis":                        19,
	"badminton":                     20,
	"tableTennis":                   21,
	"basketball":                    22,
	"soccer":                        23,
	"football":                      24,
	"rugby":                         25,
	"golf":                          26,
	"dancing":                       27,
	"boxing":                        28,
	"martialArts":                   29,
	"skiing":                        30,
	"snowboarding":                  31,
	"iceSkating":                    32,
	"paddling":                      33,
	"surfing":                       34,
	"sailing":                       35,
	"rockClimbing":                  36,
	"gymnastics":                    37,
	"skating":                       38,
	"scubaDiving":                   39,
}

// decodeWorkout decodes the composite session unconditionally, then each
// nested sub-record independently; malformed sub-records are excluded and
// recorded, never aborting the parent.
func (d *Decoder) decodeWorkout(env model.Envelope, entry registry.Entry, path []int) ItemResult {
	meta, err := provenance.Build(env.Source)
	if err != nil {
		f := model.FailureFromError(path, err)
		return ItemResult{Failure: &f}
	}

	if !env.EndTime.After(env.StartTime) {
		f := model.FailureFromError(path, fmt.Errorf("%w: workout endTime must be after startTime",
			model.ErrInvalidTimeOrder))
		return ItemResult{Failure: &f}
	}

	v, _, err := unwrap.Unwrap(env.Value, entry.Shape)
	if err != nil {
		f := model.FailureFromError(path, err)
		return ItemResult{Failure: &f}
	}
	if v.Family != workoutActivityFamily {
		f := model.FailureFromError(path, fmt.Errorf("%w: category family %q, expected %q",
			model.ErrInvalidFieldType, v.Family, workoutActivityFamily))
		return ItemResult{Failure: &f}
	}
	activity, ok := workoutActivities[v.Label]
	if !ok {
		activity = ActivityOther
	}

	title, err := metaString(env.Metadata, "title")
	if err != nil {
		f := model.FailureFromError(path, err)
		return ItemResult{Failure: &f}
	}

	rec := &model.CompositeSessionRecord{
		StartTime:              env.StartTime,
		EndTime:                env.EndTime,
		StartZoneOffsetSeconds: env.StartZoneOffsetSeconds,
		EndZoneOffsetSeconds:   env.EndZoneOffsetSeconds,
		ActivityKind:           activity,
		Title:                  title,
		Meta:                   meta,
	}

	agg := Aggregator{}
	for i, sub := range env.SubRecords {
		p := subPath(path, i)

		subEntry, err := d.reg.Resolve(sub.Type)
		if err != nil {
			agg.Add(model.NewFailure(model.FailureDuringSessionInvalidType, p, "%s", err.Error()))
			continue
		}
		if subEntry.Class == model.ClassSession || subEntry.Class == model.ClassComposite {
			agg.Add(model.NewFailure(model.FailureDuringSessionInvalidType, p,
				"session kind %q cannot nest inside a workout", sub.Type))
			continue
		}

		nested, err := d.decodeData(sub, subEntry)
		if err != nil {
			agg.Add(model.NewFailure(model.FailureDuringSessionDecode, p, "%s", err.Error()))
			continue
		}
		rec.Nested = append(rec.Nested, nested)
	}

	return ItemResult{Record: rec, SubFailures: agg.Failures()}
}
