package decode

import (
	"fmt"
	"sort"

	"github.com/healthbridge/healthbridge/internal/categories"
	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/provenance"
	"github.com/healthbridge/healthbridge/internal/registry"
	"github.com/healthbridge/healthbridge/internal/unwrap"
)

// decodeSession handles ordered-stage sessions (sleep) and plain sessions
// (mindfulness). A malformed stage is excluded and recorded as a failure;
// a range or overlap violation on the surviving stages fails the session as
// a whole while the per-stage failures stay inspectable.
func (d *Decoder) decodeSession(env model.Envelope, entry registry.Entry, path []int) ItemResult {
	meta, err := provenance.Build(env.Source)
	if err != nil {
		f := model.FailureFromError(path, err)
		return ItemResult{Failure: &f}
	}

	if !env.EndTime.After(env.StartTime) {
		f := model.FailureFromError(path, fmt.Errorf("%w: session endTime must be after startTime",
			model.ErrInvalidTimeOrder))
		return ItemResult{Failure: &f}
	}

	title, err := metaString(env.Metadata, "title")
	if err != nil {
		f := model.FailureFromError(path, err)
		return ItemResult{Failure: &f}
	}
	notes, err := metaString(env.Metadata, "notes")
	if err != nil {
		f := model.FailureFromError(path, err)
		return ItemResult{Failure: &f}
	}

	rec := &model.SessionRecord{
		Kind:                   entry.Kind,
		StartTime:              env.StartTime,
		EndTime:                env.EndTime,
		StartZoneOffsetSeconds: env.StartZoneOffsetSeconds,
		EndZoneOffsetSeconds:   env.EndZoneOffsetSeconds,
		Title:                  title,
		Notes:                  notes,
		Stages:                 []model.SleepStage{},
		Meta:                   meta,
	}

	if entry.Kind != model.KindSleepSession {
		return ItemResult{Record: rec}
	}

	type indexedStage struct {
		stage model.SleepStage
		index int
	}

	agg := Aggregator{}
	var stages []indexedStage
	for i, sub := range env.SubRecords {
		p := subPath(path, i)
		if sub.Type != "sleepStage" {
			agg.Add(model.NewFailure(model.FailureDuringSessionInvalidType, p,
				"sleep sessions accept only sleepStage sub-records, got %q", sub.Type))
			continue
		}
		st, err := decodeStage(sub)
		if err != nil {
			agg.Add(model.NewFailure(model.FailureDuringSessionDecode, p, "%s", err.Error()))
			continue
		}
		stages = append(stages, indexedStage{stage: st, index: i})
	}

	// Structural validation runs on the surviving subset only: sorted by
	// start, stages must be pairwise non-overlapping and inside the session
	// range. Violations fail the session, they do not panic or abort the
	// batch.
	sort.SliceStable(stages, func(a, b int) bool {
		return stages[a].stage.StartTime.Before(stages[b].stage.StartTime)
	})
	for i, s := range stages {
		if s.stage.StartTime.Before(env.StartTime) || s.stage.EndTime.After(env.EndTime) {
			f := model.NewFailure(model.FailureDecode, path,
				"%s: stage %d [%s, %s) is outside the session range",
				model.ErrOutOfBoundsSubItem, s.index,
				s.stage.StartTime.Format("15:04:05"), s.stage.EndTime.Format("15:04:05"))
			return ItemResult{Failure: &f, SubFailures: agg.Failures()}
		}
		if i > 0 {
			prev := stages[i-1]
			if s.stage.StartTime.Before(prev.stage.EndTime) {
				f := model.NewFailure(model.FailureDecode, path,
					"%s: stages %d and %d overlap",
					model.ErrOverlappingSubItem, prev.index, s.index)
				return ItemResult{Failure: &f, SubFailures: agg.Failures()}
			}
		}
	}

	for _, s := range stages {
		rec.Stages = append(rec.Stages, s.stage)
	}
	return ItemResult{Record: rec, SubFailures: agg.Failures()}
}

// decodeStage decodes one sleep stage sub-envelope. Stage kind falls back to
// the unknown constant on a label miss.
func decodeStage(sub model.Envelope) (model.SleepStage, error) {
	if !sub.EndTime.After(sub.StartTime) {
		return model.SleepStage{}, fmt.Errorf("%w: stage endTime must be after startTime",
			model.ErrInvalidTimeOrder)
	}
	v, _, err := unwrap.Unwrap(sub.Value, unwrap.Category())
	if err != nil {
		return model.SleepStage{}, err
	}
	if v.Family != categories.FamilySleepStage {
		return model.SleepStage{}, fmt.Errorf("%w: category family %q, expected %q",
			model.ErrInvalidFieldType, v.Family, categories.FamilySleepStage)
	}
	return model.SleepStage{
		StartTime: sub.StartTime,
		EndTime:   sub.EndTime,
		StageKind: categories.DecodeOrUnknown(categories.FamilySleepStage, v.Label),
	}, nil
}
