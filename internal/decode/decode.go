// Package decode turns generic record envelopes into strongly-typed native
// records. Decoding is pure and stateless beyond the read-only registry, so
// batch items run in parallel; a failure in one item never aborts a sibling,
// and a failure in a nested sub-record never aborts its parent session.
package decode

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/healthbridge/healthbridge/internal/model"
	"github.com/healthbridge/healthbridge/internal/registry"
)

// Decoder resolves and decodes envelopes against an immutable registry.
type Decoder struct {
	reg *registry.Registry
	log zerolog.Logger
}

func New(reg *registry.Registry, log zerolog.Logger) *Decoder {
	return &Decoder{reg: reg, log: log}
}

// ItemResult is the outcome for one batch item: either Record or Failure is
// set. SubFailures carries nested sub-record and stage failures with
// absolute index paths; it can accompany a successful composite record.
type ItemResult struct {
	Record      model.NativeRecord
	Failure     *model.Failure
	SubFailures []model.Failure
}

// BatchResult preserves input order: Items[i] corresponds to envelope i.
type BatchResult struct {
	Items []ItemResult
}

// Records returns the successfully decoded records in input order.
func (b BatchResult) Records() []model.NativeRecord {
	var out []model.NativeRecord
	for _, it := range b.Items {
		if it.Record != nil {
			out = append(out, it.Record)
		}
	}
	return out
}

// Failures merges all item and sub-record failures in input order. Returns
// nil when the whole batch decoded cleanly.
func (b BatchResult) Failures() []model.Failure {
	agg := Aggregator{}
	for _, it := range b.Items {
		if it.Failure != nil {
			agg.Add(*it.Failure)
		}
		agg.AddAll(it.SubFailures)
	}
	return agg.Failures()
}

// DecodeBatch decodes every envelope independently. ctx bounds only the
// dispatch; individual decodes are sub-millisecond pure computation and are
// never cancelled mid-item.
func (d *Decoder) DecodeBatch(ctx context.Context, envs []model.Envelope) BatchResult {
	items := make([]ItemResult, len(envs))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range envs {
		if ctx.Err() != nil {
			f := model.NewFailure(model.FailureUnexpected, []int{i}, "batch cancelled before decode")
			items[i] = ItemResult{Failure: &f}
			continue
		}
		i := i
		g.Go(func() error {
			// Failures are data, never group errors: returning non-nil
			// would let one item cancel its siblings.
			items[i] = d.DecodeOne(envs[i], []int{i})
			return nil
		})
	}
	_ = g.Wait()

	return BatchResult{Items: items}
}

// DecodeOne decodes a single envelope addressed by path. It never panics
// past the record boundary; defensive failures surface as Unexpected.
func (d *Decoder) DecodeOne(env model.Envelope, path []int) (res ItemResult) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error().
				Interface("panic", rec).
				Str("type", env.Type).
				Ints("indexPath", path).
				Msg("decode panic recovered")
			f := model.NewFailure(model.FailureUnexpected, path, "internal decode error: %v", rec)
			res = ItemResult{Failure: &f}
		}
	}()

	entry, err := d.reg.Resolve(env.Type)
	if err != nil {
		f := model.FailureFromError(path, err)
		return ItemResult{Failure: &f}
	}

	switch entry.Class {
	case model.ClassSession:
		return d.decodeSession(env, entry, path)
	case model.ClassComposite:
		return d.decodeWorkout(env, entry, path)
	default:
		rec, err := d.decodeData(env, entry)
		if err != nil {
			f := model.FailureFromError(path, err)
			return ItemResult{Failure: &f}
		}
		return ItemResult{Record: rec}
	}
}

// metaString extracts an optional string entry from the envelope metadata.
func metaString(m map[string]interface{}, key string) (*string, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: metadata %q must be a string", model.ErrInvalidFieldType, key)
	}
	return &s, nil
}

func subPath(path []int, i int) []int {
	p := make([]int, len(path), len(path)+1)
	copy(p, path)
	return append(p, i)
}
