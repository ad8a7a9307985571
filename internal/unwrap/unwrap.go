// Package unwrap interprets the generic value envelope against the shape a
// record type declares, producing typed leaves plus a side-table of named
// auxiliary sub-fields (measurementLocation, baseline, ...). The side-table
// is typed from the start so no downstream cast can silently yield nothing.
package unwrap

import (
	"fmt"

	"github.com/healthbridge/healthbridge/internal/model"
)

// Shape declares the payload kind a record type expects. For Multiple,
// Required lists sub-fields that must be present (unwrapped recursively) and
// Derived lists optional auxiliary sub-fields routed to the side-table.
type Shape struct {
	Kind     model.PayloadKind
	Required map[string]Shape
	Derived  map[string]Shape
}

// Convenience constructors used by the registry's kind table.
func Quantity() Shape { return Shape{Kind: model.PayloadQuantity} }
func Category() Shape { return Shape{Kind: model.PayloadCategory} }
func Samples() Shape  { return Shape{Kind: model.PayloadSamples} }
func Label() Shape    { return Shape{Kind: model.PayloadLabel} }
func None() Shape     { return Shape{Kind: model.PayloadNone} }

func Multiple(required map[string]Shape, derived map[string]Shape) Shape {
	return Shape{Kind: model.PayloadMultiple, Required: required, Derived: derived}
}

// Value is one unwrapped, validated leaf (or tree, for Multiple).
type Value struct {
	Kind model.PayloadKind

	Quantity float64
	Unit     string

	Family string
	Label  string

	Points []model.SamplePoint

	Text string

	Fields map[string]Value
}

// Unwrap validates payload against the expected shape. It returns the
// unwrapped value and the derived side-table (nil when the shape declares no
// auxiliary fields or none were supplied).
func Unwrap(p model.ValuePayload, s Shape) (Value, map[string]Value, error) {
	v, err := unwrapField("value", p, s)
	if err != nil {
		return Value{}, nil, err
	}

	var derived map[string]Value
	if s.Kind == model.PayloadMultiple && len(s.Derived) > 0 {
		for name, ds := range s.Derived {
			fp, ok := p.Fields[name]
			if !ok {
				continue
			}
			dv, err := unwrapField(name, fp, ds)
			if err != nil {
				return Value{}, nil, err
			}
			if derived == nil {
				derived = make(map[string]Value, len(s.Derived))
			}
			derived[name] = dv
		}
	}
	return v, derived, nil
}

func unwrapField(name string, p model.ValuePayload, s Shape) (Value, error) {
	kind := p.Kind
	if kind == "" {
		kind = model.PayloadNone
	}
	if kind != s.Kind {
		return Value{}, fmt.Errorf("%w: field %q expected %s payload, got %s",
			model.ErrInvalidFieldType, name, s.Kind, kind)
	}

	switch s.Kind {
	case model.PayloadQuantity:
		if p.Unit == "" {
			return Value{}, fmt.Errorf("%w: field %q quantity has no unit", model.ErrInvalidFieldType, name)
		}
		return Value{Kind: kind, Quantity: p.Value, Unit: p.Unit}, nil

	case model.PayloadCategory:
		if p.CategoryFamily == "" || p.Label == "" {
			return Value{}, fmt.Errorf("%w: field %q category requires categoryFamily and label",
				model.ErrInvalidFieldType, name)
		}
		return Value{Kind: kind, Family: p.CategoryFamily, Label: p.Label}, nil

	case model.PayloadSamples:
		if len(p.Points) == 0 {
			return Value{}, fmt.Errorf("%w: field %q samples list is empty", model.ErrInvalidFieldType, name)
		}
		if p.Unit == "" {
			return Value{}, fmt.Errorf("%w: field %q samples have no unit", model.ErrInvalidFieldType, name)
		}
		return Value{Kind: kind, Points: p.Points, Unit: p.Unit}, nil

	case model.PayloadLabel:
		return Value{Kind: kind, Text: p.Text}, nil

	case model.PayloadNone:
		return Value{Kind: model.PayloadNone}, nil

	case model.PayloadMultiple:
		out := Value{Kind: kind, Fields: make(map[string]Value, len(s.Required))}
		for sub, subShape := range s.Required {
			fp, ok := p.Fields[sub]
			if !ok {
				return Value{}, fmt.Errorf("%w: %q", model.ErrMissingRequiredField, sub)
			}
			fv, err := unwrapField(sub, fp, subShape)
			if err != nil {
				return Value{}, err
			}
			out.Fields[sub] = fv
		}
		return out, nil

	default:
		return Value{}, fmt.Errorf("%w: field %q has unknown shape kind %q",
			model.ErrInvalidFieldType, name, s.Kind)
	}
}
