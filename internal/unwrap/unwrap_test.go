package unwrap

import (
	"errors"
	"strings"
	"testing"

	"github.com/healthbridge/healthbridge/internal/model"
)

func TestUnwrap_QuantityHappyPath(t *testing.T) {
	p := model.ValuePayload{Kind: model.PayloadQuantity, Value: 72.5, Unit: "kg"}
	v, derived, err := Unwrap(p, Quantity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Quantity != 72.5 || v.Unit != "kg" {
		t.Fatalf("got %+v", v)
	}
	if derived != nil {
		t.Fatalf("quantity shape has no derived fields")
	}
}

func TestUnwrap_ShapeMismatch(t *testing.T) {
	p := model.ValuePayload{Kind: model.PayloadCategory, CategoryFamily: "sleepStage", Label: "deep"}
	_, _, err := Unwrap(p, Quantity())
	if !errors.Is(err, model.ErrInvalidFieldType) {
		t.Fatalf("expected ErrInvalidFieldType, got %v", err)
	}
}

func TestUnwrap_MissingRequiredFieldNamesField(t *testing.T) {
	shape := Multiple(map[string]Shape{"systolic": Quantity(), "diastolic": Quantity()}, nil)
	p := model.ValuePayload{
		Kind: model.PayloadMultiple,
		Fields: map[string]model.ValuePayload{
			"systolic": {Kind: model.PayloadQuantity, Value: 120, Unit: "mmHg"},
		},
	}
	_, _, err := Unwrap(p, shape)
	if !errors.Is(err, model.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
	if !strings.Contains(err.Error(), "diastolic") {
		t.Fatalf("error should name the missing field: %v", err)
	}
}

func TestUnwrap_EmptySamplesRejected(t *testing.T) {
	p := model.ValuePayload{Kind: model.PayloadSamples, Unit: "count/min"}
	_, _, err := Unwrap(p, Samples())
	if !errors.Is(err, model.ErrInvalidFieldType) {
		t.Fatalf("expected ErrInvalidFieldType for empty samples, got %v", err)
	}
}

func TestUnwrap_DerivedSideTable(t *testing.T) {
	shape := Multiple(
		map[string]Shape{"temperature": Quantity()},
		map[string]Shape{"measurementLocation": Category()},
	)
	p := model.ValuePayload{
		Kind: model.PayloadMultiple,
		Fields: map[string]model.ValuePayload{
			"temperature":         {Kind: model.PayloadQuantity, Value: 37.2, Unit: "celsius"},
			"measurementLocation": {Kind: model.PayloadCategory, CategoryFamily: "measurementLocation", Label: "mouth"},
		},
	}
	v, derived, err := Unwrap(p, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Fields["temperature"].Quantity != 37.2 {
		t.Fatalf("required field not unwrapped: %+v", v)
	}
	loc, ok := derived["measurementLocation"]
	if !ok {
		t.Fatalf("derived side-table missing measurementLocation")
	}
	if loc.Label != "mouth" {
		t.Fatalf("derived label = %q", loc.Label)
	}
}

func TestUnwrap_DerivedAbsentIsFine(t *testing.T) {
	shape := Multiple(
		map[string]Shape{"temperature": Quantity()},
		map[string]Shape{"measurementLocation": Category()},
	)
	p := model.ValuePayload{
		Kind: model.PayloadMultiple,
		Fields: map[string]model.ValuePayload{
			"temperature": {Kind: model.PayloadQuantity, Value: 36.5, Unit: "celsius"},
		},
	}
	_, derived, err := Unwrap(p, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if derived != nil {
		t.Fatalf("expected nil side-table when no derived fields supplied")
	}
}

func TestUnwrap_DerivedWrongShape(t *testing.T) {
	shape := Multiple(
		map[string]Shape{"temperature": Quantity()},
		map[string]Shape{"measurementLocation": Category()},
	)
	p := model.ValuePayload{
		Kind: model.PayloadMultiple,
		Fields: map[string]model.ValuePayload{
			"temperature":         {Kind: model.PayloadQuantity, Value: 36.5, Unit: "celsius"},
			"measurementLocation": {Kind: model.PayloadQuantity, Value: 4, Unit: "count"},
		},
	}
	_, _, err := Unwrap(p, shape)
	if !errors.Is(err, model.ErrInvalidFieldType) {
		t.Fatalf("expected ErrInvalidFieldType for wrong derived shape, got %v", err)
	}
}

func TestUnwrap_MissingTagTreatedAsNone(t *testing.T) {
	v, _, err := Unwrap(model.ValuePayload{}, None())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != model.PayloadNone {
		t.Fatalf("kind = %q, want none", v.Kind)
	}
}
