package provenance

import (
	"errors"
	"testing"

	"github.com/healthbridge/healthbridge/internal/model"
)

func TestBuild_NilSource(t *testing.T) {
	meta, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.RecordingMethod != model.RecordingUnknown {
		t.Fatalf("method = %q, want unknown", meta.RecordingMethod)
	}
	if meta.Device != nil {
		t.Fatalf("nil source must not carry a device")
	}
}

func TestBuild_AutoRequiresDevice(t *testing.T) {
	for _, m := range []model.RecordingMethod{model.RecordingActive, model.RecordingAuto} {
		_, err := Build(&model.SourceDescriptor{RecordingMethod: m})
		if !errors.Is(err, model.ErrMissingDeviceForRecordingMethod) {
			t.Fatalf("%s without device: expected ErrMissingDeviceForRecordingMethod, got %v", m, err)
		}
	}
}

func TestBuild_AutoWithDevice(t *testing.T) {
	maker := "Acme"
	v := int64(3)
	id := "client-1"
	meta, err := Build(&model.SourceDescriptor{
		RecordingMethod:     model.RecordingAuto,
		Device:              &model.DeviceInfo{Manufacturer: &maker, Type: "watch"},
		ClientRecordID:      &id,
		ClientRecordVersion: &v,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Device == nil || meta.Device.Type != "watch" {
		t.Fatalf("device not carried: %+v", meta)
	}
	if meta.ClientRecordVersion != 3 || meta.ClientRecordID == nil || *meta.ClientRecordID != "client-1" {
		t.Fatalf("sync fields not carried: %+v", meta)
	}
}

func TestBuild_ManualNeedsNoDevice(t *testing.T) {
	meta, err := Build(&model.SourceDescriptor{RecordingMethod: model.RecordingManual})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.RecordingMethod != model.RecordingManual {
		t.Fatalf("method = %q", meta.RecordingMethod)
	}
}

func TestBuild_UnrecognizedMethod(t *testing.T) {
	_, err := Build(&model.SourceDescriptor{RecordingMethod: "telepathy"})
	if !errors.Is(err, model.ErrInvalidFieldType) {
		t.Fatalf("expected ErrInvalidFieldType, got %v", err)
	}
}

func TestBuild_EmptyMethodDefaultsUnknown(t *testing.T) {
	meta, err := Build(&model.SourceDescriptor{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.RecordingMethod != model.RecordingUnknown {
		t.Fatalf("method = %q, want unknown", meta.RecordingMethod)
	}
}
