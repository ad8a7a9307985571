// Package provenance builds the origin metadata the target store requires
// for every written record.
package provenance

import (
	"fmt"

	"github.com/healthbridge/healthbridge/internal/model"
)

// Build converts a source descriptor into record metadata. Actively and
// automatically recorded methods require a device descriptor; manual,
// unknown and absent sources produce metadata without one.
func Build(src *model.SourceDescriptor) (model.Metadata, error) {
	if src == nil {
		return model.Metadata{RecordingMethod: model.RecordingUnknown}, nil
	}

	method := src.RecordingMethod
	switch method {
	case model.RecordingManual, model.RecordingActive, model.RecordingAuto:
	case model.RecordingUnknown, "":
		method = model.RecordingUnknown
	default:
		return model.Metadata{}, fmt.Errorf("%w: unrecognized recording method %q",
			model.ErrInvalidFieldType, src.RecordingMethod)
	}

	if (method == model.RecordingActive || method == model.RecordingAuto) && src.Device == nil {
		return model.Metadata{}, fmt.Errorf("%w: %s records must name field %q",
			model.ErrMissingDeviceForRecordingMethod, method, "device")
	}

	meta := model.Metadata{
		RecordingMethod: method,
		Device:          src.Device,
		ClientRecordID:  src.ClientRecordID,
	}
	if src.ClientRecordVersion != nil {
		meta.ClientRecordVersion = *src.ClientRecordVersion
	}
	return meta, nil
}
