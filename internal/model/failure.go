package model

import (
	"errors"
	"fmt"
)

// Sentinel decode errors. Decoders wrap these with %w so callers can classify
// with errors.Is while the message carries the field-level detail.
var (
	ErrUnsupportedType                 = errors.New("unsupported record type")
	ErrMissingRequiredField            = errors.New("missing required field")
	ErrInvalidFieldType                = errors.New("invalid field type")
	ErrInvalidUnit                     = errors.New("invalid unit")
	ErrInvalidCategoryValue            = errors.New("invalid category value")
	ErrInvalidTimeOrder                = errors.New("invalid time order")
	ErrOutOfBoundsSubItem              = errors.New("sub-item outside session range")
	ErrOverlappingSubItem              = errors.New("overlapping sub-items")
	ErrMissingDeviceForRecordingMethod = errors.New("recording method requires a device")
)

// FailureKind classifies a per-item decode failure.
type FailureKind string

const (
	FailureInvalidFormat            FailureKind = "invalidFormat"
	FailureDecode                   FailureKind = "decode"
	FailureUnexpected               FailureKind = "unexpected"
	FailureDuringSessionInvalidType FailureKind = "duringSessionInvalidType"
	FailureDuringSessionDecode      FailureKind = "duringSessionDecode"
)

// Failure is a structured, index-addressed decode failure. IndexPath locates
// the failed item within nested batch structures, e.g. [2,1] for the second
// nested sub-record of the third batch item.
type Failure struct {
	IndexPath []int       `json:"indexPath"`
	Message   string      `json:"message"`
	Kind      FailureKind `json:"kind"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s at %v: %s", f.Kind, f.IndexPath, f.Message)
}

// NewFailure builds a failure, copying the index path so callers may reuse
// their scratch slice.
func NewFailure(kind FailureKind, path []int, format string, args ...interface{}) Failure {
	p := make([]int, len(path))
	copy(p, path)
	return Failure{IndexPath: p, Message: fmt.Sprintf(format, args...), Kind: kind}
}

// FailureFromError maps a decode error onto the failure taxonomy. Resolution
// errors become invalidFormat, everything wrapped from the sentinel set
// becomes decode, and anything else is the unexpected catch-all.
func FailureFromError(path []int, err error) Failure {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return NewFailure(FailureInvalidFormat, path, "%s", err.Error())
	case errors.Is(err, ErrMissingRequiredField),
		errors.Is(err, ErrInvalidFieldType),
		errors.Is(err, ErrInvalidUnit),
		errors.Is(err, ErrInvalidCategoryValue),
		errors.Is(err, ErrInvalidTimeOrder),
		errors.Is(err, ErrOutOfBoundsSubItem),
		errors.Is(err, ErrOverlappingSubItem),
		errors.Is(err, ErrMissingDeviceForRecordingMethod):
		return NewFailure(FailureDecode, path, "%s", err.Error())
	default:
		return NewFailure(FailureUnexpected, path, "%s", err.Error())
	}
}
