package gear

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a Spec is structurally impossible
	// (non-positive tooth count, module, clearance or shaft angle).
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeometricSingularity is returned when a trigonometric denominator
	// vanishes or a derived value is not finite.
	ErrGeometricSingularity = errors.New("geometric singularity")
)

// Pipeline stage names reported in SolveError.Stage.
const (
	StageInput         = "input"
	StagePitchCone     = "pitch-cone"
	StageToothHeights  = "tooth-heights"
	StagePinionOffsets = "pinion-offsets"
)

// SolveError describes why a Spec could not be solved.
type SolveError struct {
	Stage string  // pipeline stage that failed
	Field string  // input field or derived quantity involved
	Value float64 // offending value (the denominator for singularities)
	Err   error   // ErrInvalidInput or ErrGeometricSingularity
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("gear: %s: %s (%g): %v", e.Stage, e.Field, e.Value, e.Err)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}

func invalid(field string, value float64) error {
	return &SolveError{Stage: StageInput, Field: field, Value: value, Err: ErrInvalidInput}
}
