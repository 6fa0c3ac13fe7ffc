package group

import (
	"fmt"

	"github.com/go-errors/errors"
)

// ParameterGenerationError is returned when no valid (p, q, g) was found within the search
// bounds, or when the search was cancelled. It is recoverable: widen the bounds or retry.
type ParameterGenerationError struct {
	Reason string
	Err    error
}

func (e *ParameterGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parameter generation failed: %s: %v", e.Reason, e.Err)
	}
	return "parameter generation failed: " + e.Reason
}

func (e *ParameterGenerationError) Unwrap() error {
	return e.Err
}

// InvalidParametersError is returned when (p, q, g) violate the group invariants. Nothing
// may be derived from such parameters.
type InvalidParametersError struct {
	Reason string
}

func (e *InvalidParametersError) Error() string {
	return "invalid group parameters: " + e.Reason
}

func generationError(err error, format string, args ...interface{}) error {
	return errors.Wrap(&ParameterGenerationError{Reason: fmt.Sprintf(format, args...), Err: err}, 1)
}

// Invalid returns an *InvalidParametersError with a stack trace.
func Invalid(format string, args ...interface{}) error {
	return errors.Wrap(&InvalidParametersError{Reason: fmt.Sprintf(format, args...)}, 1)
}
