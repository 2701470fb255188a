package prediction

import (
	"errors"
	"fmt"
)

// ErrInvalidDigit is returned when a correction names a digit outside 0-9.
var ErrInvalidDigit = errors.New("digit must be between 0 and 9")

// PredictionError reports a prediction that could not be made because the
// drawing could not be turned into a grid. The cause is usually an
// *imaging.DecodeError and can be reached with errors.As.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("failed to predict digit: %v", e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}
