package input

import "errors"

// Validation errors raised before a simulation is run.
var (
	// ErrInvalidInputFormat indicates text that does not parse as a number.
	ErrInvalidInputFormat = errors.New("input: not a number")

	// ErrNonPositiveSpeed indicates a launch speed of zero or less.
	ErrNonPositiveSpeed = errors.New("input: speed must be positive")

	// ErrInvalidTimeStep indicates dt <= 0 or a non-finite dt.
	ErrInvalidTimeStep = errors.New("input: time step must be positive")

	// ErrInvalidDuration indicates a negative or non-finite total time.
	ErrInvalidDuration = errors.New("input: total time must be zero or positive")

	// ErrInvalidTable indicates a table side that is not strictly positive.
	ErrInvalidTable = errors.New("input: table sides must be positive")

	// ErrTooManySamples indicates total_time/dt above the configured limit.
	ErrTooManySamples = errors.New("input: too many samples requested")

	// ErrNumericOverflow indicates finite inputs whose motion leaves the float64 range.
	ErrNumericOverflow = errors.New("input: values too large to simulate")
)

// Code returns a short machine-readable code for a validation error, or "" if
// err is not one of ours.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInputFormat):
		return "invalid_input_format"
	case errors.Is(err, ErrNonPositiveSpeed):
		return "non_positive_speed"
	case errors.Is(err, ErrInvalidTimeStep):
		return "invalid_time_step"
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrInvalidTable):
		return "invalid_table"
	case errors.Is(err, ErrTooManySamples):
		return "too_many_samples"
	case errors.Is(err, ErrNumericOverflow):
		return "numeric_overflow"
	}
	return ""
}

// Message returns the text shown to a person at the prompt.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInputFormat):
		return "Error: please enter numbers."
	case errors.Is(err, ErrNonPositiveSpeed):
		return "Speed must be positive."
	case err == nil:
		return ""
	}
	return "Error: " + err.Error()
}
