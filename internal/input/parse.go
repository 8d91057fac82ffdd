// Package input turns user-supplied text and request bodies into validated
// simulation parameters.
package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Launch is the validated speed and angle typed by a user.
type Launch struct {
	Speed float64 `json:"speed"`
	Angle float64 `json:"angle"`
}

// ParseNumber parses a decimal number accepting either ',' or '.' as separator.
func ParseNumber(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q: %w", field, s, ErrInvalidInputFormat)
	}
	return v, nil
}

// ParseLaunch parses and validates the two prompt answers.
func ParseLaunch(speedText, angleText string) (Launch, error) {
	speed, err := ParseNumber("speed", speedText)
	if err != nil {
		return Launch{}, err
	}
	angle, err := ParseNumber("angle", angleText)
	if err != nil {
		return Launch{}, err
	}

	l := Launch{Speed: speed, Angle: angle}
	if err := l.Validate(); err != nil {
		return Launch{}, err
	}
	return l, nil
}

// Validate checks that the speed is strictly positive.
func (l Launch) Validate() error {
	if !(l.Speed > 0) {
		return fmt.Errorf("speed %g: %w", l.Speed, ErrNonPositiveSpeed)
	}
	return nil
}
