package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInterval means the requested end time is not after the start.
	ErrInvalidInterval = errors.New("end_time must be after start_time")

	// ErrNoAvailability means every spot is occupied during some portion
	// of the requested interval.
	ErrNoAvailability = errors.New("no spots available for the requested time range")

	// ErrValidation marks a malformed or missing required field.
	ErrValidation = errors.New("invalid request")
)

func validationError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}
