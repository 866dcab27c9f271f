package revalidate

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTarget is returned when a scheduler is created without a
	// target.
	ErrNilTarget = errors.New("revalidate: target cannot be nil")

	// ErrNilSource is returned when focus or reconnect triggers are
	// requested without a signal source.
	ErrNilSource = errors.New("revalidate: signal source cannot be nil")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("revalidate: scheduler already started")

	// ErrInvalidName is returned when the scheduler name is empty.
	ErrInvalidName = errors.New("revalidate: name cannot be empty")

	// ErrInvalidInterval is returned when the interval is negative.
	ErrInvalidInterval = errors.New("revalidate: interval cannot be negative")
)

// ErrInvalidCronSpec creates an error for an unparseable cron spec.
func ErrInvalidCronSpec(spec string, err error) error {
	return fmt.Errorf("revalidate: invalid cron spec %q: %w", spec, err)
}
