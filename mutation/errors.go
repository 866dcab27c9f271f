package mutation

import "errors"

var (
	// ErrNilMutator is returned when an executor is created without a
	// mutator.
	ErrNilMutator = errors.New("mutation: mutator cannot be nil")

	// ErrNilInvalidator is returned when an executor is created
	// without an invalidator.
	ErrNilInvalidator = errors.New("mutation: invalidator cannot be nil")
)
