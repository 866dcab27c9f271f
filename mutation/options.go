package mutation

// Options configures an executor's callbacks and cache effects. All
// fields are optional.
type Options[TData any] struct {
	// OnSuccess runs after a successful mutation with the result.
	OnSuccess func(data TData)
	// OnError runs after a failed mutation with the error.
	OnError func(err error)
	// OnSettled runs after every mutation, success or failure.
	OnSettled func()

	// OptimisticUpdate applies the expected result to local state
	// before the mutator runs. The executor keeps no snapshot; callers
	// that need restoration handle it in OnError.
	OptimisticUpdate func()
	// RollbackOnError tells the caller's error path to restore the
	// optimistic update.
	RollbackOnError bool

	// InvalidateKeys lists cache keys to evict after a success. A key
	// ending in the prefix wildcard evicts every key with that prefix.
	InvalidateKeys []string
	// ClearCache evicts the entire cache after a success, for
	// sign-out style mutations.
	ClearCache bool
}
