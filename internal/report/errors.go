package report

import "errors"

// Failure kinds surfaced by the report engine and materializer.
// Callers branch on them with errors.Is.
var (
	// ErrInvalidArgument is returned before any store access when the
	// canteen id is empty or the week start is malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable wraps any read or write failure of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrComputation flags an arithmetic impossibility such as an empty bucket.
	ErrComputation = errors.New("computation error")
)
