package coreid

import "errors"

// Error kinds per spec §7. Fallible operations in this module wrap one of
// these sentinels, where one applies, with fmt.Errorf("...: %w", ...) so
// callers can branch with errors.Is.
var (
	// ErrNotFound: unknown Store/Job/Document/Chunk.
	ErrNotFound = errors.New("not found")

	// ErrInvalid: schema/constraint violation. Never mutates state.
	ErrInvalid = errors.New("invalid")

	// ErrConflict: duplicate Store name, conflicting adapter extension.
	ErrConflict = errors.New("conflict")

	// ErrCorruption: unparseable registry or job file. Fatal to the
	// affected subsystem.
	ErrCorruption = errors.New("corruption")

	// ErrCancelled: cooperative cancellation observed inside a worker.
	ErrCancelled = errors.New("cancelled")

	// ErrTransient: network timeout, subprocess spawn jitter. Caller may
	// retry once.
	ErrTransient = errors.New("transient")

	// ErrDimensionMismatch: vector dimension differs from the Store's
	// fixed dimension (a specific ErrInvalid case called out by spec §4.3).
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalid reports whether err wraps ErrInvalid or ErrDimensionMismatch.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid) || errors.Is(err, ErrDimensionMismatch)
}

// IsConflict reports whether err wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsCancelled reports whether err wraps ErrCancelled.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }

// IsTransient reports whether err wraps ErrTransient.
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }
