package assessment

import "errors"

// Error taxonomy surfaced by the orchestrator. Callers branch with
// errors.Is; anything not wrapping one of these is an internal failure.
var (
	// ErrNotFound: missing configuration, session or test type.
	ErrNotFound = errors.New("not found")
	// ErrValidation: malformed value, question outside the current test, or
	// a mutation against a session that no longer accepts one.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden: the requesting user does not own the session.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict: completion of a test slot that has already advanced.
	ErrConflict = errors.New("conflict")
)
