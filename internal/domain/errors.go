package domain

import "errors"

// Sentinel errors for the failure taxonomy. Services wrap these with
// fmt.Errorf("...: %w", Err...) and the API layer maps them to status codes.
var (
	// ErrUnauthenticated indicates a missing, malformed, invalid or expired credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid credential for a disallowed account.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the resource is absent or not owned by the caller.
	// The two cases are intentionally indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates malformed input, such as a non-UUID id.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict indicates a uniqueness violation on create.
	ErrConflict = errors.New("conflict")
)
