package domain

import "errors"

// Error kinds surfaced by every failing operation. Callers branch with
// errors.Is; no operation returns an untyped failure for these cases.
var (
	// ErrValidation marks malformed input: empty title or body, a non-http
	// image URL, an invalid email, a weak password, an unknown role.
	ErrValidation = errors.New("invalid input")

	// ErrPermission marks a denial from the authorization policy. Never
	// retried.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound marks a referenced account or article that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate registration or an approval against a
	// finalized account.
	ErrConflict = errors.New("conflict")

	// ErrRemote marks an unreachable or rejecting collaborator (store,
	// identity provider, text-analysis service). The caller may retry with
	// backoff; nothing in this service retries automatically.
	ErrRemote = errors.New("remote failure")

	// ErrInvalidCredentials and ErrAccountDisabled are sign-in outcomes
	// surfaced from the identity provider.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)
