package track

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized indicates the API rejected the session credentials.
	// The session is unusable until a fresh login.
	ErrUnauthorized = errors.New("toggl: credentials rejected")

	// ErrPaymentRequired indicates the requested feature is gated behind a
	// paid plan.
	ErrPaymentRequired = errors.New("toggl: feature requires a paid plan")

	// ErrNotFound indicates the requested resource does not exist upstream.
	ErrNotFound = errors.New("toggl: not found")

	// ErrInvalidState indicates a lifecycle precondition failed locally,
	// such as stopping an entry that is already stopped.
	ErrInvalidState = errors.New("toggl: invalid entry state")

	// ErrDetachedEntity indicates a relational accessor or mutation was
	// called on an entity that was constructed without a store.
	ErrDetachedEntity = errors.New("toggl: entity is not attached to a store")

	// ErrNotLoggedIn indicates a session operation ran before Login.
	ErrNotLoggedIn = errors.New("toggl: not logged in")
)

// APIError is any non-2xx upstream response that does not map to a more
// specific sentinel. It carries the status and raw body for diagnosis.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toggl: unexpected status %d: %s", e.Status, e.Body)
}

// WorkspaceNotFoundError indicates a child lookup referenced a workspace id
// absent from the workspace primary map.
type WorkspaceNotFoundError struct {
	WorkspaceID int64
}

func (e *WorkspaceNotFoundError) Error() string {
	return fmt.Sprintf("toggl: workspace %d not in store", e.WorkspaceID)
}

// MalformedEntityError indicates a payload failed required-field validation
// during ingestion. Problems holds one finding per offending field.
type MalformedEntityError struct {
	Kind     Kind
	Problems []string
}

func (e *MalformedEntityError) Error() string {
	return fmt.Sprintf("toggl: malformed %s payload: %s", e.Kind, strings.Join(e.Problems, "; "))
}
