package ports

import (
	"context"
	"encoding/json"
)

// Transport executes authenticated calls against the Toggl Track API and
// returns the raw JSON response for the caller to ingest. Implementations
// own authentication, request pacing, and status-code error mapping; they
// must execute requests one at a time in arrival order.
type Transport interface {
	// Me fetches the session profile, optionally with the full related-data
	// graph (workspaces, clients, tags, projects, time entries) embedded.
	Me(ctx context.Context, withRelatedData bool) (json.RawMessage, error)

	// MyWorkspaces, MyProjects and MyTags fetch the respective collections
	// visible to the session. A non-zero since (unix seconds) asks only for
	// items modified after that instant.
	MyWorkspaces(ctx context.Context, since int64) (json.RawMessage, error)
	MyProjects(ctx context.Context, since int64) (json.RawMessage, error)
	MyTags(ctx context.Context, since int64) (json.RawMessage, error)

	// CurrentEntry fetches the running time entry, if any. Implementations
	// surface upstream 404 as a NotFound error; a 200 null body is returned
	// as-is for the caller to normalize.
	CurrentEntry(ctx context.Context) (json.RawMessage, error)

	// CreateEntry creates a time entry in the given workspace.
	CreateEntry(ctx context.Context, workspaceID int64, body map[string]any) (json.RawMessage, error)

	// StopEntry stops a running time entry and returns its updated form.
	StopEntry(ctx context.Context, workspaceID, entryID int64) (json.RawMessage, error)
}
