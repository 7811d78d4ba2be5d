package track

import (
	"context"
	"fmt"
	"time"
)

// runningSentinel is the duration value the v9 API expects when creating an
// entry that should start running immediately.
const runningSentinel = -1

// TimeEntry is a tracked span of time. Duration holds the raw wire value in
// seconds; it is negative while the entry is running, so use ActualDuration
// for the elapsed time.
type TimeEntry struct {
	ID              int64
	Description     string
	Start           time.Time
	Stop            *time.Time
	Duration        int64
	WorkspaceID     int64
	ProjectID       *int64
	TagIDs          []int64
	TagNames        []string
	At              *time.Time
	Billable        *bool
	ServerDeletedAt *time.Time

	store *Store
}

func decodeTimeEntry(raw map[string]any, store *Store) (*TimeEntry, error) {
	o := newObject(raw)
	e := &TimeEntry{
		ID:              o.int64Field("id"),
		Description:     o.optStringField("description"),
		Start:           o.timeField("start"),
		Stop:            o.optTimeField("stop"),
		Duration:        o.int64Field("duration"),
		WorkspaceID:     o.int64Field("workspace_id"),
		ProjectID:       o.optInt64Field("project_id"),
		TagIDs:          o.optInt64SliceField("tag_ids"),
		TagNames:        o.optStringSliceField("tags"),
		At:              o.optTimeField("at"),
		Billable:        o.optBoolField("billable"),
		ServerDeletedAt: o.optTimeField("server_deleted_at"),
		store:           store,
	}
	if err := o.err(KindTimeEntry); err != nil {
		return nil, err
	}
	return e, nil
}

// Running reports whether the entry is still accruing time. An entry is
// running if and only if it has no stop timestamp; the negative-duration
// sentinel is written on creation but never consulted here.
func (e *TimeEntry) Running() bool {
	return e.Stop == nil
}

// ActualDuration returns the elapsed seconds: the stored duration once the
// entry is stopped, or the time since start while it runs.
func (e *TimeEntry) ActualDuration() int64 {
	if !e.Running() {
		return e.Duration
	}
	return int64(time.Since(e.Start).Seconds())
}

// Deleted reports whether the entry has been soft-deleted upstream.
func (e *TimeEntry) Deleted() bool {
	return e.ServerDeletedAt != nil
}

// Workspace resolves the owning workspace through the store.
func (e *TimeEntry) Workspace() (*Workspace, error) {
	if e.store == nil {
		return nil, ErrDetachedEntity
	}
	w, _ := e.store.GetWorkspace(e.WorkspaceID)
	return w, nil
}

// Project resolves the entry's project, nil when it has none or the project
// has not been ingested.
func (e *TimeEntry) Project() (*Project, error) {
	if e.store == nil {
		return nil, ErrDetachedEntity
	}
	if e.ProjectID == nil {
		return nil, nil
	}
	p, _ := e.store.GetProject(*e.ProjectID)
	return p, nil
}

// Tags resolves the entry's tag ids against the store. Ids the store has not
// seen are skipped rather than reported.
func (e *TimeEntry) Tags() ([]*Tag, error) {
	if e.store == nil {
		return nil, ErrDetachedEntity
	}
	tags := make([]*Tag, 0, len(e.TagIDs))
	for _, id := range e.TagIDs {
		if t, ok := e.store.GetTag(id); ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// StopEntry stops the running entry upstream, ingests the returned entity
// over the stale local copy and returns the refreshed model.
func (e *TimeEntry) StopEntry(ctx context.Context) (*TimeEntry, error) {
	if e.store == nil || e.store.transport == nil {
		return nil, ErrDetachedEntity
	}
	if e.Stop != nil {
		return nil, fmt.Errorf("%w: entry %d is already stopped", ErrInvalidState, e.ID)
	}
	raw, err := e.store.transport.StopEntry(ctx, e.WorkspaceID, e.ID)
	if err != nil {
		return nil, err
	}
	return e.store.ingestEntryPayload(raw)
}

// ContinueEntry starts a fresh entry seeded from this one: same description,
// project and tags, starting now. Overrides are merged over the seeded
// request body verbatim. The result is a new entity with its own id; the
// stopped entry is left untouched.
func (e *TimeEntry) ContinueEntry(ctx context.Context, overrides map[string]any) (*TimeEntry, error) {
	if e.store == nil || e.store.transport == nil {
		return nil, ErrDetachedEntity
	}
	if e.Running() {
		return nil, fmt.Errorf("%w: entry %d is still running", ErrInvalidState, e.ID)
	}

	body := map[string]any{
		"description": e.Description,
		"start":       time.Now().UTC().Format(time.RFC3339),
		"duration":    runningSentinel,
	}
	if e.ProjectID != nil {
		body["project_id"] = *e.ProjectID
	}
	if len(e.TagIDs) > 0 {
		body["tag_ids"] = e.TagIDs
	}
	for key, value := range overrides {
		body[key] = value
	}

	raw, err := e.store.transport.CreateEntry(ctx, e.WorkspaceID, body)
	if err != nil {
		return nil, err
	}
	return e.store.ingestEntryPayload(raw)
}
