package track

import "time"

// Workspace is a Toggl workspace, the parent scope for projects, clients,
// tags and time entries.
type Workspace struct {
	ID    int64
	Name  string
	Admin bool
	At    time.Time // Last update timestamp from Toggl

	store *Store
}

func decodeWorkspace(raw map[string]any, store *Store) (*Workspace, error) {
	o := newObject(raw)
	w := &Workspace{
		ID:    o.int64Field("id"),
		Name:  o.stringField("name"),
		Admin: o.boolField("admin"),
		At:    o.timeField("at"),
		store: store,
	}
	if err := o.err(KindWorkspace); err != nil {
		return nil, err
	}
	return w, nil
}

// Projects returns the projects the store knows in this workspace.
func (w *Workspace) Projects() ([]*Project, error) {
	if w.store == nil {
		return nil, ErrDetachedEntity
	}
	return w.store.WorkspaceProjects(w.ID)
}

// Clients returns the billing clients the store knows in this workspace.
func (w *Workspace) Clients() ([]*Client, error) {
	if w.store == nil {
		return nil, ErrDetachedEntity
	}
	return w.store.WorkspaceClients(w.ID)
}

// Tags returns the tags the store knows in this workspace.
func (w *Workspace) Tags() ([]*Tag, error) {
	if w.store == nil {
		return nil, ErrDetachedEntity
	}
	return w.store.WorkspaceTags(w.ID)
}

// Entries returns the time entries the store knows in this workspace.
func (w *Workspace) Entries() ([]*TimeEntry, error) {
	if w.store == nil {
		return nil, ErrDetachedEntity
	}
	return w.store.WorkspaceEntries(w.ID)
}
