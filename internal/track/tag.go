package track

import "time"

// Tag is a workspace-scoped label attached to time entries by id.
type Tag struct {
	ID          int64
	Name        string
	CreatorID   int64
	WorkspaceID int64
	At          time.Time
	DeletedAt   *time.Time

	store *Store
}

func decodeTag(raw map[string]any, store *Store) (*Tag, error) {
	o := newObject(raw)
	t := &Tag{
		ID:          o.int64Field("id"),
		Name:        o.stringField("name"),
		CreatorID:   o.int64Field("creator_id"),
		WorkspaceID: o.int64Field("workspace_id"),
		At:          o.timeField("at"),
		DeletedAt:   o.optTimeField("deleted_at"),
		store:       store,
	}
	if err := o.err(KindTag); err != nil {
		return nil, err
	}
	return t, nil
}

// Deleted reports whether the tag has been soft-deleted upstream. Deleted
// tags stay in the store and remain retrievable.
func (t *Tag) Deleted() bool {
	return t.DeletedAt != nil
}

// Workspace resolves the owning workspace through the store.
func (t *Tag) Workspace() (*Workspace, error) {
	if t.store == nil {
		return nil, ErrDetachedEntity
	}
	w, _ := t.store.GetWorkspace(t.WorkspaceID)
	return w, nil
}
