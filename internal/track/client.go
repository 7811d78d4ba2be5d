package track

import "time"

// Client is a billing client owned by a workspace. The v9 API still reports
// the owning workspace under the legacy "wid" key.
type Client struct {
	ID          int64
	Name        string
	Archived    bool
	WorkspaceID int64
	At          time.Time

	store *Store
}

func decodeClient(raw map[string]any, store *Store) (*Client, error) {
	o := newObject(raw)
	c := &Client{
		ID:          o.int64Field("id"),
		Name:        o.stringField("name"),
		Archived:    o.boolField("archived"),
		WorkspaceID: o.int64Field("wid"),
		At:          o.timeField("at"),
		store:       store,
	}
	if err := o.err(KindClient); err != nil {
		return nil, err
	}
	return c, nil
}

// Workspace resolves the owning workspace through the store. It is nil when
// the workspace has not been ingested yet; that is a normal condition, not
// an error.
func (c *Client) Workspace() (*Workspace, error) {
	if c.store == nil {
		return nil, ErrDetachedEntity
	}
	w, _ := c.store.GetWorkspace(c.WorkspaceID)
	return w, nil
}
