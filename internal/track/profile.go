package track

import "time"

// Profile is the account the session is logged in as. It is the root of a
// session, not a workspace child, so the store keeps at most one and never
// indexes it under a workspace.
type Profile struct {
	ID                 int64
	Fullname           string
	Email              string
	Timezone           string
	DefaultWorkspaceID int64
	BeginningOfWeek    int64
	CountryID          *int64
	ImageURL           string
	At                 *time.Time
	CreatedAt          *time.Time
	UpdatedAt          *time.Time

	store *Store
}

func decodeProfile(raw map[string]any, store *Store) (*Profile, error) {
	o := newObject(raw)
	p := &Profile{
		ID:                 o.int64Field("id"),
		Fullname:           o.stringField("fullname"),
		Email:              o.stringField("email"),
		Timezone:           o.stringField("timezone"),
		DefaultWorkspaceID: o.int64Field("default_workspace_id"),
		ImageURL:           o.optStringField("image_url"),
		CountryID:          o.optInt64Field("country_id"),
		At:                 o.optTimeField("at"),
		CreatedAt:          o.optTimeField("created_at"),
		UpdatedAt:          o.optTimeField("updated_at"),
		store:              store,
	}
	if v := o.optInt64Field("beginning_of_week"); v != nil {
		p.BeginningOfWeek = *v
	}
	if err := o.err(KindProfile); err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultWorkspace resolves the profile's default workspace through the
// store, nil until a sync has ingested it.
func (p *Profile) DefaultWorkspace() (*Workspace, error) {
	if p.store == nil {
		return nil, ErrDetachedEntity
	}
	w, _ := p.store.GetWorkspace(p.DefaultWorkspaceID)
	return w, nil
}
