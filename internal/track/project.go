package track

import "time"

// Project is a workspace-scoped project. The fields past the blank line are
// only populated on paid plans; free-plan payloads carry them as null or
// omit them entirely.
type Project struct {
	ID              int64
	Name            string
	Color           string
	Active          bool
	IsPrivate       bool
	Status          string
	WorkspaceID     int64
	ClientID        *int64
	At              time.Time
	CreatedAt       *time.Time
	StartDate       *time.Time
	EndDate         *time.Time
	ServerDeletedAt *time.Time
	ActualHours     *int64
	ActualSeconds   *int64

	Billable         *bool
	Template         *bool
	AutoEstimates    *bool
	Recurring        *bool
	Rate             *int64
	RateLastUpdated  *time.Time
	Currency         string
	EstimatedHours   *int64
	EstimatedSeconds *int64
	FixedFee         *int64

	store *Store
}

func decodeProject(raw map[string]any, store *Store) (*Project, error) {
	o := newObject(raw)
	p := &Project{
		ID:              o.int64Field("id"),
		Name:            o.stringField("name"),
		Color:           o.stringField("color"),
		Active:          o.boolField("active"),
		WorkspaceID:     o.int64Field("workspace_id"),
		At:              o.timeField("at"),
		ClientID:        o.optInt64Field("client_id"),
		Status:          o.optStringField("status"),
		CreatedAt:       o.optTimeField("created_at"),
		StartDate:       o.optTimeField("start_date"),
		EndDate:         o.optTimeField("end_date"),
		ServerDeletedAt: o.optTimeField("server_deleted_at"),
		ActualHours:     o.optInt64Field("actual_hours"),
		ActualSeconds:   o.optInt64Field("actual_seconds"),

		Billable:         o.optBoolField("billable"),
		Template:         o.optBoolField("template"),
		AutoEstimates:    o.optBoolField("auto_estimates"),
		Recurring:        o.optBoolField("recurring"),
		Rate:             o.optInt64Field("rate"),
		RateLastUpdated:  o.optTimeField("rate_last_updated"),
		Currency:         o.optStringField("currency"),
		EstimatedHours:   o.optInt64Field("estimated_hours"),
		EstimatedSeconds: o.optInt64Field("estimated_seconds"),
		FixedFee:         o.optInt64Field("fixed_fee"),

		store: store,
	}
	if b := o.optBoolField("is_private"); b != nil {
		p.IsPrivate = *b
	}
	if err := o.err(KindProject); err != nil {
		return nil, err
	}
	return p, nil
}

// Workspace resolves the owning workspace through the store.
func (p *Project) Workspace() (*Workspace, error) {
	if p.store == nil {
		return nil, ErrDetachedEntity
	}
	w, _ := p.store.GetWorkspace(p.WorkspaceID)
	return w, nil
}

// Client resolves the billing client, nil when the project has none or the
// client has not been ingested.
func (p *Project) Client() (*Client, error) {
	if p.store == nil {
		return nil, ErrDetachedEntity
	}
	if p.ClientID == nil {
		return nil, nil
	}
	c, _ := p.store.GetClient(*p.ClientID)
	return c, nil
}
