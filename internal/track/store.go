package track

import (
	"encoding/json"
	"fmt"

	"toggl-track/internal/ports"
)

// TouchedIDs records, per kind, the ids an ingestion pass created or
// replaced. For a single-entity ingestion the directly stated entity comes
// first, ahead of anything discovered nested inside it.
type TouchedIDs map[Kind][]int64

func (t TouchedIDs) add(kind Kind, id int64) {
	t[kind] = append(t[kind], id)
}

// collections maps the payload keys recognized during the recursive walk to
// the kind their array elements decode as. Order matters only for
// determinism of TouchedIDs; the upstream nests parents before children.
var collections = []struct {
	key  string
	kind Kind
}{
	{"workspaces", KindWorkspace},
	{"clients", KindClient},
	{"tags", KindTag},
	{"projects", KindProject},
	{"time_entries", KindTimeEntry},
}

// Store is the in-memory snapshot of the account. It keeps one primary map
// per kind keyed by entity id, plus workspace-keyed secondary indices of
// child ids. The indices are derived from the primary maps and never
// authoritative. The store does no locking; callers serialize mutation.
type Store struct {
	transport ports.Transport

	workspaces map[int64]*Workspace
	projects   map[int64]*Project
	clients    map[int64]*Client
	tags       map[int64]*Tag
	entries    map[int64]*TimeEntry
	profile    *Profile

	workspaceProjects map[int64]map[int64]struct{}
	workspaceClients  map[int64]map[int64]struct{}
	workspaceTags     map[int64]map[int64]struct{}
	workspaceEntries  map[int64]map[int64]struct{}
}

// NewStore returns an empty store. Entities ingested by it can reach the
// transport for their self-mutating calls; pass nil for a lookup-only store,
// in which case those calls fail with ErrDetachedEntity.
func NewStore(transport ports.Transport) *Store {
	return &Store{
		transport:         transport,
		workspaces:        make(map[int64]*Workspace),
		projects:          make(map[int64]*Project),
		clients:           make(map[int64]*Client),
		tags:              make(map[int64]*Tag),
		entries:           make(map[int64]*TimeEntry),
		workspaceProjects: make(map[int64]map[int64]struct{}),
		workspaceClients:  make(map[int64]map[int64]struct{}),
		workspaceTags:     make(map[int64]map[int64]struct{}),
		workspaceEntries:  make(map[int64]map[int64]struct{}),
	}
}

// Ingest recursively walks a payload, decoding every array found under a
// recognized collection key into entities of that kind and recursing into
// each element for further nested collections. Replaying the same payload is
// idempotent: entities upsert by id and index buckets only gain ids they
// already hold.
func (s *Store) Ingest(payload map[string]any) (TouchedIDs, error) {
	touched := make(TouchedIDs)
	if err := s.walk(payload, touched); err != nil {
		return nil, err
	}
	return touched, nil
}

// IngestEntity decodes a payload as one entity of a stated kind, for
// single-entity endpoint responses whose shape carries no collection key,
// then walks the same object for anything nested inside it.
func (s *Store) IngestEntity(kind Kind, payload map[string]any) (TouchedIDs, error) {
	touched := make(TouchedIDs)
	if err := s.ingestOne(kind, payload, touched); err != nil {
		return nil, err
	}
	return touched, nil
}

func (s *Store) walk(payload map[string]any, touched TouchedIDs) error {
	for _, col := range collections {
		v, ok := payload[col.key]
		if !ok || v == nil {
			continue
		}
		arr, ok := v.([]any)
		if !ok {
			continue
		}
		for _, el := range arr {
			obj, ok := el.(map[string]any)
			if !ok {
				return &MalformedEntityError{Kind: col.kind, Problems: []string{fmt.Sprintf("expected object in %s array, got %T", col.key, el)}}
			}
			if err := s.ingestOne(col.kind, obj, touched); err != nil {
				return err
			}
		}
	}
	return nil
}

// ingestOne decodes, upserts into the primary map, maintains the workspace
// index for workspace-children, then recurses into the raw object. Index
// buckets are created here and only here; reads never vivify them.
func (s *Store) ingestOne(kind Kind, raw map[string]any, touched TouchedIDs) error {
	switch kind {
	case KindWorkspace:
		w, err := decodeWorkspace(raw, s)
		if err != nil {
			return err
		}
		s.workspaces[w.ID] = w
		touched.add(kind, w.ID)
	case KindClient:
		c, err := decodeClient(raw, s)
		if err != nil {
			return err
		}
		s.clients[c.ID] = c
		indexChild(s.workspaceClients, c.WorkspaceID, c.ID)
		touched.add(kind, c.ID)
	case KindTag:
		t, err := decodeTag(raw, s)
		if err != nil {
			return err
		}
		s.tags[t.ID] = t
		indexChild(s.workspaceTags, t.WorkspaceID, t.ID)
		touched.add(kind, t.ID)
	case KindProject:
		p, err := decodeProject(raw, s)
		if err != nil {
			return err
		}
		s.projects[p.ID] = p
		indexChild(s.workspaceProjects, p.WorkspaceID, p.ID)
		touched.add(kind, p.ID)
	case KindTimeEntry:
		e, err := decodeTimeEntry(raw, s)
		if err != nil {
			return err
		}
		s.entries[e.ID] = e
		indexChild(s.workspaceEntries, e.WorkspaceID, e.ID)
		touched.add(kind, e.ID)
	case KindProfile:
		p, err := decodeProfile(raw, s)
		if err != nil {
			return err
		}
		s.profile = p
		touched.add(kind, p.ID)
	default:
		return fmt.Errorf("toggl: unknown entity kind %q", kind)
	}
	return s.walk(raw, touched)
}

func indexChild(index map[int64]map[int64]struct{}, workspaceID, id int64) {
	bucket, ok := index[workspaceID]
	if !ok {
		bucket = make(map[int64]struct{})
		index[workspaceID] = bucket
	}
	bucket[id] = struct{}{}
}

// ingestEntryPayload ingests a raw single-entry response and returns the
// stored model, shared by the stop/continue/start mutation paths.
func (s *Store) ingestEntryPayload(raw json.RawMessage) (*TimeEntry, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("toggl: decoding entry response: %w", err)
	}
	touched, err := s.IngestEntity(KindTimeEntry, obj)
	if err != nil {
		return nil, err
	}
	e, _ := s.GetEntry(touched[KindTimeEntry][0])
	return e, nil
}

// GetWorkspace looks a workspace up by id. Absence is a normal condition,
// reported through the second return.
func (s *Store) GetWorkspace(id int64) (*Workspace, bool) {
	w, ok := s.workspaces[id]
	return w, ok
}

func (s *Store) GetProject(id int64) (*Project, bool) {
	p, ok := s.projects[id]
	return p, ok
}

func (s *Store) GetClient(id int64) (*Client, bool) {
	c, ok := s.clients[id]
	return c, ok
}

func (s *Store) GetTag(id int64) (*Tag, bool) {
	t, ok := s.tags[id]
	return t, ok
}

func (s *Store) GetEntry(id int64) (*TimeEntry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Profile returns the most recently ingested profile, nil before login.
func (s *Store) Profile() *Profile {
	return s.profile
}

// WorkspaceProjects materializes the projects indexed under a workspace.
// The workspace itself must be known to the store; asking about an unseen
// workspace id is an error, not an empty result.
func (s *Store) WorkspaceProjects(workspaceID int64) ([]*Project, error) {
	if err := s.checkWorkspace(workspaceID); err != nil {
		return nil, err
	}
	out := make([]*Project, 0, len(s.workspaceProjects[workspaceID]))
	for id := range s.workspaceProjects[workspaceID] {
		if p, ok := s.projects[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) WorkspaceClients(workspaceID int64) ([]*Client, error) {
	if err := s.checkWorkspace(workspaceID); err != nil {
		return nil, err
	}
	out := make([]*Client, 0, len(s.workspaceClients[workspaceID]))
	for id := range s.workspaceClients[workspaceID] {
		if c, ok := s.clients[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) WorkspaceTags(workspaceID int64) ([]*Tag, error) {
	if err := s.checkWorkspace(workspaceID); err != nil {
		return nil, err
	}
	out := make([]*Tag, 0, len(s.workspaceTags[workspaceID]))
	for id := range s.workspaceTags[workspaceID] {
		if t, ok := s.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) WorkspaceEntries(workspaceID int64) ([]*TimeEntry, error) {
	if err := s.checkWorkspace(workspaceID); err != nil {
		return nil, err
	}
	out := make([]*TimeEntry, 0, len(s.workspaceEntries[workspaceID]))
	for id := range s.workspaceEntries[workspaceID] {
		if e, ok := s.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Children is the kind-generic form of the workspace child lookups, for
// callers that take the kind as data.
func (s *Store) Children(kind Kind, workspaceID int64) ([]any, error) {
	switch kind {
	case KindProject:
		ps, err := s.WorkspaceProjects(workspaceID)
		return anySlice(ps), err
	case KindClient:
		cs, err := s.WorkspaceClients(workspaceID)
		return anySlice(cs), err
	case KindTag:
		ts, err := s.WorkspaceTags(workspaceID)
		return anySlice(ts), err
	case KindTimeEntry:
		es, err := s.WorkspaceEntries(workspaceID)
		return anySlice(es), err
	default:
		return nil, fmt.Errorf("toggl: kind %q is not a workspace child", kind)
	}
}

func anySlice[T any](in []T) []any {
	if in == nil {
		return nil
	}
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func (s *Store) checkWorkspace(workspaceID int64) error {
	if _, ok := s.workspaces[workspaceID]; !ok {
		return &WorkspaceNotFoundError{WorkspaceID: workspaceID}
	}
	return nil
}
