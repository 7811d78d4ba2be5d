package track

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"toggl-track/internal/ports"
)

// Session is a logged-in connection to the Track API on behalf of a single
// user. It combines transport responses with store ingestion and holds the
// current profile. A session is not safe for concurrent mutation; callers
// serialize Login/Sync/entry mutations or wrap the session in their own
// lock.
type Session struct {
	log       *slog.Logger
	transport ports.Transport
	store     *Store
	profile   *Profile
}

// NewSession wraps an authenticated transport. The store starts empty;
// Login establishes the profile and Sync populates the snapshot.
func NewSession(transport ports.Transport, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		log:       log,
		transport: transport,
		store:     NewStore(transport),
	}
}

// Store exposes the current snapshot for lookups. The returned store is
// replaced wholesale by a flush-mode Sync; do not retain it across syncs.
func (s *Session) Store() *Store {
	return s.store
}

// Profile returns the logged-in profile, nil before Login.
func (s *Session) Profile() *Profile {
	return s.profile
}

// DefaultWorkspace resolves the profile's default workspace.
func (s *Session) DefaultWorkspace() (*Workspace, error) {
	if s.profile == nil {
		return nil, ErrNotLoggedIn
	}
	return s.profile.DefaultWorkspace()
}

// Login fetches the profile with the session credentials, verifying them and
// establishing the session root. It does not populate the workspace
// collections; call Sync for those.
func (s *Session) Login(ctx context.Context) (*Profile, error) {
	raw, err := s.transport.Me(ctx, false)
	if err != nil {
		return nil, err
	}
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.IngestEntity(KindProfile, obj); err != nil {
		return nil, err
	}
	s.profile = s.store.Profile()
	s.log.Debug("logged in", slog.Int64("user", s.profile.ID), slog.String("email", s.profile.Email))
	return s.profile, nil
}

// Sync fetches the full related-data profile payload and ingests it. With
// flush set, ingestion targets a fresh store that replaces the session's
// store only after the whole payload ingested cleanly, so readers never see
// a half-populated snapshot and a failed sync leaves the old one intact.
// Without flush, the payload merges into the current store in place.
func (s *Session) Sync(ctx context.Context, flush bool) error {
	raw, err := s.transport.Me(ctx, true)
	if err != nil {
		return err
	}
	obj, err := decodeObject(raw)
	if err != nil {
		return err
	}

	target := s.store
	if flush {
		target = NewStore(s.transport)
	}
	touched, err := target.IngestEntity(KindProfile, obj)
	if err != nil {
		return err
	}
	s.store = target
	s.profile = target.Profile()

	s.log.Info("sync completed",
		slog.Bool("flush", flush),
		slog.Int("workspaces", len(touched[KindWorkspace])),
		slog.Int("clients", len(touched[KindClient])),
		slog.Int("tags", len(touched[KindTag])),
		slog.Int("projects", len(touched[KindProject])),
		slog.Int("entries", len(touched[KindTimeEntry])),
	)
	return nil
}

// FetchCurrentEntry fetches the running time entry. Having none is a normal
// state: both an upstream 404 and a 200 null body yield (nil, nil).
func (s *Session) FetchCurrentEntry(ctx context.Context) (*TimeEntry, error) {
	raw, err := s.transport.CurrentEntry(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	return s.store.ingestEntryPayload(raw)
}

// StartEntry creates a new running entry in the workspace, started at the
// given instant. projectID and tagIDs are optional.
func (s *Session) StartEntry(ctx context.Context, workspaceID int64, description string, start time.Time, projectID *int64, tagIDs []int64) (*TimeEntry, error) {
	body := map[string]any{
		"description": description,
		"start":       start.UTC().Format(time.RFC3339),
		"duration":    runningSentinel,
	}
	if projectID != nil {
		body["project_id"] = *projectID
	}
	if len(tagIDs) > 0 {
		body["tag_ids"] = tagIDs
	}
	raw, err := s.transport.CreateEntry(ctx, workspaceID, body)
	if err != nil {
		return nil, err
	}
	return s.store.ingestEntryPayload(raw)
}

// FetchWorkspaces fetches the account's workspaces and merges them into the
// store. A non-zero since restricts the fetch to items modified after that
// unix timestamp.
func (s *Session) FetchWorkspaces(ctx context.Context, since int64) ([]*Workspace, error) {
	touched, err := s.fetchCollection(ctx, "workspaces", since, s.transport.MyWorkspaces)
	if err != nil {
		return nil, err
	}
	out := make([]*Workspace, 0, len(touched[KindWorkspace]))
	for _, id := range touched[KindWorkspace] {
		if w, ok := s.store.GetWorkspace(id); ok {
			out = append(out, w)
		}
	}
	return out, nil
}

// FetchProjects fetches the projects visible to the session and merges them
// into the store.
func (s *Session) FetchProjects(ctx context.Context, since int64) ([]*Project, error) {
	touched, err := s.fetchCollection(ctx, "projects", since, s.transport.MyProjects)
	if err != nil {
		return nil, err
	}
	out := make([]*Project, 0, len(touched[KindProject]))
	for _, id := range touched[KindProject] {
		if p, ok := s.store.GetProject(id); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// FetchTags fetches the tags visible to the session and merges them into the
// store.
func (s *Session) FetchTags(ctx context.Context, since int64) ([]*Tag, error) {
	touched, err := s.fetchCollection(ctx, "tags", since, s.transport.MyTags)
	if err != nil {
		return nil, err
	}
	out := make([]*Tag, 0, len(touched[KindTag]))
	for _, id := range touched[KindTag] {
		if t, ok := s.store.GetTag(id); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// fetchCollection runs a collection fetch and feeds the returned array
// through the store's recursive walk under its collection key.
func (s *Session) fetchCollection(ctx context.Context, key string, since int64, fetch func(context.Context, int64) (json.RawMessage, error)) (TouchedIDs, error) {
	raw, err := fetch(ctx, since)
	if err != nil {
		return nil, err
	}
	var arr []any
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("toggl: decoding %s response: %w", key, err)
	}
	return s.store.Ingest(map[string]any{key: arr})
}

// GetWorkspace and friends forward to the current store.
func (s *Session) GetWorkspace(id int64) (*Workspace, bool) { return s.store.GetWorkspace(id) }
func (s *Session) GetProject(id int64) (*Project, bool)     { return s.store.GetProject(id) }
func (s *Session) GetClient(id int64) (*Client, bool)       { return s.store.GetClient(id) }
func (s *Session) GetTag(id int64) (*Tag, bool)             { return s.store.GetTag(id) }
func (s *Session) GetEntry(id int64) (*TimeEntry, bool)     { return s.store.GetEntry(id) }

// ListWorkspaceChildren lists the entities of one child kind under a
// workspace known to the store.
func (s *Session) ListWorkspaceChildren(kind Kind, workspaceID int64) ([]any, error) {
	return s.store.Children(kind, workspaceID)
}

// Close discards the snapshot and profile. The session may log in again
// afterwards; the store is rebuilt from scratch.
func (s *Session) Close() {
	s.store = NewStore(s.transport)
	s.profile = nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("toggl: decoding response object: %w", err)
	}
	return obj, nil
}
