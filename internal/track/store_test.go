package track

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

// fullProfile nests projects inside their workspace object while clients,
// tags and entries sit at the top level, the mixed shape the related-data
// endpoint produces.
const fullProfile = `{
	"id": 9000,
	"fullname": "Ada Lovelace",
	"email": "ada@example.com",
	"timezone": "Europe/London",
	"default_workspace_id": 100,
	"workspaces": [
		{
			"id": 100,
			"name": "Engineering",
			"admin": true,
			"at": "2025-06-01T10:00:00+00:00",
			"projects": [
				{"id": 200, "name": "Compiler", "color": "#0b83d9", "active": true, "workspace_id": 100, "at": "2025-06-02T08:00:00Z", "client_id": 300},
				{"id": 201, "name": "Docs", "color": "#c56bff", "active": false, "workspace_id": 100, "at": "2025-06-03T08:00:00Z"}
			]
		},
		{"id": 101, "name": "Personal", "admin": false, "at": "2025-05-01T09:00:00Z"}
	],
	"clients": [
		{"id": 300, "name": "Acme", "archived": false, "wid": 100, "at": "2025-04-01T00:00:00Z"}
	],
	"tags": [
		{"id": 400, "name": "deep-work", "creator_id": 9000, "workspace_id": 100, "at": "2025-03-01T00:00:00Z"},
		{"id": 401, "name": "retired", "creator_id": 9000, "workspace_id": 100, "at": "2025-03-01T00:00:00Z", "deleted_at": "2025-07-01T00:00:00Z"}
	],
	"time_entries": [
		{"id": 500, "description": "parser rewrite", "start": "2025-08-01T09:00:00Z", "stop": "2025-08-01T11:30:00Z", "duration": 9000, "workspace_id": 100, "project_id": 200, "tag_ids": [400]},
		{"id": 501, "description": "", "start": "2025-08-02T09:00:00Z", "duration": -1, "workspace_id": 101}
	]
}`

func ingestFullProfile(t *testing.T) *Store {
	t.Helper()
	s := NewStore(nil)
	_, err := s.IngestEntity(KindProfile, payload(t, fullProfile))
	require.NoError(t, err)
	return s
}

func TestIngestRecursiveDiscovery(t *testing.T) {
	s := ingestFullProfile(t)

	// Entities nested inside a workspace object are individually
	// retrievable, same as the top-level arrays.
	for _, id := range []int64{200, 201} {
		_, ok := s.GetProject(id)
		assert.True(t, ok, "project %d", id)
	}
	_, ok := s.GetWorkspace(100)
	assert.True(t, ok)
	_, ok = s.GetWorkspace(101)
	assert.True(t, ok)
	_, ok = s.GetClient(300)
	assert.True(t, ok)
	_, ok = s.GetTag(400)
	assert.True(t, ok)
	_, ok = s.GetEntry(501)
	assert.True(t, ok)

	require.NotNil(t, s.Profile())
	assert.Equal(t, int64(9000), s.Profile().ID)
}

func TestIngestTouchedIDs(t *testing.T) {
	s := NewStore(nil)
	touched, err := s.IngestEntity(KindProfile, payload(t, fullProfile))
	require.NoError(t, err)

	assert.Equal(t, []int64{9000}, touched[KindProfile])
	assert.ElementsMatch(t, []int64{100, 101}, touched[KindWorkspace])
	assert.ElementsMatch(t, []int64{200, 201}, touched[KindProject])
	assert.ElementsMatch(t, []int64{300}, touched[KindClient])
	assert.ElementsMatch(t, []int64{400, 401}, touched[KindTag])
	assert.ElementsMatch(t, []int64{500, 501}, touched[KindTimeEntry])
}

func TestIngestIdempotent(t *testing.T) {
	once := ingestFullProfile(t)

	twice := NewStore(nil)
	_, err := twice.IngestEntity(KindProfile, payload(t, fullProfile))
	require.NoError(t, err)
	_, err = twice.IngestEntity(KindProfile, payload(t, fullProfile))
	require.NoError(t, err)

	assert.Equal(t, len(once.workspaces), len(twice.workspaces))
	assert.Equal(t, len(once.projects), len(twice.projects))
	assert.Equal(t, len(once.clients), len(twice.clients))
	assert.Equal(t, len(once.tags), len(twice.tags))
	assert.Equal(t, len(once.entries), len(twice.entries))
	assert.Equal(t, once.workspaceProjects, twice.workspaceProjects)
	assert.Equal(t, once.workspaceClients, twice.workspaceClients)
	assert.Equal(t, once.workspaceTags, twice.workspaceTags)
	assert.Equal(t, once.workspaceEntries, twice.workspaceEntries)

	for id, p := range once.projects {
		assert.Equal(t, p.Name, twice.projects[id].Name)
	}
}

func TestIngestUpsertReplaces(t *testing.T) {
	s := ingestFullProfile(t)

	_, err := s.Ingest(payload(t, `{
		"projects": [
			{"id": 200, "name": "Compiler v2", "color": "#ff0000", "active": false, "workspace_id": 100, "at": "2025-08-10T08:00:00Z"}
		]
	}`))
	require.NoError(t, err)

	p, ok := s.GetProject(200)
	require.True(t, ok)
	assert.Equal(t, "Compiler v2", p.Name)
	assert.Equal(t, "#ff0000", p.Color)
	assert.False(t, p.Active)
	assert.Nil(t, p.ClientID, "fields absent from the new payload reset")

	// The id was indexed before; the index bucket is unchanged.
	projects, err := s.WorkspaceProjects(100)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestIndexConsistency(t *testing.T) {
	s := ingestFullProfile(t)

	for wid, bucket := range s.workspaceProjects {
		for id := range bucket {
			p, ok := s.projects[id]
			require.True(t, ok, "indexed project %d missing from primary map", id)
			assert.Equal(t, wid, p.WorkspaceID)
		}
	}
	for wid, bucket := range s.workspaceEntries {
		for id := range bucket {
			e, ok := s.entries[id]
			require.True(t, ok, "indexed entry %d missing from primary map", id)
			assert.Equal(t, wid, e.WorkspaceID)
		}
	}
	for wid, bucket := range s.workspaceClients {
		for id := range bucket {
			c, ok := s.clients[id]
			require.True(t, ok)
			assert.Equal(t, wid, c.WorkspaceID)
		}
	}
	for wid, bucket := range s.workspaceTags {
		for id := range bucket {
			tag, ok := s.tags[id]
			require.True(t, ok)
			assert.Equal(t, wid, tag.WorkspaceID)
		}
	}
}

func TestWorkspaceChildrenUnknownWorkspace(t *testing.T) {
	s := ingestFullProfile(t)

	_, err := s.WorkspaceProjects(999)
	var wnf *WorkspaceNotFoundError
	require.ErrorAs(t, err, &wnf)
	assert.Equal(t, int64(999), wnf.WorkspaceID)

	// A known workspace with no indexed children of a kind yields an empty
	// result, not an error.
	clients, err := s.WorkspaceClients(101)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestWorkspaceChildrenFiltersDivergence(t *testing.T) {
	s := ingestFullProfile(t)

	// Force an index/map divergence; the read path must drop the orphan id.
	s.workspaceProjects[100][666] = struct{}{}

	projects, err := s.WorkspaceProjects(100)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestChildrenGenericDispatch(t *testing.T) {
	s := ingestFullProfile(t)

	tags, err := s.Children(KindTag, 100)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	_, err = s.Children(KindWorkspace, 100)
	assert.Error(t, err)
}

func TestIngestMalformedEntityAborts(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Ingest(payload(t, `{
		"workspaces": [
			{"id": 100, "name": "ok", "admin": true, "at": "2025-06-01T10:00:00Z"},
			{"name": "missing id and admin", "at": "2025-06-01T10:00:00Z"}
		]
	}`))

	var malformed *MalformedEntityError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, KindWorkspace, malformed.Kind)
}

func TestSoftDeletedTagRemainsIndexed(t *testing.T) {
	s := ingestFullProfile(t)

	tag, ok := s.GetTag(401)
	require.True(t, ok)
	assert.True(t, tag.Deleted())

	tags, err := s.WorkspaceTags(100)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}
