package track

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunningPredicate(t *testing.T) {
	stop := time.Date(2025, 8, 1, 11, 0, 0, 0, time.UTC)

	running := &TimeEntry{ID: 1, Start: stop.Add(-time.Hour), Duration: -1}
	assert.True(t, running.Running())

	stopped := &TimeEntry{ID: 2, Start: stop.Add(-time.Hour), Stop: &stop, Duration: 3600}
	assert.False(t, stopped.Running())

	// Runningness follows the stop timestamp alone; a positive duration on
	// a stop-less entry still counts as running.
	odd := &TimeEntry{ID: 3, Start: stop.Add(-time.Hour), Duration: 3600}
	assert.True(t, odd.Running())
}

func TestActualDuration(t *testing.T) {
	stop := time.Now().UTC()
	stopped := &TimeEntry{Start: stop.Add(-time.Hour), Stop: &stop, Duration: 3600}
	assert.Equal(t, int64(3600), stopped.ActualDuration())

	running := &TimeEntry{Start: time.Now().UTC().Add(-10 * time.Minute), Duration: -1}
	got := running.ActualDuration()
	assert.InDelta(t, 600, got, 5)
}

func TestDetachedEntityAccessors(t *testing.T) {
	e := &TimeEntry{ID: 1, WorkspaceID: 100}

	_, err := e.Workspace()
	assert.ErrorIs(t, err, ErrDetachedEntity)
	_, err = e.Project()
	assert.ErrorIs(t, err, ErrDetachedEntity)
	_, err = e.Tags()
	assert.ErrorIs(t, err, ErrDetachedEntity)
	_, err = e.StopEntry(context.Background())
	assert.ErrorIs(t, err, ErrDetachedEntity)
	_, err = e.ContinueEntry(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDetachedEntity)

	w := &Workspace{ID: 100}
	_, err = w.Entries()
	assert.ErrorIs(t, err, ErrDetachedEntity)

	p := &Profile{DefaultWorkspaceID: 100}
	_, err = p.DefaultWorkspace()
	assert.ErrorIs(t, err, ErrDetachedEntity)
}

func TestRelationalAccessors(t *testing.T) {
	s := ingestFullProfile(t)

	e, ok := s.GetEntry(500)
	require.True(t, ok)

	w, err := e.Workspace()
	require.NoError(t, err)
	assert.Equal(t, "Engineering", w.Name)

	p, err := e.Project()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Compiler", p.Name)

	c, err := p.Client()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Acme", c.Name)

	tags, err := e.Tags()
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "deep-work", tags[0].Name)

	// No project on the running entry: nil, not an error.
	running, ok := s.GetEntry(501)
	require.True(t, ok)
	none, err := running.Project()
	require.NoError(t, err)
	assert.Nil(t, none)

	dw, err := s.Profile().DefaultWorkspace()
	require.NoError(t, err)
	assert.Equal(t, int64(100), dw.ID)
}
