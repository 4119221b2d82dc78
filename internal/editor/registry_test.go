package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/compose"
	"github.com/loganlanou/phishdesk/internal/templates"
	"github.com/loganlanou/phishdesk/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDrafts struct {
	mock.Mock
}

func (m *mockDrafts) SaveDraft(ctx context.Context, d storage.Draft) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDrafts) GetDraft(ctx context.Context, id string) (storage.Draft, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.Draft), args.Error(1)
}

func (m *mockDrafts) DeleteDraft(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestRegistry(t *testing.T) (*Registry, *storage.Storage) {
	t.Helper()

	db, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return NewRegistry(db), db
}

func TestRegistryRestoresFromDraft(t *testing.T) {
	ctx := context.Background()
	reg, db := newTestRegistry(t)
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)
	s.SetForm(compose.Form{Name: "Draft", Text: "hello", UseTracker: true})
	s.Table().Add(attachments.NewRow("report <q3>.pdf", "JVBERg==", "application/pdf"))
	require.NoError(t, reg.Track(ctx, s))

	// A fresh registry over the same database simulates a restart
	restarted := NewRegistry(db)
	got, err := restarted.Get(ctx, s.ID())
	require.NoError(t, err)

	assert.Equal(t, s.ID(), got.ID())
	assert.Equal(t, ModeNew, got.Mode())
	assert.Equal(t, s.Form(), got.Form())
	assert.Equal(t, []templates.Attachment{{Name: "report <q3>.pdf", Content: "JVBERg==", Type: "application/pdf"}},
		got.Table().Attachments())
	assert.Equal(t, 1, restarted.Len())

	again, err := restarted.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestRegistryKeepsEditTarget(t *testing.T) {
	ctx := context.Background()
	reg, db := newTestRegistry(t)
	fake, ctrl, _ := newTestController(t)

	seeded := fake.Seed(templates.Template{Name: "Target", Text: "x"})
	require.NoError(t, ctrl.Load(ctx))

	s, err := ctrl.Open(ModeEdit, seeded[0].ID)
	require.NoError(t, err)
	require.NoError(t, reg.Track(ctx, s))

	got, err := NewRegistry(db).Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, seeded[0].ID, got.Record().ID)
}

func TestRegistryForgetsClosedSessions(t *testing.T) {
	ctx := context.Background()
	reg, db := newTestRegistry(t)
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)
	require.NoError(t, reg.Track(ctx, s))

	ctrl.Dismiss(s)
	require.NoError(t, reg.Persist(ctx, s))

	assert.Equal(t, 0, reg.Len())
	_, err = db.GetDraft(ctx, s.ID())
	assert.ErrorIs(t, err, storage.ErrDraftNotFound)

	_, err = reg.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryWithoutDrafts(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil)
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)
	require.NoError(t, reg.Track(ctx, s))

	got, err := reg.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, reg.Forget(ctx, s.ID()))
	_, err = reg.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryDraftStoreErrors(t *testing.T) {
	ctx := context.Background()
	drafts := new(mockDrafts)
	reg := NewRegistry(drafts)
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	drafts.On("SaveDraft", ctx, mock.MatchedBy(func(d storage.Draft) bool { return d.ID == s.ID() })).Return(diskFull).Once()
	assert.ErrorIs(t, reg.Track(ctx, s), diskFull)

	// The session is still usable from memory
	got, err := reg.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	locked := errors.New("database is locked")
	drafts.On("GetDraft", ctx, "unknown").Return(storage.Draft{}, locked).Once()
	_, err = reg.Get(ctx, "unknown")
	assert.ErrorIs(t, err, locked)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	drafts.On("GetDraft", ctx, "corrupt").Return(storage.Draft{ID: "corrupt", Payload: []byte("{")}, nil).Once()
	_, err = reg.Get(ctx, "corrupt")
	assert.ErrorContains(t, err, "decode draft corrupt")

	drafts.AssertExpectations(t)
}
