package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"StoreText/internal/cli/api"
	"StoreText/internal/cli/model"
	crepo "StoreText/internal/cli/repo"
	fsrepo "StoreText/internal/cli/repo/fs"
)

// --- Моки репозитория ---
type mockNoteRepo struct{ mock.Mock }

func (m *mockNoteRepo) List(ctx context.Context) ([]model.Summary, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Summary); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNoteRepo) Get(ctx context.Context, id string) (*model.Note, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNoteRepo) Put(ctx context.Context, note model.Note) (bool, error) {
	args := m.Called(ctx, note)
	return args.Bool(0), args.Error(1)
}

func (m *mockNoteRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ crepo.NoteRepository = (*mockNoteRepo)(nil)

// --- Мок relay ---
type mockRelay struct{ mock.Mock }

func (m *mockRelay) Claim(ctx context.Context, site string) (string, error) {
	args := m.Called(ctx, site)
	return args.String(0), args.Error(1)
}

func (m *mockRelay) Push(ctx context.Context, token, site, envelope string, version int64) (int64, error) {
	args := m.Called(ctx, token, site, envelope, version)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRelay) Pull(ctx context.Context, site string) (api.SiteEnvelope, error) {
	args := m.Called(ctx, site)
	return args.Get(0).(api.SiteEnvelope), args.Error(1)
}

var fixedNow = time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func seqIDs() func() string {
	ids := []string{"id-1", "id-2", "id-3", "id-4", "id-5", "id-6"}
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

// newFileService собирает сервис поверх настоящего файлового хранилища во временном каталоге.
func newFileService(t *testing.T, opts ...Option) (*NoteService, *fsrepo.NoteFileStore) {
	t.Helper()
	st, err := fsrepo.NewNoteFileStore(t.TempDir())
	require.NoError(t, err)
	opts = append([]Option{WithClock(fixedClock), WithIDGenerator(seqIDs())}, opts...)
	return NewNoteService(st, opts...), st
}
