package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"StoreText/internal/cli/api"
	"StoreText/internal/cli/crypto"
	"StoreText/internal/cli/repo"
	fsrepo "StoreText/internal/cli/repo/fs"
)

func TestPushSite_ClaimsThenPushes(t *testing.T) {
	rl := new(mockRelay)
	sites := &fsrepo.StateFSStore{Dir: t.TempDir()}
	svc, _ := newFileService(t, WithRelay(rl, sites))
	ctx := context.Background()

	n, err := svc.Create(ctx, "Todo", "buy milk")
	require.NoError(t, err)

	rl.On("Claim", ctx, "blog").Return("jwt", nil).Once()
	rl.On("Push", ctx, "jwt", "blog", mock.MatchedBy(crypto.IsEnvelope), int64(0)).Return(int64(1), nil).Once()

	ver, err := svc.PushSite(ctx, "blog", n.ID, "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	tok, err := sites.LoadSite("blog")
	require.NoError(t, err)
	assert.Equal(t, repo.SiteToken{Token: "jwt", Version: 1}, tok)

	// второй push без claim и с известной версией
	rl.On("Push", ctx, "jwt", "blog", mock.Anything, int64(1)).Return(int64(2), nil).Once()
	ver, err = svc.PushSite(ctx, "blog", n.ID, "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)
	rl.AssertExpectations(t)
}

func TestPushSite_EncryptedNoteSentAsStored(t *testing.T) {
	rl := new(mockRelay)
	sites := &fsrepo.StateFSStore{Dir: t.TempDir()}
	require.NoError(t, sites.SaveSite("blog", repo.SiteToken{Token: "jwt", Version: 5}))
	svc, _ := newFileService(t, WithRelay(rl, sites))
	ctx := context.Background()

	env, err := crypto.Encrypt("x", "pw")
	require.NoError(t, err)
	n, err := svc.Create(ctx, "locked", env)
	require.NoError(t, err)

	rl.On("Push", ctx, "jwt", "blog", env, int64(5)).Return(int64(6), nil).Once()
	_, err = svc.PushSite(ctx, "blog", n.ID, "")
	require.NoError(t, err)
	rl.AssertExpectations(t)
}

func TestPushSite_Errors(t *testing.T) {
	ctx := context.Background()

	svc, _ := newFileService(t)
	_, err := svc.PushSite(ctx, "blog", "x", "pw")
	assert.ErrorIs(t, err, ErrRelayDisabled)

	rl := new(mockRelay)
	sites := &fsrepo.StateFSStore{Dir: t.TempDir()}
	svc, _ = newFileService(t, WithRelay(rl, sites))
	n, err := svc.Create(ctx, "plain", "text")
	require.NoError(t, err)

	_, err = svc.PushSite(ctx, "blog", n.ID, "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	rl.On("Claim", ctx, "taken").Return("", api.ErrConflict).Once()
	_, err = svc.PushSite(ctx, "taken", n.ID, "pw")
	assert.ErrorIs(t, err, api.ErrConflict)
	_, err = sites.LoadSite("taken")
	assert.ErrorIs(t, err, repo.ErrNoSiteToken)

	require.NoError(t, sites.SaveSite("blog", repo.SiteToken{Token: "jwt", Version: 1}))
	rl.On("Push", ctx, "jwt", "blog", mock.Anything, int64(1)).Return(int64(0), api.ErrVersionConflict).Once()
	_, err = svc.PushSite(ctx, "blog", n.ID, "pw")
	assert.ErrorIs(t, err, api.ErrVersionConflict)
	tok, err := sites.LoadSite("blog")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tok.Version, "version must not move on conflict")
}

func TestPullSite(t *testing.T) {
	rl := new(mockRelay)
	sites := &fsrepo.StateFSStore{Dir: t.TempDir()}
	require.NoError(t, sites.SaveSite("blog", repo.SiteToken{Token: "jwt", Version: 1}))
	svc, st := newFileService(t, WithRelay(rl, sites))
	ctx := context.Background()

	env, err := crypto.Encrypt("remote text", "pw")
	require.NoError(t, err)
	rl.On("Pull", ctx, "blog").Return(api.SiteEnvelope{Envelope: env, Version: 3}, nil)
	rl.On("Pull", ctx, "ghost").Return(api.SiteEnvelope{}, api.ErrNotFound)

	_, err = svc.PullSite(ctx, "blog", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
	_, err = svc.PullSite(ctx, "blog", "bad")
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	_, err = svc.PullSite(ctx, "ghost", "pw")
	assert.True(t, errors.Is(err, api.ErrNotFound))
	list, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := svc.PullSite(ctx, "blog", "pw")
	require.NoError(t, err)
	assert.Equal(t, "blog", n.Title)
	assert.Equal(t, "remote text", n.Content)

	tok, err := sites.LoadSite("blog")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tok.Version)
}

// readOnlySites отдаёт токен, но не может его сохранить.
type readOnlySites struct{ tok repo.SiteToken }

func (r readOnlySites) LoadSite(string) (repo.SiteToken, error) { return r.tok, nil }
func (r readOnlySites) SaveSite(string, repo.SiteToken) error {
	return errors.New("read-only file system")
}

func TestPullSite_SaveVersionFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rl := new(mockRelay)
	sites := readOnlySites{tok: repo.SiteToken{Token: "jwt", Version: 1}}
	svc, _ := newFileService(t, WithRelay(rl, sites), WithLogger(zap.New(core).Sugar()))
	ctx := context.Background()

	env, err := crypto.Encrypt("remote text", "pw")
	require.NoError(t, err)
	rl.On("Pull", ctx, "blog").Return(api.SiteEnvelope{Envelope: env, Version: 3}, nil)

	// заметка всё равно создаётся, ошибка сохранения версии только в логе
	n, err := svc.PullSite(ctx, "blog", "pw")
	require.NoError(t, err)
	assert.Equal(t, "remote text", n.Content)

	entries := logs.FilterMessage("pull: remember site version").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "blog", fields["site"])
	assert.Equal(t, int64(3), fields["version"])
	assert.Equal(t, "read-only file system", fields["error"])
}
