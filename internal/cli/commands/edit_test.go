package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StoreText/internal/cli/controller"
	"StoreText/internal/cli/tui"
	"StoreText/internal/config"
)

// stubEditor подменяет терминальный редактор функцией fn.
func stubEditor(t *testing.T, fn func(ctrl *controller.Controller, share tui.Sharer) error) {
	t.Helper()
	old := runEditor
	runEditor = func(_ context.Context, ctrl *controller.Controller, share tui.Sharer) error {
		return fn(ctrl, share)
	}
	t.Cleanup(func() { runEditor = old })
}

func TestEdit_NewNoteFlushedOnExit(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	stubEditor(t, func(ctrl *controller.Controller, _ tui.Sharer) error {
		ctrl.Edit("Draft", "hello")
		return nil
	})
	mustRun(t, cfg, editCmd{}, "new")

	// редактор запомнил заметку как текущую
	assert.Equal(t, "hello\n", mustRun(t, cfg, showCmd{}))
}

func TestEdit_OpensCurrentEncryptedNote(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	id := noteID(t, mustRun(t, cfg, newCmd{}, "Secret", "plan"))
	withPasswords(t, "pw", "pw")
	mustRun(t, cfg, encryptCmd{}, id)

	var seen controller.State
	var link string
	stubEditor(t, func(ctrl *controller.Controller, share tui.Sharer) error {
		seen = ctrl.State()
		var err error
		link, err = share(seen.Content, "pw")
		return err
	})
	withPasswords(t, "pw")
	mustRun(t, cfg, editCmd{})

	assert.Equal(t, id, seen.NoteID)
	assert.Equal(t, "plan", seen.Content)
	assert.Contains(t, link, "#shared=")
}

func TestEdit_WrongPasswordAndEditorError(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	id := noteID(t, mustRun(t, cfg, newCmd{}, "Secret", "plan"))
	withPasswords(t, "pw", "pw")
	mustRun(t, cfg, encryptCmd{}, id)

	called := false
	stubEditor(t, func(*controller.Controller, tui.Sharer) error {
		called = true
		return errors.New("tty lost")
	})
	withPasswords(t, "bad")
	_, err := run(t, cfg, editCmd{}, id)
	require.Error(t, err)
	assert.False(t, called)

	withPasswords(t, "pw")
	_, err = run(t, cfg, editCmd{}, id)
	assert.EqualError(t, err, "tty lost")

	_, err = run(t, cfg, editCmd{}, "a", "b")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestEdit_MissingCurrentStartsEmpty(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	id := noteID(t, mustRun(t, cfg, newCmd{}, "Gone", "x"))
	// заметку удаляют в обход команды, указатель на текущую остаётся
	app, done, err := openApp(cfg, log)
	require.NoError(t, err)
	require.NoError(t, app.Service.Delete(context.Background(), id))
	require.NoError(t, done())

	var seen controller.State
	stubEditor(t, func(ctrl *controller.Controller, _ tui.Sharer) error {
		seen = ctrl.State()
		return nil
	})
	mustRun(t, cfg, editCmd{})
	assert.Empty(t, seen.NoteID)
}
