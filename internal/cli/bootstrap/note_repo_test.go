package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StoreText/internal/cli/model"
	fsrepo "StoreText/internal/cli/repo/fs"
	reposqlite "StoreText/internal/cli/repo/sqlite"
	"StoreText/internal/config"
	"StoreText/internal/logger"
)

func TestOpenNoteRepo_SQLiteSuccessAndCleanup(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{StoreDir: dir, StoreBackend: config.BackendSQLite}
	r, done, err := OpenNoteRepo(cfg)
	if err != nil {
		t.Fatalf("OpenNoteRepo: %v", err)
	}
	// репозиторий должен быть рабочим
	if _, err := r.Put(context.Background(), model.Note{ID: "n1", Title: "t", Content: "c"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := done(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	// повторный вызов cleanup не должен паниковать
	_ = done()

	if _, err := os.Stat(filepath.Join(dir, reposqlite.DBFileName)); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
}

func TestOpenNoteRepo_FileBackend(t *testing.T) {
	dir := t.TempDir()
	r, done, err := OpenNoteRepo(&config.Config{StoreDir: dir, StoreBackend: config.BackendFile})
	require.NoError(t, err)
	defer done()
	_, ok := r.(*fsrepo.NoteFileStore)
	assert.True(t, ok)

	_, err = r.Put(context.Background(), model.Note{ID: "n1", Title: "t", Content: "c"})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, fsrepo.NotesFileName))
	assert.NoError(t, err)
}

// Ошибка открытия: каталог хранилища указывает на обычный файл.
func TestOpenNoteRepo_FailsWhenStoreDirIsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "not_dir")
	if err := os.WriteFile(tmpFile, []byte("x"), 0o600); err != nil {
		t.Fatalf("prepare tmp file: %v", err)
	}
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		if _, _, err := OpenNoteRepo(&config.Config{StoreDir: tmpFile, StoreBackend: backend}); err == nil {
			t.Fatalf("%s: expected error when store dir is a file", backend)
		}
	}
	if _, _, err := OpenNoteRepo(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestOpenApp(t *testing.T) {
	cfg := &config.Config{StoreDir: t.TempDir(), StoreBackend: config.BackendSQLite, ServerURL: "http://localhost:1", ShareBaseURL: "https://x/share"}
	app, done, err := OpenApp(cfg, logger.Nop())
	require.NoError(t, err)
	defer done()

	n, err := app.Service.Create(context.Background(), "hello", "world")
	require.NoError(t, err)
	link, err := app.Service.ShareLink(n.Content, "pw", "")
	require.NoError(t, err)
	assert.Contains(t, link, "https://x/share#shared=")
	assert.Equal(t, cfg.StoreDir, app.State.Dir)
}
