package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"StoreText/internal/cli/api"
	"StoreText/internal/cli/repo"
	fsrepo "StoreText/internal/cli/repo/fs"
	reposqlite "StoreText/internal/cli/repo/sqlite"
	"StoreText/internal/cli/service"
	"StoreText/internal/config"
)

// OpenNoteRepo открывает хранилище заметок выбранного в конфиге бэкенда,
// выполняет миграции и возвращает (repo, cleanup, error).
// cleanup необходимо вызвать после окончания работы с репозиторием.
func OpenNoteRepo(cfg *config.Config) (repo.NoteRepository, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("nil config")
	}
	if cfg.StoreBackend == config.BackendFile {
		st, err := fsrepo.NewNoteFileStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open note file: %w", err)
		}
		return st, func() error { return nil }, nil
	}
	r, _, err := reposqlite.Open(cfg.StoreDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open note db: %w", err)
	}
	if err := r.Migrate(); err != nil {
		_ = r.Close()
		return nil, nil, fmt.Errorf("migrate note db: %w", err)
	}
	return r, r.Close, nil
}

// App - собранные зависимости клиента.
type App struct {
	Service *service.NoteService
	State   *fsrepo.StateFSStore
	Relay   *api.RelayClient
}

// OpenApp открывает хранилище и собирает сервис заметок с relay-клиентом.
func OpenApp(cfg *config.Config, log *zap.SugaredLogger) (*App, func() error, error) {
	r, done, err := OpenNoteRepo(cfg)
	if err != nil {
		return nil, nil, err
	}
	state := &fsrepo.StateFSStore{Dir: cfg.StoreDir}
	relay := api.NewRelayClient(cfg.ServerURL, 0)
	svc := service.NewNoteService(r,
		service.WithLogger(log),
		service.WithShareBase(cfg.ShareBaseURL),
		service.WithRelay(relay, state),
	)
	return &App{Service: svc, State: state, Relay: relay}, done, nil
}
