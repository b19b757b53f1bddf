package repo

import (
	"context"
	"errors"

	"StoreText/internal/cli/model"
)

// NoteRepository определяет порт доступа к локальному хранилищу заметок.
type NoteRepository interface {
	// List возвращает краткие сведения обо всех заметках, новые первыми.
	// Расшифровка не выполняется.
	List(ctx context.Context) ([]model.Summary, error)

	// Get возвращает заметку по ID или model.ErrNotFound.
	Get(ctx context.Context, id string) (*model.Note, error)

	// Put вставляет или обновляет заметку по ID. Если у существующей заметки
	// те же заголовок и содержимое, запись не выполняется и changed=false.
	Put(ctx context.Context, note model.Note) (changed bool, err error)

	// Delete удаляет заметку по ID или возвращает model.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// SiteToken - токен записи на relay-сервер и последняя известная версия сайта.
type SiteToken struct {
	Token   string `json:"token"`
	Version int64  `json:"version"`
}

// ErrNoSiteToken - для сайта не сохранён токен записи.
var ErrNoSiteToken = errors.New("no token stored for site")

// SiteTokenStore хранит токены сайтов relay-сервера на клиенте.
type SiteTokenStore interface {
	SaveSite(site string, tok SiteToken) error
	LoadSite(site string) (SiteToken, error) // ErrNoSiteToken, если токена нет
}

// StateStore хранит контекст клиента между запусками (последняя открытая заметка).
type StateStore interface {
	SaveCurrent(id string) error
	LoadCurrent() (string, error)
}
