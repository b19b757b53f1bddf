package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"StoreText/internal/cli/crypto"
	"StoreText/internal/cli/model"
	"StoreText/internal/cli/repo"
)

var (
	// ErrPasswordRequired - операция над зашифрованными данными без пароля.
	ErrPasswordRequired = errors.New("password required")
	// ErrNotEncrypted - попытка расшифровать текст без маркера конверта.
	ErrNotEncrypted = errors.New("content is not encrypted")
	// ErrAlreadyEncrypted - повторное шифрование конверта.
	ErrAlreadyEncrypted = errors.New("content is already encrypted")
	// ErrEmptyContent - попытка зашифровать пустой текст.
	ErrEmptyContent = errors.New("nothing to encrypt")
)

// NoteService - юзкейс-уровень работы с заметками: хранилище, шифрование и ссылки.
type NoteService struct {
	repo      repo.NoteRepository
	now       func() time.Time
	newID     func() string
	log       *zap.SugaredLogger
	shareBase string

	relay Relay
	sites repo.SiteTokenStore
}

// Option настраивает NoteService.
type Option func(*NoteService)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *NoteService) { s.now = now }
}

// WithIDGenerator подменяет генератор ID заметок.
func WithIDGenerator(gen func() string) Option {
	return func(s *NoteService) { s.newID = gen }
}

// WithLogger задаёт логгер.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *NoteService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithShareBase задаёт базовый URL ссылок для передачи заметок.
func WithShareBase(base string) Option {
	return func(s *NoteService) { s.shareBase = base }
}

// WithRelay подключает relay-сервер и локальное хранилище токенов сайтов.
func WithRelay(r Relay, sites repo.SiteTokenStore) Option {
	return func(s *NoteService) {
		s.relay = r
		s.sites = sites
	}
}

// NewNoteService конструктор сервиса заметок.
func NewNoteService(r repo.NoteRepository, opts ...Option) *NoteService {
	s := &NoteService{
		repo:  r,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		log:   zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create создаёт новую заметку с новым ID.
func (s *NoteService) Create(ctx context.Context, title, content string) (model.Note, error) {
	n := model.Note{
		ID:        s.newID(),
		Title:     model.NormalizeTitle(title),
		Content:   content,
		UpdatedAt: s.now(),
	}
	if _, err := s.repo.Put(ctx, n); err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}
	s.log.Debugw("note created", "id", n.ID, "encrypted", n.Encrypted())
	return n, nil
}

// Get возвращает заметку как она хранится (без расшифровки).
func (s *NoteService) Get(ctx context.Context, id string) (*model.Note, error) {
	return s.repo.Get(ctx, id)
}

// List возвращает краткий список заметок, новые первыми.
func (s *NoteService) List(ctx context.Context) ([]model.Summary, error) {
	return s.repo.List(ctx)
}

// Delete удаляет заметку.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debugw("note deleted", "id", id)
	return nil
}

// Save сохраняет буфер в заметку id. Пустой id создаёт новую заметку.
// changed=false означает, что заголовок и содержимое совпали с сохранёнными
// и запись не выполнялась.
func (s *NoteService) Save(ctx context.Context, id, title, content string) (model.Note, bool, error) {
	if id == "" {
		n, err := s.Create(ctx, title, content)
		return n, err == nil, err
	}
	n := model.Note{
		ID:        id,
		Title:     model.NormalizeTitle(title),
		Content:   content,
		UpdatedAt: s.now(),
	}
	changed, err := s.repo.Put(ctx, n)
	if err != nil {
		return model.Note{}, false, fmt.Errorf("save note: %w", err)
	}
	if !changed {
		stored, err := s.repo.Get(ctx, id)
		if err != nil {
			return model.Note{}, false, err
		}
		return *stored, false, nil
	}
	s.log.Debugw("note saved", "id", id, "encrypted", n.Encrypted())
	return n, true, nil
}

// Open возвращает заметку для редактирования. Зашифрованная заметка
// расшифровывается паролем; сохранённая копия при этом не меняется.
func (s *NoteService) Open(ctx context.Context, id, password string) (model.Note, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	if !n.Encrypted() {
		return *n, nil
	}
	if password == "" {
		return model.Note{}, ErrPasswordRequired
	}
	plain, err := crypto.Decrypt(n.Content, password)
	if err != nil {
		s.log.Debugw("open: decrypt failed", "id", id)
		return model.Note{}, err
	}
	out := *n
	out.Content = plain
	return out, nil
}

// EncryptContent превращает открытый текст буфера в конверт.
func (s *NoteService) EncryptContent(content, password string) (string, error) {
	if content == "" {
		return "", ErrEmptyContent
	}
	if crypto.IsEnvelope(content) {
		return "", ErrAlreadyEncrypted
	}
	if password == "" {
		return "", ErrPasswordRequired
	}
	return crypto.Encrypt(content, password)
}

// DecryptContent расшифровывает конверт из буфера.
func (s *NoteService) DecryptContent(content, password string) (string, error) {
	if !crypto.IsEnvelope(content) {
		return "", ErrNotEncrypted
	}
	if password == "" {
		return "", ErrPasswordRequired
	}
	return crypto.Decrypt(content, password)
}
