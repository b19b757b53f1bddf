package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"StoreText/internal/cli/model"
	"StoreText/internal/cli/repo"
)

// NotesFileName - имя JSON‑файла коллекции внутри каталога хранилища.
const NotesFileName = "notes.json"

// fileNote - запись коллекции на диске.
type fileNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
	Encrypted bool      `json:"encrypted"`
}

// NoteFileStore хранит всю коллекцию заметок одним JSON‑массивом.
// Каждое изменение - полное чтение, изменение и атомарная перезапись файла.
type NoteFileStore struct {
	mu   sync.Mutex
	path string
}

var _ repo.NoteRepository = (*NoteFileStore)(nil)

// NewNoteFileStore создаёт хранилище в каталоге dir.
func NewNoteFileStore(dir string) (*NoteFileStore, error) {
	if dir == "" {
		return nil, errors.New("empty store directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &NoteFileStore{path: filepath.Join(dir, NotesFileName)}, nil
}

// Path возвращает путь к файлу коллекции.
func (s *NoteFileStore) Path() string { return s.path }

// List возвращает заметки, новые первыми.
func (s *NoteFileStore) List(_ context.Context) ([]model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	res := make([]model.Summary, 0, len(notes))
	for _, n := range notes {
		res = append(res, model.Summary{ID: n.ID, Title: n.Title, UpdatedAt: n.UpdatedAt, Encrypted: n.Encrypted})
	}
	return res, nil
}

// Get возвращает заметку по ID.
func (s *NoteFileStore) Get(_ context.Context, id string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		if n.ID == id {
			return &model.Note{ID: n.ID, Title: n.Title, Content: n.Content, UpdatedAt: n.UpdatedAt}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
}

// Put вставляет или обновляет заметку. Идентичные title и content не пишутся.
func (s *NoteFileStore) Put(_ context.Context, note model.Note) (bool, error) {
	if note.ID == "" {
		return false, errors.New("empty note id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	notes, err := s.load()
	if err != nil {
		return false, err
	}
	updated := note.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	rec := fileNote{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		UpdatedAt: updated,
		Encrypted: note.Encrypted(),
	}
	found := false
	for i := range notes {
		if notes[i].ID != note.ID {
			continue
		}
		if notes[i].Title == note.Title && notes[i].Content == note.Content {
			return false, nil
		}
		notes[i] = rec
		found = true
		break
	}
	if !found {
		// новые заметки - в начало, как в исходной коллекции
		notes = append([]fileNote{rec}, notes...)
	}
	if err := s.store(notes); err != nil {
		return false, err
	}
	return true, nil
}

// Delete удаляет заметку по ID.
func (s *NoteFileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes, err := s.load()
	if err != nil {
		return err
	}
	for i := range notes {
		if notes[i].ID == id {
			notes = append(notes[:i], notes[i+1:]...)
			return s.store(notes)
		}
	}
	return fmt.Errorf("%w: %s", model.ErrNotFound, id)
}

// load читает коллекцию; отсутствующий или пустой файл - пустая коллекция.
func (s *NoteFileStore) load() ([]fileNote, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	var notes []fileNote
	if err := json.Unmarshal(b, &notes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return notes, nil
}

func (s *NoteFileStore) store(notes []fileNote) error {
	if notes == nil {
		notes = []fileNote{}
	}
	b, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, b, 0o600)
}

// writeFileAtomic пишет во временный файл рядом и переименовывает его поверх целевого.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
