package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StoreText/internal/cli/model"
	"StoreText/internal/cli/repo"

	_ "modernc.org/sqlite"
)

// DBFileName - имя файла локальной БД внутри каталога хранилища.
const DBFileName = "notes.sqlite"

// NoteRepositorySQLite - репозиторий заметок в локальной БД SQLite.
type NoteRepositorySQLite struct {
	db *sql.DB
}

var _ repo.NoteRepository = (*NoteRepositorySQLite)(nil)

// Open открывает (и создаёт при необходимости) файл БД в каталоге dir
// и возвращает репозиторий. Вторым значением возвращается путь к БД.
func Open(dir string) (*NoteRepositorySQLite, string, error) {
	if dir == "" {
		return nil, "", errors.New("empty store directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	// одна запись за раз: автосохранение идёт из таймера в отдельной горутине
	db.SetMaxOpenConns(1)
	return &NoteRepositorySQLite{db: db}, dbPath, nil
}

// Close закрывает соединение с БД.
func (r *NoteRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate применяет встроенные миграции.
func (r *NoteRepositorySQLite) Migrate() error {
	return migrate(r.db)
}

// List возвращает все заметки, отсортированные по updated_at DESC.
func (r *NoteRepositorySQLite) List(ctx context.Context) ([]model.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, encrypted, updated_at FROM notes ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make([]model.Summary, 0)
	for rows.Next() {
		var (
			s       model.Summary
			encInt  int
			updated int64
		)
		if err := rows.Scan(&s.ID, &s.Title, &encInt, &updated); err != nil {
			return nil, err
		}
		s.Encrypted = encInt != 0
		s.UpdatedAt = time.Unix(0, updated)
		res = append(res, s)
	}
	return res, rows.Err()
}

// Get возвращает заметку по ID.
func (r *NoteRepositorySQLite) Get(ctx context.Context, id string) (*model.Note, error) {
	if id == "" {
		return nil, model.ErrNotFound
	}
	var (
		n       model.Note
		updated int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, title, content, updated_at FROM notes WHERE id = ?`, id).
		Scan(&n.ID, &n.Title, &n.Content, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
		}
		return nil, err
	}
	n.UpdatedAt = time.Unix(0, updated)
	return &n, nil
}

// Put вставляет или обновляет заметку. Флаг encrypted вычисляется из содержимого.
func (r *NoteRepositorySQLite) Put(ctx context.Context, note model.Note) (bool, error) {
	if note.ID == "" {
		return false, errors.New("empty note id")
	}
	updated := note.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		// в случае ошибки или некоммита - откат
		_ = tx.Rollback()
	}()

	var title, content string
	err = tx.QueryRowContext(ctx, `SELECT title, content FROM notes WHERE id = ?`, note.ID).Scan(&title, &content)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `INSERT INTO notes(id, title, content, encrypted, created_at, updated_at)
        VALUES(?, ?, ?, ?, ?, ?)`,
			note.ID, note.Title, note.Content, boolToInt(note.Encrypted()), updated.UnixNano(), updated.UnixNano())
	case err != nil:
		return false, err
	case title == note.Title && content == note.Content:
		return false, nil
	default:
		_, err = tx.ExecContext(ctx, `UPDATE notes SET title = ?, content = ?, encrypted = ?, updated_at = ? WHERE id = ?`,
			note.Title, note.Content, boolToInt(note.Encrypted()), updated.UnixNano(), note.ID)
	}
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Delete удаляет заметку по ID.
func (r *NoteRepositorySQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
