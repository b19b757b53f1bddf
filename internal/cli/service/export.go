package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StoreText/internal/cli/crypto"
	"StoreText/internal/cli/model"
)

// Format - формат экспорта заметки.
type Format int

const (
	// FormatText - содержимое как есть (открытый текст или конверт).
	FormatText Format = iota
	// FormatMarkdown - YAML front matter и затем содержимое.
	FormatMarkdown
)

const (
	// MaxImportSize - предельный размер импортируемого файла.
	MaxImportSize = 5 << 20

	// DefaultImportTitle - заголовок заметки, импортированной из конверта.
	DefaultImportTitle = "Imported note"

	lockedSuffix = ".locked.txt"
)

// ErrFileTooLarge - импортируемый файл больше MaxImportSize.
var ErrFileTooLarge = errors.New("file is too large to import")

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

type frontMatter struct {
	ID        string    `yaml:"id,omitempty"`
	Title     string    `yaml:"title"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
	Encrypted bool      `yaml:"encrypted"`
}

// ParseFormat разбирает имя формата: "txt"/"text" или "md"/"markdown".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return FormatText, fmt.Errorf("unknown export format %q", s)
}

// Export записывает заметку в w.
func (s *NoteService) Export(w io.Writer, note model.Note, f Format) error {
	if f == FormatText {
		_, err := io.WriteString(w, note.Content)
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	fm := frontMatter{ID: note.ID, Title: note.Title, UpdatedAt: note.UpdatedAt.UTC(), Encrypted: note.Encrypted()}
	if err := enc.Encode(fm); err != nil {
		return fmt.Errorf("encode front matter: %w", err)
	}
	_ = enc.Close()
	buf.WriteString("---\n")
	buf.WriteString(note.Content)
	_, err := w.Write(buf.Bytes())
	return err
}

// ExportFileName строит безопасное имя файла: символы вне [A-Za-z0-9_-]
// заменяются на "_", зашифрованные получают суффикс ".locked.txt".
func ExportFileName(title string, encrypted bool) string {
	name := unsafeFileChars.ReplaceAllString(model.NormalizeTitle(title), "_")
	if encrypted {
		return name + lockedSuffix
	}
	return name + ".txt"
}

// MarkdownFileName - имя файла для FormatMarkdown.
func MarkdownFileName(title string) string {
	return unsafeFileChars.ReplaceAllString(model.NormalizeTitle(title), "_") + ".md"
}

// ExportEncrypted возвращает конверт для записи в ".locked.txt".
// Уже зашифрованное содержимое отдаётся как есть.
func (s *NoteService) ExportEncrypted(content, password string) (string, error) {
	if crypto.IsEnvelope(content) {
		return content, nil
	}
	return s.EncryptContent(content, password)
}

// ImportEnvelope расшифровывает конверт и создаёт из него заметку.
// При ошибке расшифровки ничего не создаётся.
func (s *NoteService) ImportEnvelope(ctx context.Context, envelope, password, title string) (model.Note, error) {
	if password == "" {
		return model.Note{}, ErrPasswordRequired
	}
	plain, err := crypto.Decrypt(envelope, password)
	if err != nil {
		return model.Note{}, err
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultImportTitle
	}
	return s.Create(ctx, title, plain)
}

// ImportFile создаёт заметку из файла. Конверты (и файлы ".locked.txt")
// требуют пароль, ".md" с front matter восстанавливает заголовок,
// остальное становится заметкой с именем файла в качестве заголовка.
func (s *NoteService) ImportFile(ctx context.Context, path, password string) (model.Note, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return model.Note{}, err
	}
	if fi.IsDir() {
		return model.Note{}, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxImportSize {
		return model.Note{}, ErrFileTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Note{}, err
	}

	base := filepath.Base(path)
	title := titleFromFileName(base)
	content := string(data)
	if strings.EqualFold(filepath.Ext(base), ".md") {
		if fm, body, ok := splitFrontMatter(data); ok {
			if fm.Title != "" {
				title = fm.Title
			}
			content = body
		}
	}

	trimmed := strings.TrimSpace(content)
	if crypto.IsEnvelope(trimmed) || strings.HasSuffix(strings.ToLower(base), lockedSuffix) {
		if password == "" {
			return model.Note{}, ErrPasswordRequired
		}
		plain, err := crypto.Decrypt(trimmed, password)
		if err != nil {
			return model.Note{}, err
		}
		content = plain
	}
	return s.Create(ctx, title, content)
}

func titleFromFileName(base string) string {
	lower := strings.ToLower(base)
	switch {
	case strings.HasSuffix(lower, lockedSuffix):
		return base[:len(base)-len(lockedSuffix)]
	default:
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
}

// splitFrontMatter отделяет YAML‑шапку, ограниченную строками "---".
func splitFrontMatter(data []byte) (frontMatter, string, bool) {
	var fm frontMatter
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return fm, "", false
	}
	rest := data[len("---\n"):]
	var head, body []byte
	if bytes.HasPrefix(rest, []byte("---\n")) {
		body = rest[len("---\n"):]
	} else {
		i := bytes.Index(rest, []byte("\n---\n"))
		if i < 0 {
			return fm, "", false
		}
		head = rest[:i+1]
		body = rest[i+len("\n---\n"):]
	}
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return fm, "", false
	}
	return fm, string(body), true
}
