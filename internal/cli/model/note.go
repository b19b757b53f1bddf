package model

import (
	"errors"
	"strings"
	"time"

	"StoreText/internal/cli/crypto"
)

// DefaultTitle подставляется вместо пустого заголовка при сохранении.
const DefaultTitle = "Untitled"

// ErrNotFound - заметка с указанным ID отсутствует в хранилище.
var ErrNotFound = errors.New("note not found")

// Note - заметка локального хранилища. Content содержит либо открытый текст,
// либо зашифрованный конверт.
type Note struct {
	ID        string
	Title     string
	Content   string
	UpdatedAt time.Time
}

// Encrypted вычисляется из содержимого и не хранится отдельно.
func (n Note) Encrypted() bool {
	return crypto.IsEnvelope(n.Content)
}

// Summary возвращает краткое представление заметки для списка.
func (n Note) Summary() Summary {
	return Summary{ID: n.ID, Title: n.Title, UpdatedAt: n.UpdatedAt, Encrypted: n.Encrypted()}
}

// Summary - элемент списка заметок, без содержимого.
type Summary struct {
	ID        string
	Title     string
	UpdatedAt time.Time
	Encrypted bool
}

// NormalizeTitle обрезает пробелы и подставляет DefaultTitle для пустого заголовка.
func NormalizeTitle(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return DefaultTitle
	}
	return t
}

// Stats - счётчики символов, слов и строк редактора.
type Stats struct {
	Chars int
	Words int
	Lines int
}

// CountStats считает символы (руны), слова (через пробельные разделители) и строки.
func CountStats(text string) Stats {
	return Stats{
		Chars: len([]rune(text)),
		Words: len(strings.Fields(text)),
		Lines: strings.Count(text, "\n") + 1,
	}
}
