package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

// LegacyEntry - одна запись коллекции, выгруженной из браузерного хранилища.
type LegacyEntry struct {
	Title     string
	Content   string
	UpdatedAt time.Time
}

// simpleEntry - значение в map‑формате { "<title>": {content, timestamp} }.
type simpleEntry struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadLegacyCollection разбирает файл коллекции в одном из двух форматов:
// массив заметок (как в NoteFileStore) или map заголовок → {content, timestamp}.
// Записи возвращаются от старых к новым.
func ReadLegacyCollection(path string) ([]LegacyEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty collection file")
	}

	var out []LegacyEntry
	switch b[0] {
	case '[':
		var arr []fileNote
		if err := json.Unmarshal(b, &arr); err != nil {
			return nil, fmt.Errorf("decode note array: %w", err)
		}
		for _, n := range arr {
			out = append(out, LegacyEntry{Title: n.Title, Content: n.Content, UpdatedAt: n.UpdatedAt})
		}
	case '{':
		var m map[string]simpleEntry
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("decode note map: %w", err)
		}
		for title, e := range m {
			out = append(out, LegacyEntry{Title: title, Content: e.Content, UpdatedAt: e.Timestamp})
		}
	default:
		return nil, errors.New("unknown collection format")
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].Title < out[j].Title
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}
