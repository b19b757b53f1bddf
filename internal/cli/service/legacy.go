package service

import (
	"context"

	"StoreText/internal/cli/model"
	fsrepo "StoreText/internal/cli/repo/fs"
)

// ImportLegacyCollection переносит заметки из выгрузки браузерного хранилища.
// Содержимое сохраняется как есть: конверты остаются зашифрованными.
func (s *NoteService) ImportLegacyCollection(ctx context.Context, path string) ([]model.Note, error) {
	entries, err := fsrepo.ReadLegacyCollection(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Note, 0, len(entries))
	for _, e := range entries {
		n := model.Note{
			ID:        s.newID(),
			Title:     model.NormalizeTitle(e.Title),
			Content:   e.Content,
			UpdatedAt: e.UpdatedAt,
		}
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = s.now()
		}
		if _, err := s.repo.Put(ctx, n); err != nil {
			return out, err
		}
		out = append(out, n)
	}
	s.log.Infow("legacy collection imported", "path", path, "notes", len(out))
	return out, nil
}
