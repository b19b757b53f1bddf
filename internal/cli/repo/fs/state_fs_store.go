package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"StoreText/internal/cli/repo"
)

// StateFSStore - файловое хранилище состояния CLI: текущая заметка
// и токены записи для сайтов ретранслятора.
type StateFSStore struct {
	Dir string
	mu  sync.Mutex
}

var (
	_ repo.StateStore     = (*StateFSStore)(nil)
	_ repo.SiteTokenStore = (*StateFSStore)(nil)
)

func (s *StateFSStore) dir() (string, error) {
	if s.Dir == "" {
		return "", errors.New("empty state directory")
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return "", err
	}
	return s.Dir, nil
}

func (s *StateFSStore) currentPath() (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "current_note"), nil
}

func (s *StateFSStore) sitesPath() (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sites.json"), nil
}

// SaveCurrent запоминает ID открытой заметки. Пустой ID сбрасывает состояние.
func (s *StateFSStore) SaveCurrent(id string) error {
	p, err := s.currentPath()
	if err != nil {
		return err
	}
	if id == "" {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return os.WriteFile(p, []byte(id), 0o600)
}

// LoadCurrent читает ID текущей заметки.
func (s *StateFSStore) LoadCurrent() (string, error) {
	p, err := s.currentPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	id := strings.TrimSpace(string(b))
	if id == "" {
		return "", errors.New("no current note")
	}
	return id, nil
}

// SaveSite сохраняет токен записи и последнюю известную версию сайта.
func (s *StateFSStore) SaveSite(site string, tok repo.SiteToken) error {
	if site == "" {
		return errors.New("empty site")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.loadSites()
	if err != nil {
		return err
	}
	all[site] = tok
	b, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	p, err := s.sitesPath()
	if err != nil {
		return err
	}
	return writeFileAtomic(p, b, 0o600)
}

// LoadSite возвращает сохранённый токен сайта или repo.ErrNoSiteToken.
func (s *StateFSStore) LoadSite(site string) (repo.SiteToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.loadSites()
	if err != nil {
		return repo.SiteToken{}, err
	}
	tok, ok := all[site]
	if !ok || tok.Token == "" {
		return repo.SiteToken{}, fmt.Errorf("%w: %s", repo.ErrNoSiteToken, site)
	}
	return tok, nil
}

func (s *StateFSStore) loadSites() (map[string]repo.SiteToken, error) {
	p, err := s.sitesPath()
	if err != nil {
		return nil, err
	}
	all := map[string]repo.SiteToken{}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return all, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return all, nil
}
