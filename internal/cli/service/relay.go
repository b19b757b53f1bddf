package service

import (
	"context"
	"errors"
	"fmt"

	"StoreText/internal/cli/api"
	"StoreText/internal/cli/crypto"
	"StoreText/internal/cli/model"
	"StoreText/internal/cli/repo"
)

// ErrRelayDisabled - сервис собран без relay-клиента.
var ErrRelayDisabled = errors.New("relay is not configured")

// Relay - порт relay-сервера конвертов.
type Relay interface {
	Claim(ctx context.Context, site string) (string, error)
	Push(ctx context.Context, token, site, envelope string, version int64) (int64, error)
	Pull(ctx context.Context, site string) (api.SiteEnvelope, error)
}

var _ Relay = (*api.RelayClient)(nil)

// PushSite отправляет заметку id на сайт. Зашифрованная заметка уходит как
// хранится, открытая шифруется паролем. Если токена сайта ещё нет, имя
// сайта сначала занимается. Возвращает новую версию сайта.
func (s *NoteService) PushSite(ctx context.Context, site, id, password string) (int64, error) {
	if s.relay == nil || s.sites == nil {
		return 0, ErrRelayDisabled
	}
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	env := n.Content
	if !n.Encrypted() {
		if password == "" {
			return 0, ErrPasswordRequired
		}
		if env, err = crypto.Encrypt(n.Content, password); err != nil {
			return 0, err
		}
	}

	tok, err := s.sites.LoadSite(site)
	if err != nil {
		if !errors.Is(err, repo.ErrNoSiteToken) {
			return 0, err
		}
		jwt, err := s.relay.Claim(ctx, site)
		if err != nil {
			return 0, fmt.Errorf("claim site %q: %w", site, err)
		}
		tok = repo.SiteToken{Token: jwt}
		if err := s.sites.SaveSite(site, tok); err != nil {
			return 0, err
		}
		s.log.Infow("site claimed", "site", site)
	}

	ver, err := s.relay.Push(ctx, tok.Token, site, env, tok.Version)
	if err != nil {
		return 0, err
	}
	tok.Version = ver
	if err := s.sites.SaveSite(site, tok); err != nil {
		return 0, err
	}
	s.log.Debugw("site pushed", "site", site, "version", ver)
	return ver, nil
}

// PullSite скачивает конверт сайта, расшифровывает и создаёт заметку
// с именем сайта в заголовке.
func (s *NoteService) PullSite(ctx context.Context, site, password string) (model.Note, error) {
	if s.relay == nil {
		return model.Note{}, ErrRelayDisabled
	}
	if password == "" {
		return model.Note{}, ErrPasswordRequired
	}
	se, err := s.relay.Pull(ctx, site)
	if err != nil {
		return model.Note{}, err
	}
	plain, err := crypto.Decrypt(se.Envelope, password)
	if err != nil {
		return model.Note{}, err
	}
	// версию запоминаем только для уже занятого нами сайта
	if s.sites != nil {
		if tok, err := s.sites.LoadSite(site); err == nil && se.Version > tok.Version {
			tok.Version = se.Version
			if err := s.sites.SaveSite(site, tok); err != nil {
				s.log.Warnw("pull: remember site version", "site", site, "version", se.Version, "error", err)
			}
		}
	}
	return s.Create(ctx, site, plain)
}
