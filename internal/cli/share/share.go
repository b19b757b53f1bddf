// Package share кодирует конверты в токены для фрагмента URL и обратно.
// Токен кладётся во фрагмент (после #), а не в query, чтобы секретные данные
// не попадали в логи сервера.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Ключи фрагмента: "shared" - ссылка на заметку, "data" - ссылка на сайт.
const (
	fragmentShared = "shared"
	fragmentData   = "data"
)

// ErrNoToken - во фрагменте или ссылке нет токена.
var ErrNoToken = errors.New("no share token in link")

// Link - разобранная ссылка.
type Link struct {
	Envelope string
	Site     string
}

// ToToken кодирует конверт так же, как encodeURIComponent в браузере.
func ToToken(envelope string) string {
	return strings.ReplaceAll(url.QueryEscape(envelope), "+", "%20")
}

// FromToken извлекает конверт из фрагмента. Принимает "#shared=…", "shared=…",
// "#data=…", "data=…" или голый токен. Токен может быть закодирован один раз
// или не закодирован вовсе.
func FromToken(fragment string) (string, error) {
	f := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	for _, key := range []string{fragmentShared, fragmentData} {
		if v, ok := lookupParam(f, key); ok {
			f = v
			break
		}
	}
	if f == "" {
		return "", ErrNoToken
	}
	if decoded, err := url.PathUnescape(f); err == nil {
		return decoded, nil
	}
	return f, nil
}

// lookupParam ищет key=value среди пар, разделённых &.
// url.ParseQuery не подходит: он превращает '+' из base64 в пробел.
func lookupParam(s, key string) (string, bool) {
	for _, part := range strings.Split(s, "&") {
		k, v, found := strings.Cut(part, "=")
		if found && k == key {
			return v, true
		}
	}
	return "", false
}

// BuildLink собирает ссылку для передачи конверта на другое устройство.
func BuildLink(base, site, envelope string) string {
	base = strings.TrimRight(base, "#")
	if site == "" {
		return fmt.Sprintf("%s#%s=%s", base, fragmentShared, ToToken(envelope))
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%ssite=%s#%s=%s", base, sep, url.QueryEscape(site), fragmentData, ToToken(envelope))
}

// ParseLink разбирает полную ссылку или голый фрагмент.
func ParseLink(raw string) (Link, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Link{}, ErrNoToken
	}
	if !strings.Contains(raw, "://") {
		env, err := FromToken(raw)
		if err != nil {
			return Link{}, err
		}
		return Link{Envelope: env}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("parse share link: %w", err)
	}
	frag := u.EscapedFragment()
	if frag == "" {
		return Link{}, ErrNoToken
	}
	env, err := FromToken(frag)
	if err != nil {
		return Link{}, err
	}
	return Link{Envelope: env, Site: u.Query().Get("site")}, nil
}
