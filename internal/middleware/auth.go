package middleware

import (
	"StoreText/internal/service"
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const siteKey ctxKey = iota

// WithAuth разбирает заголовок Authorization: Bearer <token> и, если токен
// валиден, кладёт имя сайта в контекст. Запросы без токена проходят дальше
// анонимно: решение об отказе принимает хендлер.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(raw, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				next.ServeHTTP(w, r)
				return
			}
			site, err := service.ParseSiteToken(strings.TrimSpace(token), secret)
			if err != nil {
				sugar.Debugw("auth: invalid token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), siteKey, site)))
		})
	}
}

// GetSiteFromContext возвращает имя сайта из проверенного токена.
func GetSiteFromContext(ctx context.Context) (string, bool) {
	site, ok := ctx.Value(siteKey).(string)
	return site, ok && site != ""
}
