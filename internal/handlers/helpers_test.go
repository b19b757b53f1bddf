package handlers_test

import (
	"StoreText/internal/config"
	"StoreText/internal/handlers"
	"StoreText/internal/repo"
	"StoreText/internal/service"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// newHandlersTestRouter собирает роутер поверх in-memory SQLite.
func newHandlersTestRouter(t *testing.T, maxKB int) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", EnvelopeMaxKB: maxKB}
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	logger := zap.NewNop().Sugar()
	svc := service.NewSiteService(repo.NewSiteRepository(db), cfg.AuthSecret, cfg.EnvelopeMaxKB*1024, logger)
	h := handlers.NewHandler(svc, logger, cfg)
	return h.Router, cfg
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func claim(t *testing.T, h http.Handler, site string) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/sites/"+site, "", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("claim %s: %d %s", site, rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&out)
	return out.Token
}
