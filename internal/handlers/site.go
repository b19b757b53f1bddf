package handlers

import (
	"StoreText/internal/middleware"
	"StoreText/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// bodySlack - запас на JSON‑обёртку вокруг конверта.
const bodySlack = 4 << 10

// SiteHandler обслуживает занятие сайтов и обмен конвертами.
type SiteHandler struct {
	SiteService *service.SiteService
	Logger      *zap.SugaredLogger
}

// NewSiteHandler создаёт хендлер сайтов
func NewSiteHandler(siteService *service.SiteService, logger *zap.SugaredLogger) *SiteHandler {
	return &SiteHandler{SiteService: siteService, Logger: logger}
}

// PutRequest - тело PUT /api/sites/{name}.
type PutRequest struct {
	Envelope string `json:"envelope"`
	Version  int64  `json:"version"`
}

// SiteResponse - тело GET /api/sites/{name}.
type SiteResponse struct {
	Envelope  string    `json:"envelope"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ping проверка доступности
func (h *SiteHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

// Claim занимает имя сайта
func (h *SiteHandler) Claim(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	token, err := h.SiteService.Claim(r.Context(), name)
	if err != nil {
		h.writeError(w, "Claim", name, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// Put записывает конверт сайта (только владелец токена)
func (h *SiteHandler) Put(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	site, ok := middleware.GetSiteFromContext(r.Context())
	if !ok || site != name {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if limit := h.SiteService.MaxEnvelope(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(limit)+bodySlack)
	}
	var req PutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Logger.Warnw("Put: body too large", "site", name, "limit", tooLarge.Limit)
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.Logger.Warnw("Put: invalid request body", "site", name, "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ver, err := h.SiteService.Put(r.Context(), name, req.Envelope, req.Version)
	if err != nil {
		h.writeError(w, "Put", name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"version": ver})
}

// Get отдаёт текущий конверт сайта
func (h *SiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, err := h.SiteService.Get(r.Context(), name)
	if err != nil {
		h.writeError(w, "Get", name, err)
		return
	}
	writeJSON(w, http.StatusOK, SiteResponse{Envelope: s.Envelope, Version: s.Version, UpdatedAt: s.UpdatedAt.UTC()})
}

// writeError маппит ошибки сервиса в HTTP‑статусы.
func (h *SiteHandler) writeError(w http.ResponseWriter, op, site string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSiteName), errors.Is(err, service.ErrEmptyEnvelope):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrSiteTaken), errors.Is(err, service.ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrSiteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrEnvelopeTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		h.Logger.Errorw(op+": service error", "site", site, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
