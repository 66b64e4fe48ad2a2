// Package profiles — handlers.go обрабатывает HTTP-запросы профилей.
package profiles

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"serotonyl.ru/qna-backend/internal/server/respond"
)

// Handler обрабатывает запросы профилей.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик профилей.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// registerRequest — тело запроса регистрации.
// Идентификатор выдаёт внешний слой аутентификации, поэтому клиент
// передаёт его сам.
type registerRequest struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// HandleRegister — POST /api/profiles. Регистрирует профиль с балансом 0.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "некорректное тело запроса")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		respond.BadRequest(w, "некорректный id профиля")
		return
	}

	profile, err := h.service.Register(r.Context(), id, req.Username, req.AvatarURL)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, profile)
}

// HandleGet — GET /api/profiles/{id}. Профиль с вычисленным рангом.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id профиля")
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, view)
}

// HandleStats — GET /api/profiles/{id}/stats.
// Пересчитанная статистика, теги-специализации и бейджи.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id профиля")
		return
	}

	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, stats)
}
