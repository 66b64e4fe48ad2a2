// Package likes — handlers.go обрабатывает HTTP-запросы лайков.
package likes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"serotonyl.ru/qna-backend/internal/server/respond"
)

// Handler обрабатывает запросы лайков.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик лайков.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// toggleRequest — тело запроса переключения лайка.
type toggleRequest struct {
	UserID string `json:"user_id"`
}

// HandleToggle — POST /api/questions/{id}/like.
// Ставит лайк, если его нет, иначе снимает.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	questionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id вопроса")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "некорректное тело запроса")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respond.BadRequest(w, "некорректный id пользователя")
		return
	}

	result, err := h.service.Toggle(r.Context(), questionID, userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

// HandleState — GET /api/questions/{id}/like?user_id=.
// Текущее состояние лайка пользователя на вопросе.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	questionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id вопроса")
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id пользователя")
		return
	}

	liked, err := h.service.IsLiked(r.Context(), questionID, userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
