// Package points — handlers.go обрабатывает HTTP-запросы истории начислений.
package points

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/server/respond"
)

// Handler обрабатывает запросы к системе баллов.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик баллов.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// historyItem — событие истории с человекочитаемой суммой для модалки
// «вы получили баллы» на фронтенде.
type historyItem struct {
	Action    Action `json:"action"`
	Delta     int    `json:"delta"`
	Amount    string `json:"amount"` // "+5 баллов", "-2 балла"
	CreatedAt string `json:"created_at"`
}

// HandleHistory — GET /api/profiles/{id}/history.
// Последние события начислений, новые первыми.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id профиля")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.service.History(r.Context(), profileID, limit)
	if err != nil {
		respond.Error(w, err)
		return
	}

	items := make([]historyItem, 0, len(events))
	for _, e := range events {
		items = append(items, historyItem{
			Action:    e.Action,
			Delta:     e.Delta,
			Amount:    common.FormatPointsAmount(e.Delta),
			CreatedAt: common.FormatDateTime(e.CreatedAt),
		})
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{"events": items})
}
