// Package answers — handlers.go обрабатывает HTTP-запросы ответов.
package answers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"serotonyl.ru/qna-backend/internal/server/respond"
)

// Handler обрабатывает запросы ответов.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик ответов.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// createRequest — тело запроса публикации ответа.
type createRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

// createResponse — опубликованный ответ плюс подтверждение начисления.
type createResponse struct {
	Answer  *Answer  `json:"answer"`
	Awarded *Awarded `json:"awarded,omitempty"`
}

// HandleCreate — POST /api/questions/{id}/answers.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	questionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id вопроса")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "некорректное тело запроса")
		return
	}

	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		respond.BadRequest(w, "некорректный id автора")
		return
	}

	answer, awarded, err := h.service.Create(r.Context(), questionID, authorID, req.Content)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, createResponse{Answer: answer, Awarded: awarded})
}

// markBestRequest — тело запроса выбора лучшего ответа.
type markBestRequest struct {
	QuestionID string `json:"question_id"`
	CallerID   string `json:"caller_id"`
}

// HandleMarkBest — POST /api/answers/{id}/best.
func (h *Handler) HandleMarkBest(w http.ResponseWriter, r *http.Request) {
	answerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id ответа")
		return
	}

	var req markBestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "некорректное тело запроса")
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		respond.BadRequest(w, "некорректный id вопроса")
		return
	}
	callerID, err := uuid.Parse(req.CallerID)
	if err != nil {
		respond.BadRequest(w, "некорректный id пользователя")
		return
	}

	awarded, err := h.service.MarkBest(r.Context(), questionID, answerID, callerID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"awarded": awarded,
	})
}
