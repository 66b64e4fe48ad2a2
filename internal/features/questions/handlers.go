// Package questions — handlers.go обрабатывает HTTP-запросы вопросов.
package questions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"serotonyl.ru/qna-backend/internal/server/respond"
)

// Handler обрабатывает запросы вопросов.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик вопросов.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// createRequest — тело запроса публикации вопроса.
type createRequest struct {
	AuthorID string   `json:"author_id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category *string  `json:"category"`
	ImageURL *string  `json:"image_url"`
}

// createResponse — опубликованный вопрос плюс подтверждение начисления.
type createResponse struct {
	Question *Question `json:"question"`
	Awarded  *Awarded  `json:"awarded,omitempty"`
}

// HandleCreate — POST /api/questions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	q, awarded, err := h.service.Create(r.Context(), CreateInput{
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, createResponse{Question: q, Awarded: awarded})
}

// HandleList — GET /api/questions?limit=&offset=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if items == nil {
		items = []*ListItem{}
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{"questions": items})
}

// HandleGet — GET /api/questions/{id}. Полная карточка вопроса.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id вопроса")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, detail)
}
