// Package admin — handlers.go обрабатывает HTTP-запросы админ-панели.
package admin

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"serotonyl.ru/qna-backend/internal/features/points"
	"serotonyl.ru/qna-backend/internal/server/respond"
)

// Handler обрабатывает админ-запросы.
type Handler struct {
	service *Service
}

// NewHandler создаёт админ-обработчик.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// reconcileResponse — результат сверки одного профиля.
type reconcileResponse struct {
	ProfileID string               `json:"profile_id"`
	Stats     *points.ProfileStats `json:"stats"`
}

// reconcileAllResponse — результат полной сверки.
type reconcileAllResponse struct {
	Reconciled int `json:"reconciled"`
}

// HandleReconcile — POST /api/admin/reconcile/{id}.
// Пересчитывает статистику профиля из сырых данных и перезаписывает баланс.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Authorize(bearerToken(r)); err != nil {
		respond.Error(w, err)
		return
	}

	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "некорректный id профиля")
		return
	}

	stats, err := h.service.Reconcile(r.Context(), profileID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, reconcileResponse{
		ProfileID: profileID.String(),
		Stats:     stats,
	})
}

// HandleReconcileAll — POST /api/admin/reconcile.
// Запускает сверку всех профилей.
func (h *Handler) HandleReconcileAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Authorize(bearerToken(r)); err != nil {
		respond.Error(w, err)
		return
	}

	done, err := h.service.ReconcileAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, reconcileAllResponse{Reconciled: done})
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}
