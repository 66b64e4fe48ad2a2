// Package respond содержит помощники для HTTP-ответов:
// сериализация JSON и маппинг доменных ошибок на статусы.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/qna-backend/internal/common"
)

// errorResponse — единый формат тела ошибки.
type errorResponse struct {
	Error string `json:"error"`
}

// JSON пишет ответ со статусом status и телом payload.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Ошибка сериализации ответа")
	}
}

// Error пишет ошибку с корректным статусом.
// Доменные ошибки получают осмысленные статусы, всё остальное — 500
// с обезличенным сообщением (внутренности базы наружу не показываем).
func Error(w http.ResponseWriter, err error) {
	status := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Внутренняя ошибка запроса")
		msg = "внутренняя ошибка сервера"
	}

	JSON(w, status, errorResponse{Error: msg})
}

// BadRequest пишет 400 с заданным сообщением.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// statusFor сопоставляет доменную ошибку с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrProfileNotFound),
		errors.Is(err, common.ErrQuestionNotFound),
		errors.Is(err, common.ErrAnswerNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrProfileExists),
		errors.Is(err, common.ErrBestAnswerTaken),
		errors.Is(err, common.ErrQuestionClosed):
		return http.StatusConflict
	case errors.Is(err, common.ErrNotQuestionAuthor),
		errors.Is(err, common.ErrSelfLike):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotAdmin):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrEmptyTitle),
		errors.Is(err, common.ErrEmptyContent),
		errors.Is(err, common.ErrNoTags),
		errors.Is(err, common.ErrAnswerNotOnQuestion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
