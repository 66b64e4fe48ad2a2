package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/qna-backend/internal/common"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{common.ErrProfileNotFound, http.StatusNotFound},
		{common.ErrQuestionNotFound, http.StatusNotFound},
		{common.ErrAnswerNotFound, http.StatusNotFound},
		{common.ErrProfileExists, http.StatusConflict},
		{common.ErrBestAnswerTaken, http.StatusConflict},
		{common.ErrQuestionClosed, http.StatusConflict},
		{common.ErrNotQuestionAuthor, http.StatusForbidden},
		{common.ErrSelfLike, http.StatusForbidden},
		{common.ErrNotAdmin, http.StatusUnauthorized},
		{common.ErrEmptyTitle, http.StatusBadRequest},
		{common.ErrEmptyContent, http.StatusBadRequest},
		{common.ErrNoTags, http.StatusBadRequest},
		{common.ErrAnswerNotOnQuestion, http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// Внутренние ошибки не просачиваются в тело ответа.
func TestErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, errors.New("pq: у таблицы profiles нет колонки secret"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "внутренняя ошибка сервера", body["error"])
	assert.NotContains(t, rec.Body.String(), "profiles")
}

// Обёрнутые ошибки сопоставляются через errors.Is.
func TestErrorUnwraps(t *testing.T) {
	rec := httptest.NewRecorder()

	wrapped := errors.Join(errors.New("контекст"), common.ErrSelfLike)
	Error(rec, wrapped)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusCreated, map[string]int{"points": 5})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"points":5}`, rec.Body.String())
}
