// Package likes реализует лайки на вопросах.
// models.go описывает структуру таблицы likes.
package likes

import (
	"time"

	"github.com/google/uuid"
)

// Like — отметка «нравится» на вопросе.
// Пара (question_id, user_id) уникальна: один пользователь —
// максимум один лайк на вопрос. Снятие лайка удаляет строку.
type Like struct {
	ID         uuid.UUID `db:"id" json:"id"`
	QuestionID uuid.UUID `db:"question_id" json:"question_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
