// Package answers управляет ответами на вопросы и выбором лучшего ответа.
// models.go описывает структуру таблицы answers.
package answers

import (
	"time"

	"github.com/google/uuid"
)

// Answer представляет ответ в базе данных.
// Флаг IsBestAnswer выставляется не более чем у одного ответа на вопрос
// и никогда не снимается.
type Answer struct {
	ID           uuid.UUID `db:"id" json:"id"`
	QuestionID   uuid.UUID `db:"question_id" json:"question_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Content      string    `db:"content" json:"content"`
	IsBestAnswer bool      `db:"is_best_answer" json:"is_best_answer"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
