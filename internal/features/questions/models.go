// Package questions управляет вопросами: публикацией, списком,
// детальной карточкой и тегами.
// models.go описывает структуры для таблиц questions, tags, question_tags.
package questions

import (
	"time"

	"github.com/google/uuid"
)

// Статусы вопроса. Вопрос закрывается ровно один раз —
// при выборе лучшего ответа.
const (
	StatusOpen   = "open"   // Принимает ответы
	StatusClosed = "closed" // Лучший ответ выбран
)

// Question представляет вопрос в базе данных.
type Question struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	Status    string    `db:"status" json:"status"`
	Category  *string   `db:"category" json:"category,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ListItem — вопрос в ленте: сам вопрос плюс счётчики и автор.
type ListItem struct {
	Question
	Tags        []string `json:"tags"`
	AnswerCount int      `json:"answer_count"`
	LikeCount   int      `json:"like_count"`
	Author      Author   `json:"author"`
}

// Author — краткая карточка автора для ленты и деталей вопроса.
type Author struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Points   int       `json:"points"`
	RankName string    `json:"rank_name,omitempty"`
}

// AnswerView — ответ в детальной карточке вопроса.
type AnswerView struct {
	ID           uuid.UUID `json:"id"`
	QuestionID   uuid.UUID `json:"question_id"`
	Content      string    `json:"content"`
	IsBestAnswer bool      `json:"is_best_answer"`
	CreatedAt    time.Time `json:"created_at"`
	Author       Author    `json:"author"`
}

// Detail — полная карточка вопроса: вопрос, теги, автор, ответы, лайки.
type Detail struct {
	Question    Question     `json:"question"`
	Tags        []string     `json:"tags"`
	Author      Author       `json:"author"`
	Answers     []AnswerView `json:"answers"`
	AnswerCount int          `json:"answer_count"`
	LikeCount   int          `json:"like_count"`
}
