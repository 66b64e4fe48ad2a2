// Package answers — repository.go выполняет операции с таблицей answers.
// Выбор лучшего ответа затрагивает и таблицу questions (закрытие вопроса),
// поэтому выполняется в одной транзакции БД.
package answers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/qna-backend/internal/common"
)

// Repository работает с таблицей answers.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий ответов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый ответ.
func (r *Repository) Create(ctx context.Context, a *Answer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO answers (id, question_id, user_id, content, is_best_answer)
		VALUES ($1, $2, $3, $4, FALSE)
	`, a.ID, a.QuestionID, a.UserID, a.Content)
	if err != nil {
		return fmt.Errorf("ошибка создания ответа: %w", err)
	}
	return nil
}

// GetByID возвращает ответ по идентификатору.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Answer, error) {
	var a Answer
	err := r.db.QueryRow(ctx, `
		SELECT id, question_id, user_id, content, is_best_answer, created_at
		FROM answers WHERE id = $1
	`, id).Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Content, &a.IsBestAnswer, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("ошибка получения ответа: %w", err)
	}
	return &a, nil
}

// HasBestAnswer проверяет, выбран ли уже лучший ответ у вопроса.
func (r *Repository) HasBestAnswer(ctx context.Context, questionID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM answers
			WHERE question_id = $1 AND is_best_answer = TRUE
		)
	`, questionID).Scan(&exists)
	return exists, err
}

// MarkBest помечает ответ лучшим и закрывает вопрос в одной транзакции:
// либо происходит и то и другое, либо ничего.
//
// Условие is_best_answer = FALSE в UPDATE вместе с частичным уникальным
// индексом в схеме защищает от гонки двух одновременных выборов:
// второй UPDATE не затронет ни одной строки.
func (r *Repository) MarkBest(ctx context.Context, questionID, answerID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE answers SET is_best_answer = TRUE
		WHERE id = $1 AND question_id = $2 AND is_best_answer = FALSE
		  AND NOT EXISTS (
			SELECT 1 FROM answers
			WHERE question_id = $2 AND is_best_answer = TRUE
		  )
	`, answerID, questionID)
	if err != nil {
		return fmt.Errorf("ошибка отметки лучшего ответа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrBestAnswerTaken
	}

	_, err = tx.Exec(ctx, `
		UPDATE questions SET status = 'closed' WHERE id = $1
	`, questionID)
	if err != nil {
		return fmt.Errorf("ошибка закрытия вопроса: %w", err)
	}

	return tx.Commit(ctx)
}
