// Package likes — repository.go выполняет операции с таблицей likes.
package likes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей likes.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий лайков.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Exists проверяет, лайкнул ли пользователь вопрос.
func (r *Repository) Exists(ctx context.Context, questionID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM likes WHERE question_id = $1 AND user_id = $2
		)
	`, questionID, userID).Scan(&exists)
	return exists, err
}

// Insert ставит лайк. Повторный лайк той же пары молча игнорируется
// (уникальный индекс), чтобы двойной клик не ронял запрос.
func (r *Repository) Insert(ctx context.Context, questionID, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO likes (id, question_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (question_id, user_id) DO NOTHING
	`, uuid.New(), questionID, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка добавления лайка: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete снимает лайк. Возвращает, была ли строка удалена.
func (r *Repository) Delete(ctx context.Context, questionID, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM likes WHERE question_id = $1 AND user_id = $2
	`, questionID, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления лайка: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count возвращает число лайков на вопросе.
func (r *Repository) Count(ctx context.Context, questionID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE question_id = $1`, questionID,
	).Scan(&count)
	return count, err
}
