// Package points — repository.go выполняет операции с балансом баллов
// и журналом point_events, а также агрегирующие COUNT-запросы
// по сырым таблицам вопросов/ответов/лайков.
//
// Баланс изменяется ТОЛЬКО атомарным UPDATE на стороне базы —
// никакого чтения-изменения-записи на стороне приложения,
// иначе два параллельных начисления теряют одно из обновлений.
package points

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/qna-backend/internal/common"
)

// Repository работает с таблицами profiles (колонка points) и point_events.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий баллов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// AdjustBalance атомарно изменяет баланс пользователя на delta
// и возвращает новое значение.
//
// GREATEST(0, ...) реализует пол: баланс никогда не уходит в минус,
// списание, которое увело бы его ниже нуля, молча обрезается
// (принятое поведение продукта, не ошибка).
func (r *Repository) AdjustBalance(ctx context.Context, profileID uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE profiles
		SET points = GREATEST(0, points + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING points
	`
	var balance int
	err := r.db.QueryRow(ctx, query, profileID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrProfileNotFound
		}
		return 0, fmt.Errorf("ошибка изменения баланса: %w", err)
	}
	return balance, nil
}

// SetBalance безусловно перезаписывает баланс свежепересчитанным значением.
// Используется только путём сверки: пересчёт считается авторитетным
// и не смешивается с прежним значением.
func (r *Repository) SetBalance(ctx context.Context, profileID uuid.UUID, value int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles SET points = $2, updated_at = NOW() WHERE id = $1
	`, profileID, value)
	if err != nil {
		return fmt.Errorf("ошибка перезаписи баланса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrProfileNotFound
	}
	return nil
}

// GetBalance возвращает текущий сохранённый баланс пользователя.
func (r *Repository) GetBalance(ctx context.Context, profileID uuid.UUID) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx,
		`SELECT points FROM profiles WHERE id = $1`, profileID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrProfileNotFound
		}
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// LogEvent записывает событие начисления в журнал.
func (r *Repository) LogEvent(ctx context.Context, e *Event) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO point_events (actor_id, affected_id, action, delta)
		VALUES ($1, $2, $3, $4)
	`, e.ActorID, e.AffectedID, e.Action, e.Delta)
	return err
}

// Events возвращает последние limit событий пользователя, новые первыми.
func (r *Repository) Events(ctx context.Context, profileID uuid.UUID, limit int) ([]*Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, actor_id, affected_id, action, delta, created_at
		FROM point_events
		WHERE affected_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории начислений: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ActorID, &e.AffectedID, &e.Action, &e.Delta, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования события: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// --- Агрегирующие запросы для пересчёта статистики ---
// Каждый счётчик — COUNT по сырым строкам, без переноса содержимого.
// Эти строки — источник истины, с которым баланс должен сходиться.

// CountQuestions возвращает число вопросов, заданных пользователем.
func (r *Repository) CountQuestions(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE user_id = $1`, profileID,
	).Scan(&count)
	return count, err
}

// CountAnswers возвращает число ответов, данных пользователем.
func (r *Repository) CountAnswers(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM answers WHERE user_id = $1`, profileID,
	).Scan(&count)
	return count, err
}

// CountBestAnswers возвращает число ответов пользователя, выбранных лучшими.
func (r *Repository) CountBestAnswers(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM answers WHERE user_id = $1 AND is_best_answer = TRUE`, profileID,
	).Scan(&count)
	return count, err
}

// CountLikesReceived возвращает число лайков, полученных на вопросы пользователя.
// Лайк принадлежит вопросу, поэтому считаем через join на автора вопроса.
func (r *Repository) CountLikesReceived(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM likes l
		JOIN questions q ON q.id = l.question_id
		WHERE q.user_id = $1
	`, profileID).Scan(&count)
	return count, err
}

// TagAffinity возвращает частоту тегов среди вопросов, на которые
// пользователь дал лучший ответ, по убыванию частоты.
// Ноль лучших ответов — пустой результат, это не ошибка.
func (r *Repository) TagAffinity(ctx context.Context, profileID uuid.UUID) ([]TagCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.name, COUNT(*) AS cnt
		FROM answers a
		JOIN question_tags qt ON qt.question_id = a.question_id
		JOIN tags t ON t.id = qt.tag_id
		WHERE a.user_id = $1 AND a.is_best_answer = TRUE
		GROUP BY t.name
		ORDER BY cnt DESC, t.name
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта тегов: %w", err)
	}
	defer rows.Close()

	var tags []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования тега: %w", err)
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

// ProfileIDs возвращает идентификаторы всех профилей.
// Используется ночной сверкой для обхода всей базы.
func (r *Repository) ProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка профилей: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
