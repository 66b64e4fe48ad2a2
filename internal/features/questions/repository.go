// Package questions — repository.go выполняет операции с таблицами
// questions, tags и question_tags.
package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/qna-backend/internal/common"
)

// Repository работает с таблицами вопросов и тегов.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий вопросов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create сохраняет вопрос вместе с тегами в одной транзакции БД:
// либо вопрос появится со всеми тегами, либо не появится вовсе.
func (r *Repository) Create(ctx context.Context, q *Question, tags []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO questions (id, user_id, title, content, image_url, status, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, q.ID, q.UserID, q.Title, q.Content, q.ImageURL, q.Status, q.Category)
	if err != nil {
		return fmt.Errorf("ошибка создания вопроса: %w", err)
	}

	for _, name := range tags {
		// Тег создаётся при первом использовании
		var tagID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("ошибка создания тега %q: %w", name, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO question_tags (question_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, q.ID, tagID)
		if err != nil {
			return fmt.Errorf("ошибка привязки тега %q: %w", name, err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID возвращает вопрос по идентификатору.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, content, image_url, status, category, created_at
		FROM questions WHERE id = $1
	`, id).Scan(&q.ID, &q.UserID, &q.Title, &q.Content, &q.ImageURL, &q.Status, &q.Category, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("ошибка получения вопроса: %w", err)
	}
	return &q, nil
}

// AuthorOf возвращает id автора вопроса.
// Используется лайками: баллы за лайк получает автор вопроса, а не лайкнувший.
func (r *Repository) AuthorOf(ctx context.Context, questionID uuid.UUID) (uuid.UUID, error) {
	var authorID uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM questions WHERE id = $1`, questionID,
	).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, common.ErrQuestionNotFound
		}
		return uuid.Nil, fmt.Errorf("ошибка получения автора вопроса: %w", err)
	}
	return authorID, nil
}

// List возвращает ленту вопросов, новые первыми, со счётчиками и автором.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*ListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT q.id, q.user_id, q.title, q.content, q.image_url, q.status, q.category, q.created_at,
		       p.username, p.points,
		       (SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id) AS answer_count,
		       (SELECT COUNT(*) FROM likes l WHERE l.question_id = q.id) AS like_count
		FROM questions q
		JOIN profiles p ON p.id = q.user_id
		ORDER BY q.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ленты вопросов: %w", err)
	}
	defer rows.Close()

	var items []*ListItem
	for rows.Next() {
		var it ListItem
		err := rows.Scan(
			&it.ID, &it.UserID, &it.Title, &it.Content, &it.ImageURL, &it.Status, &it.Category, &it.CreatedAt,
			&it.Author.Username, &it.Author.Points,
			&it.AnswerCount, &it.LikeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования вопроса: %w", err)
		}
		it.Author.ID = it.UserID
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Теги добираем вторым запросом, чтобы не городить агрегацию строк в SQL
	for _, it := range items {
		tags, err := r.TagsOf(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		it.Tags = tags
	}

	return items, nil
}

// TagsOf возвращает имена тегов вопроса.
func (r *Repository) TagsOf(ctx context.Context, questionID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.name
		FROM question_tags qt
		JOIN tags t ON t.id = qt.tag_id
		WHERE qt.question_id = $1
		ORDER BY t.name
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения тегов: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// GetDetail собирает полную карточку вопроса.
// Запросы выполняются последовательно в рамках одного запроса пользователя.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var d Detail
	d.Question = *q

	// Автор вопроса
	err = r.db.QueryRow(ctx,
		`SELECT id, username, points FROM profiles WHERE id = $1`, q.UserID,
	).Scan(&d.Author.ID, &d.Author.Username, &d.Author.Points)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения автора: %w", err)
	}

	// Теги
	d.Tags, err = r.TagsOf(ctx, id)
	if err != nil {
		return nil, err
	}

	// Ответы с авторами, лучший ответ первым
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.question_id, a.content, a.is_best_answer, a.created_at,
		       p.id, p.username, p.points
		FROM answers a
		JOIN profiles p ON p.id = a.user_id
		WHERE a.question_id = $1
		ORDER BY a.is_best_answer DESC, a.created_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ответов: %w", err)
	}
	defer rows.Close()

	d.Answers = []AnswerView{}
	for rows.Next() {
		var a AnswerView
		err := rows.Scan(
			&a.ID, &a.QuestionID, &a.Content, &a.IsBestAnswer, &a.CreatedAt,
			&a.Author.ID, &a.Author.Username, &a.Author.Points,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования ответа: %w", err)
		}
		d.Answers = append(d.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	d.AnswerCount = len(d.Answers)

	// Счётчик лайков — только число, без строк
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE question_id = $1`, id,
	).Scan(&d.LikeCount)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта лайков: %w", err)
	}

	return &d, nil
}
