// Package profiles — repository.go выполняет операции с таблицами
// profiles, badges и user_badges.
package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/qna-backend/internal/common"
)

// Repository работает с таблицей profiles.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий профилей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create создаёт профиль с нулевым балансом.
// Повторная регистрация того же id — конфликт, а не перезапись.
func (r *Repository) Create(ctx context.Context, p *Profile) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, username, avatar_url, points)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.Username, p.AvatarURL)
	if err != nil {
		return fmt.Errorf("ошибка создания профиля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrProfileExists
	}
	return nil
}

// GetByID возвращает профиль по идентификатору.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, username, avatar_url, points, created_at, updated_at
		FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.Username, &p.AvatarURL, &p.Points, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("ошибка получения профиля: %w", err)
	}
	return &p, nil
}

// Exists проверяет, зарегистрирован ли профиль.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// Badges возвращает бейджи пользователя в порядке получения.
func (r *Repository) Badges(ctx context.Context, profileID uuid.UUID) ([]*Badge, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.name, b.description, b.icon_url, ub.earned_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения бейджей: %w", err)
	}
	defer rows.Close()

	var badges []*Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.IconURL, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования бейджа: %w", err)
		}
		badges = append(badges, &b)
	}
	return badges, rows.Err()
}
