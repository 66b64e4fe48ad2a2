// Package profiles управляет профилями пользователей: регистрацией,
// чтением профиля с рангом и статистикой, бейджами.
// models.go описывает структуры для работы с таблицами profiles и user_badges.
package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Profile представляет пользователя в базе данных.
// Создаётся при регистрации с нулевым балансом; баланс и производные
// счётчики меняются в течение жизни аккаунта. Профили этим сервисом
// никогда не удаляются.
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Points    int       `db:"points" json:"points"` // Накопленный баланс, всегда >= 0
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Badge — бейдж, заработанный пользователем.
type Badge struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IconURL     *string   `db:"icon_url" json:"icon_url,omitempty"`
	EarnedAt    time.Time `db:"earned_at" json:"earned_at"`
}
