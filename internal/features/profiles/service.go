// Package profiles — service.go содержит бизнес-логику профилей.
// Сервис собирает профиль с рангом и статистикой из сервиса баллов.
package profiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
)

// Store — операции с хранилищем профилей.
type Store interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Badges(ctx context.Context, profileID uuid.UUID) ([]*Badge, error)
}

// PointsProvider — то, что профилям нужно от сервиса баллов:
// ранг по балансу, пересчитанная статистика и теги-специализации.
type PointsProvider interface {
	Rank(balance int) points.RankInfo
	Recompute(ctx context.Context, profileID uuid.UUID) (*points.ProfileStats, error)
	TagAffinity(ctx context.Context, profileID uuid.UUID) ([]points.TagCount, error)
}

// Service управляет профилями.
type Service struct {
	store  Store
	points PointsProvider
}

// NewService создаёт сервис профилей.
func NewService(store Store, pointsProvider PointsProvider) *Service {
	return &Service{store: store, points: pointsProvider}
}

// ProfileView — профиль с вычисленным рангом для отображения.
// Ранг всегда выводится из сохранённого баланса на чтении,
// отдельно он не хранится.
type ProfileView struct {
	Profile
	Rank points.RankInfo `json:"rank"`
}

// StatsView — статистика профиля: типизированная структура
// с обязательными целыми полями вместо «мешка» опциональных свойств.
type StatsView struct {
	points.ProfileStats
	TagStats []points.TagCount `json:"tag_stats"`
	Badges   []*Badge          `json:"badges"`
}

// Register регистрирует нового пользователя с нулевым балансом.
// Пустой username заменяется плейсхолдером — как в анкете продукта.
func (s *Service) Register(ctx context.Context, id uuid.UUID, username string, avatarURL *string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = "Безымянный"
	}

	p := &Profile{
		ID:        id,
		Username:  username,
		AvatarURL: avatarURL,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"profile":  id,
		"username": username,
	}).Info("Новый профиль зарегистрирован")

	created, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("чтение созданного профиля: %w", err)
	}
	return created, nil
}

// Get возвращает профиль с вычисленным рангом.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProfileView, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		Profile: *p,
		Rank:    s.points.Rank(p.Points),
	}, nil
}

// Stats возвращает пересчитанную статистику профиля:
// счётчики из сырых строк, сумму баллов по ним, теги-специализации
// и бейджи. Сохранённый баланс при этом не перезаписывается.
func (s *Service) Stats(ctx context.Context, id uuid.UUID) (*StatsView, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrProfileNotFound
	}

	stats, err := s.points.Recompute(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.points.TagAffinity(ctx, id)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []points.TagCount{}
	}

	badges, err := s.store.Badges(ctx, id)
	if err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []*Badge{}
	}

	return &StatsView{
		ProfileStats: *stats,
		TagStats:     tags,
		Badges:       badges,
	}, nil
}

// Badges возвращает бейджи пользователя.
func (s *Service) Badges(ctx context.Context, id uuid.UUID) ([]*Badge, error) {
	return s.store.Badges(ctx, id)
}
