// Package points — service.go содержит бизнес-логику системы баллов:
// начисление за действия, пересчёт статистики из сырых строк и сверку.
package points

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Store — операции с хранилищем, нужные сервису баллов.
// Репозиторий передаётся через конструктор, чтобы в тестах
// подставлять in-memory реализацию.
type Store interface {
	AdjustBalance(ctx context.Context, profileID uuid.UUID, delta int) (int, error)
	SetBalance(ctx context.Context, profileID uuid.UUID, value int) error
	GetBalance(ctx context.Context, profileID uuid.UUID) (int, error)
	LogEvent(ctx context.Context, e *Event) error
	Events(ctx context.Context, profileID uuid.UUID, limit int) ([]*Event, error)
	CountQuestions(ctx context.Context, profileID uuid.UUID) (int, error)
	CountAnswers(ctx context.Context, profileID uuid.UUID) (int, error)
	CountBestAnswers(ctx context.Context, profileID uuid.UUID) (int, error)
	CountLikesReceived(ctx context.Context, profileID uuid.UUID) (int, error)
	TagAffinity(ctx context.Context, profileID uuid.UUID) ([]TagCount, error)
	ProfileIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Service управляет системой баллов и рангов.
type Service struct {
	store Store
	tiers []RankTier // Таблица рангов из конфигурации
}

// NewService создаёт сервис баллов.
func NewService(store Store, tiers []RankTier) *Service {
	return &Service{store: store, tiers: tiers}
}

// Award начисляет (или списывает) баллы за действие.
//
// Дельта берётся из фиксированной таблицы; неизвестное действие —
// ошибка до любых обращений к базе. Затем баланс атомарно меняется
// в хранилище, и событие пишется в журнал. Ошибка записи журнала
// НЕ отменяет начисление — логируем и продолжаем.
//
// Проверки прав (самолайк, повторный выбор лучшего ответа) выполняют
// вызывающие сервисы ДО вызова Award.
func (s *Service) Award(ctx context.Context, actorID, affectedID uuid.UUID, action Action) (int, error) {
	delta, err := DeltaFor(action)
	if err != nil {
		return 0, err
	}

	balance, err := s.store.AdjustBalance(ctx, affectedID, delta)
	if err != nil {
		return 0, fmt.Errorf("начисление за %q: %w", action, err)
	}

	event := &Event{
		ActorID:    &actorID,
		AffectedID: affectedID,
		Action:     action,
		Delta:      delta,
	}
	if err := s.store.LogEvent(ctx, event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"affected": affectedID,
			"action":   action,
		}).Error("Ошибка записи события в журнал баллов")
	}

	log.WithFields(log.Fields{
		"affected": affectedID,
		"action":   action,
		"delta":    delta,
		"balance":  balance,
	}).Debug("Баллы начислены")

	return balance, nil
}

// Balance возвращает сохранённый баланс пользователя.
func (s *Service) Balance(ctx context.Context, profileID uuid.UUID) (int, error) {
	return s.store.GetBalance(ctx, profileID)
}

// Rank вычисляет ранг для баланса по таблице из конфигурации.
func (s *Service) Rank(balance int) RankInfo {
	return ResolveRank(balance, s.tiers)
}

// History возвращает последние события начислений пользователя.
func (s *Service) History(ctx context.Context, profileID uuid.UUID, limit int) ([]*Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.Events(ctx, profileID, limit)
}

// Recompute пересчитывает статистику профиля из сырых строк.
//
// Это «подсчёт с нуля», независимый от инкрементного баланса:
// каждый счётчик — отдельный COUNT, а TotalPoints складывается
// из счётчиков по таблице начислений. Любая упавшая выборка
// прерывает весь пересчёт — частичная статистика не возвращается,
// сохранённый баланс не трогается.
func (s *Service) Recompute(ctx context.Context, profileID uuid.UUID) (*ProfileStats, error) {
	questions, err := s.store.CountQuestions(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("подсчёт вопросов: %w", err)
	}
	answers, err := s.store.CountAnswers(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("подсчёт ответов: %w", err)
	}
	best, err := s.store.CountBestAnswers(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("подсчёт лучших ответов: %w", err)
	}
	liked, err := s.store.CountLikesReceived(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("подсчёт лайков: %w", err)
	}

	stats := &ProfileStats{
		QuestionCount:   questions,
		AnswerCount:     answers,
		BestAnswerCount: best,
		LikedCount:      liked,
	}
	stats.TotalPoints = questions*deltas[ActionAsk] +
		answers*deltas[ActionAnswer] +
		best*deltas[ActionBestAnswer] +
		liked*deltas[ActionLike]

	return stats, nil
}

// Reconcile пересчитывает статистику и перезаписывает сохранённый баланс.
//
// В обычной работе авторитетен инкрементный баланс; сверка — механизм
// схождения на случай пропущенных или дважды применённых начислений.
// Запускается только явно: админ-эндпоинтом или ночной cron-задачей.
func (s *Service) Reconcile(ctx context.Context, profileID uuid.UUID) (*ProfileStats, error) {
	stats, err := s.Recompute(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetBalance(ctx, profileID, stats.TotalPoints); err != nil {
		return nil, fmt.Errorf("перезапись баланса: %w", err)
	}

	log.WithFields(log.Fields{
		"profile": profileID,
		"points":  stats.TotalPoints,
	}).Info("Баланс сверен с сырыми данными")

	return stats, nil
}

// ReconcileAll сверяет баллы всех профилей. Используется ночной задачей.
// Ошибка одного профиля не прерывает обход остальных.
func (s *Service) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := s.store.ProfileIDs(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, id := range ids {
		if _, err := s.Reconcile(ctx, id); err != nil {
			log.WithError(err).WithField("profile", id).Error("Ошибка сверки профиля")
			continue
		}
		done++
	}
	return done, nil
}

// TagAffinity возвращает частоту тегов по лучшим ответам пользователя.
func (s *Service) TagAffinity(ctx context.Context, profileID uuid.UUID) ([]TagCount, error) {
	return s.store.TagAffinity(ctx, profileID)
}
