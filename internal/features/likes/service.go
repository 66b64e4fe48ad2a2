// Package likes — service.go содержит бизнес-логику лайков.
//
// Лайк кредитует АВТОРА ВОПРОСА, а не лайкнувшего: +2 при лайке,
// -2 при снятии. Самолайк отклоняется до записи строки и до любых
// начислений. Цикл лайк→снятие→лайк не даёт дрейфа баланса.
package likes

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
)

// Store — операции с хранилищем лайков.
type Store interface {
	Exists(ctx context.Context, questionID, userID uuid.UUID) (bool, error)
	Insert(ctx context.Context, questionID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, questionID, userID uuid.UUID) (bool, error)
	Count(ctx context.Context, questionID uuid.UUID) (int, error)
}

// QuestionSource — то, что лайкам нужно от вопросов: автор вопроса.
type QuestionSource interface {
	AuthorOf(ctx context.Context, questionID uuid.UUID) (uuid.UUID, error)
}

// Recorder — начисление баллов.
type Recorder interface {
	Award(ctx context.Context, actorID, affectedID uuid.UUID, action points.Action) (int, error)
}

// Service управляет лайками.
type Service struct {
	store     Store
	questions QuestionSource
	recorder  Recorder
}

// NewService создаёт сервис лайков.
func NewService(store Store, questionSource QuestionSource, recorder Recorder) *Service {
	return &Service{
		store:     store,
		questions: questionSource,
		recorder:  recorder,
	}
}

// ToggleResult — результат переключения лайка.
type ToggleResult struct {
	Liked     bool `json:"liked"`      // Состояние ПОСЛЕ переключения
	LikeCount int  `json:"like_count"` // Актуальное число лайков на вопросе
}

// Toggle переключает лайк пользователя на вопросе.
//
// Порядок одного запроса строго последовательный: строка лайка
// вставляется/удаляется, и только потом корректируется баланс автора.
// Сбой начисления не откатывает строку лайка — сверка выровняет баланс.
func (s *Service) Toggle(ctx context.Context, questionID, userID uuid.UUID) (*ToggleResult, error) {
	authorID, err := s.questions.AuthorOf(ctx, questionID)
	if err != nil {
		return nil, err
	}

	// Самолайк — не событие: ни строки, ни баллов
	if authorID == userID {
		return nil, common.ErrSelfLike
	}

	liked, err := s.store.Exists(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		removed, err := s.store.Delete(ctx, questionID, userID)
		if err != nil {
			return nil, err
		}
		if removed {
			s.award(ctx, userID, authorID, points.ActionUnlike)
		}
	} else {
		added, err := s.store.Insert(ctx, questionID, userID)
		if err != nil {
			return nil, err
		}
		if added {
			s.award(ctx, userID, authorID, points.ActionLike)
		}
	}

	count, err := s.store.Count(ctx, questionID)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{Liked: !liked, LikeCount: count}, nil
}

// IsLiked возвращает, лайкнул ли пользователь вопрос.
func (s *Service) IsLiked(ctx context.Context, questionID, userID uuid.UUID) (bool, error) {
	return s.store.Exists(ctx, questionID, userID)
}

// award корректирует баланс автора вопроса; ошибка только в лог.
func (s *Service) award(ctx context.Context, actorID, affectedID uuid.UUID, action points.Action) {
	if _, err := s.recorder.Award(ctx, actorID, affectedID, action); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"affected": affectedID,
			"action":   action,
		}).Error("Начисление за лайк не удалось, строка лайка уже изменена")
	}
}
