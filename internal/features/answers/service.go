// Package answers — service.go содержит бизнес-логику ответов:
// публикацию (+10 автору ответа) и выбор лучшего ответа
// (+50 автору ответа, вопрос закрывается, повторный выбор запрещён).
package answers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
	"serotonyl.ru/qna-backend/internal/features/questions"
)

// Store — операции с хранилищем ответов.
type Store interface {
	Create(ctx context.Context, a *Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Answer, error)
	HasBestAnswer(ctx context.Context, questionID uuid.UUID) (bool, error)
	MarkBest(ctx context.Context, questionID, answerID uuid.UUID) error
}

// QuestionSource — то, что ответам нужно от вопросов.
type QuestionSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*questions.Question, error)
}

// Recorder — начисление баллов.
type Recorder interface {
	Award(ctx context.Context, actorID, affectedID uuid.UUID, action points.Action) (int, error)
}

// Service управляет ответами.
type Service struct {
	store     Store
	questions QuestionSource
	recorder  Recorder
}

// NewService создаёт сервис ответов.
func NewService(store Store, questionSource QuestionSource, recorder Recorder) *Service {
	return &Service{
		store:     store,
		questions: questionSource,
		recorder:  recorder,
	}
}

// Awarded — подтверждение начисления для ответа API.
type Awarded struct {
	Delta   int    `json:"delta"`
	Balance int    `json:"balance"`
	Message string `json:"message"`
}

// Create публикует ответ и начисляет автору баллы за действие answer.
// Отвечать можно только на открытые вопросы. Сбой начисления
// не откатывает уже опубликованный ответ.
func (s *Service) Create(ctx context.Context, questionID, authorID uuid.UUID, content string) (*Answer, *Awarded, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, common.ErrEmptyContent
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}
	if q.Status != questions.StatusOpen {
		return nil, nil, common.ErrQuestionClosed
	}

	a := &Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		UserID:     authorID,
		Content:    content,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"answer":   a.ID,
		"question": questionID,
		"author":   authorID,
	}).Info("Ответ опубликован")

	awarded := s.award(ctx, authorID, authorID, points.ActionAnswer)
	return a, awarded, nil
}

// MarkBest выбирает лучший ответ на вопрос.
//
// Переход одноразовый: как только у вопроса появился лучший ответ,
// другой выбрать нельзя, и повторная отметка того же ответа не даёт
// повторного начисления. Проверка выполняется ДО начисления.
//
// Порядок:
//  1. Ответ существует и относится к этому вопросу
//  2. Лучший ответ выбирает только автор вопроса
//  3. У вопроса ещё нет лучшего ответа
//  4. Отметка + закрытие вопроса в одной транзакции
//  5. +50 автору ОТВЕТА (вторичный эффект, сбой не откатывает выбор)
func (s *Service) MarkBest(ctx context.Context, questionID, answerID, callerID uuid.UUID) (*Awarded, error) {
	answer, err := s.store.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer.QuestionID != questionID {
		return nil, common.ErrAnswerNotOnQuestion
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.UserID != callerID {
		return nil, common.ErrNotQuestionAuthor
	}

	taken, err := s.store.HasBestAnswer(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrBestAnswerTaken
	}

	if err := s.store.MarkBest(ctx, questionID, answerID); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"question": questionID,
		"answer":   answerID,
	}).Info("Выбран лучший ответ, вопрос закрыт")

	awarded := s.award(ctx, callerID, answer.UserID, points.ActionBestAnswer)
	return awarded, nil
}

// award начисляет баллы как вторичный эффект; ошибка только в лог.
func (s *Service) award(ctx context.Context, actorID, affectedID uuid.UUID, action points.Action) *Awarded {
	balance, err := s.recorder.Award(ctx, actorID, affectedID, action)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"affected": affectedID,
			"action":   action,
		}).Error("Начисление баллов не удалось, действие уже выполнено")
		return nil
	}

	delta, _ := points.DeltaFor(action)
	return &Awarded{
		Delta:   delta,
		Balance: balance,
		Message: common.FormatPointsAmount(delta),
	}
}
