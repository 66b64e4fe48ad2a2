// Package questions — service.go содержит бизнес-логику вопросов.
// Публикация валидируется, сохраняется и затем приносит автору баллы;
// сбой начисления НЕ откатывает уже опубликованный вопрос.
package questions

import (
	"context"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
)

// Store — операции с хранилищем вопросов.
type Store interface {
	Create(ctx context.Context, q *Question, tags []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Question, error)
	AuthorOf(ctx context.Context, questionID uuid.UUID) (uuid.UUID, error)
	List(ctx context.Context, limit, offset int) ([]*ListItem, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
}

// Points — то, что вопросам нужно от сервиса баллов.
type Points interface {
	Award(ctx context.Context, actorID, affectedID uuid.UUID, action points.Action) (int, error)
	Rank(balance int) points.RankInfo
}

// Service управляет вопросами.
type Service struct {
	store  Store
	points Points
}

// NewService создаёт сервис вопросов.
func NewService(store Store, pointsService Points) *Service {
	return &Service{store: store, points: pointsService}
}

// Awarded — подтверждение начисления для ответа API.
// nil, если начисление не удалось (вопрос при этом опубликован).
type Awarded struct {
	Delta   int    `json:"delta"`
	Balance int    `json:"balance"`
	Message string `json:"message"` // "+5 баллов"
}

// CreateInput — данные для публикации вопроса.
type CreateInput struct {
	AuthorID uuid.UUID
	Title    string
	Content  string
	Tags     []string
	Category *string
	ImageURL *string
}

// Create публикует вопрос и начисляет автору баллы за действие ask.
//
// Публикация блокируется, пока не заполнены заголовок, текст и хотя бы
// один тег. Начисление — вторичный эффект: его сбой логируется,
// но вопрос остаётся опубликованным («контент есть, баллы догонят»).
func (s *Service) Create(ctx context.Context, in CreateInput) (*Question, *Awarded, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, common.ErrEmptyTitle
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, nil, common.ErrEmptyContent
	}

	tags := normalizeTags(in.Tags)
	if len(tags) == 0 {
		return nil, nil, common.ErrNoTags
	}

	q := &Question{
		ID:       uuid.New(),
		UserID:   in.AuthorID,
		Title:    title,
		Content:  content,
		ImageURL: in.ImageURL,
		Status:   StatusOpen,
		Category: in.Category,
	}

	if err := s.store.Create(ctx, q, tags); err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"question": q.ID,
		"author":   in.AuthorID,
	}).Info("Вопрос опубликован")

	awarded := s.award(ctx, in.AuthorID, in.AuthorID, points.ActionAsk)
	return q, awarded, nil
}

// Get возвращает полную карточку вопроса с рангами авторов.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	d, err := s.store.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	// Имена рангов выводятся из баланса на чтении
	d.Author.RankName = s.points.Rank(d.Author.Points).Current.Name
	for i := range d.Answers {
		d.Answers[i].Author.RankName = s.points.Rank(d.Answers[i].Author.Points).Current.Name
	}

	return d, nil
}

// List возвращает ленту вопросов.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*ListItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.Author.RankName = s.points.Rank(it.Author.Points).Current.Name
	}
	return items, nil
}

// award начисляет баллы как вторичный эффект уже совершённого действия.
// Ошибка не возвращается наружу — только в лог.
func (s *Service) award(ctx context.Context, actorID, affectedID uuid.UUID, action points.Action) *Awarded {
	balance, err := s.points.Award(ctx, actorID, affectedID, action)
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

// normalizeTags чистит теги: обрезает пробелы, приводит к нижнему
// регистру и убирает дубликаты, сохраняя порядок.
func normalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
