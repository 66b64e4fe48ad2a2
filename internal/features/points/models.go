// Package points реализует систему баллов и рангов.
// models.go описывает действия, фиксированную таблицу начислений
// и структуры для журнала событий и статистики профиля.
package points

import (
	"time"

	"github.com/google/uuid"

	"serotonyl.ru/qna-backend/internal/common"
)

// Action — вид действия, влияющего на баллы.
type Action string

const (
	ActionAsk        Action = "ask"         // Публикация вопроса
	ActionAnswer     Action = "answer"      // Публикация ответа
	ActionBestAnswer Action = "best_answer" // Ответ выбран лучшим
	ActionLike       Action = "like"        // Лайк на вопросе (начисляется автору вопроса)
	ActionUnlike     Action = "unlike"      // Снятие лайка (списывается у автора вопроса)
)

// deltas — фиксированная таблица начислений.
// Других значений не бывает: вся система баллов считается
// из этих пяти констант.
var deltas = map[Action]int{
	ActionAsk:        5,
	ActionAnswer:     10,
	ActionBestAnswer: 50,
	ActionLike:       2,
	ActionUnlike:     -2,
}

// DeltaFor возвращает изменение баллов для действия.
// Неизвестное действие — ошибка программиста: новые действия
// добавляются в таблицу вместе с кодом, поэтому ошибка
// возвращается ДО любых обращений к базе.
func DeltaFor(action Action) (int, error) {
	delta, ok := deltas[action]
	if !ok {
		return 0, common.ErrUnknownAction
	}
	return delta, nil
}

// Event — запись журнала о начислении или списании баллов.
// События никогда не изменяются и не удаляются: отмена лайка —
// это новое событие unlike, а не правка события like.
type Event struct {
	ID         int64      `db:"id" json:"id"`
	ActorID    *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"` // Кто совершил действие (nil для системных операций)
	AffectedID uuid.UUID  `db:"affected_id" json:"affected_id"`     // Кому начислены/списаны баллы
	Action     Action     `db:"action" json:"action"`
	Delta      int        `db:"delta" json:"delta"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// ProfileStats — статистика профиля, пересчитанная из сырых строк.
// Все поля — обязательные целые с нулевым значением по умолчанию;
// TotalPoints считается из счётчиков по таблице начислений и может
// расходиться с инкрементным балансом до сверки.
type ProfileStats struct {
	QuestionCount   int `json:"question_count"`    // Задано вопросов
	AnswerCount     int `json:"answer_count"`      // Дано ответов
	BestAnswerCount int `json:"best_answer_count"` // Ответов выбрано лучшими
	LikedCount      int `json:"liked_count"`       // Лайков получено на свои вопросы
	TotalPoints     int `json:"total_points"`      // Пересчитанная сумма баллов
}

// TagCount — частота тега среди вопросов, на которые пользователь
// дал лучший ответ. Показывает области, где пользователь силён.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
