package answers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
	"serotonyl.ru/qna-backend/internal/features/questions"
)

// fakeAnswerStore держит ответы в map и имитирует поведение базы
// при выборе лучшего ответа: второй MarkBest на том же вопросе
// не находит подходящей строки.
type fakeAnswerStore struct {
	answers map[uuid.UUID]*Answer
	closed  map[uuid.UUID]bool
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{
		answers: make(map[uuid.UUID]*Answer),
		closed:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeAnswerStore) Create(_ context.Context, a *Answer) error {
	f.answers[a.ID] = a
	return nil
}

func (f *fakeAnswerStore) GetByID(_ context.Context, id uuid.UUID) (*Answer, error) {
	a, ok := f.answers[id]
	if !ok {
		return nil, common.ErrAnswerNotFound
	}
	return a, nil
}

func (f *fakeAnswerStore) HasBestAnswer(_ context.Context, questionID uuid.UUID) (bool, error) {
	for _, a := range f.answers {
		if a.QuestionID == questionID && a.IsBestAnswer {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAnswerStore) MarkBest(_ context.Context, questionID, answerID uuid.UUID) error {
	for _, a := range f.answers {
		if a.QuestionID == questionID && a.IsBestAnswer {
			return common.ErrBestAnswerTaken
		}
	}
	a, ok := f.answers[answerID]
	if !ok || a.QuestionID != questionID {
		return common.ErrBestAnswerTaken
	}
	a.IsBestAnswer = true
	f.closed[questionID] = true
	return nil
}

// fakeQuestionSource отдаёт заранее заданные вопросы.
type fakeQuestionSource struct {
	byID map[uuid.UUID]*questions.Question
}

func (f *fakeQuestionSource) GetByID(_ context.Context, id uuid.UUID) (*questions.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, common.ErrQuestionNotFound
	}
	return q, nil
}

// fakeRecorder запоминает начисления и ведёт баланс по адресату.
type fakeRecorder struct {
	balances map[uuid.UUID]int
	calls    []points.Action
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{balances: make(map[uuid.UUID]int)}
}

func (f *fakeRecorder) Award(_ context.Context, _, affectedID uuid.UUID, action points.Action) (int, error) {
	delta, err := points.DeltaFor(action)
	if err != nil {
		return 0, err
	}
	f.balances[affectedID] += delta
	f.calls = append(f.calls, action)
	return f.balances[affectedID], nil
}

type answerFixture struct {
	svc        *Service
	store      *fakeAnswerStore
	recorder   *fakeRecorder
	questionID uuid.UUID
	asker      uuid.UUID
}

func newAnswerFixture() *answerFixture {
	store := newFakeAnswerStore()
	recorder := newFakeRecorder()
	questionID := uuid.New()
	asker := uuid.New()
	source := &fakeQuestionSource{byID: map[uuid.UUID]*questions.Question{
		questionID: {
			ID:     questionID,
			UserID: asker,
			Status: questions.StatusOpen,
		},
	}}
	return &answerFixture{
		svc:        NewService(store, source, recorder),
		store:      store,
		recorder:   recorder,
		questionID: questionID,
		asker:      asker,
	}
}

func TestCreateAnswer(t *testing.T) {
	fx := newAnswerFixture()
	author := uuid.New()

	answer, awarded, err := fx.svc.Create(context.Background(), fx.questionID, author, "Проверьте версию Go")

	require.NoError(t, err)
	assert.Equal(t, fx.questionID, answer.QuestionID)
	assert.False(t, answer.IsBestAnswer)
	require.NotNil(t, awarded)
	assert.Equal(t, 10, awarded.Delta)
	assert.Equal(t, 10, awarded.Balance)
	assert.Equal(t, "+10 баллов", awarded.Message)
}

func TestCreateAnswerValidation(t *testing.T) {
	fx := newAnswerFixture()

	tests := []struct {
		name       string
		questionID uuid.UUID
		content    string
		wantErr    error
	}{
		{
			name:       "пустой текст",
			questionID: fx.questionID,
			content:    "   ",
			wantErr:    common.ErrEmptyContent,
		},
		{
			name:       "несуществующий вопрос",
			questionID: uuid.New(),
			content:    "текст",
			wantErr:    common.ErrQuestionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := fx.svc.Create(context.Background(), tt.questionID, uuid.New(), tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, fx.recorder.calls, "за неудачные публикации баллы не начисляются")
}

func TestCreateAnswerOnClosedQuestion(t *testing.T) {
	fx := newAnswerFixture()
	author := uuid.New()

	answer, _, err := fx.svc.Create(context.Background(), fx.questionID, author, "ответ")
	require.NoError(t, err)
	_, err = fx.svc.MarkBest(context.Background(), fx.questionID, answer.ID, fx.asker)
	require.NoError(t, err)

	// После выбора лучшего ответа вопрос закрыт
	fx.closeQuestion(t)
	_, _, err = fx.svc.Create(context.Background(), fx.questionID, uuid.New(), "поздно")
	assert.ErrorIs(t, err, common.ErrQuestionClosed)
}

// closeQuestion отражает закрытие вопроса в источнике вопросов,
// как это сделала бы транзакция MarkBest в настоящей базе.
func (fx *answerFixture) closeQuestion(t *testing.T) {
	t.Helper()
	source := fx.svc.questions.(*fakeQuestionSource)
	source.byID[fx.questionID].Status = questions.StatusClosed
}

func TestMarkBest(t *testing.T) {
	fx := newAnswerFixture()
	author := uuid.New()

	answer, _, err := fx.svc.Create(context.Background(), fx.questionID, author, "答")
	require.NoError(t, err)

	awarded, err := fx.svc.MarkBest(context.Background(), fx.questionID, answer.ID, fx.asker)

	require.NoError(t, err)
	require.NotNil(t, awarded)
	assert.Equal(t, 50, awarded.Delta)
	// +10 за ответ, +50 за лучший ответ
	assert.Equal(t, 60, fx.recorder.balances[author])
	assert.True(t, fx.store.answers[answer.ID].IsBestAnswer)
	assert.True(t, fx.store.closed[fx.questionID])
}

func TestMarkBestOnlyOnce(t *testing.T) {
	fx := newAnswerFixture()
	first := uuid.New()
	second := uuid.New()

	a1, _, err := fx.svc.Create(context.Background(), fx.questionID, first, "первый")
	require.NoError(t, err)
	a2, _, err := fx.svc.Create(context.Background(), fx.questionID, second, "второй")
	require.NoError(t, err)

	_, err = fx.svc.MarkBest(context.Background(), fx.questionID, a1.ID, fx.asker)
	require.NoError(t, err)

	// Другой ответ выбрать нельзя
	_, err = fx.svc.MarkBest(context.Background(), fx.questionID, a2.ID, fx.asker)
	assert.ErrorIs(t, err, common.ErrBestAnswerTaken)

	// Повторная отметка того же ответа не даёт второго +50
	_, err = fx.svc.MarkBest(context.Background(), fx.questionID, a1.ID, fx.asker)
	assert.ErrorIs(t, err, common.ErrBestAnswerTaken)
	assert.Equal(t, 60, fx.recorder.balances[first])

	// Первый ответ остаётся лучшим, вопрос остаётся закрытым
	assert.True(t, fx.store.answers[a1.ID].IsBestAnswer)
	assert.False(t, fx.store.answers[a2.ID].IsBestAnswer)
	assert.True(t, fx.store.closed[fx.questionID])
}

func TestMarkBestOnlyQuestionAuthor(t *testing.T) {
	fx := newAnswerFixture()

	answer, _, err := fx.svc.Create(context.Background(), fx.questionID, uuid.New(), "ответ")
	require.NoError(t, err)

	_, err = fx.svc.MarkBest(context.Background(), fx.questionID, answer.ID, uuid.New())

	assert.ErrorIs(t, err, common.ErrNotQuestionAuthor)
	assert.False(t, fx.store.answers[answer.ID].IsBestAnswer)
}

func TestMarkBestWrongQuestion(t *testing.T) {
	fx := newAnswerFixture()

	answer, _, err := fx.svc.Create(context.Background(), fx.questionID, uuid.New(), "ответ")
	require.NoError(t, err)

	_, err = fx.svc.MarkBest(context.Background(), uuid.New(), answer.ID, fx.asker)

	assert.ErrorIs(t, err, common.ErrAnswerNotOnQuestion)
}

func TestMarkBestUnknownAnswer(t *testing.T) {
	fx := newAnswerFixture()

	_, err := fx.svc.MarkBest(context.Background(), fx.questionID, uuid.New(), fx.asker)

	assert.ErrorIs(t, err, common.ErrAnswerNotFound)
}
