package points

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/qna-backend/internal/common"
)

// fakeStore — in-memory хранилище баллов для тестов.
// Балансы ведутся в map, журнал — срезом; отдельные методы
// можно переопределить через func-поля.
type fakeStore struct {
	balances map[uuid.UUID]int
	events   []*Event

	questions     map[uuid.UUID]int
	answers       map[uuid.UUID]int
	best          map[uuid.UUID]int
	likesReceived map[uuid.UUID]int

	logEventFunc   func(ctx context.Context, e *Event) error
	countBestFunc  func(ctx context.Context, profileID uuid.UUID) (int, error)
	setBalanceFunc func(ctx context.Context, profileID uuid.UUID, value int) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances:      make(map[uuid.UUID]int),
		questions:     make(map[uuid.UUID]int),
		answers:       make(map[uuid.UUID]int),
		best:          make(map[uuid.UUID]int),
		likesReceived: make(map[uuid.UUID]int),
	}
}

func (f *fakeStore) AdjustBalance(_ context.Context, profileID uuid.UUID, delta int) (int, error) {
	if _, ok := f.balances[profileID]; !ok {
		return 0, common.ErrProfileNotFound
	}
	next := f.balances[profileID] + delta
	if next < 0 {
		next = 0
	}
	f.balances[profileID] = next
	return next, nil
}

func (f *fakeStore) SetBalance(ctx context.Context, profileID uuid.UUID, value int) error {
	if f.setBalanceFunc != nil {
		return f.setBalanceFunc(ctx, profileID, value)
	}
	f.balances[profileID] = value
	return nil
}

func (f *fakeStore) GetBalance(_ context.Context, profileID uuid.UUID) (int, error) {
	b, ok := f.balances[profileID]
	if !ok {
		return 0, common.ErrProfileNotFound
	}
	return b, nil
}

func (f *fakeStore) LogEvent(ctx context.Context, e *Event) error {
	if f.logEventFunc != nil {
		return f.logEventFunc(ctx, e)
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeStore) Events(_ context.Context, profileID uuid.UUID, limit int) ([]*Event, error) {
	var out []*Event
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		if f.events[i].AffectedID == profileID {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

func (f *fakeStore) CountQuestions(_ context.Context, profileID uuid.UUID) (int, error) {
	return f.questions[profileID], nil
}

func (f *fakeStore) CountAnswers(_ context.Context, profileID uuid.UUID) (int, error) {
	return f.answers[profileID], nil
}

func (f *fakeStore) CountBestAnswers(ctx context.Context, profileID uuid.UUID) (int, error) {
	if f.countBestFunc != nil {
		return f.countBestFunc(ctx, profileID)
	}
	return f.best[profileID], nil
}

func (f *fakeStore) CountLikesReceived(_ context.Context, profileID uuid.UUID) (int, error) {
	return f.likesReceived[profileID], nil
}

func (f *fakeStore) TagAffinity(_ context.Context, _ uuid.UUID) ([]TagCount, error) {
	return nil, nil
}

func (f *fakeStore) ProfileIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.balances))
	for id := range f.balances {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestAwardDeltas(t *testing.T) {
	tests := []struct {
		name        string
		action      Action
		start       int
		wantBalance int
	}{
		{name: "вопрос +5", action: ActionAsk, start: 0, wantBalance: 5},
		{name: "ответ +10", action: ActionAnswer, start: 0, wantBalance: 10},
		{name: "лучший ответ +50", action: ActionBestAnswer, start: 10, wantBalance: 60},
		{name: "лайк +2", action: ActionLike, start: 0, wantBalance: 2},
		{name: "снятие лайка -2", action: ActionUnlike, start: 7, wantBalance: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			user := uuid.New()
			store.balances[user] = tt.start
			svc := NewService(store, defaultTiers(t))

			balance, err := svc.Award(context.Background(), uuid.New(), user, tt.action)

			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
			require.Len(t, store.events, 1)
			assert.Equal(t, tt.action, store.events[0].Action)
			assert.Equal(t, user, store.events[0].AffectedID)
		})
	}
}

// Баланс никогда не уходит ниже нуля: списание с нулевого
// баланса даёт 0, а не отрицательное значение.
func TestAwardFloorsAtZero(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.balances[user] = 1
	svc := NewService(store, defaultTiers(t))

	balance, err := svc.Award(context.Background(), uuid.New(), user, ActionUnlike)

	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestAwardUnknownAction(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.balances[user] = 100
	svc := NewService(store, defaultTiers(t))

	_, err := svc.Award(context.Background(), uuid.New(), user, Action("superlike"))

	assert.ErrorIs(t, err, common.ErrUnknownAction)
	// До базы дело не дошло: ни баланс, ни журнал не изменились
	assert.Equal(t, 100, store.balances[user])
	assert.Empty(t, store.events)
}

func TestAwardUnknownProfile(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, defaultTiers(t))

	_, err := svc.Award(context.Background(), uuid.New(), uuid.New(), ActionAsk)

	assert.ErrorIs(t, err, common.ErrProfileNotFound)
}

// Ошибка записи в журнал не отменяет уже применённое начисление.
func TestAwardLogFailureKeepsBalance(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.balances[user] = 0
	store.logEventFunc = func(context.Context, *Event) error {
		return errors.New("журнал недоступен")
	}
	svc := NewService(store, defaultTiers(t))

	balance, err := svc.Award(context.Background(), uuid.New(), user, ActionAnswer)

	require.NoError(t, err)
	assert.Equal(t, 10, balance)
	assert.Equal(t, 10, store.balances[user])
}

func TestRecompute(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.balances[user] = 42 // Инкрементный баланс разъехался
	store.questions[user] = 3
	store.answers[user] = 2
	store.best[user] = 1
	store.likesReceived[user] = 4
	svc := NewService(store, defaultTiers(t))

	stats, err := svc.Recompute(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.QuestionCount)
	assert.Equal(t, 2, stats.AnswerCount)
	assert.Equal(t, 1, stats.BestAnswerCount)
	assert.Equal(t, 4, stats.LikedCount)
	// 3*5 + 2*10 + 1*50 + 4*2 = 93
	assert.Equal(t, 93, stats.TotalPoints)
	// Пересчёт сам по себе баланс не трогает
	assert.Equal(t, 42, store.balances[user])
}

func TestRecomputeAbortsOnFailedCount(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.questions[user] = 3
	store.countBestFunc = func(context.Context, uuid.UUID) (int, error) {
		return 0, errors.New("таблица недоступна")
	}
	svc := NewService(store, defaultTiers(t))

	stats, err := svc.Recompute(context.Background(), user)

	require.Error(t, err)
	assert.Nil(t, stats, "частичная статистика не возвращается")
}

func TestReconcileOverwritesBalance(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.balances[user] = 42
	store.questions[user] = 3
	store.answers[user] = 2
	store.best[user] = 1
	store.likesReceived[user] = 4
	svc := NewService(store, defaultTiers(t))

	stats, err := svc.Reconcile(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, 93, stats.TotalPoints)
	assert.Equal(t, 93, store.balances[user])

	// Повторная сверка без новых действий ничего не меняет
	stats, err = svc.Reconcile(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 93, stats.TotalPoints)
	assert.Equal(t, 93, store.balances[user])
}

func TestReconcileAllContinuesOnError(t *testing.T) {
	store := newFakeStore()
	good := uuid.New()
	bad := uuid.New()
	store.balances[good] = 10
	store.balances[bad] = 10
	store.questions[good] = 1
	store.setBalanceFunc = func(_ context.Context, profileID uuid.UUID, value int) error {
		if profileID == bad {
			return errors.New("профиль заблокирован")
		}
		store.balances[profileID] = value
		return nil
	}
	svc := NewService(store, defaultTiers(t))

	done, err := svc.ReconcileAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.Equal(t, 5, store.balances[good])
}

func TestHistoryLimit(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.balances[user] = 0
	svc := NewService(store, defaultTiers(t))

	for i := 0; i < 30; i++ {
		_, err := svc.Award(context.Background(), uuid.New(), user, ActionLike)
		require.NoError(t, err)
	}

	// Некорректный лимит заменяется на дефолтный
	events, err := svc.History(context.Background(), user, 0)
	require.NoError(t, err)
	assert.Len(t, events, 20)

	events, err = svc.History(context.Background(), user, 5)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}
