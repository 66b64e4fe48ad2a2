package profiles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/qna-backend/internal/common"
	"serotonyl.ru/qna-backend/internal/features/points"
)

// fakeProfileStore — in-memory хранилище профилей.
type fakeProfileStore struct {
	profiles map[uuid.UUID]*Profile
	badges   map[uuid.UUID][]*Badge
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles: make(map[uuid.UUID]*Profile),
		badges:   make(map[uuid.UUID][]*Badge),
	}
}

func (f *fakeProfileStore) Create(_ context.Context, p *Profile) error {
	if _, ok := f.profiles[p.ID]; ok {
		return common.ErrProfileExists
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileStore) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, common.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.profiles[id]
	return ok, nil
}

func (f *fakeProfileStore) Badges(_ context.Context, profileID uuid.UUID) ([]*Badge, error) {
	return f.badges[profileID], nil
}

// fakePointsProvider отдаёт заранее заданную статистику.
type fakePointsProvider struct {
	tiers []points.RankTier
	stats map[uuid.UUID]*points.ProfileStats
	tags  map[uuid.UUID][]points.TagCount
}

func newFakePointsProvider(t *testing.T) *fakePointsProvider {
	t.Helper()
	tiers, err := points.ParseTiers("0:Новичок:🌱,500:Знаток:💻,1000:Гуру:🧙")
	require.NoError(t, err)
	return &fakePointsProvider{
		tiers: tiers,
		stats: make(map[uuid.UUID]*points.ProfileStats),
		tags:  make(map[uuid.UUID][]points.TagCount),
	}
}

func (f *fakePointsProvider) Rank(balance int) points.RankInfo {
	return points.ResolveRank(balance, f.tiers)
}

func (f *fakePointsProvider) Recompute(_ context.Context, profileID uuid.UUID) (*points.ProfileStats, error) {
	if s, ok := f.stats[profileID]; ok {
		return s, nil
	}
	return &points.ProfileStats{}, nil
}

func (f *fakePointsProvider) TagAffinity(_ context.Context, profileID uuid.UUID) ([]points.TagCount, error) {
	return f.tags[profileID], nil
}

func TestRegister(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewService(store, newFakePointsProvider(t))

	p, err := svc.Register(context.Background(), uuid.New(), "  Мария  ", nil)

	require.NoError(t, err)
	assert.Equal(t, "Мария", p.Username)
	assert.Equal(t, 0, p.Points, "новый профиль начинается с нулевого баланса")
}

func TestRegisterEmptyUsername(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewService(store, newFakePointsProvider(t))

	p, err := svc.Register(context.Background(), uuid.New(), "   ", nil)

	require.NoError(t, err)
	assert.Equal(t, "Безымянный", p.Username)
}

func TestRegisterDuplicate(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewService(store, newFakePointsProvider(t))
	id := uuid.New()

	_, err := svc.Register(context.Background(), id, "Мария", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), id, "Самозванка", nil)

	assert.ErrorIs(t, err, common.ErrProfileExists)
	// Исходный профиль не перезаписан
	assert.Equal(t, "Мария", store.profiles[id].Username)
}

func TestGetComputesRank(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewService(store, newFakePointsProvider(t))
	id := uuid.New()
	store.profiles[id] = &Profile{ID: id, Username: "Мария", Points: 750}

	view, err := svc.Get(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Знаток", view.Rank.Current.Name)
	require.NotNil(t, view.Rank.Next)
	assert.Equal(t, "Гуру", view.Rank.Next.Name)
	assert.Equal(t, 50, view.Rank.ProgressPercent)
}

func TestGetUnknownProfile(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewService(store, newFakePointsProvider(t))

	_, err := svc.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, common.ErrProfileNotFound)
}

func TestStats(t *testing.T) {
	store := newFakeProfileStore()
	provider := newFakePointsProvider(t)
	svc := NewService(store, provider)
	id := uuid.New()
	store.profiles[id] = &Profile{ID: id, Username: "Мария"}
	provider.stats[id] = &points.ProfileStats{
		QuestionCount: 3,
		AnswerCount:   2,
		TotalPoints:   35,
	}
	provider.tags[id] = []points.TagCount{{Name: "go", Count: 2}}

	stats, err := svc.Stats(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.QuestionCount)
	assert.Equal(t, 35, stats.TotalPoints)
	assert.Equal(t, []points.TagCount{{Name: "go", Count: 2}}, stats.TagStats)
	assert.NotNil(t, stats.Badges, "пустой список бейджей, а не null")
}

func TestStatsUnknownProfile(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewService(store, newFakePointsProvider(t))

	_, err := svc.Stats(context.Background(), uuid.New())

	assert.ErrorIs(t, err, common.ErrProfileNotFound)
}
