package awards

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/events"
)

type awardKey struct {
	userID  int64
	badgeID int64
}

// fakeStore — хранилище наград в памяти с той же семантикой
// условной активации: уже активная награда «новой» не считается.
type fakeStore struct {
	mu      sync.Mutex
	badges  []*Badge
	awards  map[awardKey]*UserAward
	writes  int // сколько раз ActivateAward реально что-то меняло
}

func newFakeStore(badges ...*Badge) *fakeStore {
	return &fakeStore{badges: badges, awards: make(map[awardKey]*UserAward)}
}

func (f *fakeStore) ListBadges(ctx context.Context) ([]*Badge, error) {
	return f.badges, nil
}

func (f *fakeStore) ListUserAwards(ctx context.Context, userID int64) ([]*UserAward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*UserAward
	for key, a := range f.awards {
		if key.userID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) ActivateAward(ctx context.Context, userID, badgeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := awardKey{userID, badgeID}
	if a, ok := f.awards[key]; ok && a.Active {
		return false, nil
	}
	f.awards[key] = &UserAward{UserID: userID, BadgeID: badgeID, Active: true, EarnedAt: time.Now()}
	f.writes++
	return true, nil
}

func (f *fakeStore) DeactivateAward(ctx context.Context, userID, badgeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := awardKey{userID, badgeID}
	if a, ok := f.awards[key]; ok && a.Active {
		a.Active = false
		return nil
	}
	for _, b := range f.badges {
		if b.ID == badgeID {
			return common.ErrAwardNotFound
		}
	}
	return common.ErrBadgeNotFound
}

func testBadges() []*Badge {
	return []*Badge{
		{ID: 1, Code: "first_steps", Name: "Первые шаги", RequiredPoints: 10},
		{ID: 2, Code: "first_week", Name: "Первая неделя", RequiredPoints: 70},
		{ID: 3, Code: "centurion", Name: "Центурион", RequiredPoints: 100},
	}
}

func TestEvaluate_GrantsCoveredBadges(t *testing.T) {
	store := newFakeStore(testBadges()...)
	svc := NewService(store, events.NewDispatcher())

	granted, err := svc.Evaluate(context.Background(), 1, 75)
	require.NoError(t, err)
	require.Len(t, granted, 2)
	assert.Equal(t, "first_steps", granted[0].Code)
	assert.Equal(t, "first_week", granted[1].Code)
}

func TestEvaluate_SecondRunGrantsNothing(t *testing.T) {
	store := newFakeStore(testBadges()...)
	svc := NewService(store, events.NewDispatcher())
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, 1, 75)
	require.NoError(t, err)
	writesAfterFirst := store.writes

	granted, err := svc.Evaluate(ctx, 1, 75)
	require.NoError(t, err)
	assert.Empty(t, granted, "повторная оценка ничего не выдаёт")
	assert.Equal(t, writesAfterFirst, store.writes, "и ничего не пишет")
}

func TestEvaluate_PublishesOnlyNewlyGranted(t *testing.T) {
	store := newFakeStore(testBadges()...)
	bus := events.NewDispatcher()
	svc := NewService(store, bus)
	ctx := context.Background()

	codes := make(chan string, 8)
	events.Subscribe(bus, "test", func(ctx context.Context, e events.AwardGranted) error {
		codes <- e.BadgeCode
		return nil
	})

	_, err := svc.Evaluate(ctx, 1, 15)
	require.NoError(t, err)
	_, err = svc.Evaluate(ctx, 1, 110)
	require.NoError(t, err)
	bus.Wait()
	close(codes)

	var got []string
	for code := range codes {
		got = append(got, code)
	}
	assert.ElementsMatch(t, []string{"first_steps", "first_week", "centurion"}, got,
		"каждая награда публикуется ровно один раз")
}

func TestEvaluate_DropInPointsDoesNotRevoke(t *testing.T) {
	store := newFakeStore(testBadges()...)
	svc := NewService(store, events.NewDispatcher())
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, 1, 110)
	require.NoError(t, err)

	granted, err := svc.Evaluate(ctx, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, granted)

	badges, err := svc.List(ctx, 1)
	require.NoError(t, err)
	for _, b := range badges {
		assert.True(t, b.Earned, "награды при падении суммы остаются")
	}
}

func TestRevoke_ThenReEvaluateGrantsAgain(t *testing.T) {
	store := newFakeStore(testBadges()...)
	svc := NewService(store, events.NewDispatcher())
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, 1, 15)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, 1, 1))

	badges, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.False(t, badges[0].Earned)

	granted, err := svc.Evaluate(ctx, 1, 15)
	require.NoError(t, err)
	require.Len(t, granted, 1, "отозванная награда выдаётся заново как новая")
	assert.Equal(t, "first_steps", granted[0].Code)
}

func TestRevoke_MissingAward(t *testing.T) {
	store := newFakeStore(testBadges()...)
	svc := NewService(store, events.NewDispatcher())

	err := svc.Revoke(context.Background(), 1, 3)
	assert.ErrorIs(t, err, common.ErrAwardNotFound, "бейдж есть в справочнике, но не заработан")
}

func TestRevoke_UnknownBadge(t *testing.T) {
	store := newFakeStore(testBadges()...)
	svc := NewService(store, events.NewDispatcher())

	err := svc.Revoke(context.Background(), 1, 999)
	assert.ErrorIs(t, err, common.ErrBadgeNotFound, "бейджа нет в справочнике")
}
