package streaks

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/habit-api/internal/common"
	"serotonyl.ru/habit-api/internal/events"
	"serotonyl.ru/habit-api/internal/features/points"
)

// fakeStore — хранилище серий в памяти. Историю выполненных дней
// тест наполняет напрямую через complete/uncomplete.
type fakeStore struct {
	mu        sync.Mutex
	streaks   map[int64]*HabitStreak
	completed map[int64]map[time.Time]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		streaks:   make(map[int64]*HabitStreak),
		completed: make(map[int64]map[time.Time]bool),
	}
}

func (f *fakeStore) complete(userID int64, day time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed[userID] == nil {
		f.completed[userID] = make(map[time.Time]bool)
	}
	f.completed[userID][common.DayKey(day)] = true
}

func (f *fakeStore) uncomplete(userID int64, day time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.completed[userID], common.DayKey(day))
}

func (f *fakeStore) GetByUserID(ctx context.Context, userID int64) (*HabitStreak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.streaks[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return &HabitStreak{UserID: userID}, nil
}

func (f *fakeStore) Save(ctx context.Context, streak *HabitStreak) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *streak
	f.streaks[streak.UserID] = &cp
	return nil
}

func (f *fakeStore) CompletedDayKeys(ctx context.Context, userID int64) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []time.Time
	for d := range f.completed[userID] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (f *fakeStore) BreakIdle(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.streaks {
		if s.CurrentStreak > 0 && s.LastActiveDay != nil && s.LastActiveDay.Before(before) {
			s.CurrentStreak = 0
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListAtRisk(ctx context.Context, minStreak int, yesterday time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for id, s := range f.streaks {
		if s.CurrentStreak >= minStreak && s.LastActiveDay != nil && s.LastActiveDay.Equal(yesterday) {
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeLedger — минимальный реестр очков для проверки бонусов за рубежи.
type fakeLedger struct {
	mu      sync.Mutex
	bonuses map[int64]int64 // номер рубежа → очки
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{bonuses: make(map[int64]int64)}
}

func (f *fakeLedger) Upsert(ctx context.Context, userID, relevantID int64, definitionType string, pts int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if definitionType == points.DefStreakMilestone {
		f.bonuses[relevantID] = pts
	}
	return nil
}

func (f *fakeLedger) SumByUser(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, pts := range f.bonuses {
		total += pts
	}
	return total, nil
}

func (f *fakeLedger) ListByUser(ctx context.Context, userID int64) ([]*points.LedgerRecord, error) {
	return nil, nil
}

func (f *fakeLedger) TierByPoints(ctx context.Context, pts int64) (*points.Tier, error) {
	return &points.Tier{Level: 1}, nil
}

func newTestService(store *fakeStore, ledger *fakeLedger) *Service {
	pointsService := points.NewService(ledger, events.NewDispatcher())
	return NewService(store, pointsService, 3, 50)
}

func completeEvent(userID int64, dayKey string) events.DayCompletionChanged {
	return events.DayCompletionChanged{UserID: userID, DayKey: day(dayKey), Completed: true, Points: 10}
}

func TestService_ConsecutiveDaysGrowStreak(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		store.complete(1, day(d))
		require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, d)))
	}

	streak, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.BestStreak)
}

func TestService_GapThenCompletion(t *testing.T) {
	// 01..03 подряд → 3/3; пропуск 04, выполнение 05 → 1/3
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		store.complete(1, day(d))
		require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, d)))
	}
	store.complete(1, day("2024-01-05"))
	require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, "2024-01-05")))

	streak, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 3, streak.BestStreak)
}

func TestService_UncompleteTriggersRebuild(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		store.complete(1, day(d))
		require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, d)))
	}

	// Снимаем середину серии: 3 подряд превращаются в 1+1
	store.uncomplete(1, day("2024-01-02"))
	e := completeEvent(1, "2024-01-02")
	e.Completed = false
	require.NoError(t, svc.OnDayCompletionChanged(ctx, e))

	streak, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 3, streak.BestStreak, "рекорд после пересчёта не отзывается")
}

func TestService_BackfilledPastDayRebuilds(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	ctx := context.Background()

	for _, d := range []string{"2024-01-02", "2024-01-03"} {
		store.complete(1, day(d))
		require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, d)))
	}

	// Задним числом закрываем 01-е: серия должна стать 3
	store.complete(1, day("2024-01-01"))
	require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, "2024-01-01")))

	streak, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.BestStreak)
}

func TestService_RebuildIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-04"} {
		store.complete(1, day(d))
	}

	first, err := svc.Rebuild(ctx, 1)
	require.NoError(t, err)
	second, err := svc.Rebuild(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
	assert.Equal(t, first.BestStreak, second.BestStreak)
	assert.Equal(t, 1, second.CurrentStreak)
	assert.Equal(t, 2, second.BestStreak)
}

func TestService_RebuildEmptyHistory(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())

	streak, err := svc.Rebuild(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.BestStreak)
	assert.Nil(t, streak.LastActiveDay)
}

func TestService_MilestoneBonusAwardedOnce(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	svc := newTestService(store, ledger) // рубеж каждые 3 дня, бонус 50
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		store.complete(1, day(d))
		require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, d)))
	}

	assert.Equal(t, int64(50), ledger.bonuses[3], "бонус за рубеж 3")

	// Срыв и повторный подъём до того же рубежа бонус не удваивает
	store.uncomplete(1, day("2024-01-03"))
	e := completeEvent(1, "2024-01-03")
	e.Completed = false
	require.NoError(t, svc.OnDayCompletionChanged(ctx, e))

	store.complete(1, day("2024-01-03"))
	require.NoError(t, svc.OnDayCompletionChanged(ctx, completeEvent(1, "2024-01-03")))

	total, err := ledger.SumByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
}

func TestService_BreakIdleStreaks(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLedger())
	ctx := context.Background()

	lastWeek := day("2024-01-03")
	yesterday := day("2024-01-09")
	require.NoError(t, store.Save(ctx, &HabitStreak{UserID: 1, CurrentStreak: 5, BestStreak: 5, LastActiveDay: &lastWeek}))
	require.NoError(t, store.Save(ctx, &HabitStreak{UserID: 2, CurrentStreak: 4, BestStreak: 4, LastActiveDay: &yesterday}))

	count, err := svc.BreakIdleStreaks(ctx, day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stale, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, stale.CurrentStreak)
	assert.Equal(t, 5, stale.BestStreak, "рекорд переживает срыв")

	fresh, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.CurrentStreak)
}
