package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_DeliversToAllSubscribers(t *testing.T) {
	bus := NewDispatcher()

	var got atomic.Int64
	Subscribe(bus, "first", func(ctx context.Context, e DayCompletionChanged) error {
		got.Add(e.Points)
		return nil
	})
	Subscribe(bus, "second", func(ctx context.Context, e DayCompletionChanged) error {
		got.Add(e.Points)
		return nil
	})

	bus.Publish(context.Background(), DayCompletionChanged{UserID: 1, Points: 10, Completed: true})
	bus.Wait()

	assert.Equal(t, int64(20), got.Load())
}

func TestPublish_FailingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := NewDispatcher()

	var succeeded atomic.Bool
	Subscribe(bus, "failing", func(ctx context.Context, e DayCompletionChanged) error {
		return errors.New("хранилище недоступно")
	})
	Subscribe(bus, "panicking", func(ctx context.Context, e DayCompletionChanged) error {
		panic("совсем плохо")
	})
	Subscribe(bus, "succeeding", func(ctx context.Context, e DayCompletionChanged) error {
		succeeded.Store(true)
		return nil
	})

	// Паника и ошибка не должны дойти до публикующего
	require.NotPanics(t, func() {
		bus.Publish(context.Background(), DayCompletionChanged{UserID: 7, Completed: true})
	})
	bus.Wait()

	assert.True(t, succeeded.Load(), "успешный подписчик обязан отработать")
}

func TestPublish_SurvivesCancelledRequestContext(t *testing.T) {
	bus := NewDispatcher()

	done := make(chan struct{})
	Subscribe(bus, "slow", func(ctx context.Context, e PointsRecomputed) error {
		// Контекст запроса уже отменён, но подписчик должен дожить
		require.NoError(t, ctx.Err())
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // запрос «завершился» до подписчиков
	bus.Publish(ctx, PointsRecomputed{UserID: 1, Total: 100})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("подписчик не был вызван")
	}
	bus.Wait()
}

func TestPublish_NoSubscribersIsNoop(t *testing.T) {
	bus := NewDispatcher()
	require.NotPanics(t, func() {
		bus.Publish(context.Background(), AwardGranted{UserID: 1, BadgeID: 2})
	})
	bus.Wait()
}

func TestSubscribe_TypedRouting(t *testing.T) {
	bus := NewDispatcher()

	var days, points atomic.Int32
	Subscribe(bus, "days", func(ctx context.Context, e DayCompletionChanged) error {
		days.Add(1)
		return nil
	})
	Subscribe(bus, "points", func(ctx context.Context, e PointsRecomputed) error {
		points.Add(1)
		return nil
	})

	bus.Publish(context.Background(), PointsRecomputed{UserID: 1, Total: 50})
	bus.Wait()

	assert.Equal(t, int32(0), days.Load(), "подписчик другого варианта не должен вызываться")
	assert.Equal(t, int32(1), points.Load())
}
