// Package events — dispatcher.go реализует публикацию и подписку.
//
// Publish работает по принципу fire-and-forget: HTTP-запрос, который
// вызвал событие, не ждёт подписчиков и не видит их ошибок. Каждый
// подписчик выполняется в своей горутине со своим барьером отказа:
// паника или ошибка логируется и гасится, остальные подписчики
// продолжают работать.
package events

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler — обработчик события. Ошибка обработчика логируется
// и НЕ доходит до публикующего.
type Handler func(ctx context.Context, e Event) error

// subscription — один подписчик с именем для логов.
type subscription struct {
	name    string
	handler Handler
}

// Dispatcher — шина событий внутри процесса.
type Dispatcher struct {
	mu   sync.RWMutex
	subs map[string][]subscription

	// wg считает незавершённых подписчиков — нужен только для
	// корректного shutdown и для тестов.
	wg sync.WaitGroup
}

// NewDispatcher создаёт пустую шину.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[string][]subscription)}
}

// Subscribe регистрирует типизированный обработчик события E.
// Имя топика берётся из нулевого значения варианта, поэтому
// подписаться можно только на существующий вариант.
//
// Пример:
//
//	events.Subscribe(bus, "streaks", streakService.OnDayCompletionChanged)
func Subscribe[E Event](d *Dispatcher, subscriber string, fn func(ctx context.Context, e E) error) {
	var zero E
	wrapped := func(ctx context.Context, e Event) error {
		typed, ok := e.(E)
		if !ok {
			// Невозможно при закрытом наборе вариантов, но подстраховка дешёвая
			return fmt.Errorf("событие %s имеет неожиданный тип %T", e.Name(), e)
		}
		return fn(ctx, typed)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs[zero.Name()] = append(d.subs[zero.Name()], subscription{name: subscriber, handler: wrapped})
}

// Publish отправляет событие всем подписчикам и сразу возвращается.
// Контекст отвязывается от отмены: запрос может завершиться раньше,
// чем отработают подписчики, и это не должно их прерывать.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	d.mu.RLock()
	subs := d.subs[e.Name()]
	d.mu.RUnlock()

	if len(subs) == 0 {
		log.WithField("event", e.Name()).Debug("Событие без подписчиков")
		return
	}

	detached := context.WithoutCancel(ctx)

	for _, sub := range subs {
		d.wg.Add(1)
		go func(sub subscription) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"event":      e.Name(),
						"subscriber": sub.name,
						"panic":      fmt.Sprintf("%v", r),
						"stack":      string(debug.Stack()),
					}).Error("ПАНИКА в подписчике — восстановлено")
				}
			}()

			if err := sub.handler(detached, e); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"event":      e.Name(),
					"subscriber": sub.name,
				}).Error("Ошибка подписчика (проглочена)")
			}
		}(sub)
	}
}

// Wait блокируется, пока не завершатся все запущенные подписчики.
// Вызывается на shutdown, чтобы не терять пересчёты.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
