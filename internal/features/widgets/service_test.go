package widgets

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/habit-api/internal/common"
)

// fakeStore — хранилище виджетов в памяти.
type fakeStore struct {
	nextID  int64
	widgets map[int64]*Widget
}

func newFakeStore() *fakeStore {
	return &fakeStore{widgets: make(map[int64]*Widget)}
}

func (f *fakeStore) Create(ctx context.Context, w *Widget) (*Widget, error) {
	f.nextID++
	cp := *w
	cp.ID = f.nextID
	cp.Position = len(f.widgets) + 1
	f.widgets[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) GetByID(ctx context.Context, userID, widgetID int64) (*Widget, error) {
	w, ok := f.widgets[widgetID]
	if !ok || w.UserID != userID {
		return nil, common.ErrWidgetNotFound
	}
	return w, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID int64) ([]*Widget, error) {
	var out []*Widget
	for _, w := range f.widgets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, userID, widgetID int64, upd *UpdateWidget) (*Widget, error) {
	w, err := f.GetByID(ctx, userID, widgetID)
	if err != nil {
		return nil, err
	}
	if upd.Kind != nil {
		w.Kind = *upd.Kind
	}
	if upd.Position != nil {
		w.Position = *upd.Position
	}
	if upd.Settings != nil {
		w.Settings = upd.Settings
	}
	return w, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, widgetID int64) error {
	if _, err := f.GetByID(ctx, userID, widgetID); err != nil {
		return err
	}
	delete(f.widgets, widgetID)
	return nil
}

func TestCreate_UnknownKind(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), 1, "weather", nil)
	assert.ErrorIs(t, err, common.ErrInvalidWidgetKind)
}

func TestCreate_MalformedSettings(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), 1, KindStreak, json.RawMessage(`{broken`))
	assert.ErrorIs(t, err, common.ErrInvalidWidgetSettings)
}

func TestCreate_OK(t *testing.T) {
	svc := NewService(newFakeStore())
	w, err := svc.Create(context.Background(), 1, KindPoints, json.RawMessage(`{"compact":true}`))
	require.NoError(t, err)
	assert.Equal(t, KindPoints, w.Kind)
	assert.Equal(t, 1, w.Position)
}

func TestUpdate_ForeignWidget(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	w, err := svc.Create(ctx, 1, KindStreak, nil)
	require.NoError(t, err)

	kind := KindToday
	_, err = svc.Update(ctx, 2, w.ID, &UpdateWidget{Kind: &kind})
	assert.ErrorIs(t, err, common.ErrWidgetNotFound)
}

func TestDelete_Missing(t *testing.T) {
	svc := NewService(newFakeStore())
	err := svc.Delete(context.Background(), 1, 99)
	assert.ErrorIs(t, err, common.ErrWidgetNotFound)
}
