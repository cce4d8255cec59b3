package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/habit-api/internal/common"
)

// fakeStore — задачи в памяти.
type fakeStore struct {
	nextID int64
	tasks  map[int64]*Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[int64]*Task)}
}

func (f *fakeStore) Create(ctx context.Context, t *Task) (*Task, error) {
	f.nextID++
	cp := *t
	cp.ID = f.nextID
	f.tasks[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) GetByID(ctx context.Context, userID, taskID int64) (*Task, error) {
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, common.ErrTaskNotFound
	}
	if t.UserID != userID {
		return nil, common.ErrForeignTask
	}
	return t, nil
}

func (f *fakeStore) List(ctx context.Context, userID int64, includeArchived bool) ([]*Task, error) {
	var out []*Task
	for _, t := range f.tasks {
		if t.UserID != userID {
			continue
		}
		if t.Archived && !includeArchived {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, userID, taskID int64, upd UpdateTask) (*Task, error) {
	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, common.ErrTaskNotFound
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Points != nil {
		t.Points = *upd.Points
	}
	if upd.Archived != nil {
		t.Archived = *upd.Archived
	}
	return t, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, taskID int64) error {
	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return common.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc := NewService(newFakeStore(), 10)

	_, err := svc.Create(context.Background(), 1, "   ", "", "", nil)
	assert.ErrorIs(t, err, common.ErrEmptyTitle)
}

func TestCreate_NegativePoints(t *testing.T) {
	svc := NewService(newFakeStore(), 10)

	points := int64(-5)
	_, err := svc.Create(context.Background(), 1, "Зарядка", "", "", &points)
	assert.ErrorIs(t, err, common.ErrInvalidPoints)
}

func TestCreate_DefaultPoints(t *testing.T) {
	svc := NewService(newFakeStore(), 10)

	task, err := svc.Create(context.Background(), 1, "Зарядка", "", "#ff0000", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), task.Points, "без явной награды берётся значение из конфига")
}

func TestCreate_ExplicitPoints(t *testing.T) {
	svc := NewService(newFakeStore(), 10)

	points := int64(25)
	task, err := svc.Create(context.Background(), 1, "  Чтение  ", "", "", &points)
	require.NoError(t, err)
	assert.Equal(t, int64(25), task.Points)
	assert.Equal(t, "Чтение", task.Title, "заголовок обрезается")
}

func TestList_ExcludesArchivedByDefault(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 10)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "Старая", "", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "Активная", "", "", nil)
	require.NoError(t, err)

	archived := true
	_, err = svc.Update(ctx, 1, task.ID, UpdateTask{Archived: &archived})
	require.NoError(t, err)

	active, err := svc.List(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(ctx, 1, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetByID_ForeignTask(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 10)
	ctx := context.Background()

	task, err := svc.Create(ctx, 2, "Чужая", "", "", nil)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, 1, task.ID)
	assert.ErrorIs(t, err, common.ErrForeignTask)
}

func TestUpdate_EmptyTitle(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 10)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "Зарядка", "", "", nil)
	require.NoError(t, err)

	empty := "  "
	_, err = svc.Update(ctx, 1, task.ID, UpdateTask{Title: &empty})
	assert.ErrorIs(t, err, common.ErrEmptyTitle)
}
