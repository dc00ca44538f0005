package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/service"
)

// ==================== 测试替身 ====================

type fakeSweeper struct {
	mu     sync.Mutex
	calls  int
	maxAge time.Duration
	err    error
}

func (f *fakeSweeper) SweepTemp(olderThan time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.maxAge = olderThan
	return 2, f.err
}

type fakeRestaurants struct {
	list []model.Restaurant
	err  error
}

func (f *fakeRestaurants) List(context.Context) ([]model.Restaurant, error) {
	return f.list, f.err
}

type fakeMenus struct {
	mu     sync.Mutex
	loaded []int64
	fail   map[int64]bool
}

func (f *fakeMenus) GetMenu(_ context.Context, id int64) (*service.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[id] {
		return nil, errors.New("boom")
	}
	f.loaded = append(f.loaded, id)
	return &service.Menu{RestaurantID: id}, nil
}

// ==================== MediaSweepTask ====================

func TestMediaSweepTask_Execute(t *testing.T) {
	sweeper := &fakeSweeper{}
	task := NewMediaSweepTask(sweeper, "0 */30 * * * *", 45*time.Minute)

	task.Execute()
	assert.Equal(t, 1, sweeper.calls)
	assert.Equal(t, 45*time.Minute, sweeper.maxAge)

	sweeper.err = errors.New("disk gone")
	task.Execute()
	assert.Equal(t, 2, sweeper.calls)
}

func TestMediaSweepTask_InvalidSpec(t *testing.T) {
	task := NewMediaSweepTask(&fakeSweeper{}, "not a cron", time.Hour)
	assert.Error(t, task.Start())
}

func TestMediaSweepTask_StartStop(t *testing.T) {
	sweeper := &fakeSweeper{}
	task := NewMediaSweepTask(sweeper, "* * * * * *", time.Hour)
	require.NoError(t, task.Start())

	assert.Eventually(t, func() bool {
		sweeper.mu.Lock()
		defer sweeper.mu.Unlock()
		return sweeper.calls > 0
	}, 3*time.Second, 50*time.Millisecond)
	task.Stop()
}

func TestMediaSweepTask_LocalStorage(t *testing.T) {
	root := t.TempDir()
	local, err := service.NewLocalStorage(service.StorageConfig{Provider: "local", BasePath: root, URLPrefix: "/uploads"})
	require.NoError(t, err)

	dir := filepath.Join(root, "dishes")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, ".upload-123.tmp")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	NewMediaSweepTask(local, "0 */30 * * * *", time.Hour).Execute()

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

// ==================== MenuWarmupTask ====================

func TestMenuWarmupTask_Execute(t *testing.T) {
	menus := &fakeMenus{fail: map[int64]bool{2: true}}
	task := NewMenuWarmupTask(&fakeRestaurants{list: []model.Restaurant{
		{BaseModel: model.BaseModel{ID: 1}},
		{BaseModel: model.BaseModel{ID: 2}},
		{BaseModel: model.BaseModel{ID: 3}},
	}}, menus, "0 */10 * * * *")
	task.sleepTime = 0

	warmed := task.Execute(context.Background())
	assert.Equal(t, 2, warmed)
	assert.Equal(t, []int64{1, 3}, menus.loaded)
}

func TestMenuWarmupTask_ListError(t *testing.T) {
	task := NewMenuWarmupTask(&fakeRestaurants{err: errors.New("db down")}, &fakeMenus{}, "0 */10 * * * *")
	assert.Zero(t, task.Execute(context.Background()))
}

// ==================== TaskManager ====================

func TestTaskManager(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{}, nil)
	assert.ErrorIs(t, tm.TriggerSweep(), ErrTaskDisabled)
	require.NoError(t, tm.Start())
	tm.Stop()

	sweeper := &fakeSweeper{}
	tm = NewTaskManager(&TaskManagerDeps{Sweeper: sweeper}, DefaultConfig())
	require.NoError(t, tm.TriggerSweep())
	assert.Equal(t, time.Hour, sweeper.maxAge)
	require.NoError(t, tm.Start())
	tm.Stop()
}
