package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"restaurant_hub_202601/internal/model"
	"restaurant_hub_202601/internal/service"
	"restaurant_hub_202601/pkg/logger"
)

// RestaurantLister 列出全部餐厅
type RestaurantLister interface {
	List(ctx context.Context) ([]model.Restaurant, error)
}

// MenuLoader 读取菜单（未命中缓存时回源并写缓存）
type MenuLoader interface {
	GetMenu(ctx context.Context, restaurantID int64) (*service.Menu, error)
}

// MenuWarmupTask 定时预热菜单缓存
type MenuWarmupTask struct {
	restaurants RestaurantLister
	menus       MenuLoader
	spec        string
	cron        *cron.Cron

	// 每家餐厅之间的间隔，平滑数据库压力
	sleepTime time.Duration
}

// NewMenuWarmupTask 创建预热任务
func NewMenuWarmupTask(restaurants RestaurantLister, menus MenuLoader, spec string) *MenuWarmupTask {
	return &MenuWarmupTask{
		restaurants: restaurants,
		menus:       menus,
		spec:        spec,
		cron:        cron.New(cron.WithSeconds()),
		sleepTime:   20 * time.Millisecond,
	}
}

// Start 启动定时任务，并在后台执行一次首轮预热
func (t *MenuWarmupTask) Start() error {
	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.Execute(ctx)
	})
	if err != nil {
		return fmt.Errorf("[MenuWarmup] 无效的 cron 表达式 %q: %w", t.spec, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.Execute(ctx)
	}()

	t.cron.Start()
	logger.L().Infof("[MenuWarmup] 菜单预热任务已启动 (%s)", t.spec)
	return nil
}

// Stop 停止任务
func (t *MenuWarmupTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	logger.L().Info("[MenuWarmup] 已停止")
}

// Execute 执行一轮预热，返回成功预热的餐厅数
func (t *MenuWarmupTask) Execute(ctx context.Context) int {
	restaurants, err := t.restaurants.List(ctx)
	if err != nil {
		logger.L().Warnw("[MenuWarmup] 查询餐厅失败", "error", err)
		return 0
	}

	warmed := 0
	for _, r := range restaurants {
		if ctx.Err() != nil {
			break
		}
		if _, err := t.menus.GetMenu(ctx, r.ID); err != nil {
			logger.L().Warnw("[MenuWarmup] 预热失败", "restaurant_id", r.ID, "error", err)
		} else {
			warmed++
		}
		if t.sleepTime > 0 {
			time.Sleep(t.sleepTime)
		}
	}
	logger.L().Debugw("[MenuWarmup] 本轮完成", "warmed", warmed, "total", len(restaurants))
	return warmed
}
