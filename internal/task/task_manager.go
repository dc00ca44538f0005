package task

import (
	"errors"
	"time"

	"restaurant_hub_202601/pkg/logger"
)

// ErrTaskDisabled 任务未启用
var ErrTaskDisabled = errors.New("任务未启用")

// ==================== TaskManager 定时任务管理器 ====================

// TaskManager 统一管理后台维护任务
type TaskManager struct {
	sweepTask  *MediaSweepTask
	warmupTask *MenuWarmupTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Sweeper     TempSweeper // 为空时不启用临时文件清理（如 S3 存储）
	Restaurants RestaurantLister
	Menus       MenuLoader // 为空时不启用菜单预热（未配置缓存）
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	SweepSpec   string
	SweepMaxAge time.Duration
	WarmupSpec  string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		SweepSpec:   "0 */30 * * * *",
		SweepMaxAge: time.Hour,
		WarmupSpec:  "0 */10 * * * *",
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}
	if deps.Sweeper != nil {
		tm.sweepTask = NewMediaSweepTask(deps.Sweeper, cfg.SweepSpec, cfg.SweepMaxAge)
	}
	if deps.Menus != nil && deps.Restaurants != nil {
		tm.warmupTask = NewMenuWarmupTask(deps.Restaurants, deps.Menus, cfg.WarmupSpec)
	}
	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() error {
	logger.L().Info("[TaskManager] 正在启动后台任务...")

	if tm.sweepTask != nil {
		if err := tm.sweepTask.Start(); err != nil {
			return err
		}
	}
	if tm.warmupTask != nil {
		if err := tm.warmupTask.Start(); err != nil {
			return err
		}
	}

	logger.L().Info("[TaskManager] 后台任务已全部启动")
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	logger.L().Info("[TaskManager] 正在停止后台任务...")

	if tm.sweepTask != nil {
		tm.sweepTask.Stop()
	}
	if tm.warmupTask != nil {
		tm.warmupTask.Stop()
	}

	logger.L().Info("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerSweep 立即执行一次临时文件清理
func (tm *TaskManager) TriggerSweep() error {
	if tm.sweepTask == nil {
		return ErrTaskDisabled
	}
	tm.sweepTask.Execute()
	return nil
}
