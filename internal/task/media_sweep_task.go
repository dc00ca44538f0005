package task

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"restaurant_hub_202601/pkg/logger"
)

// TempSweeper 可清理残留临时文件的存储
type TempSweeper interface {
	SweepTemp(olderThan time.Duration) (int, error)
}

// MediaSweepTask 定时清理上传中断留下的临时文件
type MediaSweepTask struct {
	sweeper TempSweeper
	spec    string
	maxAge  time.Duration
	cron    *cron.Cron
}

// NewMediaSweepTask spec 为秒级 cron 表达式
func NewMediaSweepTask(sweeper TempSweeper, spec string, maxAge time.Duration) *MediaSweepTask {
	return &MediaSweepTask{
		sweeper: sweeper,
		spec:    spec,
		maxAge:  maxAge,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *MediaSweepTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, t.Execute); err != nil {
		return fmt.Errorf("[MediaSweep] 无效的 cron 表达式 %q: %w", t.spec, err)
	}
	t.cron.Start()
	logger.L().Infof("[MediaSweep] 临时文件清理任务已启动 (%s)", t.spec)
	return nil
}

// Stop 停止任务，等待正在执行的清理结束
func (t *MediaSweepTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	logger.L().Info("[MediaSweep] 已停止")
}

// Execute 执行一次清理
func (t *MediaSweepTask) Execute() {
	removed, err := t.sweeper.SweepTemp(t.maxAge)
	if err != nil {
		logger.L().Warnw("[MediaSweep] 清理失败", "error", err, "removed", removed)
		return
	}
	if removed > 0 {
		logger.L().Infow("[MediaSweep] 已清理残留临时文件", "removed", removed)
	}
}
