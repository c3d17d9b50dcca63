package metrics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Collector 指标收集器,定期刷新数据库连接数和任务状态分布
type Collector struct {
	db       *gorm.DB
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCollector 创建指标收集器
func NewCollector(db *gorm.DB, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:       db,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	go c.collect()
}

// Stop 停止指标收集器
func (c *Collector) Stop() {
	c.cancel()
	<-c.done
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			_ = UpdateDatabaseConnections(c.db)
			c.collectTaskStates()
		}
	}
}

// taskFlags 任务状态推导所需的列
type taskFlags struct {
	IsSubmitted    bool
	IsCompleted    bool
	UploadedPhotos []byte
}

// collectTaskStates 统计各状态任务数量
func (c *Collector) collectTaskStates() {
	var rows []taskFlags
	if err := c.db.WithContext(c.ctx).Table("tasks").
		Select("is_submitted", "is_completed", "uploaded_photos").
		Find(&rows).Error; err != nil {
		return
	}

	counts := map[string]float64{
		"created":     0,
		"in_progress": 0,
		"submitted":   0,
		"completed":   0,
	}
	for _, row := range rows {
		counts[deriveState(row)]++
	}
	for state, count := range counts {
		UpdateTasksByState(state, count)
	}
}

// deriveState 从持久化标志推导状态
func deriveState(row taskFlags) string {
	switch {
	case row.IsCompleted:
		return "completed"
	case row.IsSubmitted:
		return "submitted"
	case len(row.UploadedPhotos) > 0 && string(row.UploadedPhotos) != "[]" && string(row.UploadedPhotos) != "null":
		return "in_progress"
	default:
		return "created"
	}
}
