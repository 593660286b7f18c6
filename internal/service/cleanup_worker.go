package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

// CleanupWorker 轮询 cleanup_events，删除已删内容残留的点赞边。
// 边删除是幂等的，事件被重复处理也不会出错。
type CleanupWorker struct {
	db           *gorm.DB
	likeRepo     repository.LikeRepository
	claimLimit   int
	pollInterval time.Duration
	staleAfter   time.Duration
	workers      int
}

func NewCleanupWorker(db *gorm.DB, likeRepo repository.LikeRepository, workers, claimLimit int, pollInterval time.Duration) *CleanupWorker {
	if workers <= 0 {
		workers = 2
	}
	if claimLimit <= 0 {
		claimLimit = 128
	}
	if pollInterval <= 0 {
		pollInterval = 200 * time.Millisecond
	}
	return &CleanupWorker{
		db:           db,
		likeRepo:     likeRepo,
		workers:      workers,
		claimLimit:   claimLimit,
		pollInterval: pollInterval,
		staleAfter:   time.Minute,
	}
}

// Start 启动若干 worker 轮询处理 cleanup_events；返回停止函数。
func (w *CleanupWorker) Start() func(context.Context) error {
	stop := make(chan struct{})
	for i := 0; i < w.workers; i++ {
		go w.loop(stop)
	}
	return func(ctx context.Context) error { close(stop); return nil }
}

func (w *CleanupWorker) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := w.ProcessOnce(context.Background()); err != nil {
				logger.Warn("cleanup pass failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce claim 一批 pending 事件并清理对应的点赞边
func (w *CleanupWorker) ProcessOnce(ctx context.Context) error {
	type ev struct {
		ID         string
		TargetKind model.ContentKind
		TargetID   string
	}
	var batch []ev
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// processing 超过 staleAfter 视为认领者已挂掉，重新认领
		q := `
			SELECT id, target_kind, target_id
			FROM cleanup_events
			WHERE status = 'pending' OR (status = 'processing' AND updated_at < ?)
			ORDER BY created_at
			LIMIT ?`
		// postgres 下用 SKIP LOCKED 避免多实例重复认领
		if tx.Dialector.Name() == "postgres" {
			q += "\n\t\t\tFOR UPDATE SKIP LOCKED"
		}
		if err := tx.Raw(q, time.Now().Add(-w.staleAfter), w.claimLimit).Scan(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		return tx.Model(&model.CleanupEvent{}).Where("id IN ?", ids).Update("status", "processing").Error
	})
	if err != nil {
		return err
	}

	for _, b := range batch {
		removed, err := w.likeRepo.DeleteByTarget(ctx, b.TargetKind, b.TargetID)
		if err != nil {
			logger.Warn("cleanup delete edges failed",
				zap.String("kind", string(b.TargetKind)), zap.String("target", b.TargetID), zap.Error(err))
			// 回退 pending，等下一轮重试；不能把事件滞留在 processing
			_ = w.db.WithContext(ctx).Model(&model.CleanupEvent{}).
				Where("id = ?", b.ID).Update("status", "pending").Error
			continue
		}
		now := time.Now()
		_ = w.db.WithContext(ctx).Model(&model.CleanupEvent{}).
			Where("id = ?", b.ID).
			Updates(map[string]any{"status": "done", "processed_at": now, "edges_removed": removed}).Error
	}
	return nil
}
