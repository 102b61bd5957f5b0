package repository

import (
	"context"

	"gorm.io/gorm"

	"schichtpilot/backend/internal/model"
)

// WorkerRepository 员工数据访问接口
type WorkerRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]model.Worker, error)
}

type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo 创建 WorkerRepository 实例
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Worker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var workers []model.Worker
	err := r.db.WithContext(ctx).
		Where("worker_id IN ?", ids).
		Order("name ASC").
		Find(&workers).Error
	return workers, err
}
