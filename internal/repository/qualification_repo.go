package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schichtpilot/backend/internal/model"
)

// QualificationRepository 资质矩阵数据访问接口
type QualificationRepository interface {
	List(ctx context.Context) ([]model.Qualification, error)
}

type qualificationRepo struct {
	db *gorm.DB
}

// NewQualificationRepo 创建 QualificationRepository 实例
func NewQualificationRepo(db *gorm.DB) QualificationRepository {
	return &qualificationRepo{db: db}
}

// List 返回全部资质（含已停用，由引擎按 is_active 过滤）
func (r *qualificationRepo) List(ctx context.Context) ([]model.Qualification, error) {
	var quals []model.Qualification
	err := r.db.WithContext(ctx).
		Order("priority ASC, code ASC").
		Find(&quals).Error
	return quals, err
}

// WorkerQualificationRepository 员工资质数据访问接口
type WorkerQualificationRepository interface {
	ListValidBetween(ctx context.Context, from, to time.Time) ([]model.WorkerQualification, error)
}

type workerQualificationRepo struct {
	db *gorm.DB
}

// NewWorkerQualificationRepo 创建 WorkerQualificationRepository 实例
func NewWorkerQualificationRepo(db *gorm.DB) WorkerQualificationRepository {
	return &workerQualificationRepo{db: db}
}

// ListValidBetween 有效期与 [from, to] 有交集的资质授予记录
func (r *workerQualificationRepo) ListValidBetween(ctx context.Context, from, to time.Time) ([]model.WorkerQualification, error) {
	var grants []model.WorkerQualification
	err := r.db.WithContext(ctx).
		Where("valid_from <= ?", to).
		Where("(valid_to IS NULL OR valid_to >= ?)", from).
		Order("worker_id ASC, valid_from ASC").
		Find(&grants).Error
	return grants, err
}
