package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schichtpilot/backend/internal/model"
)

// RequirementRepository 人员需求规则数据访问接口
type RequirementRepository interface {
	ListValidBetween(ctx context.Context, from, to time.Time) ([]model.StaffingRequirement, error)
}

type requirementRepo struct {
	db *gorm.DB
}

// NewRequirementRepo 创建 RequirementRepository 实例
func NewRequirementRepo(db *gorm.DB) RequirementRepository {
	return &requirementRepo{db: db}
}

// ListValidBetween 有效期与 [from, to] 有交集的规则，空边界视为无界
func (r *requirementRepo) ListValidBetween(ctx context.Context, from, to time.Time) ([]model.StaffingRequirement, error) {
	var reqs []model.StaffingRequirement
	err := r.db.WithContext(ctx).
		Where("(valid_from IS NULL OR valid_from <= ?)", to).
		Where("(valid_to IS NULL OR valid_to >= ?)", from).
		Order("requirement_id ASC").
		Find(&reqs).Error
	return reqs, err
}
