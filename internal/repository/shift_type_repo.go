package repository

import (
	"context"

	"gorm.io/gorm"

	"schichtpilot/backend/internal/model"
)

// ShiftTypeRepository 班次类型数据访问接口
type ShiftTypeRepository interface {
	List(ctx context.Context) ([]model.ShiftType, error)
}

type shiftTypeRepo struct {
	db *gorm.DB
}

// NewShiftTypeRepo 创建 ShiftTypeRepository 实例
func NewShiftTypeRepo(db *gorm.DB) ShiftTypeRepository {
	return &shiftTypeRepo{db: db}
}

func (r *shiftTypeRepo) List(ctx context.Context) ([]model.ShiftType, error) {
	var rows []model.ShiftType
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, code ASC").
		Find(&rows).Error
	return rows, err
}
