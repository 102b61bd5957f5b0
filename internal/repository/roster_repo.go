package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schichtpilot/backend/internal/model"
)

// ── 班组分配 ──

// RosterAssignmentRepository 班组分配数据访问接口
type RosterAssignmentRepository interface {
	ListValidBetween(ctx context.Context, from, to time.Time) ([]model.RosterAssignment, error)
}

type rosterAssignmentRepo struct {
	db *gorm.DB
}

// NewRosterAssignmentRepo 创建 RosterAssignmentRepository 实例
func NewRosterAssignmentRepo(db *gorm.DB) RosterAssignmentRepository {
	return &rosterAssignmentRepo{db: db}
}

func (r *rosterAssignmentRepo) ListValidBetween(ctx context.Context, from, to time.Time) ([]model.RosterAssignment, error) {
	var rows []model.RosterAssignment
	err := r.db.WithContext(ctx).
		Where("valid_from <= ?", to).
		Where("(valid_to IS NULL OR valid_to >= ?)", from).
		Order("worker_id ASC, valid_from DESC").
		Find(&rows).Error
	return rows, err
}

// ── 班组基础排班 ──

// TeamShiftPlanRepository 班组排班数据访问接口
type TeamShiftPlanRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]model.TeamShiftPlan, error)
}

type teamShiftPlanRepo struct {
	db *gorm.DB
}

// NewTeamShiftPlanRepo 创建 TeamShiftPlanRepository 实例
func NewTeamShiftPlanRepo(db *gorm.DB) TeamShiftPlanRepository {
	return &teamShiftPlanRepo{db: db}
}

func (r *teamShiftPlanRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.TeamShiftPlan, error) {
	var rows []model.TeamShiftPlan
	err := r.db.WithContext(ctx).
		Where("plan_date BETWEEN ? AND ?", from, to).
		Order("plan_date ASC, team ASC").
		Find(&rows).Error
	return rows, err
}

// ── 当日调整 ──

// DailyOverrideRepository 当日调整数据访问接口
type DailyOverrideRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]model.DailyOverride, error)
}

type dailyOverrideRepo struct {
	db *gorm.DB
}

// NewDailyOverrideRepo 创建 DailyOverrideRepository 实例
func NewDailyOverrideRepo(db *gorm.DB) DailyOverrideRepository {
	return &dailyOverrideRepo{db: db}
}

func (r *dailyOverrideRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.DailyOverride, error) {
	var rows []model.DailyOverride
	err := r.db.WithContext(ctx).
		Where("override_date BETWEEN ? AND ?", from, to).
		Order("override_date ASC, worker_id ASC").
		Find(&rows).Error
	return rows, err
}

// ── 请假 ──

// AbsenceRepository 请假数据访问接口
type AbsenceRepository interface {
	ListOverlapping(ctx context.Context, from, to time.Time) ([]model.Absence, error)
}

type absenceRepo struct {
	db *gorm.DB
}

// NewAbsenceRepo 创建 AbsenceRepository 实例
func NewAbsenceRepo(db *gorm.DB) AbsenceRepository {
	return &absenceRepo{db: db}
}

func (r *absenceRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]model.Absence, error) {
	var rows []model.Absence
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("worker_id ASC, start_date ASC").
		Find(&rows).Error
	return rows, err
}
