package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
// 覆盖分析只读取排班主数据，每个集合按日期区间一次查询
type Repository struct {
	Qualification       QualificationRepository
	WorkerQualification WorkerQualificationRepository
	Worker              WorkerRepository
	Requirement         RequirementRepository
	RosterAssignment    RosterAssignmentRepository
	TeamShiftPlan       TeamShiftPlanRepository
	DailyOverride       DailyOverrideRepository
	Absence             AbsenceRepository
	ShiftType           ShiftTypeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Qualification:       NewQualificationRepo(db),
		WorkerQualification: NewWorkerQualificationRepo(db),
		Worker:              NewWorkerRepo(db),
		Requirement:         NewRequirementRepo(db),
		RosterAssignment:    NewRosterAssignmentRepo(db),
		TeamShiftPlan:       NewTeamShiftPlanRepo(db),
		DailyOverride:       NewDailyOverrideRepo(db),
		Absence:             NewAbsenceRepo(db),
		ShiftType:           NewShiftTypeRepo(db),
	}
}
