package dto

import "schichtpilot/backend/internal/coverage"

// ── 覆盖分析请求 ──

// CoverageGridRequest 区间覆盖查询
// GET /api/v1/coverage?from=2025-03-01&to=2025-03-31&shifts=F,S
type CoverageGridRequest struct {
	From   string `form:"from"   binding:"required"`
	To     string `form:"to"     binding:"required"`
	Shifts string `form:"shifts"` // 逗号分隔，空表示全部班次
}

// CoverageCellRequest 单元格明细查询
// GET /api/v1/coverage/cell?date=2025-03-10&shift=F
type CoverageCellRequest struct {
	Date  string `form:"date"  binding:"required"`
	Shift string `form:"shift" binding:"required"`
}

// ExportCoverageRequest 覆盖导出
type ExportCoverageRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to"   binding:"required"`
}

// EvaluateRequest 调用方自带快照的覆盖计算（不访问数据库）
type EvaluateRequest struct {
	From     string           `json:"from"   binding:"required"`
	To       string           `json:"to"     binding:"required"`
	Shifts   []string         `json:"shifts"`
	Snapshot SnapshotDocument `json:"snapshot"`
}

// SnapshotDocument 快照的 JSON 表示，日期均为 YYYY-MM-DD
type SnapshotDocument struct {
	Qualifications []QualificationDoc `json:"qualifications"`
	Grants         []GrantDoc         `json:"grants"`
	Requirements   []RequirementDoc   `json:"requirements"`
	Memberships    []MembershipDoc    `json:"memberships"`
	Plans          []PlanDoc          `json:"plans"`
	Overrides      []OverrideDoc      `json:"overrides"`
	Absences       []AbsenceDoc       `json:"absences"`
	ShiftWindows   []ShiftWindowDoc   `json:"shift_windows"`
}

// QualificationDoc 资质矩阵条目
type QualificationDoc struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Relevant bool   `json:"relevant"`
	Priority int    `json:"priority"`
	Active   bool   `json:"active"`
}

// GrantDoc 员工资质
type GrantDoc struct {
	WorkerID        string  `json:"worker_id"`
	QualificationID string  `json:"qualification_id"`
	ValidFrom       string  `json:"valid_from"`
	ValidTo         *string `json:"valid_to,omitempty"`
}

// RequirementDoc 需求规则
type RequirementDoc struct {
	ID              string  `json:"id"`
	QualificationID string  `json:"qualification_id"`
	Count           int     `json:"count"`
	ValidFrom       *string `json:"valid_from,omitempty"`
	ValidTo         *string `json:"valid_to,omitempty"`
	Mode            string  `json:"mode"`
	StartShift      string  `json:"start_shift,omitempty"`
	EndShift        string  `json:"end_shift,omitempty"`
	Shift           string  `json:"shift,omitempty"`
	WeekPattern     string  `json:"week_pattern,omitempty"`
}

// MembershipDoc 班组分配
type MembershipDoc struct {
	WorkerID  string  `json:"worker_id"`
	Team      string  `json:"team"`
	Rank      int     `json:"rank"`
	ValidFrom string  `json:"valid_from"`
	ValidTo   *string `json:"valid_to,omitempty"`
}

// PlanDoc 班组排班
type PlanDoc struct {
	Team  string `json:"team"`
	Date  string `json:"date"`
	Shift string `json:"shift"`
}

// OverrideDoc 当日调整
type OverrideDoc struct {
	WorkerID    string `json:"worker_id"`
	Date        string `json:"date"`
	Shift       string `json:"shift"`
	ActualStart string `json:"actual_start,omitempty"`
	ActualEnd   string `json:"actual_end,omitempty"`
	Changed     bool   `json:"changed"`
}

// AbsenceDoc 请假
type AbsenceDoc struct {
	WorkerID string `json:"worker_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// ShiftWindowDoc 班次标准时间
type ShiftWindowDoc struct {
	Code  string `json:"code"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ── 覆盖分析响应 ──

// CoverageGridResponse 区间覆盖结果
type CoverageGridResponse struct {
	From     string                    `json:"from"`
	To       string                    `json:"to"`
	Cells    []coverage.CoverageResult `json:"cells"`
	Summary  map[coverage.Status]int   `json:"summary"`
	Warnings []coverage.Warning        `json:"warnings"` // 快照级别告警
	Cached   int                       `json:"cached"`   // 命中缓存的单元格数
}

// CoverageCellResponse 单元格明细（含员工姓名，供悬浮提示使用）
type CoverageCellResponse struct {
	coverage.CoverageResult
	Requirements []coverage.Requirement `json:"requirements"`
	Workers      map[string]WorkerBrief `json:"workers"`
}

// WorkerBrief 员工简要信息
type WorkerBrief struct {
	ID          string `json:"id"`
	PersonnelNo string `json:"personnel_no"`
	Name        string `json:"name"`
}

// ShiftWindowResponse 班次图例
type ShiftWindowResponse struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
	CrossesMidnight bool   `json:"crosses_midnight"`
	Configured      bool   `json:"configured"`
}
