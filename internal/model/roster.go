package model

import "time"

// RosterAssignment 员工所属班组（Schichtgruppe）— 对应 roster_assignments
type RosterAssignment struct {
	ID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkerID  string     `gorm:"type:uuid;not null;index"                       json:"worker_id"`
	Team      string     `gorm:"type:varchar(20);not null"                      json:"team"`
	Rank      int        `gorm:"not null;default:0"                             json:"rank"`
	ValidFrom time.Time  `gorm:"type:date;not null"                             json:"valid_from"`
	ValidTo   *time.Time `gorm:"type:date"                                      json:"valid_to,omitempty"`
	BaseModel
}

// TableName 指定表名
func (RosterAssignment) TableName() string { return "roster_assignments" }

// TeamShiftPlan 班组基础排班 — 对应 team_shift_plans
type TeamShiftPlan struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Team      string    `gorm:"type:varchar(20);not null"                      json:"team"`
	PlanDate  time.Time `gorm:"type:date;not null"                             json:"plan_date"`
	ShiftCode string    `gorm:"type:varchar(4);not null"                       json:"shift_code"`
	BaseModel
}

// TableName 指定表名
func (TeamShiftPlan) TableName() string { return "team_shift_plans" }

// DailyOverride 员工当日调整 — 对应 daily_overrides
type DailyOverride struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkerID     string    `gorm:"type:uuid;not null"                             json:"worker_id"`
	OverrideDate time.Time `gorm:"type:date;not null"                             json:"override_date"`
	ShiftCode    string    `gorm:"type:varchar(4);not null"                       json:"shift_code"`
	ActualStart  *string   `gorm:"type:varchar(5)"                                json:"actual_start,omitempty"` // HH:MM
	ActualEnd    *string   `gorm:"type:varchar(5)"                                json:"actual_end,omitempty"`
	Changed      bool      `gorm:"not null;default:false"                         json:"changed"`
	BaseModel
}

// TableName 指定表名
func (DailyOverride) TableName() string { return "daily_overrides" }

// Absence 请假/排除时段 — 对应 absences
type Absence struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkerID  string    `gorm:"type:uuid;not null"                             json:"worker_id"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Reason    string    `gorm:"type:varchar(100);not null;default:''"          json:"reason"`
	BaseModel
}

// TableName 指定表名
func (Absence) TableName() string { return "absences" }
