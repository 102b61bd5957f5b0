package model

import "time"

// StaffingRequirement 人员需求规则（Bedarf）— 对应 staffing_requirements
type StaffingRequirement struct {
	RequirementID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_id"`
	QualificationID string     `gorm:"type:uuid;not null"                             json:"qualification_id"`
	RequiredCount   int        `gorm:"not null"                                       json:"required_count"`
	ValidFrom       *time.Time `gorm:"type:date"                                      json:"valid_from,omitempty"`
	ValidTo         *time.Time `gorm:"type:date"                                      json:"valid_to,omitempty"`
	Mode            string     `gorm:"type:varchar(10);not null;default:baseline"     json:"mode"` // baseline | override
	StartShift      *string    `gorm:"type:varchar(4)"                                json:"start_shift,omitempty"`
	EndShift        *string    `gorm:"type:varchar(4)"                                json:"end_shift,omitempty"`
	ShiftCode       *string    `gorm:"type:varchar(4)"                                json:"shift_code,omitempty"`
	WeekPattern     *string    `gorm:"type:varchar(20)"                               json:"week_pattern,omitempty"`
	BaseModel
}

// TableName 指定表名
func (StaffingRequirement) TableName() string { return "staffing_requirements" }
