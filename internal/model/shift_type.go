package model

// ShiftType 班次类型及标准时间 — 对应 shift_types
// EndTime 早于 StartTime 表示跨午夜
type ShiftType struct {
	Code      string `gorm:"type:varchar(4);primaryKey" json:"code"`
	Name      string `gorm:"type:varchar(50);not null"  json:"name"`
	StartTime string `gorm:"type:time;not null"         json:"start_time"`
	EndTime   string `gorm:"type:time;not null"         json:"end_time"`
	SortOrder int    `gorm:"type:smallint;not null"     json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (ShiftType) TableName() string { return "shift_types" }
