package model

import "time"

// Worker 员工 — 对应 workers（仅用于提示信息展示）
type Worker struct {
	WorkerID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	PersonnelNo string `gorm:"type:varchar(30);not null;uniqueIndex"           json:"personnel_no"`
	Name        string `gorm:"type:varchar(100);not null"                      json:"name"`
	IsActive    bool   `gorm:"not null;default:true"                           json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Worker) TableName() string { return "workers" }

// WorkerQualification 员工资质及有效期 — 对应 worker_qualifications
type WorkerQualification struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkerID        string     `gorm:"type:uuid;not null;index"                       json:"worker_id"`
	QualificationID string     `gorm:"type:uuid;not null"                             json:"qualification_id"`
	ValidFrom       time.Time  `gorm:"type:date;not null"                             json:"valid_from"`
	ValidTo         *time.Time `gorm:"type:date"                                      json:"valid_to,omitempty"` // NULL 表示长期有效
	BaseModel
}

// TableName 指定表名
func (WorkerQualification) TableName() string { return "worker_qualifications" }
