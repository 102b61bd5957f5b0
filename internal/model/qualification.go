package model

// Qualification 资质矩阵 — 对应 qualifications
type Qualification struct {
	QualificationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"qualification_id"`
	Code            string `gorm:"type:varchar(20);not null;uniqueIndex"           json:"code"` // Kürzel
	Name            string `gorm:"type:varchar(100);not null"                      json:"name"`
	IsRelevant      bool   `gorm:"column:is_operationally_relevant;not null;default:true" json:"is_operationally_relevant"`
	Priority        int    `gorm:"not null;default:999"                            json:"priority"` // 越小越先匹配
	IsActive        bool   `gorm:"not null;default:true"                           json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Qualification) TableName() string { return "qualifications" }
