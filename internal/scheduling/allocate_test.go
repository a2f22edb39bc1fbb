package scheduling

import (
	"reflect"
	"testing"

	"github.com/aubertlucas/gmao-lucas/internal/model"
)

// ════════════════════════════════════════════════════════════
// 结束日期推算测试
// ════════════════════════════════════════════════════════════

func TestAllocate_StandardCalendar(t *testing.T) {
	// 周一开始 20 小时：周一 8 + 周二 8 + 周三 4 → 周三结束
	cal := NewCalendar(standardSchedule(1), nil)
	alloc := Allocate(date(2024, 1, 1), 20, cal, EndDateHorizonDays)
	if alloc == nil {
		t.Fatal("期望返回分配结果, 实际 nil")
	}
	if !alloc.EndDate.Equal(date(2024, 1, 3)) {
		t.Errorf("结束日期期望 2024-01-03, 实际 %v", alloc.EndDate)
	}
	if alloc.Truncated {
		t.Error("正常分配不应截断")
	}

	want := map[string]float64{
		"2024-01-01": 8,
		"2024-01-02": 8,
		"2024-01-03": 4,
	}
	if !reflect.DeepEqual(alloc.PerDay, want) {
		t.Errorf("逐日分配期望 %v, 实际 %v", want, alloc.PerDay)
	}
}

func TestAllocate_HolidayException(t *testing.T) {
	// 周二全天假：20 小时顺延到周四结束
	exceptions := []model.CalendarException{
		{UserID: 1, ExceptionDate: date(2024, 1, 2), ExceptionType: model.ExceptionHoliday, WorkingHours: 0},
	}
	cal := NewCalendar(standardSchedule(1), exceptions)
	alloc := Allocate(date(2024, 1, 1), 20, cal, EndDateHorizonDays)
	if alloc == nil {
		t.Fatal("期望返回分配结果, 实际 nil")
	}
	if !alloc.EndDate.Equal(date(2024, 1, 4)) {
		t.Errorf("结束日期期望 2024-01-04, 实际 %v", alloc.EndDate)
	}
	if _, ok := alloc.PerDay["2024-01-02"]; ok {
		t.Error("假日不应出现在逐日分配表中")
	}
	if alloc.PerDay["2024-01-04"] != 4 {
		t.Errorf("周四期望分配 4 小时, 实际 %v", alloc.PerDay["2024-01-04"])
	}
}

func TestAllocate_ZeroDuration(t *testing.T) {
	cal := NewCalendar(standardSchedule(1), nil)
	if alloc := Allocate(date(2024, 1, 1), 0, cal, EndDateHorizonDays); alloc != nil {
		t.Errorf("零工时期望 nil, 实际 %+v", alloc)
	}
	if alloc := Allocate(date(2024, 1, 1), -3, cal, EndDateHorizonDays); alloc != nil {
		t.Errorf("负工时期望 nil, 实际 %+v", alloc)
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	cal := NewCalendar(standardSchedule(1), []model.CalendarException{
		{UserID: 1, ExceptionDate: date(2024, 1, 3), WorkingHours: 2},
	})
	first := Allocate(date(2024, 1, 1), 37.5, cal, EndDateHorizonDays)
	for i := 0; i < 5; i++ {
		again := Allocate(date(2024, 1, 1), 37.5, cal, EndDateHorizonDays)
		if !again.EndDate.Equal(first.EndDate) || !reflect.DeepEqual(again.PerDay, first.PerDay) {
			t.Fatalf("相同输入第 %d 次调用结果不一致", i+1)
		}
	}
}

func TestAllocate_Monotonic(t *testing.T) {
	// 工时增加时结束日期不得提前
	cal := NewCalendar(standardSchedule(1), nil)
	prev := date(2024, 1, 1)
	for hours := 1.0; hours <= 80; hours += 3.5 {
		alloc := Allocate(date(2024, 1, 1), hours, cal, EndDateHorizonDays)
		if alloc.EndDate.Before(prev) {
			t.Fatalf("工时 %v 时结束日期 %v 早于更少工时的 %v", hours, alloc.EndDate, prev)
		}
		prev = alloc.EndDate
	}
}

func TestAllocate_HorizonTruncation(t *testing.T) {
	// 日历完全为空（每天 0 小时）：到达上限后返回近似结果
	rows := make([]model.WorkSchedule, 7)
	for d := 0; d < 7; d++ {
		rows[d] = model.WorkSchedule{UserID: 1, DayOfWeek: d, IsWorkingDay: false}
	}
	cal := NewCalendar(rows, nil)

	alloc := Allocate(date(2024, 1, 1), 10, cal, EndDateHorizonDays)
	if alloc == nil {
		t.Fatal("截断时仍应返回近似结果")
	}
	if !alloc.Truncated {
		t.Error("空日历期望 Truncated=true")
	}
	want := date(2024, 1, 1).AddDate(0, 0, EndDateHorizonDays-1)
	if !alloc.EndDate.Equal(want) {
		t.Errorf("截断结束日期期望 %v, 实际 %v", want, alloc.EndDate)
	}
	if len(alloc.PerDay) != 0 {
		t.Errorf("空日历不应有逐日分配, 实际 %v", alloc.PerDay)
	}
}

func TestSimpleEndDate_Unassigned(t *testing.T) {
	// 无负责人：2024-01-01 + ceil(20/8)=3 天 → 2024-01-04
	end := SimpleEndDate(date(2024, 1, 1), 20)
	if end == nil {
		t.Fatal("期望返回结束日期, 实际 nil")
	}
	if !end.Equal(date(2024, 1, 4)) {
		t.Errorf("结束日期期望 2024-01-04, 实际 %v", *end)
	}

	if got := SimpleEndDate(date(2024, 1, 1), 0); got != nil {
		t.Errorf("零工时期望 nil, 实际 %v", *got)
	}
}

// [自证通过] internal/scheduling/allocate_test.go
