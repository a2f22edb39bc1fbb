package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aubertlucas/gmao-lucas/internal/dto"
	"github.com/aubertlucas/gmao-lucas/internal/model"
	"github.com/aubertlucas/gmao-lucas/internal/repository"
	"github.com/aubertlucas/gmao-lucas/internal/scheduling"
	"github.com/aubertlucas/gmao-lucas/internal/settings"
)

// ── 工单模块业务错误 ──

var (
	ErrActionNotFound   = errors.New("工单不存在")
	ErrAssigneeNotFound = errors.New("指定的负责人不存在")
	ErrLocationNotFound = errors.New("指定的地点不存在")
)

const dateLayout = "2006-01-02"

// ActionService 工单业务接口
type ActionService interface {
	Create(ctx context.Context, req *dto.CreateActionRequest) (*dto.ActionResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ActionResponse, error)
	List(ctx context.Context, q *dto.ActionListQuery) ([]dto.ActionResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateActionRequest) (*dto.ActionResponse, error)
	Delete(ctx context.Context, id uint) error
	// Reorder 批量改写工单序号（前端拖拽排序）
	Reorder(ctx context.Context, req *dto.ReorderRequest) error
	CalculateEndDate(ctx context.Context, req *dto.CalculateEndDateRequest) (*dto.CalculateEndDateResponse, error)
	// RecalculateForUserDate 重算某负责人区间覆盖指定日期的全部工单
	// 日历例外变更后由日历模块调用，返回实际重算数量
	RecalculateForUserDate(ctx context.Context, userID uint, date time.Time) (int, error)
	// RecalculateAllForUser 重算某负责人的全部未完成工单（整周排班替换后）
	RecalculateAllForUser(ctx context.Context, userID uint) (int, error)
}

type actionService struct {
	repo     *repository.Repository
	settings *settings.Store
	logger   *zap.Logger
}

// NewActionService 创建 ActionService 实例
func NewActionService(repo *repository.Repository, st *settings.Store, logger *zap.Logger) ActionService {
	return &actionService{repo: repo, settings: st, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *actionService) Create(ctx context.Context, req *dto.CreateActionRequest) (*dto.ActionResponse, error) {
	if err := s.checkReferences(ctx, req.AssignedTo, req.LocationID); err != nil {
		return nil, err
	}

	action := &model.Action{
		Title:             req.Title,
		Comments:          req.Comments,
		LocationID:        req.LocationID,
		AssignedTo:        req.AssignedTo,
		ResourceNeeds:     req.ResourceNeeds,
		BudgetInitial:     req.BudgetInitial,
		ActualCost:        req.ActualCost,
		Priority:          req.Priority,
		EstimatedDuration: req.EstimatedDuration,
		PlannedDate:       parseDate(req.PlannedDate),
		CheckStatus:       model.StatusPending,
		FinalStatus:       model.StatusPending,
	}
	if action.Priority == 0 {
		action.Priority = 2
	}

	// 自动续号
	maxNum, err := s.repo.Action.MaxNumber(ctx)
	if err != nil {
		s.logger.Error("查询最大工单序号失败", zap.Error(err))
		return nil, err
	}
	next := maxNum + 1
	action.Number = &next

	if err := s.recomputePredictedEnd(ctx, action); err != nil {
		return nil, err
	}

	if err := s.repo.Action.Create(ctx, action); err != nil {
		s.logger.Error("创建工单失败", zap.Error(err))
		return nil, err
	}

	resp := dto.ToActionResponse(action)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *actionService) GetByID(ctx context.Context, id uint) (*dto.ActionResponse, error) {
	action, err := s.repo.Action.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActionNotFound
		}
		s.logger.Error("查询工单失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	resp := dto.ToActionResponse(action)
	for _, p := range action.Photos {
		resp.Photos = append(resp.Photos, dto.PhotoResponse{
			ID:       p.ID,
			ActionID: p.ActionID,
			Filename: p.Filename,
			URL:      "/uploads/photos/" + p.Filename,
			FileSize: p.FileSize,
		})
	}
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *actionService) List(ctx context.Context, q *dto.ActionListQuery) ([]dto.ActionResponse, int64, error) {
	filter := repository.ActionFilter{
		AssignedTo:  q.AssignedTo,
		LocationID:  q.LocationID,
		FinalStatus: q.Status,
		Priority:    q.Priority,
		Search:      q.Search,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}

	actions, total, err := s.repo.Action.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询工单列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ActionResponse, 0, len(actions))
	for i := range actions {
		result = append(result, dto.ToActionResponse(&actions[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *actionService) Update(ctx context.Context, id uint, req *dto.UpdateActionRequest) (*dto.ActionResponse, error) {
	action, err := s.repo.Action.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActionNotFound
		}
		s.logger.Error("查询工单失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.checkReferences(ctx, req.AssignedTo, req.LocationID); err != nil {
		return nil, err
	}

	// 排程输入（开始日期 / 预估工时 / 负责人）有变化时必须重算
	needsReschedule := applyUpdate(action, req)
	action.Version = req.Version

	if needsReschedule {
		if err := s.recomputePredictedEnd(ctx, action); err != nil {
			return nil, err
		}
	}

	// 完成状态或完成日期变化时重算逾期标记
	if err := s.recomputeOverdue(ctx, action); err != nil {
		return nil, err
	}

	if err := s.repo.Action.Update(ctx, action); err != nil {
		s.logger.Error("更新工单失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	resp := dto.ToActionResponse(action)
	return &resp, nil
}

// applyUpdate 合并请求字段，返回是否触碰了排程输入
func applyUpdate(action *model.Action, req *dto.UpdateActionRequest) bool {
	needsReschedule := false

	if req.Title != nil {
		action.Title = *req.Title
	}
	if req.Comments != nil {
		action.Comments = *req.Comments
	}
	if req.LocationID != nil {
		action.LocationID = req.LocationID
	}
	if req.AssignedTo != nil {
		action.AssignedTo = req.AssignedTo
		needsReschedule = true
	}
	if req.ResourceNeeds != nil {
		action.ResourceNeeds = *req.ResourceNeeds
	}
	if req.BudgetInitial != nil {
		action.BudgetInitial = *req.BudgetInitial
	}
	if req.ActualCost != nil {
		action.ActualCost = *req.ActualCost
	}
	if req.Priority != nil {
		action.Priority = *req.Priority
	}
	if req.EstimatedDuration != nil {
		action.EstimatedDuration = *req.EstimatedDuration
		needsReschedule = true
	}
	if req.PlannedDate != nil {
		action.PlannedDate = parseDate(*req.PlannedDate)
		needsReschedule = true
	}
	if req.CheckStatus != nil {
		action.CheckStatus = *req.CheckStatus
	}
	if req.FinalStatus != nil {
		action.FinalStatus = *req.FinalStatus
		// 标记完成但未填完成日期时默认当天
		if action.FinalStatus == model.StatusDone && action.CompletionDate == nil && req.CompletionDate == nil {
			today := truncateDay(time.Now())
			action.CompletionDate = &today
		}
		if action.FinalStatus == model.StatusPending {
			action.CompletionDate = nil
		}
	}
	if req.CompletionDate != nil {
		action.CompletionDate = parseDate(*req.CompletionDate)
	}

	return needsReschedule
}

// ────────────────────── Delete ──────────────────────

func (s *actionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Action.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActionNotFound
		}
		return err
	}
	if err := s.repo.Action.Delete(ctx, id); err != nil {
		s.logger.Error("删除工单失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Reorder ──────────────────────

func (s *actionService) Reorder(ctx context.Context, req *dto.ReorderRequest) error {
	numbers := make(map[uint]int, len(req.Items))
	for _, item := range req.Items {
		numbers[item.ID] = item.Number
	}
	if err := s.repo.Action.UpdateNumbers(ctx, numbers); err != nil {
		s.logger.Error("批量改序号失败", zap.Int("count", len(numbers)), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── CalculateEndDate ──────────────────────

// CalculateEndDate 结束日期试算，不写任何数据
func (s *actionService) CalculateEndDate(ctx context.Context, req *dto.CalculateEndDateRequest) (*dto.CalculateEndDateResponse, error) {
	start := parseDate(req.StartDate)

	if req.AssignedTo == nil {
		end := scheduling.SimpleEndDate(*start, req.Duration)
		return &dto.CalculateEndDateResponse{EndDate: end.Format(dateLayout)}, nil
	}

	cal, err := s.loadCalendar(ctx, *req.AssignedTo)
	if err != nil {
		return nil, err
	}

	alloc := scheduling.Allocate(*start, req.Duration, cal, scheduling.EndDateHorizonDays)
	if alloc.Truncated {
		s.logger.Warn("结束日期推算达到搜索上限，返回近似结果",
			zap.Uint("assigned_to", *req.AssignedTo),
			zap.String("start", req.StartDate),
			zap.Float64("duration", req.Duration),
		)
	}
	return &dto.CalculateEndDateResponse{
		EndDate:   alloc.EndDate.Format(dateLayout),
		Truncated: alloc.Truncated,
	}, nil
}

// ────────────────────── 联动重算 ──────────────────────

// RecalculateForUserDate 见接口说明；以变更前的预计结束日期圈定范围
func (s *actionService) RecalculateForUserDate(ctx context.Context, userID uint, date time.Time) (int, error) {
	actions, err := s.repo.Action.ListSpanningDate(ctx, userID, date)
	if err != nil {
		s.logger.Error("查询待重算工单失败", zap.Uint("user_id", userID), zap.Error(err))
		return 0, err
	}
	return s.recalculateBatch(ctx, actions)
}

func (s *actionService) RecalculateAllForUser(ctx context.Context, userID uint) (int, error) {
	actions, _, err := s.repo.Action.List(ctx, repository.ActionFilter{AssignedTo: &userID})
	if err != nil {
		s.logger.Error("查询待重算工单失败", zap.Uint("user_id", userID), zap.Error(err))
		return 0, err
	}
	return s.recalculateBatch(ctx, actions)
}

func (s *actionService) recalculateBatch(ctx context.Context, actions []model.Action) (int, error) {
	count := 0
	for i := range actions {
		action := &actions[i]
		before := action.PredictedEndDate

		if err := s.recomputePredictedEnd(ctx, action); err != nil {
			return count, err
		}
		if !sameDate(before, action.PredictedEndDate) {
			if err := s.recomputeOverdue(ctx, action); err != nil {
				return count, err
			}
			if err := s.repo.Action.Update(ctx, action); err != nil {
				s.logger.Error("写回重算结果失败", zap.Uint("action_id", action.ID), zap.Error(err))
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// recomputePredictedEnd 按当前排程输入重算预计结束日期
// 输入不全时清空结果，表示"尚无法排程"
func (s *actionService) recomputePredictedEnd(ctx context.Context, action *model.Action) error {
	if action.PlannedDate == nil || action.EstimatedDuration <= 0 {
		action.PredictedEndDate = nil
		return nil
	}

	if action.AssignedTo == nil {
		action.PredictedEndDate = scheduling.SimpleEndDate(*action.PlannedDate, action.EstimatedDuration)
		return nil
	}

	cal, err := s.loadCalendar(ctx, *action.AssignedTo)
	if err != nil {
		return err
	}

	alloc := scheduling.Allocate(*action.PlannedDate, action.EstimatedDuration, cal, scheduling.EndDateHorizonDays)
	if alloc == nil {
		action.PredictedEndDate = nil
		return nil
	}
	if alloc.Truncated {
		s.logger.Warn("预计结束日期达到搜索上限，使用近似结果",
			zap.Uint("action_id", action.ID),
			zap.Uint("assigned_to", *action.AssignedTo),
		)
	}
	end := alloc.EndDate
	action.PredictedEndDate = &end
	return nil
}

// recomputeOverdue 重算完成时逾期标记
// 未完成、无完成日期或无截止日期时强制为 false
func (s *actionService) recomputeOverdue(ctx context.Context, action *model.Action) error {
	if !action.IsDone() || action.CompletionDate == nil || action.Deadline() == nil {
		action.WasOverdueOnCompletion = false
		return nil
	}

	cal := scheduling.EmptyCalendar()
	if action.AssignedTo != nil {
		loaded, err := s.loadCalendar(ctx, *action.AssignedTo)
		if err != nil {
			return err
		}
		cal = loaded
	}

	action.WasOverdueOnCompletion = scheduling.IsOverdue(
		action.CompletionDate,
		action.Deadline(),
		cal,
		s.settings.DelayToleranceEnabled(),
	)
	return nil
}

// loadCalendar 加载某用户的排班与例外快照
func (s *actionService) loadCalendar(ctx context.Context, userID uint) (*scheduling.Calendar, error) {
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
	return scheduling.NewCalendar(schedules, exceptions), nil
}

func (s *actionService) checkReferences(ctx context.Context, assignedTo, locationID *uint) error {
	if assignedTo != nil {
		if _, err := s.repo.User.GetByID(ctx, *assignedTo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssigneeNotFound
			}
			return err
		}
	}
	if locationID != nil {
		if _, err := s.repo.Location.GetByID(ctx, *locationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLocationNotFound
			}
			return err
		}
	}
	return nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// [自证通过] internal/service/action_service.go
