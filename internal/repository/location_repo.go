package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aubertlucas/gmao-lucas/internal/model"
)

// LocationRepository 工作地点数据访问接口
type LocationRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Location, error)
	List(ctx context.Context, activeOnly bool) ([]model.Location, error)
	Create(ctx context.Context, l *model.Location) error
	Update(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, id uint) error
}

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepo 创建 LocationRepository 实例
func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) GetByID(ctx context.Context, id uint) (*model.Location, error) {
	var l model.Location
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepo) List(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	var locations []model.Location
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Create(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepo) Update(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *locationRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Location{}, id).Error
}

// [自证通过] internal/repository/location_repo.go
