package repository

import (
	"context"

	"gorm.io/gorm"

	"prezz/internal/model"
)

// HolidayRepository holidays
type HolidayRepository interface {
	List(ctx context.Context, classCode string) ([]model.Holiday, error)
	Create(ctx context.Context, h *model.Holiday) error
	GetByID(ctx context.Context, id int64) (*model.Holiday, error)
	Delete(ctx context.Context, id int64) error
}

type holidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo creates a HolidayRepository
func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

// List the class's holidays plus campus-wide ones
func (r *holidayRepo) List(ctx context.Context, classCode string) ([]model.Holiday, error) {
	var rows []model.Holiday
	err := r.db.WithContext(ctx).
		Where("class_code = ? OR class_code = ''", classCode).
		Order("holiday_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *holidayRepo) Create(ctx context.Context, h *model.Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *holidayRepo) GetByID(ctx context.Context, id int64) (*model.Holiday, error) {
	var h model.Holiday
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *holidayRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Holiday{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
