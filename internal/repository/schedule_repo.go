package repository

import (
	"context"

	"gorm.io/gorm"

	"prezz/internal/model"
)

// ScheduleRepository class_schedules
type ScheduleRepository interface {
	ListForClass(ctx context.Context, classCode string) ([]model.ClassSchedule, error)
	ListForElectives(ctx context.Context, electiveIDs []int64) ([]model.ClassSchedule, error)
	GetByID(ctx context.Context, id int64) (*model.ClassSchedule, error)
	Create(ctx context.Context, s *model.ClassSchedule) error
	Delete(ctx context.Context, id int64) error
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo creates a ScheduleRepository
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

// ListForClass regular subject entries of a class, in id order
func (r *scheduleRepo) ListForClass(ctx context.Context, classCode string) ([]model.ClassSchedule, error) {
	var rows []model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("class_code = ? AND subject_id IS NOT NULL", classCode).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListForElectives entries of the given electives, in id order
func (r *scheduleRepo) ListForElectives(ctx context.Context, electiveIDs []int64) ([]model.ClassSchedule, error) {
	if len(electiveIDs) == 0 {
		return nil, nil
	}
	var rows []model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Elective").
		Where("elective_id IN ?", electiveIDs).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *scheduleRepo) GetByID(ctx context.Context, id int64) (*model.ClassSchedule, error) {
	var row model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Elective").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *scheduleRepo) Create(ctx context.Context, s *model.ClassSchedule) error {
	return r.db.WithContext(ctx).Omit("Subject", "Elective").Create(s).Error
}

func (r *scheduleRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ClassSchedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
