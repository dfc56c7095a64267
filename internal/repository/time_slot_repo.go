package repository

import (
	"context"

	"gorm.io/gorm"

	"prezz/internal/model"
)

// TimeSlotRepository time_slots
type TimeSlotRepository interface {
	List(ctx context.Context, classCode string) ([]model.TimeSlot, error)
}

type timeSlotRepo struct {
	db *gorm.DB
}

// NewTimeSlotRepo creates a TimeSlotRepository
func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

// List the class's slots plus the campus-wide ones
func (r *timeSlotRepo) List(ctx context.Context, classCode string) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("class_code = ? OR class_code = ''", classCode).
		Order("start_time ASC, id ASC").
		Find(&slots).Error
	return slots, err
}
