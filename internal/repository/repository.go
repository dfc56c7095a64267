package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate of every gorm repository
type Repository struct {
	db         *gorm.DB
	User       UserRepository
	TimeSlot   TimeSlotRepository
	Course     CourseRepository
	Schedule   ScheduleRepository
	Holiday    HolidayRepository
	Attendance AttendanceRepository
}

// NewRepository builds the aggregate on db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		TimeSlot:   NewTimeSlotRepo(db),
		Course:     NewCourseRepo(db),
		Schedule:   NewScheduleRepo(db),
		Holiday:    NewHolidayRepo(db),
		Attendance: NewAttendanceRepo(db),
	}
}

// BeginTx starts a transaction
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx aggregate bound to tx
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}
