package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prezz/internal/model"
)

// AttendanceRepository attendance
type AttendanceRepository interface {
	ListByUser(ctx context.Context, userID int64, start, end *time.Time) ([]model.Attendance, error)
	Upsert(ctx context.Context, rows []model.Attendance) ([]model.Attendance, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

// ListByUser marks of one user; nil bounds are open
func (r *attendanceRepo) ListByUser(ctx context.Context, userID int64, start, end *time.Time) ([]model.Attendance, error) {
	var rows []model.Attendance
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if start != nil {
		db = db.Where("date >= ?", *start)
	}
	if end != nil {
		db = db.Where("date <= ?", *end)
	}
	err := db.Order("date ASC, class_id ASC").Find(&rows).Error
	return rows, err
}

// Upsert inserts or overwrites by (user_id, class_id, date) and returns the
// stored rows, which is what callers must reconcile against.
func (r *attendanceRepo) Upsert(ctx context.Context, rows []model.Attendance) ([]model.Attendance, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "class_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "reason", "updated_at"}),
		}, clause.Returning{}).
		Create(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
