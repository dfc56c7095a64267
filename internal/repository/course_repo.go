package repository

import (
	"context"

	"gorm.io/gorm"

	"prezz/internal/model"
)

// CourseRepository subjects, electives and enrollments
type CourseRepository interface {
	ListSubjects(ctx context.Context, classCode string) ([]model.Subject, error)
	ListEnrollments(ctx context.Context, userID int64) ([]model.ElectiveEnrollment, error)
	ListManagedElectives(ctx context.Context, crUserID int64) ([]model.Elective, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) ListSubjects(ctx context.Context, classCode string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("class_code = ?", classCode).
		Order("id ASC").
		Find(&subjects).Error
	return subjects, err
}

// ListEnrollments every enrollment of the user with its elective, any status
func (r *courseRepo) ListEnrollments(ctx context.Context, userID int64) ([]model.ElectiveEnrollment, error) {
	var enrollments []model.ElectiveEnrollment
	err := r.db.WithContext(ctx).
		Preload("Elective").
		Where("user_id = ?", userID).
		Order("elective_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *courseRepo) ListManagedElectives(ctx context.Context, crUserID int64) ([]model.Elective, error) {
	var electives []model.Elective
	err := r.db.WithContext(ctx).
		Where("cr_user_id = ?", crUserID).
		Order("id ASC").
		Find(&electives).Error
	return electives, err
}
