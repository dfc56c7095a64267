package service

import (
	"context"

	"prezz/internal/dto"
	"prezz/internal/session"
)

// Source the system of record behind every view. Implementations map their
// failures onto the sentinels of prezz/pkg/errors.
//
// Two implementations ship: backend.Client (REST, the token is forwarded) and
// NewRepositorySource (direct Postgres access through the gorm repositories).
type Source interface {
	ListTimeSlots(ctx context.Context, sess *session.Session) ([]dto.TimeSlot, error)
	ListClassSchedules(ctx context.Context, sess *session.Session) ([]dto.ScheduleEntry, error)
	ListElectiveSchedules(ctx context.Context, sess *session.Session) ([]dto.ScheduleEntry, error)
	ListHolidays(ctx context.Context, sess *session.Session) ([]dto.Holiday, error)
	ListAttendance(ctx context.Context, sess *session.Session, start, end string) ([]dto.AttendanceRecord, error)
	ListAbsenceReasons(ctx context.Context, sess *session.Session) ([]string, error)
	GetProfile(ctx context.Context, sess *session.Session) (*dto.Profile, error)
	ListSubjects(ctx context.Context, sess *session.Session) ([]dto.Subject, error)
	ListElectives(ctx context.Context, sess *session.Session) ([]dto.Elective, error)

	SaveAttendance(ctx context.Context, sess *session.Session, records []dto.AttendanceRecord) ([]dto.AttendanceRecord, error)
	CreateSchedule(ctx context.Context, sess *session.Session, entry dto.ScheduleEntry) (*dto.ScheduleEntry, error)
	DeleteSchedule(ctx context.Context, sess *session.Session, id int64) error
	CreateHoliday(ctx context.Context, sess *session.Session, h dto.Holiday) (*dto.Holiday, error)
	DeleteHoliday(ctx context.Context, sess *session.Session, id int64) error
}
