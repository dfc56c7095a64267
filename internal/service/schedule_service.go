package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"prezz/internal/dto"
	"prezz/internal/engine"
	"prezz/internal/session"
)

// ── schedule errors ──

var (
	ErrRoleNotAllowed = errors.New("operation not allowed for this role")
	ErrOwnerRequired  = errors.New("exactly one of subject_id and elective_id is required")
	ErrOwnerMismatch  = errors.New("class representatives manage subjects, elective representatives electives")
	ErrInvalidWeekday = errors.New("invalid day_of_week")
	ErrInvalidRange   = errors.New("start_date must not be after end_date")
)

// ScheduleService timetable edits by class representatives. Every successful
// edit moves the snapshot version so later reads re-fetch.
type ScheduleService interface {
	Create(ctx context.Context, sess *session.Session, req *dto.CreateScheduleRequest) (*dto.ScheduleEntry, error)
	// Cancel records a canceled one-off entry for (date, slot, owner)
	Cancel(ctx context.Context, sess *session.Session, req *dto.CancelClassRequest) (*dto.ScheduleEntry, error)
	Delete(ctx context.Context, sess *session.Session, id int64) error
	CreateHoliday(ctx context.Context, sess *session.Session, req *dto.CreateHolidayRequest) (*dto.Holiday, error)
	DeleteHoliday(ctx context.Context, sess *session.Session, id int64) error
}

type scheduleService struct {
	loader *Loader
	source Source
	cal    *engine.Calendar
	logger *zap.Logger
}

// NewScheduleService creates a ScheduleService
func NewScheduleService(loader *Loader, source Source, cal *engine.Calendar, logger *zap.Logger) ScheduleService {
	return &scheduleService{loader: loader, source: source, cal: cal, logger: logger}
}

// checkOwner exactly one owner, and the one the caller's role manages
func checkOwner(sess *session.Session, subjectID, electiveID *int64) (engine.Owner, error) {
	var owner engine.Owner
	if subjectID != nil {
		owner.SubjectID = *subjectID
	}
	if electiveID != nil {
		owner.ElectiveID = *electiveID
	}
	if !owner.Valid() {
		return owner, ErrOwnerRequired
	}
	switch sess.Role {
	case session.RoleCR:
		if owner.IsElective() {
			return owner, ErrOwnerMismatch
		}
	case session.RoleElectiveCR:
		if !owner.IsElective() {
			return owner, ErrOwnerMismatch
		}
	default:
		return owner, ErrRoleNotAllowed
	}
	return owner, nil
}

// ════════════════════════════════════════════════════════════
// Create
// ════════════════════════════════════════════════════════════
//
// A specific_date makes a one-off entry; without it day_of_week and the
// date range describe a weekly series.

func (s *scheduleService) Create(ctx context.Context, sess *session.Session, req *dto.CreateScheduleRequest) (*dto.ScheduleEntry, error) {
	owner, err := checkOwner(sess, req.SubjectID, req.ElectiveID)
	if err != nil {
		return nil, err
	}

	entry := dto.ScheduleEntry{
		SubjectID:  req.SubjectID,
		ElectiveID: req.ElectiveID,
		TimeSlotID: req.TimeSlotID,
		Canceled:   req.Canceled,
	}

	if req.SpecificDate != "" {
		day := s.cal.Normalize(req.SpecificDate)
		if !day.Valid() {
			return nil, ErrInvalidDate
		}
		entry.SpecificDate = day.String()
	} else {
		wd, ok := engine.ParseWeekday(req.DayOfWeek)
		if !ok {
			return nil, ErrInvalidWeekday
		}
		span := engine.DateRange{Start: s.cal.Normalize(req.StartDate), End: s.cal.Normalize(req.EndDate)}
		if !span.Start.Valid() || !span.End.Valid() {
			return nil, ErrInvalidDate
		}
		if !span.Valid() {
			return nil, ErrInvalidRange
		}
		entry.DayOfWeek = wd.String()
		entry.StartDate = span.Start.String()
		entry.EndDate = span.End.String()
	}

	created, err := s.source.CreateSchedule(ctx, sess, entry)
	if err != nil {
		s.logger.Error("create schedule failed", zap.String("owner", owner.String()), zap.Error(err))
		return nil, err
	}
	s.loader.Invalidate(ctx, sess, owner.IsElective())

	s.logger.Info("schedule created",
		zap.Int64("id", created.ID),
		zap.String("owner", owner.String()),
		zap.Int64("by", sess.UserID),
	)
	return created, nil
}

// ════════════════════════════════════════════════════════════
// Cancel
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Cancel(ctx context.Context, sess *session.Session, req *dto.CancelClassRequest) (*dto.ScheduleEntry, error) {
	return s.Create(ctx, sess, &dto.CreateScheduleRequest{
		SubjectID:    req.SubjectID,
		ElectiveID:   req.ElectiveID,
		SpecificDate: req.Date,
		TimeSlotID:   req.TimeSlotID,
		Canceled:     true,
	})
}

// ════════════════════════════════════════════════════════════
// Delete
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Delete(ctx context.Context, sess *session.Session, id int64) error {
	if sess.IsStudent() {
		return ErrRoleNotAllowed
	}
	if err := s.source.DeleteSchedule(ctx, sess, id); err != nil {
		return err
	}
	s.loader.Invalidate(ctx, sess, sess.ManagesElectives())
	s.logger.Info("schedule deleted", zap.Int64("id", id), zap.Int64("by", sess.UserID))
	return nil
}

// ════════════════════════════════════════════════════════════
// Holidays
// ════════════════════════════════════════════════════════════

func (s *scheduleService) CreateHoliday(ctx context.Context, sess *session.Session, req *dto.CreateHolidayRequest) (*dto.Holiday, error) {
	if sess.Role != session.RoleCR {
		return nil, ErrRoleNotAllowed
	}
	day := s.cal.Normalize(req.Date)
	if !day.Valid() {
		return nil, ErrInvalidDate
	}

	created, err := s.source.CreateHoliday(ctx, sess, dto.Holiday{HolidayDate: day.String(), Description: req.Description})
	if err != nil {
		s.logger.Error("create holiday failed", zap.String("date", day.String()), zap.Error(err))
		return nil, err
	}
	s.loader.Invalidate(ctx, sess, false)
	return created, nil
}

func (s *scheduleService) DeleteHoliday(ctx context.Context, sess *session.Session, id int64) error {
	if sess.Role != session.RoleCR {
		return ErrRoleNotAllowed
	}
	if err := s.source.DeleteHoliday(ctx, sess, id); err != nil {
		return err
	}
	s.loader.Invalidate(ctx, sess, false)
	return nil
}
