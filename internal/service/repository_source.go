package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prezz/internal/dto"
	"prezz/internal/model"
	"prezz/internal/repository"
	"prezz/internal/session"
	pkgerrors "prezz/pkg/errors"
)

// DefaultAbsenceReasons offered when no reason catalogue is configured
var DefaultAbsenceReasons = []string{"Health Issue", "Placement Drive"}

type repositorySource struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRepositorySource Source reading and writing Postgres directly. Ownership
// checks the REST backend would make are made here instead.
func NewRepositorySource(repo *repository.Repository, logger *zap.Logger) Source {
	return &repositorySource{repo: repo, logger: logger}
}

// storeErr maps a repository failure onto the shared sentinels
func (s *repositorySource) storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.ErrNotFound
	}
	s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", pkgerrors.ErrUpstreamUnavailable, op, err)
}

func rejected(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", pkgerrors.ErrUpstreamRejected, fmt.Sprintf(format, args...))
}

// ════════════════════════════════════════════════════════════
// Reads
// ════════════════════════════════════════════════════════════

func (s *repositorySource) ListTimeSlots(ctx context.Context, sess *session.Session) ([]dto.TimeSlot, error) {
	rows, err := s.repo.TimeSlot.List(ctx, sess.ClassCode)
	if err != nil {
		return nil, s.storeErr("list time slots", err)
	}
	out := make([]dto.TimeSlot, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TimeSlot{ID: r.ID, StartTime: r.StartTime, EndTime: r.EndTime})
	}
	return out, nil
}

func (s *repositorySource) ListClassSchedules(ctx context.Context, sess *session.Session) ([]dto.ScheduleEntry, error) {
	rows, err := s.repo.Schedule.ListForClass(ctx, sess.ClassCode)
	if err != nil {
		return nil, s.storeErr("list class schedules", err)
	}
	return toScheduleEntries(rows), nil
}

// ListElectiveSchedules students see their enrolled electives, elective
// representatives the electives they manage; class representatives none.
func (s *repositorySource) ListElectiveSchedules(ctx context.Context, sess *session.Session) ([]dto.ScheduleEntry, error) {
	ids, err := s.electiveIDs(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.ScheduleEntry{}, nil
	}
	rows, err := s.repo.Schedule.ListForElectives(ctx, ids)
	if err != nil {
		return nil, s.storeErr("list elective schedules", err)
	}
	return toScheduleEntries(rows), nil
}

func (s *repositorySource) electiveIDs(ctx context.Context, sess *session.Session) ([]int64, error) {
	switch sess.Role {
	case session.RoleStudent:
		enrollments, err := s.repo.Course.ListEnrollments(ctx, sess.UserID)
		if err != nil {
			return nil, s.storeErr("list enrollments", err)
		}
		var ids []int64
		for _, e := range enrollments {
			if e.Status == dto.ElectiveEnrolled {
				ids = append(ids, e.ElectiveID)
			}
		}
		return ids, nil
	case session.RoleElectiveCR:
		electives, err := s.repo.Course.ListManagedElectives(ctx, sess.UserID)
		if err != nil {
			return nil, s.storeErr("list managed electives", err)
		}
		ids := make([]int64, 0, len(electives))
		for _, e := range electives {
			ids = append(ids, e.ID)
		}
		return ids, nil
	default:
		return nil, nil
	}
}

func (s *repositorySource) ListHolidays(ctx context.Context, sess *session.Session) ([]dto.Holiday, error) {
	rows, err := s.repo.Holiday.List(ctx, sess.ClassCode)
	if err != nil {
		return nil, s.storeErr("list holidays", err)
	}
	out := make([]dto.Holiday, 0, len(rows))
	for _, h := range rows {
		out = append(out, toHoliday(h))
	}
	return out, nil
}

func (s *repositorySource) ListAttendance(ctx context.Context, sess *session.Session, start, end string) ([]dto.AttendanceRecord, error) {
	from, err := model.ParseDate(start)
	if err != nil {
		return nil, rejected("invalid start_date %q", start)
	}
	to, err := model.ParseDate(end)
	if err != nil {
		return nil, rejected("invalid end_date %q", end)
	}
	rows, err := s.repo.Attendance.ListByUser(ctx, sess.UserID, from, to)
	if err != nil {
		return nil, s.storeErr("list attendance", err)
	}
	return toRecords(rows), nil
}

func (s *repositorySource) ListAbsenceReasons(_ context.Context, _ *session.Session) ([]string, error) {
	out := make([]string, len(DefaultAbsenceReasons))
	copy(out, DefaultAbsenceReasons)
	return out, nil
}

func (s *repositorySource) GetProfile(ctx context.Context, sess *session.Session) (*dto.Profile, error) {
	u, err := s.repo.User.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, s.storeErr("get profile", err)
	}
	return &dto.Profile{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		ClassCode:         u.ClassCode,
		Semester:          u.Semester,
		SemesterStartDate: model.FormatDate(u.SemesterStartDate),
		SemesterEndDate:   model.FormatDate(u.SemesterEndDate),
	}, nil
}

func (s *repositorySource) ListSubjects(ctx context.Context, sess *session.Session) ([]dto.Subject, error) {
	rows, err := s.repo.Course.ListSubjects(ctx, sess.ClassCode)
	if err != nil {
		return nil, s.storeErr("list subjects", err)
	}
	out := make([]dto.Subject, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.Subject{ID: r.ID, Name: r.Name, Professor: r.Professor})
	}
	return out, nil
}

func (s *repositorySource) ListElectives(ctx context.Context, sess *session.Session) ([]dto.Elective, error) {
	enrollments, err := s.repo.Course.ListEnrollments(ctx, sess.UserID)
	if err != nil {
		return nil, s.storeErr("list enrollments", err)
	}
	out := make([]dto.Elective, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Elective == nil {
			continue
		}
		out = append(out, dto.Elective{
			ID:        e.Elective.ID,
			Name:      e.Elective.Name,
			Professor: e.Elective.Professor,
			IsOpen:    e.Elective.IsOpen,
			Status:    e.Status,
		})
	}
	return out, nil
}

// ════════════════════════════════════════════════════════════
// Writes
// ════════════════════════════════════════════════════════════

// SaveAttendance upserts every record in one transaction
func (s *repositorySource) SaveAttendance(ctx context.Context, sess *session.Session, records []dto.AttendanceRecord) ([]dto.AttendanceRecord, error) {
	rows := make([]model.Attendance, 0, len(records))
	for _, r := range records {
		day, err := model.ParseDate(r.Date)
		if err != nil || day == nil {
			return nil, rejected("invalid date %q", r.Date)
		}
		if r.Status != "present" && r.Status != "absent" {
			return nil, rejected("invalid status %q", r.Status)
		}
		row := model.Attendance{UserID: sess.UserID, ClassID: r.ClassID, Date: *day, Status: r.Status}
		if r.Status == "absent" {
			row.Reason = r.Reason
		}
		rows = append(rows, row)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, s.storeErr("begin tx", err)
	}
	stored, err := s.repo.WithTx(tx).Attendance.Upsert(ctx, rows)
	if err != nil {
		tx.Rollback()
		return nil, s.storeErr("upsert attendance", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, s.storeErr("commit attendance", err)
	}
	return toRecords(stored), nil
}

func (s *repositorySource) CreateSchedule(ctx context.Context, sess *session.Session, entry dto.ScheduleEntry) (*dto.ScheduleEntry, error) {
	if err := s.checkOwner(ctx, sess, entry.SubjectID, entry.ElectiveID); err != nil {
		return nil, err
	}

	row := &model.ClassSchedule{
		ClassCode:  sess.ClassCode,
		SubjectID:  entry.SubjectID,
		ElectiveID: entry.ElectiveID,
		TimeSlotID: entry.TimeSlotID,
		Canceled:   entry.Canceled,
	}
	var err error
	if row.SpecificDate, err = model.ParseDate(entry.SpecificDate); err != nil {
		return nil, rejected("invalid specific_date %q", entry.SpecificDate)
	}
	if row.SpecificDate == nil {
		if entry.DayOfWeek == "" {
			return nil, rejected("day_of_week is required for a weekly entry")
		}
		day := entry.DayOfWeek
		row.DayOfWeek = &day
		if row.StartDate, err = model.ParseDate(entry.StartDate); err != nil || row.StartDate == nil {
			return nil, rejected("invalid start_date %q", entry.StartDate)
		}
		if row.EndDate, err = model.ParseDate(entry.EndDate); err != nil || row.EndDate == nil {
			return nil, rejected("invalid end_date %q", entry.EndDate)
		}
	}

	if err := s.repo.Schedule.Create(ctx, row); err != nil {
		return nil, s.storeErr("create schedule", err)
	}
	created, err := s.repo.Schedule.GetByID(ctx, row.ID)
	if err != nil {
		return nil, s.storeErr("reload schedule", err)
	}
	out := toScheduleEntry(*created)
	return &out, nil
}

// checkOwner a subject must belong to the caller's class, an elective must be
// managed by the caller
func (s *repositorySource) checkOwner(ctx context.Context, sess *session.Session, subjectID, electiveID *int64) error {
	switch {
	case electiveID != nil:
		managed, err := s.repo.Course.ListManagedElectives(ctx, sess.UserID)
		if err != nil {
			return s.storeErr("list managed electives", err)
		}
		for _, e := range managed {
			if e.ID == *electiveID {
				return nil
			}
		}
		return rejected("elective %d is not managed by this account", *electiveID)
	case subjectID != nil:
		subjects, err := s.repo.Course.ListSubjects(ctx, sess.ClassCode)
		if err != nil {
			return s.storeErr("list subjects", err)
		}
		for _, sub := range subjects {
			if sub.ID == *subjectID {
				return nil
			}
		}
		return rejected("subject %d does not belong to class %s", *subjectID, sess.ClassCode)
	default:
		return rejected("subject_id or elective_id is required")
	}
}

func (s *repositorySource) DeleteSchedule(ctx context.Context, sess *session.Session, id int64) error {
	row, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		return s.storeErr("get schedule", err)
	}
	if row.ElectiveID == nil && row.ClassCode != sess.ClassCode {
		return pkgerrors.ErrNotFound
	}
	if err := s.checkOwner(ctx, sess, row.SubjectID, row.ElectiveID); err != nil {
		return err
	}
	if err := s.repo.Schedule.Delete(ctx, id); err != nil {
		return s.storeErr("delete schedule", err)
	}
	return nil
}

func (s *repositorySource) CreateHoliday(ctx context.Context, sess *session.Session, h dto.Holiday) (*dto.Holiday, error) {
	day, err := model.ParseDate(h.HolidayDate)
	if err != nil || day == nil {
		return nil, rejected("invalid holiday_date %q", h.HolidayDate)
	}
	row := &model.Holiday{ClassCode: sess.ClassCode, HolidayDate: *day, Description: h.Description}
	if err := s.repo.Holiday.Create(ctx, row); err != nil {
		return nil, s.storeErr("create holiday", err)
	}
	out := toHoliday(*row)
	return &out, nil
}

func (s *repositorySource) DeleteHoliday(ctx context.Context, sess *session.Session, id int64) error {
	row, err := s.repo.Holiday.GetByID(ctx, id)
	if err != nil {
		return s.storeErr("get holiday", err)
	}
	// campus-wide holidays are not owned by any class
	if row.ClassCode != sess.ClassCode {
		return pkgerrors.ErrNotFound
	}
	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		return s.storeErr("delete holiday", err)
	}
	return nil
}

// ── conversions ──

func toScheduleEntries(rows []model.ClassSchedule) []dto.ScheduleEntry {
	out := make([]dto.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, toScheduleEntry(r))
	}
	return out
}

func toScheduleEntry(r model.ClassSchedule) dto.ScheduleEntry {
	e := dto.ScheduleEntry{
		ID:           r.ID,
		SubjectID:    r.SubjectID,
		ElectiveID:   r.ElectiveID,
		StartDate:    model.FormatDate(r.StartDate),
		EndDate:      model.FormatDate(r.EndDate),
		SpecificDate: model.FormatDate(r.SpecificDate),
		TimeSlotID:   r.TimeSlotID,
		Canceled:     r.Canceled,
	}
	if r.DayOfWeek != nil {
		e.DayOfWeek = *r.DayOfWeek
	}
	if r.Subject != nil {
		e.SubjectName = r.Subject.Name
		e.ProfessorName = r.Subject.Professor
	}
	if r.Elective != nil {
		e.ElectiveName = r.Elective.Name
		e.ProfessorName = r.Elective.Professor
	}
	return e
}

func toHoliday(h model.Holiday) dto.Holiday {
	return dto.Holiday{ID: h.ID, HolidayDate: model.FormatDate(&h.HolidayDate), Description: h.Description}
}

func toRecords(rows []model.Attendance) []dto.AttendanceRecord {
	out := make([]dto.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		day := model.FormatDate(&r.Date)
		out = append(out, dto.AttendanceRecord{
			ClassID: r.ClassID,
			Date:    day,
			DateStr: day,
			Status:  r.Status,
			Reason:  r.Reason,
		})
	}
	return out
}
