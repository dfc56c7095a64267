package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"prezz/internal/engine"
	"prezz/internal/session"
)

// ── dashboard errors ──

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrStudentOnly = errors.New("only students have attendance")
)

// DashboardService read-only views over a caller's snapshot
type DashboardService interface {
	// Week grid of the Monday-start week containing anchor ("" is today)
	Week(ctx context.Context, sess *session.Session, anchor string) (*WeekView, error)
	// ClassesOn effective classes of date ("" is today) with the caller's marks
	ClassesOn(ctx context.Context, sess *session.Session, date string) (*DayView, error)
	// Stats per-subject attendance as of today ("" is the real today)
	Stats(ctx context.Context, sess *session.Session, today string) (*StatsView, error)
	// Daily per-date percentages and the calendar highlight map
	Daily(ctx context.Context, sess *session.Session, today string) (*DailyView, error)
	// Reasons selectable absence reasons
	Reasons(ctx context.Context, sess *session.Session) ([]string, error)
}

type dashboardService struct {
	loader *Loader
	source Source
	cal    *engine.Calendar
	policy engine.Policy
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardService creates a DashboardService
func NewDashboardService(loader *Loader, source Source, cal *engine.Calendar, policy engine.Policy, logger *zap.Logger) DashboardService {
	return &dashboardService{
		loader: loader,
		source: source,
		cal:    cal,
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
}

// dateOrToday parses q in the institutional zone; "" is today
func dateOrToday(cal *engine.Calendar, now func() time.Time, q string) (engine.DateKey, error) {
	if q == "" {
		return cal.Today(now()), nil
	}
	k := cal.Normalize(q)
	if !k.Valid() {
		return "", ErrInvalidDate
	}
	return k, nil
}

// ════════════════════════════════════════════════════════════
// Week
// ════════════════════════════════════════════════════════════

func (s *dashboardService) Week(ctx context.Context, sess *session.Session, anchor string) (*WeekView, error) {
	at, err := dateOrToday(s.cal, s.now, anchor)
	if err != nil {
		return nil, err
	}
	snap, err := s.loader.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	window := engine.WeekWindow(at)
	return &WeekView{
		Anchor: at,
		Start:  window[0],
		End:    window[6],
		Today:  s.cal.Today(s.now()),
		Slots:  slotViews(snap.Data.Slots),
		Days:   engine.BuildWeek(window, snap.Data.Slots, snap.Data.Entries, snap.Data.Holidays),
	}, nil
}

// ════════════════════════════════════════════════════════════
// ClassesOn
// ════════════════════════════════════════════════════════════

func (s *dashboardService) ClassesOn(ctx context.Context, sess *session.Session, date string) (*DayView, error) {
	day, err := dateOrToday(s.cal, s.now, date)
	if err != nil {
		return nil, err
	}
	snap, err := s.loader.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	view := &DayView{Date: day, Classes: []ClassView{}}
	if h, ok := engine.NewHolidaySet(snap.Data.Holidays)[day]; ok {
		view.Holiday = &h
		return view, nil
	}

	idx := engine.IndexRecords(snap.Data.Records)
	for _, c := range engine.ClassesOn(day, snap.Data.Slots, snap.Data.Entries, snap.Data.Holidays) {
		cv := ClassView{ScheduledClass: c}
		if r, ok := idx[engine.RecordKey{ClassID: c.ClassID, Date: day}]; ok {
			cv.Status = r.Status
			cv.Reason = r.Reason
		}
		view.Classes = append(view.Classes, cv)
	}
	return view, nil
}

// ════════════════════════════════════════════════════════════
// Stats
// ════════════════════════════════════════════════════════════

func (s *dashboardService) Stats(ctx context.Context, sess *session.Session, today string) (*StatsView, error) {
	if !sess.IsStudent() {
		return nil, ErrStudentOnly
	}
	at, err := dateOrToday(s.cal, s.now, today)
	if err != nil {
		return nil, err
	}
	snap, err := s.loader.Load(ctx, sess)
	if err != nil {
		return nil, err
	}
	return buildStats(s.policy, snap, at), nil
}

func buildStats(policy engine.Policy, snap *Snapshot, today engine.DateKey) *StatsView {
	stats := policy.ComputeAll(snap.Subjects, snap.Data.Entries, snap.Data.Records, snap.Data.Holidays, snap.Semester, today)
	if stats == nil {
		stats = []engine.SubjectStats{}
	}
	return &StatsView{
		Today:            today,
		Semester:         snap.Semester,
		ThresholdPercent: policy.ThresholdPercent,
		Subjects:         stats,
	}
}

// ════════════════════════════════════════════════════════════
// Daily
// ════════════════════════════════════════════════════════════

func (s *dashboardService) Daily(ctx context.Context, sess *session.Session, today string) (*DailyView, error) {
	if !sess.IsStudent() {
		return nil, ErrStudentOnly
	}
	at, err := dateOrToday(s.cal, s.now, today)
	if err != nil {
		return nil, err
	}
	snap, err := s.loader.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	daily := s.policy.DailyStats(snap.Data.Entries, snap.Data.Records, snap.Data.Holidays, snap.Semester, at)
	if daily == nil {
		daily = []engine.DailyStat{}
	}
	return &DailyView{
		Today:      at,
		Days:       daily,
		Highlights: engine.Highlights(daily, snap.Data.Holidays, snap.Semester),
	}, nil
}

// ════════════════════════════════════════════════════════════
// Reasons
// ════════════════════════════════════════════════════════════

// Reasons falls back to DefaultAbsenceReasons when the source has none
func (s *dashboardService) Reasons(ctx context.Context, sess *session.Session) ([]string, error) {
	reasons, err := s.source.ListAbsenceReasons(ctx, sess)
	if err != nil {
		s.logger.Warn("absence reasons unavailable, using defaults", zap.Error(err))
	}
	if len(reasons) == 0 {
		reasons = append([]string(nil), DefaultAbsenceReasons...)
	}
	return reasons, nil
}
