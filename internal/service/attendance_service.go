package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"prezz/internal/dto"
	"prezz/internal/engine"
	"prezz/internal/session"
)

// ── attendance errors ──

var (
	ErrNoMarks       = errors.New("no attendance marks to save")
	ErrInvalidStatus = errors.New("status must be present, absent or empty")
)

// AttendanceService attendance writes
type AttendanceService interface {
	// Save upserts the marked items upstream and recomputes stats from the
	// records the source echoes back, never from the request itself
	Save(ctx context.Context, sess *session.Session, items []dto.SaveAttendanceItem) (*SaveResult, error)
}

type attendanceService struct {
	loader *Loader
	source Source
	cal    *engine.Calendar
	policy engine.Policy
	now    func() time.Time
	logger *zap.Logger
}

// NewAttendanceService creates an AttendanceService
func NewAttendanceService(loader *Loader, source Source, cal *engine.Calendar, policy engine.Policy, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		loader: loader,
		source: source,
		cal:    cal,
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// Save
// ════════════════════════════════════════════════════════════
//
// Unmarked items are skipped. Dates are normalised to the institutional
// civil date; a reason survives only on an absence.

func (s *attendanceService) Save(ctx context.Context, sess *session.Session, items []dto.SaveAttendanceItem) (*SaveResult, error) {
	if !sess.IsStudent() {
		return nil, ErrStudentOnly
	}

	payload, err := s.payload(items)
	if err != nil {
		return nil, err
	}

	snap, err := s.loader.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	echo, err := s.source.SaveAttendance(ctx, sess, payload)
	if err != nil {
		s.logger.Error("save attendance failed",
			zap.Int64("user_id", sess.UserID),
			zap.Int("records", len(payload)),
			zap.Error(err),
		)
		return nil, err
	}

	saved, issues := s.loader.Normalizer().Records(echo)
	for _, is := range issues {
		s.logger.Warn("dropped malformed echoed record", zap.Int64("id", is.ID), zap.String("reason", is.Reason))
	}
	s.loader.MergeRecords(ctx, snap, saved)

	s.logger.Info("attendance saved",
		zap.Int64("user_id", sess.UserID),
		zap.Int("sent", len(payload)),
		zap.Int("echoed", len(saved)),
	)

	if saved == nil {
		saved = []engine.AttendanceRecord{}
	}
	return &SaveResult{
		Saved: saved,
		Stats: buildStats(s.policy, snap, s.cal.Today(s.now())),
	}, nil
}

func (s *attendanceService) payload(items []dto.SaveAttendanceItem) ([]dto.AttendanceRecord, error) {
	out := make([]dto.AttendanceRecord, 0, len(items))
	for _, it := range items {
		status := engine.Status(strings.TrimSpace(it.Status))
		switch status {
		case engine.StatusUnmarked:
			continue
		case engine.StatusPresent, engine.StatusAbsent:
		default:
			return nil, ErrInvalidStatus
		}

		day := s.cal.Normalize(it.Date)
		if !day.Valid() {
			return nil, ErrInvalidDate
		}

		rec := dto.AttendanceRecord{ClassID: it.ClassID, Date: day.String(), Status: string(status)}
		if status == engine.StatusAbsent {
			if reason := strings.TrimSpace(it.Reason); reason != "" {
				rec.Reason = &reason
			}
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, ErrNoMarks
	}
	return out, nil
}
