package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prezz/internal/dto"
	"prezz/internal/engine"
	"prezz/internal/session"
)

// electiveVersionKey electives span classes, so their changes are versioned
// separately from any one class
const electiveVersionKey = "snapshot:version:electives"

// SnapshotCache versioned JSON cache. *redis.Client satisfies it; a nil
// cache disables caching.
type SnapshotCache interface {
	Load(ctx context.Context, key string, dst interface{}) (bool, error)
	Store(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Version(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}

// Snapshot everything one caller's views are computed from, already normalised
type Snapshot struct {
	Profile  dto.Profile      `json:"profile"`
	Semester engine.DateRange `json:"semester"`
	Data     engine.Snapshot  `json:"data"`
	Subjects []engine.Subject `json:"subjects"`

	key string
}

// Loader fetches a caller's snapshot from the Source in one parallel batch
// and keeps it in the cache until the class or elective version moves.
type Loader struct {
	source Source
	cache  SnapshotCache
	ttl    time.Duration
	norm   *engine.Normalizer
	logger *zap.Logger

	// writeMu serialises read-merge-store of attendance write-backs
	writeMu sync.Mutex
}

// NewLoader creates a Loader; cache may be nil
func NewLoader(source Source, cache SnapshotCache, ttl time.Duration, cal *engine.Calendar, logger *zap.Logger) *Loader {
	return &Loader{
		source: source,
		cache:  cache,
		ttl:    ttl,
		norm:   engine.NewNormalizer(cal),
		logger: logger,
	}
}

// Load cached snapshot of sess, fetched on a miss
func (l *Loader) Load(ctx context.Context, sess *session.Session) (*Snapshot, error) {
	key := l.cacheKey(ctx, sess)
	if key != "" {
		var snap Snapshot
		ok, err := l.cache.Load(ctx, key, &snap)
		if err != nil {
			l.logger.Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			snap.key = key
			return &snap, nil
		}
	}

	snap, err := l.fetch(ctx, sess)
	if err != nil {
		return nil, err
	}
	snap.key = key
	l.store(ctx, snap)
	return snap, nil
}

// MergeRecords merges echoed records into the snapshot cached under snap's
// key, re-read right before the write so concurrent saves of one caller do
// not drop each other's echo. snap ends up holding the merged records.
func (l *Loader) MergeRecords(ctx context.Context, snap *Snapshot, echo []engine.AttendanceRecord) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	base := snap.Data.Records
	if l.cache != nil && snap.key != "" {
		var current Snapshot
		ok, err := l.cache.Load(ctx, snap.key, &current)
		if err != nil {
			l.logger.Warn("snapshot cache read failed", zap.String("key", snap.key), zap.Error(err))
		} else if ok {
			base = current.Data.Records
		}
	}
	snap.Data.Records = engine.MergeRecords(base, echo)
	l.store(ctx, snap)
}

// Invalidate moves the class version, and the elective version when
// electives changed, so every cached snapshot keyed on them is skipped
func (l *Loader) Invalidate(ctx context.Context, sess *session.Session, electives bool) {
	if l.cache == nil {
		return
	}
	keys := []string{sess.ClassVersionKey()}
	if electives {
		keys = append(keys, electiveVersionKey)
	}
	for _, k := range keys {
		if _, err := l.cache.Bump(ctx, k); err != nil {
			l.logger.Warn("snapshot version bump failed", zap.String("key", k), zap.Error(err))
		}
	}
}

// Normalizer shared boundary normaliser
func (l *Loader) Normalizer() *engine.Normalizer { return l.norm }

// cacheKey "" when caching is off or the versions cannot be read
func (l *Loader) cacheKey(ctx context.Context, sess *session.Session) string {
	if l.cache == nil {
		return ""
	}
	class, err := l.cache.Version(ctx, sess.ClassVersionKey())
	if err != nil {
		l.logger.Warn("snapshot version read failed", zap.Error(err))
		return ""
	}
	elective, err := l.cache.Version(ctx, electiveVersionKey)
	if err != nil {
		l.logger.Warn("snapshot version read failed", zap.Error(err))
		return ""
	}
	return sess.CacheKey() + ":v" + strconv.FormatInt(class, 10) + "." + strconv.FormatInt(elective, 10)
}

func (l *Loader) store(ctx context.Context, snap *Snapshot) {
	if l.cache == nil || snap.key == "" {
		return
	}
	if err := l.cache.Store(ctx, snap.key, snap, l.ttl); err != nil {
		l.logger.Warn("snapshot cache write failed", zap.String("key", snap.key), zap.Error(err))
	}
}

// ════════════════════════════════════════════════════════════
// fetch: one parallel batch; any failure fails the whole load
// ════════════════════════════════════════════════════════════

func (l *Loader) fetch(ctx context.Context, sess *session.Session) (*Snapshot, error) {
	var (
		profile   *dto.Profile
		semester  engine.DateRange
		raw       engine.RawSnapshot
		classes   []dto.ScheduleEntry
		electives []dto.ScheduleEntry
		subjects  []dto.Subject
		enrolled  []dto.Elective
	)

	g, gctx := errgroup.WithContext(ctx)

	// attendance is bounded by the semester, so it follows the profile
	g.Go(func() error {
		p, err := l.source.GetProfile(gctx, sess)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		profile = p
		semester = l.norm.Semester(*p)
		if !sess.IsStudent() {
			return nil
		}
		if !semester.Valid() {
			l.logger.Warn("profile carries no usable semester", zap.Int64("user_id", sess.UserID))
			return nil
		}
		recs, err := l.source.ListAttendance(gctx, sess, semester.Start.String(), semester.End.String())
		if err != nil {
			return fmt.Errorf("attendance: %w", err)
		}
		raw.Records = recs
		return nil
	})
	g.Go(func() error {
		slots, err := l.source.ListTimeSlots(gctx, sess)
		if err != nil {
			return fmt.Errorf("time slots: %w", err)
		}
		raw.Slots = slots
		return nil
	})
	g.Go(func() error {
		hs, err := l.source.ListHolidays(gctx, sess)
		if err != nil {
			return fmt.Errorf("holidays: %w", err)
		}
		raw.Holidays = hs
		return nil
	})
	if !sess.ManagesElectives() {
		g.Go(func() error {
			rows, err := l.source.ListClassSchedules(gctx, sess)
			if err != nil {
				return fmt.Errorf("class schedules: %w", err)
			}
			classes = rows
			return nil
		})
	}
	if sess.Role != session.RoleCR {
		g.Go(func() error {
			rows, err := l.source.ListElectiveSchedules(gctx, sess)
			if err != nil {
				return fmt.Errorf("elective schedules: %w", err)
			}
			electives = rows
			return nil
		})
	}
	if sess.IsStudent() {
		g.Go(func() error {
			rows, err := l.source.ListSubjects(gctx, sess)
			if err != nil {
				return fmt.Errorf("subjects: %w", err)
			}
			subjects = rows
			return nil
		})
		g.Go(func() error {
			rows, err := l.source.ListElectives(gctx, sess)
			if err != nil {
				return fmt.Errorf("electives: %w", err)
			}
			enrolled = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw.Schedules = make([]dto.ScheduleEntry, 0, len(classes)+len(electives))
	raw.Schedules = append(raw.Schedules, classes...)
	raw.Schedules = append(raw.Schedules, electives...)

	data, issues := l.norm.Snapshot(raw)
	for _, is := range issues {
		l.logger.Warn("dropped malformed record",
			zap.String("collection", is.Collection),
			zap.Int64("id", is.ID),
			zap.String("reason", is.Reason),
			zap.Int64("user_id", sess.UserID),
		)
	}

	return &Snapshot{
		Profile:  *profile,
		Semester: semester,
		Data:     data,
		Subjects: attendanceSubjects(subjects, enrolled),
	}, nil
}

// attendanceSubjects regular subjects plus electives the student is enrolled in
func attendanceSubjects(subjects []dto.Subject, electives []dto.Elective) []engine.Subject {
	out := make([]engine.Subject, 0, len(subjects)+len(electives))
	for _, s := range subjects {
		if s.IsElective || s.ID == 0 {
			continue
		}
		out = append(out, engine.Subject{Owner: engine.SubjectOwner(s.ID), Name: s.Name})
	}
	for _, e := range electives {
		if e.Status != dto.ElectiveEnrolled || e.ID == 0 {
			continue
		}
		out = append(out, engine.Subject{Owner: engine.ElectiveOwner(e.ID), Name: e.Name})
	}
	return out
}
