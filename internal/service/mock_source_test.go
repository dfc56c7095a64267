package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"prezz/internal/dto"
	"prezz/internal/model"
	"prezz/internal/session"
	pkgerrors "prezz/pkg/errors"
)

// ── mock Source ──

type mockSource struct {
	mu sync.Mutex

	profile           *dto.Profile
	slots             []dto.TimeSlot
	classSchedules    []dto.ScheduleEntry
	electiveSchedules []dto.ScheduleEntry
	holidays          []dto.Holiday
	records           []dto.AttendanceRecord
	reasons           []string
	subjects          []dto.Subject
	electives         []dto.Elective

	// echo replaces the SaveAttendance response when set
	echo   []dto.AttendanceRecord
	saved  [][]dto.AttendanceRecord
	nextID int64

	errs  map[string]error
	calls map[string]int
}

func newMockSource() *mockSource {
	return &mockSource{
		nextID: 1000,
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (m *mockSource) hit(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.errs[op]
}

func (m *mockSource) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockSource) ListTimeSlots(_ context.Context, _ *session.Session) ([]dto.TimeSlot, error) {
	if err := m.hit("ListTimeSlots"); err != nil {
		return nil, err
	}
	return m.slots, nil
}

func (m *mockSource) ListClassSchedules(_ context.Context, _ *session.Session) ([]dto.ScheduleEntry, error) {
	if err := m.hit("ListClassSchedules"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.ScheduleEntry(nil), m.classSchedules...), nil
}

func (m *mockSource) ListElectiveSchedules(_ context.Context, _ *session.Session) ([]dto.ScheduleEntry, error) {
	if err := m.hit("ListElectiveSchedules"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.ScheduleEntry(nil), m.electiveSchedules...), nil
}

func (m *mockSource) ListHolidays(_ context.Context, _ *session.Session) ([]dto.Holiday, error) {
	if err := m.hit("ListHolidays"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.Holiday(nil), m.holidays...), nil
}

func (m *mockSource) ListAttendance(_ context.Context, _ *session.Session, start, end string) ([]dto.AttendanceRecord, error) {
	if err := m.hit("ListAttendance"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []dto.AttendanceRecord
	for _, r := range m.records {
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockSource) ListAbsenceReasons(_ context.Context, _ *session.Session) ([]string, error) {
	if err := m.hit("ListAbsenceReasons"); err != nil {
		return nil, err
	}
	return m.reasons, nil
}

func (m *mockSource) GetProfile(_ context.Context, _ *session.Session) (*dto.Profile, error) {
	if err := m.hit("GetProfile"); err != nil {
		return nil, err
	}
	if m.profile == nil {
		return nil, pkgerrors.ErrNotFound
	}
	p := *m.profile
	return &p, nil
}

func (m *mockSource) ListSubjects(_ context.Context, _ *session.Session) ([]dto.Subject, error) {
	if err := m.hit("ListSubjects"); err != nil {
		return nil, err
	}
	return m.subjects, nil
}

func (m *mockSource) ListElectives(_ context.Context, _ *session.Session) ([]dto.Elective, error) {
	if err := m.hit("ListElectives"); err != nil {
		return nil, err
	}
	return m.electives, nil
}

// SaveAttendance upserts and echoes full timestamps, the way the REST backend does
func (m *mockSource) SaveAttendance(_ context.Context, _ *session.Session, records []dto.AttendanceRecord) ([]dto.AttendanceRecord, error) {
	if err := m.hit("SaveAttendance"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, records)
	if m.echo != nil {
		return m.echo, nil
	}
	out := make([]dto.AttendanceRecord, 0, len(records))
	for _, r := range records {
		stored := r
		stored.DateStr = r.Date
		stored.Date = r.Date + "T00:00:00.000Z"
		m.upsert(r)
		out = append(out, stored)
	}
	return out, nil
}

func (m *mockSource) upsert(r dto.AttendanceRecord) {
	for i, old := range m.records {
		if old.ClassID == r.ClassID && old.Date == r.Date {
			m.records[i] = r
			return
		}
	}
	m.records = append(m.records, r)
}

func (m *mockSource) CreateSchedule(_ context.Context, _ *session.Session, entry dto.ScheduleEntry) (*dto.ScheduleEntry, error) {
	if err := m.hit("CreateSchedule"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry.ID = m.nextID
	if entry.ElectiveID != nil {
		m.electiveSchedules = append(m.electiveSchedules, entry)
	} else {
		m.classSchedules = append(m.classSchedules, entry)
	}
	return &entry, nil
}

func (m *mockSource) DeleteSchedule(_ context.Context, _ *session.Session, id int64) error {
	if err := m.hit("DeleteSchedule"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range []*[]dto.ScheduleEntry{&m.classSchedules, &m.electiveSchedules} {
		for i, e := range *list {
			if e.ID == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
	}
	return pkgerrors.ErrNotFound
}

func (m *mockSource) CreateHoliday(_ context.Context, _ *session.Session, h dto.Holiday) (*dto.Holiday, error) {
	if err := m.hit("CreateHoliday"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	h.ID = m.nextID
	m.holidays = append(m.holidays, h)
	return &h, nil
}

func (m *mockSource) DeleteHoliday(_ context.Context, _ *session.Session, id int64) error {
	if err := m.hit("DeleteHoliday"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.holidays {
		if h.ID == id {
			m.holidays = append(m.holidays[:i], m.holidays[i+1:]...)
			return nil
		}
	}
	return pkgerrors.ErrNotFound
}

// ── in-memory SnapshotCache ──

type memoryCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	versions map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte), versions: make(map[string]int64)}
}

func (c *memoryCache) Load(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Store(_ context.Context, key string, v interface{}, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Version(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[key], nil
}

func (c *memoryCache) Bump(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key]++
	return c.versions[key], nil
}

// ── mock ChatRepository ──

type mockChatRepo struct {
	rooms map[string][]model.ChatMessage
	err   error
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{rooms: make(map[string][]model.ChatMessage)}
}

func (m *mockChatRepo) List(_ context.Context, room string, limit int) ([]model.ChatMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	msgs := m.rooms[room]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (m *mockChatRepo) Add(_ context.Context, room string, msg *model.ChatMessage) error {
	if m.err != nil {
		return m.err
	}
	msg.ID = "msg-" + string(rune('a'+len(m.rooms[room])))
	msg.CreatedAt = time.Date(2025, 1, 15, 4, 30, 0, 0, time.UTC)
	m.rooms[room] = append(m.rooms[room], *msg)
	return nil
}
