package service

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"prezz/internal/dto"
	"prezz/internal/engine"
	"prezz/internal/session"
)

// Semester 2025-01-06 (Mon) .. 2025-05-30 (Fri); "now" is Wednesday 2025-01-15.
//
//	entry 100  Math     (subject 1)   Mondays    slot 1
//	entry 200  Physics  (subject 2)   Wednesdays slot 2
//	entry 300  AI       (elective 7)  Fridays    slot 1
//	holiday    2025-03-14 (Friday)
const (
	mathID     int64 = 1
	physicsID  int64 = 2
	aiID       int64 = 7
	droppedID  int64 = 8
	semStart         = "2025-01-06"
	semEnd           = "2025-05-30"
	holidayDay       = "2025-03-14"
)

func ptr[T any](v T) *T { return &v }

func fixedNow() time.Time {
	return time.Date(2025, 1, 15, 10, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
}

func testCalendar(t *testing.T) *engine.Calendar {
	t.Helper()
	cal, err := engine.NewCalendar("Asia/Kolkata")
	if err != nil {
		t.Fatalf("NewCalendar: %v", err)
	}
	return cal
}

func weekly(id, subjectID, electiveID int64, day string, slot int64, name, prof string) dto.ScheduleEntry {
	e := dto.ScheduleEntry{
		ID:            id,
		SubjectName:   name,
		ProfessorName: prof,
		DayOfWeek:     day,
		StartDate:     semStart,
		EndDate:       semEnd,
		TimeSlotID:    slot,
	}
	if electiveID != 0 {
		e.ElectiveID = ptr(electiveID)
		e.ElectiveName = name
		e.SubjectName = ""
	} else {
		e.SubjectID = ptr(subjectID)
	}
	return e
}

func seededSource() *mockSource {
	src := newMockSource()
	src.profile = &dto.Profile{
		ID:                42,
		Name:              "Asha",
		Role:              session.RoleStudent,
		ClassCode:         "CSE-A",
		SemesterStartDate: semStart,
		SemesterEndDate:   "2025-05-30T00:00:00.000+05:30",
	}
	src.slots = []dto.TimeSlot{
		{ID: 2, StartTime: "10:00", EndTime: "11:00"},
		{ID: 1, StartTime: "09:00", EndTime: "10:00"},
	}
	src.classSchedules = []dto.ScheduleEntry{
		weekly(100, mathID, 0, "Monday", 1, "Math", "Dr. Rao"),
		weekly(200, physicsID, 0, "Wednesday", 2, "Physics", "Dr. Iyer"),
	}
	src.electiveSchedules = []dto.ScheduleEntry{
		weekly(300, 0, aiID, "Friday", 1, "AI", "Dr. Sen"),
	}
	src.holidays = []dto.Holiday{{ID: 1, HolidayDate: holidayDay, Description: "Holi"}}
	src.records = []dto.AttendanceRecord{
		{ClassID: 100, Date: "2025-01-06", Status: "present"},
		{ClassID: 100, Date: "2025-01-13", Status: "absent", Reason: ptr("Health Issue")},
	}
	src.subjects = []dto.Subject{
		{ID: mathID, Name: "Math"},
		{ID: physicsID, Name: "Physics"},
		{ID: 9, Name: "Listed Elective", IsElective: true},
	}
	src.electives = []dto.Elective{
		{ID: aiID, Name: "AI", Status: dto.ElectiveEnrolled},
		{ID: droppedID, Name: "Robotics", Status: "dropped"},
	}
	return src
}

func student() *session.Session {
	return &session.Session{UserID: 42, Role: session.RoleStudent, ClassCode: "CSE-A", Name: "Asha", Token: "tok"}
}

func classRep() *session.Session {
	return &session.Session{UserID: 5, Role: session.RoleCR, ClassCode: "CSE-A", Name: "Ravi", Token: "tok"}
}

func electiveRep() *session.Session {
	return &session.Session{UserID: 6, Role: session.RoleElectiveCR, ClassCode: "CSE-B", Name: "Meera", Token: "tok"}
}

// harness every service over one mock source and one in-memory cache
type harness struct {
	src    *mockSource
	cache  *memoryCache
	loader *Loader
	dash   *dashboardService
	att    *attendanceService
	sched  *scheduleService
	export *exportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cal := testCalendar(t)
	logger := zap.NewNop()
	src := seededSource()
	cache := newMemoryCache()
	loader := NewLoader(src, cache, time.Minute, cal, logger)

	dash := NewDashboardService(loader, src, cal, engine.DefaultPolicy, logger).(*dashboardService)
	dash.now = fixedNow
	att := NewAttendanceService(loader, src, cal, engine.DefaultPolicy, logger).(*attendanceService)
	att.now = fixedNow
	export := NewExportService(loader, cal, engine.DefaultPolicy, logger).(*exportService)
	export.now = fixedNow

	return &harness{
		src:    src,
		cache:  cache,
		loader: loader,
		dash:   dash,
		att:    att,
		sched:  NewScheduleService(loader, src, cal, logger).(*scheduleService),
		export: export,
	}
}

func findStats(t *testing.T, view *StatsView, owner engine.Owner) engine.SubjectStats {
	t.Helper()
	for _, s := range view.Subjects {
		if s.Owner == owner {
			return s
		}
	}
	t.Fatalf("no stats for %s in %+v", owner, view.Subjects)
	return engine.SubjectStats{}
}
