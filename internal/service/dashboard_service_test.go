package service

import (
	"context"
	"errors"
	"testing"

	"prezz/internal/dto"
	"prezz/internal/engine"
	pkgerrors "prezz/pkg/errors"
)

// ── Week ──

func TestDashboard_Week(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Week(context.Background(), student(), "2025-01-15")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if view.Start != "2025-01-13" || view.End != "2025-01-19" {
		t.Errorf("expected week 2025-01-13..2025-01-19, got %s..%s", view.Start, view.End)
	}
	if len(view.Slots) != 2 || view.Slots[0].ID != 1 || view.Slots[0].Label != "09:00-10:00" {
		t.Errorf("expected slots ordered by start time, got %+v", view.Slots)
	}
	if len(view.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(view.Days))
	}

	monday := view.Days[0]
	if monday.Cells[0].Label != "Math (Dr. Rao)" || monday.Cells[1].Label != engine.LabelEmpty {
		t.Errorf("unexpected Monday cells %+v", monday.Cells)
	}
	friday := view.Days[4]
	if friday.Cells[0].State != engine.CellClass || friday.Cells[0].Owner == nil || !friday.Cells[0].Owner.IsElective() {
		t.Errorf("expected the AI elective on Friday, got %+v", friday.Cells[0])
	}
	if !view.Days[5].IsDefaultHoliday || !view.Days[6].IsDefaultHoliday {
		t.Error("expected the weekend to be default holidays")
	}
}

func TestDashboard_WeekDefaultsToToday(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Week(context.Background(), student(), "")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if view.Anchor != "2025-01-15" || view.Today != "2025-01-15" {
		t.Errorf("expected anchor and today 2025-01-15, got %s / %s", view.Anchor, view.Today)
	}
}

func TestDashboard_WeekHoliday(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Week(context.Background(), student(), holidayDay)
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	friday := view.Days[4]
	if !friday.IsHoliday || friday.HolidayDescription != "Holi" || friday.Span != 2 {
		t.Errorf("expected merged Holi row spanning 2 slots, got %+v", friday)
	}
}

func TestDashboard_WeekInvalidAnchor(t *testing.T) {
	h := newHarness(t)

	if _, err := h.dash.Week(context.Background(), student(), "next tuesday"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if n := h.src.count("GetProfile"); n != 0 {
		t.Errorf("expected no fetch for an invalid anchor, got %d", n)
	}
}

func TestDashboard_WeekDropsMalformedEntries(t *testing.T) {
	h := newHarness(t)
	h.src.classSchedules = append(h.src.classSchedules,
		dto.ScheduleEntry{ID: 900, DayOfWeek: "Monday", TimeSlotID: 2}, // no owner
		dto.ScheduleEntry{ID: 901, SubjectID: ptr(mathID), DayOfWeek: "Funday", StartDate: semStart, EndDate: semEnd, TimeSlotID: 2},
	)

	view, err := h.dash.Week(context.Background(), student(), "2025-01-13")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if view.Days[0].Cells[0].Label != "Math (Dr. Rao)" {
		t.Errorf("expected the valid entry to survive, got %+v", view.Days[0].Cells)
	}
	if view.Days[0].Cells[1].State != engine.CellEmpty {
		t.Errorf("expected malformed entries to be dropped, got %+v", view.Days[0].Cells[1])
	}
}

// ── role-dependent fetch ──

func TestDashboard_ClassRepresentativeFetch(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Week(context.Background(), classRep(), "2025-01-13")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if h.src.count("ListElectiveSchedules") != 0 || h.src.count("ListAttendance") != 0 || h.src.count("ListSubjects") != 0 {
		t.Errorf("unexpected student-only fetches: %+v", h.src.calls)
	}
	if view.Days[4].Cells[0].State != engine.CellEmpty {
		t.Errorf("expected no electives in a class representative grid, got %+v", view.Days[4].Cells[0])
	}
}

func TestDashboard_ElectiveRepresentativeFetch(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Week(context.Background(), electiveRep(), "2025-01-13")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if h.src.count("ListClassSchedules") != 0 {
		t.Errorf("expected no class schedule fetch, got %d", h.src.count("ListClassSchedules"))
	}
	if view.Days[0].Cells[0].State != engine.CellEmpty || view.Days[4].Cells[0].State != engine.CellClass {
		t.Errorf("expected only the elective, got Monday %+v Friday %+v", view.Days[0].Cells[0], view.Days[4].Cells[0])
	}
}

// ── ClassesOn ──

func TestDashboard_ClassesOn(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.ClassesOn(context.Background(), student(), "2025-01-13")
	if err != nil {
		t.Fatalf("ClassesOn: %v", err)
	}
	if len(view.Classes) != 1 {
		t.Fatalf("expected 1 class, got %+v", view.Classes)
	}
	c := view.Classes[0]
	if c.ClassID != 100 || c.Status != engine.StatusAbsent || c.Reason != "Health Issue" {
		t.Errorf("expected absent Math with reason, got %+v", c)
	}
	if c.StartTime != "09:00" {
		t.Errorf("expected 09:00, got %s", c.StartTime)
	}
}

func TestDashboard_ClassesOnHoliday(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.ClassesOn(context.Background(), student(), holidayDay)
	if err != nil {
		t.Fatalf("ClassesOn: %v", err)
	}
	if view.Holiday == nil || view.Holiday.Description != "Holi" {
		t.Errorf("expected the Holi holiday, got %+v", view.Holiday)
	}
	if len(view.Classes) != 0 {
		t.Errorf("expected no classes on a holiday, got %+v", view.Classes)
	}
}

// ── Stats ──

func TestDashboard_Stats(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Stats(context.Background(), student(), "")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(view.Subjects) != 3 {
		t.Fatalf("expected Math, Physics and AI, got %+v", view.Subjects)
	}
	if view.ThresholdPercent != 80 || view.Semester.Start != semStart || view.Semester.End != semEnd {
		t.Errorf("unexpected header %+v", view)
	}

	math := findStats(t, view, engine.SubjectOwner(mathID))
	if math.Held != 2 || math.Attended != 1 || math.Percentage != 50 {
		t.Errorf("expected Math 1/2 = 50%%, got %d/%d = %v", math.Attended, math.Held, math.Percentage)
	}
	if math.Total != 21 || math.Remaining != 19 || math.ClassesNeeded != 16 || math.Requirement != engine.RequirementReachable {
		t.Errorf("unexpected Math totals %+v", math)
	}

	// 2025-01-15 is today and counts as held
	physics := findStats(t, view, engine.SubjectOwner(physicsID))
	if physics.Held != 2 || physics.Attended != 0 {
		t.Errorf("expected Physics 0/2, got %d/%d", physics.Attended, physics.Held)
	}

	ai := findStats(t, view, engine.ElectiveOwner(aiID))
	if !ai.IsElective || ai.Total != 20 {
		t.Errorf("expected AI elective with 20 classes after the holiday, got %+v", ai)
	}
}

func TestDashboard_StatsTodayOverride(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Stats(context.Background(), student(), "2025-01-06")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	math := findStats(t, view, engine.SubjectOwner(mathID))
	if math.Held != 1 || math.Percentage != 100 {
		t.Errorf("expected Math 1/1 = 100%%, got %+v", math)
	}
}

func TestDashboard_StatsStudentOnly(t *testing.T) {
	h := newHarness(t)

	if _, err := h.dash.Stats(context.Background(), classRep(), ""); !errors.Is(err, ErrStudentOnly) {
		t.Errorf("expected ErrStudentOnly, got %v", err)
	}
	if _, err := h.dash.Daily(context.Background(), electiveRep(), ""); !errors.Is(err, ErrStudentOnly) {
		t.Errorf("expected ErrStudentOnly, got %v", err)
	}
}

// ── Daily ──

func TestDashboard_Daily(t *testing.T) {
	h := newHarness(t)

	view, err := h.dash.Daily(context.Background(), student(), "")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	want := map[engine.DateKey]engine.Color{
		"2025-01-06": engine.ColorGreen,
		"2025-01-08": engine.ColorRed,
		"2025-01-10": engine.ColorRed,
		"2025-01-13": engine.ColorRed,
		"2025-01-15": engine.ColorRed,
	}
	if len(view.Days) != len(want) {
		t.Fatalf("expected %d class dates, got %+v", len(want), view.Days)
	}
	for _, d := range view.Days {
		if want[d.Date] != d.Color {
			t.Errorf("%s: expected %s, got %s", d.Date, want[d.Date], d.Color)
		}
	}
	if view.Highlights["2025-01-11"] != engine.ColorRed {
		t.Errorf("expected Saturday highlighted red, got %q", view.Highlights["2025-01-11"])
	}
	if view.Highlights[holidayDay] != engine.ColorRed {
		t.Errorf("expected the holiday highlighted red, got %q", view.Highlights[holidayDay])
	}
	if view.Highlights["2025-01-06"] != engine.ColorGreen {
		t.Errorf("expected 2025-01-06 green, got %q", view.Highlights["2025-01-06"])
	}
}

// ── Reasons ──

func TestDashboard_Reasons(t *testing.T) {
	h := newHarness(t)

	got, err := h.dash.Reasons(context.Background(), student())
	if err != nil {
		t.Fatalf("Reasons: %v", err)
	}
	if len(got) != 2 || got[0] != "Health Issue" {
		t.Errorf("expected the default reasons, got %v", got)
	}

	h.src.reasons = []string{"Sports Meet"}
	got, _ = h.dash.Reasons(context.Background(), student())
	if len(got) != 1 || got[0] != "Sports Meet" {
		t.Errorf("expected the source reasons, got %v", got)
	}

	h.src.errs["ListAbsenceReasons"] = pkgerrors.ErrUpstreamUnavailable
	got, err = h.dash.Reasons(context.Background(), student())
	if err != nil || len(got) != 2 {
		t.Errorf("expected defaults on failure, got %v, %v", got, err)
	}
}

// ── snapshot caching ──

func TestDashboard_SnapshotIsCached(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.dash.Week(ctx, student(), ""); err != nil {
		t.Fatalf("Week: %v", err)
	}
	if _, err := h.dash.Stats(ctx, student(), ""); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if n := h.src.count("GetProfile"); n != 1 {
		t.Errorf("expected one fetch for two reads, got %d", n)
	}

	h.loader.Invalidate(ctx, student(), false)
	if _, err := h.dash.Week(ctx, student(), ""); err != nil {
		t.Fatalf("Week: %v", err)
	}
	if n := h.src.count("GetProfile"); n != 2 {
		t.Errorf("expected a re-fetch after invalidation, got %d", n)
	}
}

func TestDashboard_SourceFailure(t *testing.T) {
	h := newHarness(t)
	h.src.errs["ListHolidays"] = pkgerrors.ErrUpstreamUnavailable

	_, err := h.dash.Week(context.Background(), student(), "")
	if !errors.Is(err, pkgerrors.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestDashboard_WithoutCache(t *testing.T) {
	h := newHarness(t)
	h.loader.cache = nil

	for i := 0; i < 2; i++ {
		if _, err := h.dash.Week(context.Background(), student(), ""); err != nil {
			t.Fatalf("Week: %v", err)
		}
	}
	if n := h.src.count("GetProfile"); n != 2 {
		t.Errorf("expected every read to fetch without a cache, got %d", n)
	}
}
