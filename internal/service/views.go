package service

import (
	"prezz/internal/engine"
)

// ── response views ──
//
// Engine types carry their own json tags; these wrap them with the context
// a page needs. They live here rather than in dto because dto sits below
// the engine.

// SlotView column header of the week grid
type SlotView struct {
	engine.TimeSlot
	Label string `json:"label"`
}

// WeekView GET /timetable/week
type WeekView struct {
	Anchor engine.DateKey  `json:"anchor"`
	Start  engine.DateKey  `json:"start"`
	End    engine.DateKey  `json:"end"`
	Today  engine.DateKey  `json:"today"`
	Slots  []SlotView      `json:"slots"`
	Days   []engine.DayRow `json:"days"`
}

// ClassView a class of one date with the caller's mark, if any
type ClassView struct {
	engine.ScheduledClass
	Status engine.Status `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// DayView GET /classes
type DayView struct {
	Date    engine.DateKey  `json:"date"`
	Holiday *engine.Holiday `json:"holiday,omitempty"`
	Classes []ClassView     `json:"classes"`
}

// StatsView GET /attendance/stats
type StatsView struct {
	Today            engine.DateKey        `json:"today"`
	Semester         engine.DateRange      `json:"semester"`
	ThresholdPercent int                   `json:"threshold_percent"`
	Subjects         []engine.SubjectStats `json:"subjects"`
}

// DailyView GET /attendance/daily
type DailyView struct {
	Today      engine.DateKey                  `json:"today"`
	Days       []engine.DailyStat              `json:"days"`
	Highlights map[engine.DateKey]engine.Color `json:"highlights"`
}

// SaveResult POST /attendance
type SaveResult struct {
	Saved []engine.AttendanceRecord `json:"saved"`
	Stats *StatsView                `json:"stats"`
}

func slotViews(slots []engine.TimeSlot) []SlotView {
	ordered := engine.SortSlots(slots)
	out := make([]SlotView, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, SlotView{TimeSlot: s, Label: s.Label()})
	}
	return out
}
