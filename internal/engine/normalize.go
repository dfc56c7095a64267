package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"prezz/internal/dto"
)

// ── boundary normalisation ──────────────────────────────────
//
// Wire records arrive with bare or full ISO dates, nullable owner ids and
// free-form weekday names. They are validated and turned into engine types
// here, once. A malformed record is dropped and reported, never fatal.
// ─────────────────────────────────────────────────────────────

// RawSnapshot collections as fetched from a Source
type RawSnapshot struct {
	Slots     []dto.TimeSlot
	Schedules []dto.ScheduleEntry
	Holidays  []dto.Holiday
	Records   []dto.AttendanceRecord
}

// Snapshot normalised engine inputs
type Snapshot struct {
	Slots    []TimeSlot         `json:"slots"`
	Entries  []Entry            `json:"entries"`
	Holidays []Holiday          `json:"holidays"`
	Records  []AttendanceRecord `json:"records"`
}

// Issue a dropped record
type Issue struct {
	Collection string `json:"collection"`
	ID         int64  `json:"id,omitempty"`
	Reason     string `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s #%d: %s", i.Collection, i.ID, i.Reason)
}

// Normalizer converts wire records into engine types
type Normalizer struct {
	cal      *Calendar
	validate *validator.Validate
}

// NewNormalizer binds a calendar for date parsing
func NewNormalizer(cal *Calendar) *Normalizer {
	return &Normalizer{cal: cal, validate: validator.New()}
}

// NormalizeSnapshot normalises every collection of raw
func NormalizeSnapshot(cal *Calendar, raw RawSnapshot) (Snapshot, []Issue) {
	return NewNormalizer(cal).Snapshot(raw)
}

// Snapshot normalises every collection of raw
func (n *Normalizer) Snapshot(raw RawSnapshot) (Snapshot, []Issue) {
	var issues []Issue
	slots, is := n.Slots(raw.Slots)
	issues = append(issues, is...)
	entries, is := n.Entries(raw.Schedules)
	issues = append(issues, is...)
	holidays, is := n.Holidays(raw.Holidays)
	issues = append(issues, is...)
	records, is := n.Records(raw.Records)
	issues = append(issues, is...)
	return Snapshot{Slots: slots, Entries: entries, Holidays: holidays, Records: records}, issues
}

// Slots drops slots without id or times
func (n *Normalizer) Slots(in []dto.TimeSlot) ([]TimeSlot, []Issue) {
	out := make([]TimeSlot, 0, len(in))
	var issues []Issue
	for _, s := range in {
		if err := n.validate.Struct(s); err != nil {
			issues = append(issues, Issue{Collection: "time_slots", ID: s.ID, Reason: err.Error()})
			continue
		}
		out = append(out, TimeSlot{ID: s.ID, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return out, issues
}

// Entries tags each schedule row as recurring or specific
func (n *Normalizer) Entries(in []dto.ScheduleEntry) ([]Entry, []Issue) {
	out := make([]Entry, 0, len(in))
	var issues []Issue
	for _, s := range in {
		e, err := n.entry(s)
		if err != nil {
			issues = append(issues, Issue{Collection: "schedules", ID: s.ID, Reason: err.Error()})
			continue
		}
		out = append(out, e)
	}
	return out, issues
}

func (n *Normalizer) entry(s dto.ScheduleEntry) (Entry, error) {
	if err := n.validate.Struct(s); err != nil {
		return Entry{}, err
	}

	e := Entry{
		ID:        s.ID,
		Professor: s.ProfessorName,
		SlotID:    s.TimeSlotID,
		Canceled:  s.Canceled,
	}
	if s.ElectiveID != nil {
		e.Owner = ElectiveOwner(*s.ElectiveID)
		e.Name = s.ElectiveName
	} else {
		e.Owner = SubjectOwner(*s.SubjectID)
		e.Name = s.SubjectName
	}
	if !e.Owner.Valid() {
		return Entry{}, fmt.Errorf("owner id must be positive")
	}

	if s.SpecificDate != "" {
		e.Kind = KindSpecific
		e.Date = n.cal.Normalize(s.SpecificDate)
		if e.Date == "" {
			return Entry{}, fmt.Errorf("unparseable specific_date %q", s.SpecificDate)
		}
		return e, nil
	}

	e.Kind = KindRecurring
	wd, ok := ParseWeekday(s.DayOfWeek)
	if !ok {
		return Entry{}, fmt.Errorf("unknown day_of_week %q", s.DayOfWeek)
	}
	e.Weekday = wd
	e.Start = n.cal.Normalize(s.StartDate)
	e.End = n.cal.Normalize(s.EndDate)
	if e.Start == "" || e.End == "" {
		return Entry{}, fmt.Errorf("unparseable range %q..%q", s.StartDate, s.EndDate)
	}
	if e.Start > e.End {
		return Entry{}, fmt.Errorf("range starts after it ends: %s..%s", e.Start, e.End)
	}
	return e, nil
}

// Holidays drops holidays with an unparseable date
func (n *Normalizer) Holidays(in []dto.Holiday) ([]Holiday, []Issue) {
	out := make([]Holiday, 0, len(in))
	var issues []Issue
	for _, h := range in {
		if err := n.validate.Struct(h); err != nil {
			issues = append(issues, Issue{Collection: "holidays", ID: h.ID, Reason: err.Error()})
			continue
		}
		date := n.cal.Normalize(h.HolidayDate)
		if date == "" {
			issues = append(issues, Issue{Collection: "holidays", ID: h.ID, Reason: fmt.Sprintf("unparseable holiday_date %q", h.HolidayDate)})
			continue
		}
		out = append(out, Holiday{ID: h.ID, Date: date, Description: h.Description})
	}
	return out, issues
}

// Records prefers DateStr over Date and keeps reasons only on absences
func (n *Normalizer) Records(in []dto.AttendanceRecord) ([]AttendanceRecord, []Issue) {
	out := make([]AttendanceRecord, 0, len(in))
	var issues []Issue
	for _, r := range in {
		if err := n.validate.Struct(r); err != nil {
			issues = append(issues, Issue{Collection: "attendance", ID: r.ClassID, Reason: err.Error()})
			continue
		}
		raw := r.DateStr
		if raw == "" {
			raw = r.Date
		}
		date := n.cal.Normalize(raw)
		if date == "" {
			issues = append(issues, Issue{Collection: "attendance", ID: r.ClassID, Reason: fmt.Sprintf("unparseable date %q", raw)})
			continue
		}
		rec := AttendanceRecord{ClassID: r.ClassID, Date: date, Status: Status(r.Status)}
		if rec.Status == StatusAbsent && r.Reason != nil {
			rec.Reason = *r.Reason
		}
		out = append(out, rec)
	}
	return out, issues
}

// Semester range from the profile; invalid when either end is missing
func (n *Normalizer) Semester(p dto.Profile) DateRange {
	return DateRange{
		Start: n.cal.Normalize(p.SemesterStartDate),
		End:   n.cal.Normalize(p.SemesterEndDate),
	}
}
