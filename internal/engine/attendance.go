package engine

import (
	"math"
	"sort"
)

// DefaultThresholdPercent minimum attendance required by the institution
const DefaultThresholdPercent = 80

// Requirement whether the threshold is still achievable
type Requirement string

const (
	RequirementMet         Requirement = "met"
	RequirementReachable   Requirement = "reachable"
	RequirementUnreachable Requirement = "unreachable"
)

// Subject attendance unit: a regular subject or an elective
type Subject struct {
	Owner Owner  `json:"owner"`
	Name  string `json:"name"`
}

// Occurrence one effectively held class
type Occurrence struct {
	Date     DateKey `json:"date"`
	ClassID  int64   `json:"class_id"`
	SlotID   int64   `json:"slot_id"`
	Specific bool    `json:"specific"`
}

// SubjectStats attendance summary of one subject
type SubjectStats struct {
	Owner         Owner       `json:"owner"`
	Name          string      `json:"name"`
	IsElective    bool        `json:"is_elective"`
	Held          int         `json:"held"`
	Attended      int         `json:"attended"`
	Total         int         `json:"total"`
	Remaining     int         `json:"remaining"`
	Percentage    float64     `json:"percentage"`
	ClassesNeeded int         `json:"classes_needed"`
	Requirement   Requirement `json:"requirement"`
	FutureDates   []DateKey   `json:"future_dates"`
}

// Policy aggregation parameters
type Policy struct {
	ThresholdPercent int
}

// DefaultPolicy 80% threshold
var DefaultPolicy = Policy{ThresholdPercent: DefaultThresholdPercent}

// ComputeStats summarises subject with the default policy
func ComputeStats(subject Subject, entries []Entry, records []AttendanceRecord, holidays []Holiday, semester DateRange, today DateKey) SubjectStats {
	return DefaultPolicy.ComputeStats(subject, entries, records, holidays, semester, today)
}

// ComputeStats summarises subject: occurrences inside semester, held up to
// and including today, attended when the (class, date) record is present.
func (p Policy) ComputeStats(subject Subject, entries []Entry, records []AttendanceRecord, holidays []Holiday, semester DateRange, today DateKey) SubjectStats {
	return p.stats(subject, entries, IndexRecords(records), NewHolidaySet(holidays), semester, today)
}

// ComputeAll summarises every subject in order
func (p Policy) ComputeAll(subjects []Subject, entries []Entry, records []AttendanceRecord, holidays []Holiday, semester DateRange, today DateKey) []SubjectStats {
	idx := IndexRecords(records)
	hs := NewHolidaySet(holidays)
	out := make([]SubjectStats, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, p.stats(s, entries, idx, hs, semester, today))
	}
	return out
}

func (p Policy) stats(subject Subject, entries []Entry, idx RecordIndex, hs HolidaySet, semester DateRange, today DateKey) SubjectStats {
	st := SubjectStats{
		Owner:       subject.Owner,
		Name:        subject.Name,
		IsElective:  subject.Owner.IsElective(),
		FutureDates: []DateKey{},
	}

	occs := Occurrences(subject.Owner, entries, hs, semester)
	st.Total = len(occs)
	for _, o := range occs {
		if o.Date > today {
			st.Remaining++
			st.FutureDates = append(st.FutureDates, o.Date)
			continue
		}
		st.Held++
		if rec, ok := idx[RecordKey{ClassID: o.ClassID, Date: o.Date}]; ok && rec.Status == StatusPresent {
			st.Attended++
		}
	}

	st.Percentage = percentage(st.Attended, st.Held)
	st.ClassesNeeded = p.classesNeeded(st.Attended, st.Total)
	switch {
	case st.ClassesNeeded == 0:
		st.Requirement = RequirementMet
	case st.ClassesNeeded <= st.Remaining:
		st.Requirement = RequirementReachable
	default:
		st.Requirement = RequirementUnreachable
	}
	return st
}

// classesNeeded ceil(threshold * total / 100) - attended, floored at zero
func (p Policy) classesNeeded(attended, total int) int {
	threshold := p.ThresholdPercent
	if threshold <= 0 {
		threshold = DefaultThresholdPercent
	}
	required := (threshold*total + 99) / 100
	if n := required - attended; n > 0 {
		return n
	}
	return 0
}

// percentage attended/held as a percent, capped at 100 and rounded to 2 decimals
func percentage(attended, held int) float64 {
	if held == 0 {
		return 0
	}
	pct := float64(attended) / float64(held) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*100) / 100
}

type cellKey struct {
	date DateKey
	slot int64
}

// Occurrences expands owner's entries into held classes inside semester.
// Holidays are skipped; a date with a one-off class drops the weekly ones.
// The result is ordered by date, then slot.
func Occurrences(owner Owner, entries []Entry, hs HolidaySet, semester DateRange) []Occurrence {
	if !semester.Valid() {
		return nil
	}

	cells := make(map[cellKey]struct{})
	for _, e := range entries {
		if e.Owner != owner {
			continue
		}
		switch e.Kind {
		case KindSpecific:
			if semester.Contains(e.Date) {
				cells[cellKey{e.Date, e.SlotID}] = struct{}{}
			}
		case KindRecurring:
			if e.Canceled {
				continue
			}
			for _, d := range weeklyDates(e, semester) {
				cells[cellKey{d, e.SlotID}] = struct{}{}
			}
		}
	}

	keys := make([]cellKey, 0, len(cells))
	for k := range cells {
		if _, holiday := hs[k.date]; holiday {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].slot < keys[j].slot
	})

	type occKey struct {
		date    DateKey
		classID int64
	}
	seen := make(map[occKey]struct{})
	specificDates := make(map[DateKey]struct{})
	var occs []Occurrence
	for _, k := range keys {
		r := Resolve(k.date, k.slot, owner, entries)
		if r.Outcome != OutcomeClass {
			continue
		}
		key := occKey{k.date, r.Entry.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		o := Occurrence{Date: k.date, ClassID: r.Entry.ID, SlotID: k.slot, Specific: r.Specific()}
		if o.Specific {
			specificDates[o.Date] = struct{}{}
		}
		occs = append(occs, o)
	}

	out := occs[:0]
	for _, o := range occs {
		if _, ok := specificDates[o.Date]; ok && !o.Specific {
			continue
		}
		out = append(out, o)
	}
	return out
}

// weeklyDates dates of a recurring entry clipped to semester
func weeklyDates(e Entry, semester DateRange) []DateKey {
	start, end := e.Start, e.End
	if semester.Start > start {
		start = semester.Start
	}
	if semester.End < end {
		end = semester.End
	}
	wd, ok := DayOfWeek(start)
	if !ok || !end.Valid() || start > end {
		return nil
	}

	var dates []DateKey
	first := start.AddDays((int(e.Weekday) - int(wd) + 7) % 7)
	for d := first; d != "" && d <= end; d = d.AddDays(7) {
		dates = append(dates, d)
	}
	return dates
}
