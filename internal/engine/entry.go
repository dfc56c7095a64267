package engine

import (
	"fmt"
	"sort"
)

// Kind distinguishes weekly series from one-off entries
type Kind int

const (
	KindRecurring Kind = iota
	KindSpecific
)

func (k Kind) String() string {
	if k == KindSpecific {
		return "specific"
	}
	return "recurring"
}

// Owner the subject or elective an entry belongs to; exactly one id is non-zero
type Owner struct {
	SubjectID  int64 `json:"subject_id,omitempty"`
	ElectiveID int64 `json:"elective_id,omitempty"`
}

// SubjectOwner regular class subject
func SubjectOwner(id int64) Owner { return Owner{SubjectID: id} }

// ElectiveOwner elective course
func ElectiveOwner(id int64) Owner { return Owner{ElectiveID: id} }

// IsElective reports whether o is an elective
func (o Owner) IsElective() bool { return o.ElectiveID != 0 }

// Valid exactly one id set
func (o Owner) Valid() bool { return (o.SubjectID != 0) != (o.ElectiveID != 0) }

func (o Owner) String() string {
	if o.IsElective() {
		return fmt.Sprintf("elective:%d", o.ElectiveID)
	}
	return fmt.Sprintf("subject:%d", o.SubjectID)
}

// Entry schedule entry after boundary normalisation.
// Recurring entries use Weekday/Start/End; specific entries use Date.
type Entry struct {
	ID        int64   `json:"id"`
	Kind      Kind    `json:"kind"`
	Owner     Owner   `json:"owner"`
	Name      string  `json:"name"`
	Professor string  `json:"professor,omitempty"`
	SlotID    int64   `json:"slot_id"`
	Canceled  bool    `json:"canceled"`
	Weekday   Weekday `json:"weekday"`
	Start     DateKey `json:"start,omitempty"`
	End       DateKey `json:"end,omitempty"`
	Date      DateKey `json:"date,omitempty"`
}

// OccursOn reports whether e applies to date, ignoring cancellation
func (e Entry) OccursOn(date DateKey) bool {
	if e.Kind == KindSpecific {
		return e.Date == date
	}
	wd, ok := DayOfWeek(date)
	if !ok || wd != e.Weekday {
		return false
	}
	return e.Start <= date && date <= e.End
}

// Label "Name (Professor)", or just Name when no professor is known
func (e Entry) Label() string {
	if e.Professor == "" {
		return e.Name
	}
	return e.Name + " (" + e.Professor + ")"
}

// Supersedes reports whether a wins over b when both claim the same cell.
// Ids are assigned monotonically upstream, so the newer entry wins.
func Supersedes(a, b Entry) bool {
	return a.ID > b.ID
}

// TimeSlot teaching period
type TimeSlot struct {
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Label "09:00-10:00"
func (s TimeSlot) Label() string { return s.StartTime + "-" + s.EndTime }

// SortSlots returns a copy ordered by start time, then id
func SortSlots(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Holiday declared non-teaching date
type Holiday struct {
	ID          int64   `json:"id"`
	Date        DateKey `json:"date"`
	Description string  `json:"description"`
}

// HolidaySet lookup by date; the first holiday declared for a date wins
type HolidaySet map[DateKey]Holiday

// NewHolidaySet indexes holidays by date
func NewHolidaySet(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		if _, ok := set[h.Date]; ok {
			continue
		}
		set[h.Date] = h
	}
	return set
}

// Label the declared text, "Holiday" when blank
func (h Holiday) Label() string {
	if h.Description == "" {
		return LabelHoliday
	}
	return h.Description
}

// Status attendance mark
type Status string

const (
	StatusPresent  Status = "present"
	StatusAbsent   Status = "absent"
	StatusUnmarked Status = ""
)

// AttendanceRecord mark for one class occurrence
type AttendanceRecord struct {
	ClassID int64   `json:"class_id"`
	Date    DateKey `json:"date"`
	Status  Status  `json:"status"`
	Reason  string  `json:"reason,omitempty"`
}

// RecordKey attendance identity
type RecordKey struct {
	ClassID int64
	Date    DateKey
}

// RecordIndex lookup by (class id, date)
type RecordIndex map[RecordKey]AttendanceRecord

// IndexRecords later duplicates overwrite earlier ones
func IndexRecords(records []AttendanceRecord) RecordIndex {
	idx := make(RecordIndex, len(records))
	for _, r := range records {
		idx[RecordKey{ClassID: r.ClassID, Date: r.Date}] = r
	}
	return idx
}

// MergeRecords upserts echo into base by (class id, date). Existing keys are
// replaced in place, new keys are appended in echo order. Neither input is modified.
func MergeRecords(base, echo []AttendanceRecord) []AttendanceRecord {
	out := make([]AttendanceRecord, len(base), len(base)+len(echo))
	copy(out, base)
	pos := make(map[RecordKey]int, len(out))
	for i, r := range out {
		pos[RecordKey{ClassID: r.ClassID, Date: r.Date}] = i
	}
	for _, r := range echo {
		k := RecordKey{ClassID: r.ClassID, Date: r.Date}
		if i, ok := pos[k]; ok {
			out[i] = r
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
	}
	return out
}
