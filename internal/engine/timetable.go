package engine

// Labels shown in the week grid
const (
	LabelHoliday   = "Holiday"
	LabelCancelled = "Cancelled"
	LabelEmpty     = "-"
)

// CellState state of one grid cell
type CellState string

const (
	CellClass     CellState = "class"
	CellCancelled CellState = "cancelled"
	CellEmpty     CellState = "empty"
)

// Cell one (day, slot) of the week grid
type Cell struct {
	SlotID   int64     `json:"slot_id"`
	State    CellState `json:"state"`
	Label    string    `json:"label"`
	ClassID  int64     `json:"class_id,omitempty"`
	Owner    *Owner    `json:"owner,omitempty"`
	Specific bool      `json:"specific,omitempty"`
}

// DayRow one day of the week grid. Holiday rows carry no cells and span
// every slot column.
type DayRow struct {
	Date               DateKey `json:"date"`
	Day                string  `json:"day"`
	Weekday            string  `json:"weekday"`
	IsHoliday          bool    `json:"is_holiday"`
	IsDefaultHoliday   bool    `json:"is_default_holiday"`
	HolidayDescription string  `json:"holiday_description,omitempty"`
	Span               int     `json:"span,omitempty"`
	Cells              []Cell  `json:"cells,omitempty"`
}

// BuildWeek lays out the grid for the 7 dates of window.
// slots are ordered by start time, then id.
func BuildWeek(window [7]DateKey, slots []TimeSlot, entries []Entry, holidays []Holiday) []DayRow {
	ordered := SortSlots(slots)
	hs := NewHolidaySet(holidays)

	rows := make([]DayRow, 0, len(window))
	for _, date := range window {
		rows = append(rows, buildDay(date, ordered, entries, hs))
	}
	return rows
}

func buildDay(date DateKey, slots []TimeSlot, entries []Entry, hs HolidaySet) DayRow {
	row := DayRow{Date: date}
	wd, ok := DayOfWeek(date)
	if ok {
		row.Day = wd.Short()
		row.Weekday = wd.String()
	}

	if h, isHoliday := hs[date]; isHoliday {
		row.IsHoliday = true
		row.HolidayDescription = h.Label()
		row.Span = len(slots)
		return row
	}

	cells := make([]Cell, 0, len(slots))
	anyClass := false
	for _, s := range slots {
		r := ResolveSlot(date, s.ID, entries)
		if r.Outcome == OutcomeClass {
			anyClass = true
		}
		cells = append(cells, cellOf(s.ID, r))
	}

	if ok && wd.IsWeekend() && !anyClass {
		row.IsDefaultHoliday = true
		row.HolidayDescription = LabelHoliday
		row.Span = len(slots)
		return row
	}

	row.Cells = cells
	return row
}

func cellOf(slotID int64, r Resolution) Cell {
	c := Cell{SlotID: slotID}
	switch r.Outcome {
	case OutcomeClass:
		owner := r.Entry.Owner
		c.State = CellClass
		c.Label = r.Entry.Label()
		c.ClassID = r.Entry.ID
		c.Owner = &owner
		c.Specific = r.Specific()
	case OutcomeCancelled:
		owner := r.Entry.Owner
		c.State = CellCancelled
		c.Label = LabelCancelled
		c.ClassID = r.Entry.ID
		c.Owner = &owner
	default:
		c.State = CellEmpty
		c.Label = LabelEmpty
	}
	return c
}

// ScheduledClass a class effectively held in one slot of one date
type ScheduledClass struct {
	ClassID   int64   `json:"class_id"`
	Owner     Owner   `json:"owner"`
	Name      string  `json:"name"`
	Professor string  `json:"professor,omitempty"`
	SlotID    int64   `json:"slot_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Date      DateKey `json:"date"`
	Specific  bool    `json:"specific"`
}

// ClassesOn lists the classes effectively held on date in slot order.
// Holidays and cancelled cells yield nothing.
func ClassesOn(date DateKey, slots []TimeSlot, entries []Entry, holidays []Holiday) []ScheduledClass {
	if !date.Valid() {
		return nil
	}
	if _, ok := NewHolidaySet(holidays)[date]; ok {
		return nil
	}

	var out []ScheduledClass
	for _, s := range SortSlots(slots) {
		r := ResolveSlot(date, s.ID, entries)
		if r.Outcome != OutcomeClass {
			continue
		}
		out = append(out, ScheduledClass{
			ClassID:   r.Entry.ID,
			Owner:     r.Entry.Owner,
			Name:      r.Entry.Name,
			Professor: r.Entry.Professor,
			SlotID:    s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Date:      date,
			Specific:  r.Specific(),
		})
	}
	return out
}
