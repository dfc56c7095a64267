package engine

import (
	"fmt"
	"strings"
	"time"
)

// ── civil dates ──────────────────────────────────────────────
//
// Every comparison in the engine is done on DateKey strings. Wall-clock
// instants are converted into the institutional zone exactly once, in
// Calendar.Normalize; after that no time.Time crosses an API boundary.
// ─────────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// DateKey canonical YYYY-MM-DD civil date. The empty key means "no date".
type DateKey string

func (k DateKey) String() string { return string(k) }

// Valid reports whether k is a well-formed calendar date
func (k DateKey) Valid() bool {
	_, ok := k.civil()
	return ok
}

// civil returns midnight UTC of k; UTC keeps day arithmetic free of DST gaps
func (k DateKey) civil() (time.Time, bool) {
	if len(k) != len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, string(k))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddDays shifts k by n days; an invalid key stays empty
func (k DateKey) AddDays(n int) DateKey {
	t, ok := k.civil()
	if !ok {
		return ""
	}
	return keyOf(t.AddDate(0, 0, n))
}

func keyOf(t time.Time) DateKey { return DateKey(t.Format(dateLayout)) }

// DateRange inclusive range of civil dates
type DateRange struct {
	Start DateKey `json:"start"`
	End   DateKey `json:"end"`
}

// Valid both ends parse and Start <= End
func (r DateRange) Valid() bool {
	return r.Start.Valid() && r.End.Valid() && r.Start <= r.End
}

// Contains inclusive on both ends
func (r DateRange) Contains(k DateKey) bool {
	return k.Valid() && r.Start <= k && k <= r.End
}

// ── weekdays ──

// Weekday ISO weekday with Monday first
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var (
	weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	weekdayShort = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
)

func (d Weekday) valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	if !d.valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Short three-letter label
func (d Weekday) Short() string {
	if !d.valid() {
		return ""
	}
	return weekdayShort[d]
}

// IsWeekend Saturday or Sunday
func (d Weekday) IsWeekend() bool { return d == Saturday || d == Sunday }

// ParseWeekday accepts full or short English names, any case
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.TrimSpace(s)
	for i := range weekdayNames {
		if strings.EqualFold(s, weekdayNames[i]) || strings.EqualFold(s, weekdayShort[i]) {
			return Weekday(i), true
		}
	}
	return 0, false
}

func fromTimeWeekday(wd time.Weekday) Weekday {
	return Weekday((int(wd) + 6) % 7)
}

// DayOfWeek weekday of a civil date
func DayOfWeek(k DateKey) (Weekday, bool) {
	t, ok := k.civil()
	if !ok {
		return 0, false
	}
	return fromTimeWeekday(t.Weekday()), true
}

// WeekWindow the Monday-start week containing anchor. An invalid anchor
// yields an all-empty window.
func WeekWindow(anchor DateKey) [7]DateKey {
	var window [7]DateKey
	wd, ok := DayOfWeek(anchor)
	if !ok {
		return window
	}
	monday := anchor.AddDays(-int(wd))
	for i := range window {
		window[i] = monday.AddDays(i)
	}
	return window
}

// ── Calendar ──

// layouts without an explicit offset; read as wall-clock in the institutional zone
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// layouts carrying an offset; converted into the institutional zone
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
}

// Calendar maps instants to civil dates of one institution
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the IANA zone name
func NewCalendar(zone string) (*Calendar, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return &Calendar{loc: loc}, nil
}

// Location institutional zone
func (c *Calendar) Location() *time.Location { return c.loc }

// Today civil date of now in the institutional zone
func (c *Calendar) Today(now time.Time) DateKey {
	return keyOf(now.In(c.loc))
}

// Normalize turns a string, time.Time, *time.Time or DateKey into a DateKey.
// Unparseable input returns the empty key, never an error.
func (c *Calendar) Normalize(v interface{}) DateKey {
	switch x := v.(type) {
	case DateKey:
		return c.normalizeString(string(x))
	case string:
		return c.normalizeString(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return keyOf(x.In(c.loc))
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return keyOf(x.In(c.loc))
	default:
		return ""
	}
}

func (c *Calendar) normalizeString(s string) DateKey {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if k := DateKey(s); k.Valid() {
		return k
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return keyOf(t.In(c.loc))
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return keyOf(t)
		}
	}
	return ""
}

// Instant wall-clock time "HH:MM" on date k in the institutional zone
func (c *Calendar) Instant(k DateKey, clock string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout+" 15:04", string(k)+" "+strings.TrimSpace(clock), c.loc)
	if err != nil {
		// backends often send "HH:MM:SS"
		t, err = time.ParseInLocation(dateLayout+" 15:04:05", string(k)+" "+strings.TrimSpace(clock), c.loc)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}
