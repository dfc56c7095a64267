package engine

import "sort"

// Color day highlight in the attendance calendar
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// WarnPercent below this a day is red, between this and the threshold yellow
const WarnPercent = 50

// DailyStat attendance across all subjects on one date
type DailyStat struct {
	Date       DateKey `json:"date"`
	Held       int     `json:"held"`
	Attended   int     `json:"attended"`
	Percentage float64 `json:"percentage"`
	Color      Color   `json:"color"`
	Holiday    bool    `json:"holiday"`
}

// DailyStats one entry per class date inside semester up to today, ordered by
// date. A holiday that would otherwise carry classes is reported red at 0%.
func (p Policy) DailyStats(entries []Entry, records []AttendanceRecord, holidays []Holiday, semester DateRange, today DateKey) []DailyStat {
	if !semester.Valid() {
		return nil
	}
	idx := IndexRecords(records)
	hs := NewHolidaySet(holidays)
	noHolidays := HolidaySet{}

	type tally struct{ held, attended int }
	days := make(map[DateKey]*tally)
	for _, owner := range owners(entries) {
		for _, o := range Occurrences(owner, entries, noHolidays, semester) {
			if o.Date > today {
				continue
			}
			t, ok := days[o.Date]
			if !ok {
				t = &tally{}
				days[o.Date] = t
			}
			if _, holiday := hs[o.Date]; holiday {
				continue
			}
			t.held++
			if rec, ok := idx[RecordKey{ClassID: o.ClassID, Date: o.Date}]; ok && rec.Status == StatusPresent {
				t.attended++
			}
		}
	}

	out := make([]DailyStat, 0, len(days))
	for date, t := range days {
		ds := DailyStat{Date: date, Held: t.held, Attended: t.attended}
		if _, holiday := hs[date]; holiday {
			ds.Holiday = true
			ds.Color = ColorRed
		} else {
			ds.Percentage = percentage(t.attended, t.held)
			ds.Color = p.colorOf(ds.Percentage)
		}
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (p Policy) colorOf(pct float64) Color {
	threshold := p.ThresholdPercent
	if threshold <= 0 {
		threshold = DefaultThresholdPercent
	}
	switch {
	case pct >= float64(threshold):
		return ColorGreen
	case pct >= WarnPercent:
		return ColorYellow
	default:
		return ColorRed
	}
}

// Highlights calendar colour per date: every holiday and every in-semester
// weekend is red, remaining class days take their daily colour.
func Highlights(daily []DailyStat, holidays []Holiday, semester DateRange) map[DateKey]Color {
	out := make(map[DateKey]Color)
	for _, d := range daily {
		out[d.Date] = d.Color
	}
	if semester.Valid() {
		for d := semester.Start; d != "" && d <= semester.End; d = d.AddDays(1) {
			if wd, _ := DayOfWeek(d); wd.IsWeekend() {
				out[d] = ColorRed
			}
		}
	}
	for _, h := range holidays {
		if h.Date.Valid() {
			out[h.Date] = ColorRed
		}
	}
	return out
}

// owners distinct owners in order of first appearance
func owners(entries []Entry) []Owner {
	seen := make(map[Owner]struct{})
	var out []Owner
	for _, e := range entries {
		if _, ok := seen[e.Owner]; ok {
			continue
		}
		seen[e.Owner] = struct{}{}
		out = append(out, e.Owner)
	}
	return out
}
