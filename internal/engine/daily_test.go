package engine

import "testing"

func TestDailyStats(t *testing.T) {
	entries := []Entry{
		mathMondays(),
		recurring(300, SubjectOwner(physicsID), "Physics", slotTen, Monday, "2025-01-06", "2025-05-30"),
	}
	records := []AttendanceRecord{
		{ClassID: 100, Date: "2025-01-06", Status: StatusPresent},
		{ClassID: 300, Date: "2025-01-06", Status: StatusPresent},
		{ClassID: 100, Date: "2025-01-13", Status: StatusPresent},
		{ClassID: 300, Date: "2025-01-13", Status: StatusAbsent},
	}
	holidays := []Holiday{{Date: "2025-01-27", Description: "Republic Day (observed)"}}
	semester := DateRange{Start: "2025-01-06", End: "2025-05-30"}

	days := DefaultPolicy.DailyStats(entries, records, holidays, semester, "2025-01-28")
	if len(days) != 4 {
		t.Fatalf("expected 4 class dates up to today, got %d: %+v", len(days), days)
	}

	want := []struct {
		date  DateKey
		pct   float64
		color Color
	}{
		{"2025-01-06", 100, ColorGreen},
		{"2025-01-13", 50, ColorYellow},
		{"2025-01-20", 0, ColorRed},
		{"2025-01-27", 0, ColorRed},
	}
	for i, w := range want {
		if days[i].Date != w.date || days[i].Percentage != w.pct || days[i].Color != w.color {
			t.Errorf("day %d: expected %s %.0f%% %s, got %+v", i, w.date, w.pct, w.color, days[i])
		}
	}
	if !days[3].Holiday || days[3].Held != 0 {
		t.Errorf("expected holiday with nothing held, got %+v", days[3])
	}
	if days[0].Held != 2 || days[0].Attended != 2 {
		t.Errorf("expected 2/2 on first day, got %+v", days[0])
	}
}

func TestDailyStats_Empty(t *testing.T) {
	if days := DefaultPolicy.DailyStats(nil, nil, nil, DateRange{Start: "2025-01-06", End: "2025-05-30"}, "2025-03-01"); len(days) != 0 {
		t.Errorf("expected no days, got %d", len(days))
	}
	if days := DefaultPolicy.DailyStats([]Entry{mathMondays()}, nil, nil, DateRange{}, "2025-03-01"); days != nil {
		t.Errorf("expected nil without a semester, got %+v", days)
	}
}

func TestHighlights(t *testing.T) {
	daily := []DailyStat{
		{Date: "2025-01-06", Color: ColorGreen},
		{Date: "2025-01-13", Color: ColorYellow},
		{Date: "2025-01-20", Color: ColorGreen},
	}
	holidays := []Holiday{{Date: "2025-01-20"}, {Date: "2025-02-26"}}
	semester := DateRange{Start: "2025-01-06", End: "2025-01-19"}

	got := Highlights(daily, holidays, semester)
	checks := map[DateKey]Color{
		"2025-01-06": ColorGreen,
		"2025-01-13": ColorYellow,
		"2025-01-11": ColorRed, // saturday in semester
		"2025-01-19": ColorRed, // sunday in semester
		"2025-01-20": ColorRed, // holiday beats daily colour
		"2025-02-26": ColorRed, // holiday outside semester
	}
	for d, want := range checks {
		if got[d] != want {
			t.Errorf("%s: expected %s, got %q", d, want, got[d])
		}
	}
	if _, ok := got["2025-01-25"]; ok {
		t.Error("expected weekends outside the semester to stay unmarked")
	}
	if _, ok := got["2025-01-07"]; ok {
		t.Error("expected weekdays without classes to stay unmarked")
	}
}

func TestColorOf(t *testing.T) {
	p := DefaultPolicy
	cases := map[float64]Color{100: ColorGreen, 80: ColorGreen, 79.99: ColorYellow, 50: ColorYellow, 49.99: ColorRed, 0: ColorRed}
	for pct, want := range cases {
		if got := p.colorOf(pct); got != want {
			t.Errorf("%.2f: expected %s, got %s", pct, want, got)
		}
	}
}
