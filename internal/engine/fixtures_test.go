package engine

const (
	mathID    int64 = 1
	physicsID int64 = 2
	aiID      int64 = 7

	slotNine  int64 = 1
	slotTen   int64 = 2
	slotEarly int64 = 3
)

func testSlots() []TimeSlot {
	return []TimeSlot{
		{ID: slotTen, StartTime: "10:00", EndTime: "11:00"},
		{ID: slotNine, StartTime: "09:00", EndTime: "10:00"},
	}
}

// mathMondays Math, every Monday 2025-01-06..2025-05-30, 09:00-10:00
func mathMondays() Entry {
	return Entry{
		ID:        100,
		Kind:      KindRecurring,
		Owner:     SubjectOwner(mathID),
		Name:      "Math",
		Professor: "Dr. Rao",
		SlotID:    slotNine,
		Weekday:   Monday,
		Start:     "2025-01-06",
		End:       "2025-05-30",
	}
}

func recurring(id int64, owner Owner, name string, slot int64, wd Weekday, start, end DateKey) Entry {
	return Entry{ID: id, Kind: KindRecurring, Owner: owner, Name: name, SlotID: slot, Weekday: wd, Start: start, End: end}
}

func specific(id int64, owner Owner, name string, slot int64, date DateKey, canceled bool) Entry {
	return Entry{ID: id, Kind: KindSpecific, Owner: owner, Name: name, SlotID: slot, Date: date, Canceled: canceled}
}

func present(classID int64, dates ...DateKey) []AttendanceRecord {
	out := make([]AttendanceRecord, 0, len(dates))
	for _, d := range dates {
		out = append(out, AttendanceRecord{ClassID: classID, Date: d, Status: StatusPresent})
	}
	return out
}

func mondaysFrom(start DateKey, n int) []DateKey {
	out := make([]DateKey, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDays(7*i))
	}
	return out
}
