package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"prezz/internal/engine"
	"prezz/internal/session"
)

// ── export errors ──

var (
	ErrExportNoSemester   = errors.New("profile has no semester dates")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// icsNamespace UIDs are derived from (class, date, slot) so re-exports update
// existing calendar events instead of duplicating them
var icsNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://prezz.app/ics"))

// ExportService downloadable renderings of a caller's timetable
//
// Output formats:
//   - xlsx: a "Timetable" sheet with the week grid, and for students an
//     "Attendance" sheet with per-subject stats as of today
//   - ics: every effective class of the semester as a VEVENT
type ExportService interface {
	ExportWorkbook(ctx context.Context, sess *session.Session, anchor string) (*bytes.Buffer, string, error)
	ExportCalendar(ctx context.Context, sess *session.Session) ([]byte, string, error)
}

type exportService struct {
	loader *Loader
	cal    *engine.Calendar
	policy engine.Policy
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(loader *Loader, cal *engine.Calendar, policy engine.Policy, logger *zap.Logger) ExportService {
	return &exportService{loader: loader, cal: cal, policy: policy, now: time.Now, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportWorkbook
// ════════════════════════════════════════════════════════════
//
// Timetable sheet layout:
//   - row 1: title, merged across the grid
//   - row 2: Day | Date | one column per slot
//   - rows 3-9: Monday to Sunday; holiday rows merge every slot column

const (
	sheetTimetable  = "Timetable"
	sheetAttendance = "Attendance"
)

func (s *exportService) ExportWorkbook(ctx context.Context, sess *session.Session, anchor string) (*bytes.Buffer, string, error) {
	at, err := dateOrToday(s.cal, s.now, anchor)
	if err != nil {
		return nil, "", err
	}
	snap, err := s.loader.Load(ctx, sess)
	if err != nil {
		return nil, "", err
	}

	window := engine.WeekWindow(at)
	slots := engine.SortSlots(snap.Data.Slots)
	days := engine.BuildWeek(window, snap.Data.Slots, snap.Data.Entries, snap.Data.Holidays)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetTimetable)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	holidayStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F4CCCC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	lastCol := colName(1 + len(slots))
	if len(slots) == 0 {
		lastCol = "B"
	}

	f.SetCellValue(sheetTimetable, "A1", fmt.Sprintf("Timetable %s to %s", window[0], window[6]))
	f.MergeCell(sheetTimetable, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetTimetable, "A1", "A1", headerStyle)

	f.SetCellValue(sheetTimetable, cell("A", 2), "Day")
	f.SetCellValue(sheetTimetable, cell("B", 2), "Date")
	for i, sl := range slots {
		f.SetCellValue(sheetTimetable, cell(colName(2+i), 2), sl.Label())
	}
	f.SetCellStyle(sheetTimetable, "A2", cell(lastCol, 2), headerStyle)

	f.SetColWidth(sheetTimetable, "A", "A", 8)
	f.SetColWidth(sheetTimetable, "B", "B", 12)
	if len(slots) > 0 {
		f.SetColWidth(sheetTimetable, "C", lastCol, 24)
	}

	for i, d := range days {
		row := 3 + i
		f.SetCellValue(sheetTimetable, cell("A", row), d.Day)
		f.SetCellValue(sheetTimetable, cell("B", row), d.Date.String())
		if len(slots) == 0 {
			continue
		}
		if d.IsHoliday || d.IsDefaultHoliday {
			label := d.HolidayDescription
			if label == "" {
				label = engine.LabelHoliday
			}
			f.SetCellValue(sheetTimetable, cell("C", row), label)
			f.MergeCell(sheetTimetable, cell("C", row), cell(lastCol, row))
			f.SetCellStyle(sheetTimetable, cell("C", row), cell(lastCol, row), holidayStyle)
			continue
		}
		for j, c := range d.Cells {
			f.SetCellValue(sheetTimetable, cell(colName(2+j), row), c.Label)
		}
	}

	if sess.IsStudent() {
		if err := s.attendanceSheet(f, snap, headerStyle); err != nil {
			s.logger.Error("write attendance sheet failed", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s_%s.xlsx", sess.ClassCode, window[0])
	return buf, filename, nil
}

func (s *exportService) attendanceSheet(f *excelize.File, snap *Snapshot, headerStyle int) error {
	if _, err := f.NewSheet(sheetAttendance); err != nil {
		return err
	}
	view := buildStats(s.policy, snap, s.cal.Today(s.now()))

	headers := []string{"Subject", "Held", "Attended", "Percentage", "Remaining", "Classes needed", "Requirement"}
	for i, h := range headers {
		f.SetCellValue(sheetAttendance, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetAttendance, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(sheetAttendance, "A", "A", 28)

	for i, st := range view.Subjects {
		row := 2 + i
		values := []interface{}{st.Name, st.Held, st.Attended, st.Percentage, st.Remaining, st.ClassesNeeded, string(st.Requirement)}
		for j, v := range values {
			if err := f.SetCellValue(sheetAttendance, cell(colName(j), row), v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// ExportCalendar
// ════════════════════════════════════════════════════════════

type icsEvent struct {
	uid   string
	start time.Time
	end   time.Time
	entry engine.Entry
}

func (s *exportService) ExportCalendar(ctx context.Context, sess *session.Session) ([]byte, string, error) {
	snap, err := s.loader.Load(ctx, sess)
	if err != nil {
		return nil, "", err
	}
	if !snap.Semester.Valid() {
		return nil, "", ErrExportNoSemester
	}

	slots := make(map[int64]engine.TimeSlot, len(snap.Data.Slots))
	for _, sl := range snap.Data.Slots {
		slots[sl.ID] = sl
	}
	byID := make(map[int64]engine.Entry, len(snap.Data.Entries))
	for _, e := range snap.Data.Entries {
		byID[e.ID] = e
	}
	hs := engine.NewHolidaySet(snap.Data.Holidays)

	var events []icsEvent
	for _, owner := range distinctOwners(snap.Data.Entries) {
		for _, occ := range engine.Occurrences(owner, snap.Data.Entries, hs, snap.Semester) {
			sl, ok := slots[occ.SlotID]
			if !ok {
				continue
			}
			start, ok1 := s.cal.Instant(occ.Date, sl.StartTime)
			end, ok2 := s.cal.Instant(occ.Date, sl.EndTime)
			if !ok1 || !ok2 {
				continue
			}
			key := fmt.Sprintf("%d/%s/%d", occ.ClassID, occ.Date, occ.SlotID)
			events = append(events, icsEvent{
				uid:   uuid.NewSHA1(icsNamespace, []byte(key)).String() + "@prezz",
				start: start,
				end:   end,
				entry: byID[occ.ClassID],
			})
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].start.Equal(events[j].start) {
			return events[i].start.Before(events[j].start)
		}
		return events[i].uid < events[j].uid
	})

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//prezz//timetable//EN")
	cal.SetXWRCalName("Timetable " + sess.ClassCode)
	cal.SetXWRTimezone(s.cal.Location().String())

	stamp := s.now().UTC()
	for _, ev := range events {
		e := cal.AddEvent(ev.uid)
		e.SetDtStampTime(stamp)
		e.SetStartAt(ev.start)
		e.SetEndAt(ev.end)
		e.SetSummary(ev.entry.Name)
		if ev.entry.Professor != "" {
			e.SetDescription(ev.entry.Professor)
		}
	}

	filename := fmt.Sprintf("timetable_%s.ics", sess.ClassCode)
	return []byte(cal.Serialize()), filename, nil
}

// distinctOwners in order of first appearance
func distinctOwners(entries []engine.Entry) []engine.Owner {
	seen := make(map[engine.Owner]bool)
	var out []engine.Owner
	for _, e := range entries {
		if !seen[e.Owner] {
			seen[e.Owner] = true
			out = append(out, e.Owner)
		}
	}
	return out
}

// ── helpers ──

// colName zero-based column index to letters
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
