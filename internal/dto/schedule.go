package dto

// ── schedule entries ──

// ScheduleEntry class or elective schedule row as served by the backend.
// Exactly one of SubjectID / ElectiveID is set. A row with SpecificDate is a
// one-off entry; otherwise DayOfWeek and the date range describe a weekly series.
type ScheduleEntry struct {
	ID            int64  `json:"id"                        validate:"required"`
	SubjectID     *int64 `json:"subject_id,omitempty"      validate:"required_without=ElectiveID,excluded_with=ElectiveID"`
	ElectiveID    *int64 `json:"elective_id,omitempty"     validate:"required_without=SubjectID"`
	SubjectName   string `json:"subject_name,omitempty"`
	ElectiveName  string `json:"elective_name,omitempty"`
	ProfessorName string `json:"professor_name,omitempty"`
	DayOfWeek     string `json:"day_of_week,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	SpecificDate  string `json:"specific_date,omitempty"`
	TimeSlotID    int64  `json:"time_slot_id"              validate:"required"`
	Canceled      bool   `json:"canceled"`
}

// CreateScheduleRequest POST /schedules
type CreateScheduleRequest struct {
	SubjectID    *int64 `json:"subject_id"`
	ElectiveID   *int64 `json:"elective_id"`
	DayOfWeek    string `json:"day_of_week"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	SpecificDate string `json:"specific_date"`
	TimeSlotID   int64  `json:"time_slot_id" binding:"required,min=1"`
	Canceled     bool   `json:"canceled"`
}

// CancelClassRequest POST /schedules/cancel
type CancelClassRequest struct {
	SubjectID  *int64 `json:"subject_id"`
	ElectiveID *int64 `json:"elective_id"`
	Date       string `json:"date"         binding:"required"`
	TimeSlotID int64  `json:"time_slot_id" binding:"required,min=1"`
}
