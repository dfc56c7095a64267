package model

import "time"

// ClassSchedule weekly series or one-off entry, table class_schedules.
// SpecificDate set means one-off; exactly one of SubjectID / ElectiveID is set.
type ClassSchedule struct {
	ID           int64      `gorm:"primaryKey"                json:"id"`
	ClassCode    string     `gorm:"type:varchar(32);not null" json:"class_code"`
	SubjectID    *int64     `                                 json:"subject_id,omitempty"`
	ElectiveID   *int64     `                                 json:"elective_id,omitempty"`
	DayOfWeek    *string    `gorm:"type:varchar(10)"          json:"day_of_week,omitempty"`
	StartDate    *time.Time `gorm:"type:date"                 json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"type:date"                 json:"end_date,omitempty"`
	SpecificDate *time.Time `gorm:"type:date"                 json:"specific_date,omitempty"`
	TimeSlotID   int64      `gorm:"not null"                  json:"time_slot_id"`
	Canceled     bool       `gorm:"not null;default:false"    json:"canceled"`
	BaseModel

	Subject  *Subject  `gorm:"foreignKey:SubjectID"  json:"subject,omitempty"`
	Elective *Elective `gorm:"foreignKey:ElectiveID" json:"elective,omitempty"`
}

// TableName table name
func (ClassSchedule) TableName() string { return "class_schedules" }
