package model

// TimeSlot teaching period of a class, table time_slots
type TimeSlot struct {
	ID        int64  `gorm:"primaryKey"                json:"id"`
	ClassCode string `gorm:"type:varchar(32);not null" json:"class_code"` // "" is campus-wide
	StartTime string `gorm:"type:varchar(5);not null"  json:"start_time"` // "09:00"
	EndTime   string `gorm:"type:varchar(5);not null"  json:"end_time"`
	BaseModel
}

// TableName table name
func (TimeSlot) TableName() string { return "time_slots" }
