package model

import "time"

// Holiday non-teaching date, table holidays
type Holiday struct {
	ID          int64     `gorm:"primaryKey"                 json:"id"`
	ClassCode   string    `gorm:"type:varchar(32);not null"  json:"class_code"` // "" is campus-wide
	HolidayDate time.Time `gorm:"type:date;not null"         json:"holiday_date"`
	Description string    `gorm:"type:varchar(200);not null" json:"description"`
	BaseModel
}

// TableName table name
func (Holiday) TableName() string { return "holidays" }
