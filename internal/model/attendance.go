package model

import "time"

// Attendance one mark, unique per (user, class, date), table attendance
type Attendance struct {
	ID      int64     `gorm:"primaryKey"                json:"id"`
	UserID  int64     `gorm:"not null"                  json:"user_id"`
	ClassID int64     `gorm:"not null"                  json:"class_id"`
	Date    time.Time `gorm:"type:date;not null"        json:"date"`
	Status  string    `gorm:"type:varchar(10);not null" json:"status"`
	Reason  *string   `gorm:"type:varchar(200)"         json:"reason,omitempty"`
	BaseModel
}

// TableName table name
func (Attendance) TableName() string { return "attendance" }
