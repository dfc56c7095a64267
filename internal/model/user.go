package model

import "time"

// User student or class representative, table users
type User struct {
	ID                int64      `gorm:"primaryKey"                        json:"id"`
	Name              string     `gorm:"type:varchar(100);not null"        json:"name"`
	Email             string     `gorm:"type:varchar(255);not null;unique" json:"email"`
	Role              string     `gorm:"type:varchar(20);not null"         json:"role"` // student | cr | elective_cr
	ClassCode         string     `gorm:"type:varchar(32);not null"         json:"classcode"`
	Semester          string     `gorm:"type:varchar(10);not null"         json:"semester"`
	SemesterStartDate *time.Time `gorm:"type:date"                         json:"semester_start_date,omitempty"`
	SemesterEndDate   *time.Time `gorm:"type:date"                         json:"semester_end_date,omitempty"`
	BaseModel
}

// TableName table name
func (User) TableName() string { return "users" }
