package model

// Subject regular class subject, table subjects
type Subject struct {
	ID        int64  `gorm:"primaryKey"                 json:"id"`
	ClassCode string `gorm:"type:varchar(32);not null"  json:"class_code"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Professor string `gorm:"type:varchar(100);not null" json:"professor"`
	BaseModel
}

// TableName table name
func (Subject) TableName() string { return "subjects" }

// Elective cross-class elective course, table electives
type Elective struct {
	ID        int64  `gorm:"primaryKey"                 json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Professor string `gorm:"type:varchar(100);not null" json:"professor"`
	IsOpen    bool   `gorm:"not null;default:false"     json:"is_open"`
	CRUserID  *int64 `gorm:"column:cr_user_id"          json:"cr_user_id,omitempty"`
	BaseModel
}

// TableName table name
func (Elective) TableName() string { return "electives" }

// ElectiveEnrollment student ↔ elective, table elective_enrollments
type ElectiveEnrollment struct {
	UserID     int64  `gorm:"primaryKey"                json:"user_id"`
	ElectiveID int64  `gorm:"primaryKey"                json:"elective_id"`
	Status     string `gorm:"type:varchar(20);not null" json:"status"` // enrolled | dropped
	BaseModel

	Elective *Elective `gorm:"foreignKey:ElectiveID" json:"elective,omitempty"`
}

// TableName table name
func (ElectiveEnrollment) TableName() string { return "elective_enrollments" }
