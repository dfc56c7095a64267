package dto

// ── attendance ──

// AttendanceRecord stored attendance mark, keyed by (ClassID, Date).
// Some backends echo the civil date as DateStr next to a full timestamp in Date.
type AttendanceRecord struct {
	ClassID int64   `json:"class_id"           validate:"required"`
	Date    string  `json:"date"`
	DateStr string  `json:"date_str,omitempty"`
	Status  string  `json:"status"             validate:"omitempty,oneof=present absent"`
	Reason  *string `json:"reason"`
}

// SaveAttendanceItem one element of the POST /attendance body
type SaveAttendanceItem struct {
	ClassID int64  `json:"class_id" binding:"required,min=1"`
	Date    string `json:"date"     binding:"required"`
	Status  string `json:"status"   binding:"omitempty,oneof=present absent"`
	Reason  string `json:"reason"   binding:"max=200"`
}

// StatsQuery optional overrides for GET /attendance/*
type StatsQuery struct {
	Today string `form:"today"`
}
