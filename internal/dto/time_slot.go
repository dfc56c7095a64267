package dto

// ── time slot ──

// TimeSlot GET /api/time-slots record
type TimeSlot struct {
	ID        int64  `json:"id"         validate:"required"`
	StartTime string `json:"start_time" validate:"required"` // "09:00"
	EndTime   string `json:"end_time"   validate:"required"`
}
