package dto

// Holiday GET /api/holidays record
type Holiday struct {
	ID          int64  `json:"id"`
	HolidayDate string `json:"holiday_date" validate:"required"`
	Description string `json:"description"`
}

// CreateHolidayRequest POST /holidays
type CreateHolidayRequest struct {
	Date        string `json:"date"        binding:"required"`
	Description string `json:"description" binding:"max=200"`
}
