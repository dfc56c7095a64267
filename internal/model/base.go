package model

import "time"

// dateLayout civil date of a DATE column
const dateLayout = "2006-01-02"

// BaseModel audit timestamps embedded in every table model
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// FormatDate renders a DATE column; NULL becomes ""
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD value for a DATE column; "" becomes NULL
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
