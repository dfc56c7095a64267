package dto

// Profile GET /api/profile
type Profile struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	Role              string `json:"role"`
	ClassCode         string `json:"classcode"`
	Semester          string `json:"semester,omitempty"`
	SemesterStartDate string `json:"semester_start_date"`
	SemesterEndDate   string `json:"semester_end_date"`
}

// Subject GET /api/subjects record
type Subject struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Professor  string `json:"professor,omitempty"`
	IsElective bool   `json:"isElective"`
}

// Elective GET /api/electives/selected record
type Elective struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Professor string `json:"professor,omitempty"`
	IsOpen    bool   `json:"is_open"`
	Status    string `json:"status"`
}

// ElectiveEnrolled enrollment status counted in student stats
const ElectiveEnrolled = "enrolled"
