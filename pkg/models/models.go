package models

// Domain models matching the database schema in db/migrations/0001_init.sql

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Application statuses. Transitions are unrestricted among these values.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the known application statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}

type Job struct {
	ID                 int64  `json:"id" db:"id"`
	Title              string `json:"title" db:"title"`
	CompanyName        string `json:"company_name" db:"company_name"`
	CompanyDescription string `json:"company_description" db:"company_description"`
	JobDescription     string `json:"job_description" db:"job_description"`
	Location           string `json:"location" db:"location"`
	Requirements       string `json:"requirements" db:"requirements"`
	Salary             string `json:"salary" db:"salary"`
	Tags               string `json:"tags" db:"tags"`
	Deadline           string `json:"deadline" db:"deadline"`
	DatePosted         int64  `json:"date_posted" db:"date_posted"`
	IsArchived         bool   `json:"is_archived" db:"is_archived"`
}

type Application struct {
	ID              int64  `json:"id" db:"id"`
	JobID           int64  `json:"job_id" db:"job_id"`
	UserID          int64  `json:"user_id" db:"user_id"`
	CoverLetter     string `json:"cover_letter" db:"cover_letter"`
	CVURL           string `json:"cv_url" db:"cv_url"`
	Status          string `json:"status" db:"status"`
	ApplicationDate int64  `json:"application_date" db:"application_date"`

	// Joined columns, populated by the admin listings only.
	Username    string `json:"username,omitempty" db:"username"`
	JobTitle    string `json:"job_title,omitempty" db:"job_title"`
	CompanyName string `json:"company_name,omitempty" db:"company_name"`
}
