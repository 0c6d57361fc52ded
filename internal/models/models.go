package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Role values fixed at registration. There is no role-change operation.
const (
	RoleCompany   = "company"
	RoleJobSeeker = "jobseeker"
)

// Application status lifecycle. Pending is the initial state; the other
// three are terminal in the current workflow.
const (
	StatusPending  = "Pending"
	StatusReviewed = "Reviewed"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// ===============================
// CORE ENTITIES
// ===============================

// User represents an account identity tagged with a role
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username" validate:"required,min=3,max=50"`
	Email        string    `json:"email" db:"email" validate:"required,email,max=320"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role" validate:"required,oneof=company jobseeker"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Company represents the company-side profile, one per company user
type Company struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	// Generated once at first save, never regenerated. Format CMP-XXXXXX.
	CompanyID string `json:"company_id" db:"company_id"`

	CompanyName string  `json:"company_name" db:"company_name"`
	Tagline     *string `json:"tagline,omitempty" db:"tagline"`
	Description *string `json:"description,omitempty" db:"description"`
	Website     *string `json:"website,omitempty" db:"website" validate:"omitempty,url"`

	Email       *string `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" db:"phone"`
	Location    *string `json:"location,omitempty" db:"location"`
	Founded     *string `json:"founded,omitempty" db:"founded"`
	Industry    *string `json:"industry,omitempty" db:"industry"`
	CompanySize *string `json:"company_size,omitempty" db:"company_size"`

	CompanyInfo JSONMap `json:"company_info,omitempty" db:"company_info"`

	LogoURL      *string `json:"logo,omitempty" db:"logo_url"`
	LogoPublicID *string `json:"-" db:"logo_public_id"`
}

// JobSeeker represents the candidate-side profile, one per jobseeker user
type JobSeeker struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	FullName *string `json:"full_name,omitempty" db:"full_name"`
	Title    *string `json:"title,omitempty" db:"title"`
	Bio      *string `json:"bio,omitempty" db:"bio"`
	Location *string `json:"location,omitempty" db:"location"`

	Skills     StringList `json:"skills,omitempty" db:"skills"`
	Experience JSONList   `json:"experience,omitempty" db:"experience"`
	Education  JSONList   `json:"education,omitempty" db:"education"`

	ProfilePictureURL      *string `json:"profile_picture,omitempty" db:"profile_picture_url"`
	ProfilePicturePublicID *string `json:"-" db:"profile_picture_public_id"`
	ResumeURL              *string `json:"resume,omitempty" db:"resume_url"`
	ResumePublicID         *string `json:"-" db:"resume_public_id"`
}

// Job represents a job posting owned by exactly one company
type Job struct {
	ID        int64 `json:"id" db:"id"`
	CompanyID int64 `json:"company" db:"company_id"`

	Title       string  `json:"title" db:"title" validate:"required,max=255"`
	Description string  `json:"description" db:"description" validate:"required"`
	Salary      *string `json:"salary,omitempty" db:"salary"`
	Location    *string `json:"location,omitempty" db:"location"`
	JobType     *string `json:"job_type,omitempty" db:"job_type"`

	Posted time.Time `json:"posted" db:"posted"`

	Requirements     StringList `json:"requirements,omitempty" db:"requirements"`
	Responsibilities StringList `json:"responsibilities,omitempty" db:"responsibilities"`
	Benefits         StringList `json:"benefits,omitempty" db:"benefits"`

	// Snapshot of the owning company's metadata taken at posting time.
	CompanyInfo JSONMap `json:"company_info,omitempty" db:"company_info"`

	ApplicantsCount     int        `json:"applicants_count" db:"applicants_count"`
	Saved               bool       `json:"saved" db:"saved"`
	Urgent              bool       `json:"urgent" db:"urgent"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty" db:"application_deadline"`
	RemotePolicy        *string    `json:"remote_policy,omitempty" db:"remote_policy"`
	ExperienceLevel     *string    `json:"experience_level,omitempty" db:"experience_level"`
	Education           *string    `json:"education,omitempty" db:"education"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields (read-only)
	CompanyName     string `json:"company_name" db:"company_name"`
	CompanyUsername string `json:"company_username" db:"company_username"`
}

// Application links a job seeker to a job posting. job and jobseeker are
// immutable after creation; only status may change.
type Application struct {
	ID          int64  `json:"id" db:"id"`
	JobID       int64  `json:"job" db:"job_id"`
	JobSeekerID int64  `json:"jobseeker" db:"jobseeker_id"`
	CoverLetter string `json:"cover_letter" db:"cover_letter"`

	AppliedAt time.Time `json:"applied_at" db:"applied_at"`
	Status    string    `json:"status" db:"status"`

	// Joined fields (read-only)
	JobTitle          string  `json:"job_title" db:"job_title"`
	JobSeekerName     *string `json:"jobseeker_name,omitempty" db:"jobseeker_name"`
	JobSeekerUsername string  `json:"jobseeker_username" db:"jobseeker_username"`
	CompanyName       string  `json:"company_name" db:"company_name"`
	CompanyID         int64   `json:"-" db:"company_id"`
}

// ===============================
// JSON COLUMN TYPES
// ===============================

// StringList maps a jsonb column to a []string
type StringList []string

// Value implements driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *StringList) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// JSONMap maps a jsonb column to a free-form object
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// JSONList maps a jsonb column to a list of objects (experience, education)
type JSONList []map[string]interface{}

// Value implements driver.Valuer
func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *JSONList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported source type %T for json column", src)
	}
}
