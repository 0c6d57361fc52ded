package services

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/repositories"
)

// ===============================
// ACCOUNT REQUESTS
// ===============================

// RegisterRequest creates an account plus its role-matching profile
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=company jobseeker"`
}

// LoginRequest authenticates with username and password
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a fresh access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// LogoutRequest revokes a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// TokenPair carries the credentials returned by login, register, and refresh
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AccessClaims is the verified content of an access token
type AccessClaims struct {
	UserID   int64
	Username string
	Role     string
	TokenID  string
	IssuedAt time.Time
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User     *models.User `json:"user"`
	Tokens   *TokenPair   `json:"tokens"`
	Redirect string       `json:"redirect"`
}

// ProfileResponse merges the account with its role profile. The absent
// profile serializes as null rather than disappearing from the payload.
type ProfileResponse struct {
	User      *models.User      `json:"user"`
	Company   *models.Company   `json:"company_profile"`
	JobSeeker *models.JobSeeker `json:"jobseeker_profile"`
}

// UpdateCompanyProfileRequest updates company profile fields. Nil fields are
// left untouched; user_id and company_id are not accepted.
type UpdateCompanyProfileRequest struct {
	CompanyName *string        `json:"company_name,omitempty" validate:"omitempty,min=1,max=255"`
	Tagline     *string        `json:"tagline,omitempty"`
	Description *string        `json:"description,omitempty"`
	Website     *string        `json:"website,omitempty" validate:"omitempty,url"`
	Email       *string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string        `json:"phone,omitempty"`
	Location    *string        `json:"location,omitempty"`
	Founded     *string        `json:"founded,omitempty"`
	Industry    *string        `json:"industry,omitempty"`
	CompanySize *string        `json:"company_size,omitempty"`
	CompanyInfo models.JSONMap `json:"company_info,omitempty"`
}

// UpdateJobSeekerProfileRequest updates jobseeker profile fields
type UpdateJobSeekerProfileRequest struct {
	FullName   *string           `json:"full_name,omitempty"`
	Title      *string           `json:"title,omitempty"`
	Bio        *string           `json:"bio,omitempty"`
	Location   *string           `json:"location,omitempty"`
	Skills     models.StringList `json:"skills,omitempty"`
	Experience models.JSONList   `json:"experience,omitempty"`
	Education  models.JSONList   `json:"education,omitempty"`
}

// AssetUpload carries a multipart file destined for the asset store
type AssetUpload struct {
	File     multipart.File
	Filename string
	Size     int64
	Kind     string // "logo", "profile_picture", or "resume"
}

// ===============================
// JOB REQUESTS
// ===============================

// CreateJobRequest creates a job posting for the caller's company
type CreateJobRequest struct {
	Title               string            `json:"title" validate:"required,max=255"`
	Description         string            `json:"description" validate:"required"`
	Salary              *string           `json:"salary,omitempty"`
	Location            *string           `json:"location,omitempty"`
	JobType             *string           `json:"job_type,omitempty"`
	Requirements        models.StringList `json:"requirements,omitempty"`
	Responsibilities    models.StringList `json:"responsibilities,omitempty"`
	Benefits            models.StringList `json:"benefits,omitempty"`
	Urgent              bool              `json:"urgent"`
	ApplicationDeadline *time.Time        `json:"application_deadline,omitempty"`
	RemotePolicy        *string           `json:"remote_policy,omitempty"`
	ExperienceLevel     *string           `json:"experience_level,omitempty"`
	Education           *string           `json:"education,omitempty"`
}

// UpdateJobRequest updates a job posting. Nil fields are left untouched; the
// owning company is never changed.
type UpdateJobRequest struct {
	Title               *string            `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description         *string            `json:"description,omitempty" validate:"omitempty,min=1"`
	Salary              *string            `json:"salary,omitempty"`
	Location            *string            `json:"location,omitempty"`
	JobType             *string            `json:"job_type,omitempty"`
	Requirements        *models.StringList `json:"requirements,omitempty"`
	Responsibilities    *models.StringList `json:"responsibilities,omitempty"`
	Benefits            *models.StringList `json:"benefits,omitempty"`
	Urgent              *bool              `json:"urgent,omitempty"`
	ApplicationDeadline *time.Time         `json:"application_deadline,omitempty"`
	RemotePolicy        *string            `json:"remote_policy,omitempty"`
	ExperienceLevel     *string            `json:"experience_level,omitempty"`
	Education           *string            `json:"education,omitempty"`
}

// ListJobsRequest carries the query-string filters and pagination for job
// listings.
type ListJobsRequest struct {
	Search          *string
	JobType         *string
	Location        *string
	ExperienceLevel *string
	Remote          *string
	Education       *string
	MinSalary       *string
	Urgent          *bool
	PostedAfter     *time.Time
	PostedBefore    *time.Time
	DeadlineAfter   *time.Time
	DeadlineBefore  *time.Time

	Page     int
	Ordering string
}

func (r ListJobsRequest) filter() repositories.JobFilter {
	return repositories.JobFilter{
		Search:          r.Search,
		JobType:         r.JobType,
		Location:        r.Location,
		ExperienceLevel: r.ExperienceLevel,
		Remote:          r.Remote,
		Education:       r.Education,
		MinSalary:       r.MinSalary,
		Urgent:          r.Urgent,
		PostedAfter:     r.PostedAfter,
		PostedBefore:    r.PostedBefore,
		DeadlineAfter:   r.DeadlineAfter,
		DeadlineBefore:  r.DeadlineBefore,
	}
}

// ===============================
// APPLICATION REQUESTS
// ===============================

// ApplyRequest submits an application to a job
type ApplyRequest struct {
	JobID       int64  `json:"job" validate:"required,gt=0"`
	CoverLetter string `json:"cover_letter"`
}

// ===============================
// SERVICE INTERFACES
// ===============================

// TokenService issues, verifies, refreshes, and revokes tokens
type TokenService interface {
	IssuePair(ctx context.Context, user *models.User) (*TokenPair, error)
	Verify(ctx context.Context, accessToken string) (*AccessClaims, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Invalidate(ctx context.Context, refreshToken string) error
}

// AuthService handles registration, login, logout, and the merged profile view
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, req *LogoutRequest) error
	RefreshToken(ctx context.Context, req *RefreshRequest) (*TokenPair, error)
	GetProfile(ctx context.Context, userID int64) (*ProfileResponse, error)
}

// ProfileService manages the role-specific profiles
type ProfileService interface {
	GetCompanyProfile(ctx context.Context, userID int64) (*models.Company, error)
	UpdateCompanyProfile(ctx context.Context, userID int64, req *UpdateCompanyProfileRequest) (*models.Company, error)
	GetJobSeekerProfile(ctx context.Context, userID int64) (*models.JobSeeker, error)
	UpdateJobSeekerProfile(ctx context.Context, userID int64, req *UpdateJobSeekerProfileRequest) (*models.JobSeeker, error)
	UploadAsset(ctx context.Context, userID int64, upload *AssetUpload) (*ProfileResponse, error)
}

// JobService manages job postings
type JobService interface {
	Create(ctx context.Context, userID int64, req *CreateJobRequest) (*models.Job, error)
	Get(ctx context.Context, jobID int64) (*models.Job, error)
	Update(ctx context.Context, userID, jobID int64, req *UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, userID, jobID int64) error
	List(ctx context.Context, req *ListJobsRequest) ([]*models.Job, int64, models.PageParams, error)
	ListCompany(ctx context.Context, userID int64, req *ListJobsRequest) ([]*models.Job, int64, models.PageParams, error)
	GetCompanyJob(ctx context.Context, userID, jobID int64) (*models.Job, error)
}

// ApplicationService manages job applications
type ApplicationService interface {
	Apply(ctx context.Context, userID int64, req *ApplyRequest) (*models.Application, error)
	ListReceived(ctx context.Context, userID int64, page int) ([]*models.Application, int64, models.PageParams, error)
	ListMine(ctx context.Context, userID int64, page int) ([]*models.Application, int64, models.PageParams, error)
	// UpdateStatus takes the raw request body so a payload carrying anything
	// besides "status" can be rejected wholesale.
	UpdateStatus(ctx context.Context, userID, applicationID int64, payload map[string]json.RawMessage) (*models.Application, error)
}

// Collection bundles every service for handler wiring
type Collection struct {
	Token       TokenService
	Auth        AuthService
	Profile     ProfileService
	Job         JobService
	Application ApplicationService
}
