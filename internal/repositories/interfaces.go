package repositories

import (
	"context"
	"errors"
	"time"

	"jobportal/internal/models"
)

// Sentinel errors surfaced to the service layer. The services translate them
// into the client-facing error taxonomy.
var (
	// ErrDuplicateUser signals a username or email collision at registration.
	ErrDuplicateUser = errors.New("username or email already taken")

	// ErrDuplicateApplication signals the (job, jobseeker) unique constraint
	// fired on insert.
	ErrDuplicateApplication = errors.New("application already exists for this job and jobseeker")
)

// UserRepository manages account identities
type UserRepository interface {
	// CreateWithProfile inserts the user and its matching profile in one
	// transaction. Exactly one of company/seeker must be non-nil.
	CreateWithProfile(ctx context.Context, user *models.User, company *models.Company, seeker *models.JobSeeker) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CompanyRepository manages company profiles
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

// JobSeekerRepository manages job-seeker profiles
type JobSeekerRepository interface {
	GetByID(ctx context.Context, id int64) (*models.JobSeeker, error)
	GetByUserID(ctx context.Context, userID int64) (*models.JobSeeker, error)
	Update(ctx context.Context, seeker *models.JobSeeker) error
}

// JobFilter narrows a job listing. CompanyID, when set, scopes the result set
// to that owner before any other condition is applied.
type JobFilter struct {
	CompanyID       *int64
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
}

// JobRepository manages job postings
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter JobFilter, params models.PageParams) ([]*models.Job, int64, error)
}

// ApplicationRepository manages job applications
type ApplicationRepository interface {
	// Create inserts the application and bumps the job's applicant counter in
	// one transaction. Returns ErrDuplicateApplication when the (job,
	// jobseeker) unique constraint fires.
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	HasApplied(ctx context.Context, jobID, jobSeekerID int64) (bool, error)
	ListByCompany(ctx context.Context, companyID int64, params models.PageParams) ([]*models.Application, int64, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID int64, params models.PageParams) ([]*models.Application, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// Collection bundles every repository for service wiring
type Collection struct {
	User        UserRepository
	Company     CompanyRepository
	JobSeeker   JobSeekerRepository
	Job         JobRepository
	Application ApplicationRepository
}
