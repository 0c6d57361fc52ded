package services

import (
	"context"
	"fmt"

	"jobportal/internal/models"
	"jobportal/internal/repositories"
)

// Identity is the caller's resolved account plus its role profile. Exactly
// one of Company/JobSeeker is non-nil for a well-formed account.
type Identity struct {
	User      *models.User
	Company   *models.Company
	JobSeeker *models.JobSeeker
}

// IsCompanyUser reports whether the caller is a company account with a profile
func IsCompanyUser(id *Identity) bool {
	return id != nil && id.User != nil && id.User.Role == models.RoleCompany && id.Company != nil
}

// IsJobSeekerUser reports whether the caller is a jobseeker account with a
// profile.
func IsJobSeekerUser(id *Identity) bool {
	return id != nil && id.User != nil && id.User.Role == models.RoleJobSeeker && id.JobSeeker != nil
}

// IsJobOwner reports whether the caller's company owns the job
func IsJobOwner(id *Identity, job *models.Job) bool {
	return IsCompanyUser(id) && job != nil && job.CompanyID == id.Company.ID
}

// IsApplicationOwner reports whether the caller's company owns the job the
// application was submitted to.
func IsApplicationOwner(id *Identity, app *models.Application) bool {
	return IsCompanyUser(id) && app != nil && app.CompanyID == id.Company.ID
}

// identityResolver loads the caller's identity from the repositories
type identityResolver struct {
	users      repositories.UserRepository
	companies  repositories.CompanyRepository
	jobSeekers repositories.JobSeekerRepository
}

func newIdentityResolver(repos *repositories.Collection) *identityResolver {
	return &identityResolver{
		users:      repos.User,
		companies:  repos.Company,
		jobSeekers: repos.JobSeeker,
	}
}

// Resolve loads the user and its role profile. A missing profile leaves the
// sub-field nil, which fails every predicate that needs it.
func (r *identityResolver) Resolve(ctx context.Context, userID int64) (*Identity, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	if user == nil {
		return nil, NewAuthenticationError("Account not found")
	}

	id := &Identity{User: user}
	switch user.Role {
	case models.RoleCompany:
		id.Company, err = r.companies.GetByUserID(ctx, userID)
	case models.RoleJobSeeker:
		id.JobSeeker, err = r.jobSeekers.GetByUserID(ctx, userID)
	default:
		return nil, fmt.Errorf("user %d has unknown role %q", userID, user.Role)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}
	return id, nil
}
