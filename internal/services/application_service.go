package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jobportal/internal/config"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
)

type applicationService struct {
	cfg      *config.PaginationConfig
	repos    *repositories.Collection
	resolver *identityResolver
	validate *validator.Validate
	logger   *zap.Logger
}

// NewApplicationService creates the application service
func NewApplicationService(cfg *config.PaginationConfig, repos *repositories.Collection, logger *zap.Logger) ApplicationService {
	return &applicationService{
		cfg:      cfg,
		repos:    repos,
		resolver: newIdentityResolver(repos),
		validate: validator.New(),
		logger:   logger,
	}
}

// Apply submits one application per (job, jobseeker). A second attempt fails
// with a conflict whether it is caught by the pre-check or by the database
// constraint.
func (s *applicationService) Apply(ctx context.Context, userID int64, req *ApplyRequest) (*models.Application, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsJobSeekerUser(id) {
		return nil, NewForbiddenError("Only jobseeker accounts can apply to jobs")
	}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	job, err := s.repos.Job.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, NewNotFoundError("Job not found")
	}

	applied, err := s.repos.Application.HasApplied(ctx, job.ID, id.JobSeeker.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if applied {
		return nil, NewConflictError("You have already applied to this job", "duplicate_application")
	}

	app := &models.Application{
		JobID:       job.ID,
		JobSeekerID: id.JobSeeker.ID,
		CoverLetter: req.CoverLetter,
	}
	if err := s.repos.Application.Create(ctx, app); err != nil {
		if errors.Is(err, repositories.ErrDuplicateApplication) {
			return nil, NewConflictError("You have already applied to this job", "duplicate_application")
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	app.JobTitle = job.Title
	app.CompanyName = job.CompanyName
	app.CompanyID = job.CompanyID
	app.JobSeekerName = id.JobSeeker.FullName
	app.JobSeekerUsername = id.User.Username
	return app, nil
}

// ListReceived returns the applications submitted to the caller's jobs
func (s *applicationService) ListReceived(ctx context.Context, userID int64, page int) ([]*models.Application, int64, models.PageParams, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, 0, models.PageParams{}, err
	}
	if !IsCompanyUser(id) {
		return nil, 0, models.PageParams{}, NewForbiddenError("Only company accounts can view received applications")
	}

	return s.list(ctx, page, func(ctx context.Context, params models.PageParams) ([]*models.Application, int64, error) {
		return s.repos.Application.ListByCompany(ctx, id.Company.ID, params)
	})
}

// ListMine returns the applications the caller has submitted
func (s *applicationService) ListMine(ctx context.Context, userID int64, page int) ([]*models.Application, int64, models.PageParams, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, 0, models.PageParams{}, err
	}
	if !IsJobSeekerUser(id) {
		return nil, 0, models.PageParams{}, NewForbiddenError("Only jobseeker accounts can view their applications")
	}

	return s.list(ctx, page, func(ctx context.Context, params models.PageParams) ([]*models.Application, int64, error) {
		return s.repos.Application.ListByJobSeeker(ctx, id.JobSeeker.ID, params)
	})
}

// UpdateStatus moves an application to a new status. The payload must carry
// the status field and nothing else; any extra field rejects the whole
// request.
func (s *applicationService) UpdateStatus(ctx context.Context, userID, applicationID int64, payload map[string]json.RawMessage) (*models.Application, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsCompanyUser(id) {
		return nil, NewForbiddenError("You do not have permission to review this application")
	}

	status, err := statusFromPayload(payload)
	if err != nil {
		return nil, err
	}

	app, err := s.repos.Application.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, NewNotFoundError("Application not found")
	}
	if !IsApplicationOwner(id, app) {
		return nil, NewForbiddenError("You do not have permission to review this application")
	}

	if err := s.repos.Application.UpdateStatus(ctx, app.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	app.Status = status
	return app, nil
}

// statusFromPayload extracts the new status from a status-only payload
func statusFromPayload(payload map[string]json.RawMessage) (string, error) {
	raw, ok := payload["status"]
	if !ok {
		return "", NewValidationError("status is required", nil)
	}
	if len(payload) > 1 {
		extras := make([]string, 0, len(payload)-1)
		for key := range payload {
			if key != "status" {
				extras = append(extras, key)
			}
		}
		return "", NewValidationError(
			fmt.Sprintf("Only the status field may be updated, got: %s", strings.Join(extras, ", ")), nil)
	}

	var status string
	if err := json.Unmarshal(raw, &status); err != nil {
		return "", NewValidationError("status must be a string", err)
	}
	if !models.ValidStatus(status) {
		return "", NewFieldValidationError("Request validation failed", []FieldError{{
			Field:   "status",
			Message: "status must be one of: Pending Reviewed Accepted Rejected",
			Code:    "oneof",
		}})
	}
	return status, nil
}

func (s *applicationService) list(ctx context.Context, page int, fetch func(context.Context, models.PageParams) ([]*models.Application, int64, error)) ([]*models.Application, int64, models.PageParams, error) {
	params := models.PageParams{Page: page, PageSize: s.cfg.ApplicationPageSize}
	if params.Page < 1 {
		params.Page = 1
	}

	apps, total, err := fetch(ctx, params)
	if err != nil {
		return nil, 0, params, fmt.Errorf("failed to list applications: %w", err)
	}
	if params.Page > 1 && int64(params.Offset()) >= total {
		return nil, 0, params, NewNotFoundError("Invalid page")
	}
	return apps, total, params, nil
}
