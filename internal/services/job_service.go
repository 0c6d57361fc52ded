package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jobportal/internal/config"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
)

type jobService struct {
	cfg      *config.PaginationConfig
	repos    *repositories.Collection
	resolver *identityResolver
	validate *validator.Validate
	logger   *zap.Logger
}

// NewJobService creates the job service
func NewJobService(cfg *config.PaginationConfig, repos *repositories.Collection, logger *zap.Logger) JobService {
	return &jobService{
		cfg:      cfg,
		repos:    repos,
		resolver: newIdentityResolver(repos),
		validate: validator.New(),
		logger:   logger,
	}
}

// Create posts a job owned by the caller's company
func (s *jobService) Create(ctx context.Context, userID int64, req *CreateJobRequest) (*models.Job, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsCompanyUser(id) {
		return nil, NewForbiddenError("Only company accounts can post jobs")
	}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	job := &models.Job{
		CompanyID:           id.Company.ID,
		Title:               req.Title,
		Description:         req.Description,
		Salary:              req.Salary,
		Location:            req.Location,
		JobType:             req.JobType,
		Requirements:        req.Requirements,
		Responsibilities:    req.Responsibilities,
		Benefits:            req.Benefits,
		CompanyInfo:         companySnapshot(id.Company),
		Urgent:              req.Urgent,
		ApplicationDeadline: req.ApplicationDeadline,
		RemotePolicy:        req.RemotePolicy,
		ExperienceLevel:     req.ExperienceLevel,
		Education:           req.Education,
	}

	if err := s.repos.Job.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	job.CompanyName = id.Company.CompanyName
	job.CompanyUsername = id.User.Username
	return job, nil
}

// Get returns a job for the public detail view
func (s *jobService) Get(ctx context.Context, jobID int64) (*models.Job, error) {
	job, err := s.repos.Job.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, NewNotFoundError("Job not found")
	}
	return job, nil
}

// Update applies the non-nil fields to a job the caller's company owns
func (s *jobService) Update(ctx context.Context, userID, jobID int64, req *UpdateJobRequest) (*models.Job, error) {
	job, err := s.ownedJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Salary != nil {
		job.Salary = req.Salary
	}
	if req.Location != nil {
		job.Location = req.Location
	}
	if req.JobType != nil {
		job.JobType = req.JobType
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.Responsibilities != nil {
		job.Responsibilities = *req.Responsibilities
	}
	if req.Benefits != nil {
		job.Benefits = *req.Benefits
	}
	if req.Urgent != nil {
		job.Urgent = *req.Urgent
	}
	if req.ApplicationDeadline != nil {
		job.ApplicationDeadline = req.ApplicationDeadline
	}
	if req.RemotePolicy != nil {
		job.RemotePolicy = req.RemotePolicy
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = req.ExperienceLevel
	}
	if req.Education != nil {
		job.Education = req.Education
	}

	if err := s.repos.Job.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// Delete removes a job the caller's company owns
func (s *jobService) Delete(ctx context.Context, userID, jobID int64) error {
	job, err := s.ownedJob(ctx, userID, jobID)
	if err != nil {
		return err
	}
	if err := s.repos.Job.Delete(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// List returns the public job listing
func (s *jobService) List(ctx context.Context, req *ListJobsRequest) ([]*models.Job, int64, models.PageParams, error) {
	return s.list(ctx, req.filter(), req)
}

// ListCompany returns the caller's own postings. The owner scope is applied
// before any filter from the query string.
func (s *jobService) ListCompany(ctx context.Context, userID int64, req *ListJobsRequest) ([]*models.Job, int64, models.PageParams, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, 0, models.PageParams{}, err
	}
	if !IsCompanyUser(id) {
		return nil, 0, models.PageParams{}, NewForbiddenError("Only company accounts can list their jobs")
	}

	filter := req.filter()
	filter.CompanyID = &id.Company.ID
	return s.list(ctx, filter, req)
}

// GetCompanyJob returns a single posting from the caller's own jobs
func (s *jobService) GetCompanyJob(ctx context.Context, userID, jobID int64) (*models.Job, error) {
	return s.ownedJob(ctx, userID, jobID)
}

func (s *jobService) list(ctx context.Context, filter repositories.JobFilter, req *ListJobsRequest) ([]*models.Job, int64, models.PageParams, error) {
	params := models.PageParams{
		Page:     req.Page,
		PageSize: s.cfg.JobPageSize,
		Ordering: req.Ordering,
	}
	if params.Page < 1 {
		params.Page = 1
	}

	jobs, total, err := s.repos.Job.List(ctx, filter, params)
	if err != nil {
		return nil, 0, params, fmt.Errorf("failed to list jobs: %w", err)
	}
	if params.Page > 1 && int64(params.Offset()) >= total {
		return nil, 0, params, NewNotFoundError("Invalid page")
	}
	return jobs, total, params, nil
}

// ownedJob loads a job and checks the caller owns it. Role failures come
// back before existence is checked so non-company callers learn nothing.
func (s *jobService) ownedJob(ctx context.Context, userID, jobID int64) (*models.Job, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsCompanyUser(id) {
		return nil, NewForbiddenError("You do not have permission to manage this job")
	}

	job, err := s.repos.Job.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, NewNotFoundError("Job not found")
	}
	if !IsJobOwner(id, job) {
		return nil, NewForbiddenError("You do not have permission to manage this job")
	}
	return job, nil
}

// companySnapshot captures the owning company's public metadata at posting
// time so listings stay stable if the profile changes later.
func companySnapshot(company *models.Company) models.JSONMap {
	snapshot := models.JSONMap{
		"company_id": company.CompanyID,
		"name":       company.CompanyName,
	}
	if company.Location != nil {
		snapshot["location"] = *company.Location
	}
	if company.Industry != nil {
		snapshot["industry"] = *company.Industry
	}
	if company.Website != nil {
		snapshot["website"] = *company.Website
	}
	if company.LogoURL != nil {
		snapshot["logo"] = *company.LogoURL
	}
	return snapshot
}
