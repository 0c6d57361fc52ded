package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jobportal/internal/models"
	"jobportal/internal/repositories"
	"jobportal/internal/utils"
)

type profileService struct {
	repos    *repositories.Collection
	assets   utils.AssetStore
	resolver *identityResolver
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProfileService creates the profile service
func NewProfileService(repos *repositories.Collection, assets utils.AssetStore, logger *zap.Logger) ProfileService {
	return &profileService{
		repos:    repos,
		assets:   assets,
		resolver: newIdentityResolver(repos),
		validate: validator.New(),
		logger:   logger,
	}
}

// GetCompanyProfile returns the caller's company profile. Accounts of the
// other role get a not-found, matching the per-role endpoints.
func (s *profileService) GetCompanyProfile(ctx context.Context, userID int64) (*models.Company, error) {
	company, err := s.repos.Company.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}
	if company == nil {
		return nil, NewNotFoundError("Company profile not found")
	}
	return company, nil
}

// UpdateCompanyProfile applies the non-nil fields. The company code and owner
// are never touched.
func (s *profileService) UpdateCompanyProfile(ctx context.Context, userID int64, req *UpdateCompanyProfileRequest) (*models.Company, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	company, err := s.GetCompanyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		company.CompanyName = *req.CompanyName
	}
	if req.Tagline != nil {
		company.Tagline = req.Tagline
	}
	if req.Description != nil {
		company.Description = req.Description
	}
	if req.Website != nil {
		company.Website = req.Website
	}
	if req.Email != nil {
		company.Email = req.Email
	}
	if req.Phone != nil {
		company.Phone = req.Phone
	}
	if req.Location != nil {
		company.Location = req.Location
	}
	if req.Founded != nil {
		company.Founded = req.Founded
	}
	if req.Industry != nil {
		company.Industry = req.Industry
	}
	if req.CompanySize != nil {
		company.CompanySize = req.CompanySize
	}
	if req.CompanyInfo != nil {
		company.CompanyInfo = req.CompanyInfo
	}

	if err := s.repos.Company.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company profile: %w", err)
	}
	return company, nil
}

// GetJobSeekerProfile returns the caller's jobseeker profile
func (s *profileService) GetJobSeekerProfile(ctx context.Context, userID int64) (*models.JobSeeker, error) {
	seeker, err := s.repos.JobSeeker.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobseeker profile: %w", err)
	}
	if seeker == nil {
		return nil, NewNotFoundError("Jobseeker profile not found")
	}
	return seeker, nil
}

// UpdateJobSeekerProfile applies the non-nil fields
func (s *profileService) UpdateJobSeekerProfile(ctx context.Context, userID int64, req *UpdateJobSeekerProfileRequest) (*models.JobSeeker, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	seeker, err := s.GetJobSeekerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		seeker.FullName = req.FullName
	}
	if req.Title != nil {
		seeker.Title = req.Title
	}
	if req.Bio != nil {
		seeker.Bio = req.Bio
	}
	if req.Location != nil {
		seeker.Location = req.Location
	}
	if req.Skills != nil {
		seeker.Skills = req.Skills
	}
	if req.Experience != nil {
		seeker.Experience = req.Experience
	}
	if req.Education != nil {
		seeker.Education = req.Education
	}

	if err := s.repos.JobSeeker.Update(ctx, seeker); err != nil {
		return nil, fmt.Errorf("failed to update jobseeker profile: %w", err)
	}
	return seeker, nil
}

// UploadAsset stores a profile file and records its URL on the matching
// profile. The previous asset of the same kind is removed afterwards.
func (s *profileService) UploadAsset(ctx context.Context, userID int64, upload *AssetUpload) (*ProfileResponse, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch upload.Kind {
	case "logo":
		if !IsCompanyUser(id) {
			return nil, NewForbiddenError("Only company accounts can upload a logo")
		}
		return s.uploadCompanyLogo(ctx, id, upload)
	case "profile_picture", "resume":
		if !IsJobSeekerUser(id) {
			return nil, NewForbiddenError("Only jobseeker accounts can upload this asset")
		}
		return s.uploadJobSeekerAsset(ctx, id, upload)
	default:
		return nil, NewValidationError(fmt.Sprintf("Unknown asset kind %q", upload.Kind), nil)
	}
}

func (s *profileService) uploadCompanyLogo(ctx context.Context, id *Identity, upload *AssetUpload) (*ProfileResponse, error) {
	asset, err := s.assets.Upload(ctx, upload.File, utils.UploadOptions{Folder: "company_logos"})
	if err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}

	previous := id.Company.LogoPublicID
	id.Company.LogoURL = &asset.URL
	id.Company.LogoPublicID = &asset.PublicID
	if err := s.repos.Company.Update(ctx, id.Company); err != nil {
		return nil, fmt.Errorf("failed to save logo reference: %w", err)
	}
	s.cleanupAsset(ctx, previous)

	return &ProfileResponse{User: id.User, Company: id.Company}, nil
}

func (s *profileService) uploadJobSeekerAsset(ctx context.Context, id *Identity, upload *AssetUpload) (*ProfileResponse, error) {
	opts := utils.UploadOptions{Folder: "profile_pictures"}
	if upload.Kind == "resume" {
		opts = utils.UploadOptions{Folder: "resumes", ResourceType: "raw"}
	}

	asset, err := s.assets.Upload(ctx, upload.File, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", upload.Kind, err)
	}

	var previous *string
	if upload.Kind == "resume" {
		previous = id.JobSeeker.ResumePublicID
		id.JobSeeker.ResumeURL = &asset.URL
		id.JobSeeker.ResumePublicID = &asset.PublicID
	} else {
		previous = id.JobSeeker.ProfilePicturePublicID
		id.JobSeeker.ProfilePictureURL = &asset.URL
		id.JobSeeker.ProfilePicturePublicID = &asset.PublicID
	}

	if err := s.repos.JobSeeker.Update(ctx, id.JobSeeker); err != nil {
		return nil, fmt.Errorf("failed to save %s reference: %w", upload.Kind, err)
	}
	s.cleanupAsset(ctx, previous)

	return &ProfileResponse{User: id.User, JobSeeker: id.JobSeeker}, nil
}

func (s *profileService) cleanupAsset(ctx context.Context, publicID *string) {
	if publicID == nil || *publicID == "" {
		return
	}
	if err := s.assets.Delete(ctx, *publicID); err != nil {
		s.logger.Warn("Failed to delete replaced asset",
			zap.String("public_id", *publicID),
			zap.Error(err),
		)
	}
}
