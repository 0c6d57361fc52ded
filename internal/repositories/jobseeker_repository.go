package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jobportal/internal/database"
	"jobportal/internal/models"
)

type jobSeekerRepository struct {
	*BaseRepository
}

// NewJobSeekerRepository creates a new instance of JobSeekerRepository
func NewJobSeekerRepository(db *database.Manager, logger *zap.Logger) JobSeekerRepository {
	return &jobSeekerRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const jobSeekerColumns = `
	id, user_id, full_name, title, bio, location, skills, experience, education,
	profile_picture_url, profile_picture_public_id, resume_url, resume_public_id`

// GetByID retrieves a jobseeker profile by primary key
func (r *jobSeekerRepository) GetByID(ctx context.Context, id int64) (*models.JobSeeker, error) {
	return r.getOne(ctx, `SELECT`+jobSeekerColumns+` FROM jobseekers WHERE id = $1`, id)
}

// GetByUserID retrieves the jobseeker profile owned by a user
func (r *jobSeekerRepository) GetByUserID(ctx context.Context, userID int64) (*models.JobSeeker, error) {
	return r.getOne(ctx, `SELECT`+jobSeekerColumns+` FROM jobseekers WHERE user_id = $1`, userID)
}

// Update persists the mutable profile fields. user_id is never written.
func (r *jobSeekerRepository) Update(ctx context.Context, seeker *models.JobSeeker) error {
	result, err := r.ExecContext(ctx, `
		UPDATE jobseekers SET
			full_name = $2, title = $3, bio = $4, location = $5, skills = $6,
			experience = $7, education = $8, profile_picture_url = $9,
			profile_picture_public_id = $10, resume_url = $11, resume_public_id = $12
		WHERE id = $1`,
		seeker.ID, seeker.FullName, seeker.Title, seeker.Bio, seeker.Location,
		seeker.Skills, seeker.Experience, seeker.Education,
		seeker.ProfilePictureURL, seeker.ProfilePicturePublicID,
		seeker.ResumeURL, seeker.ResumePublicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update jobseeker profile: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("jobseeker profile %d not found", seeker.ID)
	}

	r.GetLogger().Info("Jobseeker profile updated", zap.Int64("jobseeker_id", seeker.ID))
	return nil
}

func (r *jobSeekerRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.JobSeeker, error) {
	var s models.JobSeeker
	err := r.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.UserID, &s.FullName, &s.Title, &s.Bio, &s.Location,
		&s.Skills, &s.Experience, &s.Education,
		&s.ProfilePictureURL, &s.ProfilePicturePublicID,
		&s.ResumeURL, &s.ResumePublicID,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get jobseeker profile: %w", err)
	}
	return &s, nil
}
