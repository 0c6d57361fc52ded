package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"jobportal/internal/database"
	"jobportal/internal/models"
)

type applicationRepository struct {
	*BaseRepository
}

// NewApplicationRepository creates a new instance of ApplicationRepository
func NewApplicationRepository(db *database.Manager, logger *zap.Logger) ApplicationRepository {
	return &applicationRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const applicationColumns = `
	a.id, a.job_id, a.jobseeker_id, a.cover_letter, a.applied_at, a.status,
	j.title AS job_title, s.full_name AS jobseeker_name,
	u.username AS jobseeker_username, c.company_name, c.id AS company_id`

const applicationFrom = `
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN companies c ON c.id = j.company_id
	JOIN jobseekers s ON s.id = a.jobseeker_id
	JOIN users u ON u.id = s.user_id`

// Create inserts the application and bumps the job's applicant counter in one
// transaction. The (job_id, jobseeker_id) unique constraint closes the race
// between concurrent submissions; a violation comes back as
// ErrDuplicateApplication.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO applications (job_id, jobseeker_id, cover_letter)
			VALUES ($1, $2, $3)
			RETURNING id, applied_at, status`,
			app.JobID, app.JobSeekerID, app.CoverLetter,
		).Scan(&app.ID, &app.AppliedAt, &app.Status)
		if err != nil {
			if r.IsUniqueViolation(err, "applications_job_id_jobseeker_id_key") {
				return ErrDuplicateApplication
			}
			return fmt.Errorf("failed to insert application: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE jobs SET applicants_count = applicants_count + 1
			WHERE id = $1`,
			app.JobID,
		)
		if err != nil {
			return fmt.Errorf("failed to bump applicant count: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.GetLogger().Info("Application created",
		zap.Int64("application_id", app.ID),
		zap.Int64("job_id", app.JobID),
		zap.Int64("jobseeker_id", app.JobSeekerID),
	)
	return nil
}

// GetByID retrieves an application with its join fields
func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	row := r.QueryRowContext(ctx, `SELECT`+applicationColumns+applicationFrom+` WHERE a.id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// HasApplied reports whether a jobseeker already applied to a job
func (r *applicationRepository) HasApplied(ctx context.Context, jobID, jobSeekerID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM applications WHERE job_id = $1 AND jobseeker_id = $2
		)`,
		jobID, jobSeekerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

// ListByCompany returns applications received across all of a company's jobs
func (r *applicationRepository) ListByCompany(ctx context.Context, companyID int64, params models.PageParams) ([]*models.Application, int64, error) {
	return r.list(ctx, `j.company_id = $1`, companyID, params)
}

// ListByJobSeeker returns the applications a jobseeker has submitted
func (r *applicationRepository) ListByJobSeeker(ctx context.Context, jobSeekerID int64, params models.PageParams) ([]*models.Application, int64, error) {
	return r.list(ctx, `a.jobseeker_id = $1`, jobSeekerID, params)
}

// UpdateStatus writes a new status. The caller validates the value; any
// transition between known statuses is allowed.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.ExecContext(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("application %d not found", id)
	}

	r.GetLogger().Info("Application status updated",
		zap.Int64("application_id", id),
		zap.String("status", status),
	)
	return nil
}

func (r *applicationRepository) list(ctx context.Context, scope string, scopeArg int64, params models.PageParams) ([]*models.Application, int64, error) {
	where := ` WHERE ` + scope

	total, err := r.GetTotalCount(ctx, `SELECT COUNT(*)`+applicationFrom+where, scopeArg)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	rows, err := r.QueryContext(ctx,
		`SELECT`+applicationColumns+applicationFrom+where+
			` ORDER BY a.applied_at DESC, a.id DESC LIMIT $2 OFFSET $3`,
		scopeArg, params.PageSize, params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, total, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID, &a.JobID, &a.JobSeekerID, &a.CoverLetter, &a.AppliedAt, &a.Status,
		&a.JobTitle, &a.JobSeekerName, &a.JobSeekerUsername, &a.CompanyName, &a.CompanyID,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
