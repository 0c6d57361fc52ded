package repositories

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jobportal/internal/database"
	"jobportal/internal/models"
)

type jobRepository struct {
	*BaseRepository
}

// NewJobRepository creates a new instance of JobRepository
func NewJobRepository(db *database.Manager, logger *zap.Logger) JobRepository {
	return &jobRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const jobColumns = `
	j.id, j.company_id, j.title, j.description, j.salary, j.location, j.job_type,
	j.posted, j.requirements, j.responsibilities, j.benefits, j.company_info,
	j.applicants_count, j.saved, j.urgent, j.application_deadline,
	j.remote_policy, j.experience_level, j.education, j.created_at,
	c.company_name, u.username AS company_username`

const jobFrom = `
	FROM jobs j
	JOIN companies c ON c.id = j.company_id
	JOIN users u ON u.id = c.user_id`

// orderableColumns whitelists the columns a caller may sort by. Anything else
// falls back to the default ordering.
var orderableColumns = map[string]string{
	"created_at":       "j.created_at",
	"posted":           "j.posted",
	"salary":           "j.salary",
	"applicants_count": "j.applicants_count",
}

// Create inserts a job posting
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO jobs (
			company_id, title, description, salary, location, job_type,
			requirements, responsibilities, benefits, company_info,
			urgent, application_deadline, remote_policy, experience_level, education
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, posted, created_at`,
		job.CompanyID, job.Title, job.Description, job.Salary, job.Location,
		job.JobType, job.Requirements, job.Responsibilities, job.Benefits,
		job.CompanyInfo, job.Urgent, job.ApplicationDeadline, job.RemotePolicy,
		job.ExperienceLevel, job.Education,
	).Scan(&job.ID, &job.Posted, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	r.GetLogger().Info("Job created",
		zap.Int64("job_id", job.ID),
		zap.Int64("company_id", job.CompanyID),
		zap.String("title", job.Title),
	)
	return nil
}

// GetByID retrieves a job with its company join fields
func (r *jobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	row := r.QueryRowContext(ctx, `SELECT`+jobColumns+jobFrom+` WHERE j.id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// Update persists the mutable job fields. company_id, posted, and
// applicants_count are never written here.
func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	result, err := r.ExecContext(ctx, `
		UPDATE jobs SET
			title = $2, description = $3, salary = $4, location = $5, job_type = $6,
			requirements = $7, responsibilities = $8, benefits = $9, company_info = $10,
			saved = $11, urgent = $12, application_deadline = $13,
			remote_policy = $14, experience_level = $15, education = $16
		WHERE id = $1`,
		job.ID, job.Title, job.Description, job.Salary, job.Location, job.JobType,
		job.Requirements, job.Responsibilities, job.Benefits, job.CompanyInfo,
		job.Saved, job.Urgent, job.ApplicationDeadline,
		job.RemotePolicy, job.ExperienceLevel, job.Education,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("job %d not found", job.ID)
	}

	r.GetLogger().Info("Job updated", zap.Int64("job_id", job.ID))
	return nil
}

// Delete removes a job posting and, via cascade, its applications
func (r *jobRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("job %d not found", id)
	}

	r.GetLogger().Info("Job deleted", zap.Int64("job_id", id))
	return nil
}

// List returns a page of jobs matching the filter plus the total match count.
// Owner scoping (filter.CompanyID) is applied before any other condition.
func (r *jobRepository) List(ctx context.Context, filter JobFilter, params models.PageParams) ([]*models.Job, int64, error) {
	where, args := buildJobWhere(filter)

	countQuery := `SELECT COUNT(*)` + jobFrom + where
	total, err := r.GetTotalCount(ctx, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := `SELECT` + jobColumns + jobFrom + where +
		` ORDER BY ` + orderClause(params.Ordering) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, total, nil
}

// buildJobWhere assembles the WHERE clause. The company scope comes first so
// scoped listings never see other owners' rows regardless of later filters.
func buildJobWhere(filter JobFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.CompanyID != nil {
		add(`j.company_id = $%d`, *filter.CompanyID)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			`(j.title ILIKE $%d OR j.description ILIKE $%d OR j.location ILIKE $%d OR c.company_name ILIKE $%d)`,
			n, n, n, n))
	}
	if filter.JobType != nil {
		add(`j.job_type ILIKE '%%' || $%d || '%%'`, *filter.JobType)
	}
	if filter.Location != nil {
		add(`j.location ILIKE '%%' || $%d || '%%'`, *filter.Location)
	}
	if filter.ExperienceLevel != nil {
		add(`j.experience_level ILIKE '%%' || $%d || '%%'`, *filter.ExperienceLevel)
	}
	if filter.Remote != nil {
		add(`j.remote_policy ILIKE '%%' || $%d || '%%'`, *filter.Remote)
	}
	if filter.Education != nil {
		add(`j.education ILIKE '%%' || $%d || '%%'`, *filter.Education)
	}
	if filter.MinSalary != nil {
		add(`j.salary ILIKE '%%' || $%d || '%%'`, *filter.MinSalary)
	}
	if filter.Urgent != nil {
		add(`j.urgent = $%d`, *filter.Urgent)
	}
	if filter.PostedAfter != nil {
		add(`j.posted >= $%d`, *filter.PostedAfter)
	}
	if filter.PostedBefore != nil {
		add(`j.posted <= $%d`, *filter.PostedBefore)
	}
	if filter.DeadlineAfter != nil {
		add(`j.application_deadline >= $%d`, *filter.DeadlineAfter)
	}
	if filter.DeadlineBefore != nil {
		add(`j.application_deadline <= $%d`, *filter.DeadlineBefore)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conditions, " AND "), args
}

// orderClause maps a caller-supplied ordering onto the column whitelist.
// Unknown columns fall back to newest-first.
func orderClause(ordering string) string {
	direction := "ASC"
	column := ordering
	if strings.HasPrefix(column, "-") {
		direction = "DESC"
		column = column[1:]
	}
	if col, ok := orderableColumns[column]; ok {
		return col + " " + direction + ", j.id " + direction
	}
	return "j.created_at DESC, j.id DESC"
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Salary, &j.Location,
		&j.JobType, &j.Posted, &j.Requirements, &j.Responsibilities, &j.Benefits,
		&j.CompanyInfo, &j.ApplicantsCount, &j.Saved, &j.Urgent,
		&j.ApplicationDeadline, &j.RemotePolicy, &j.ExperienceLevel, &j.Education,
		&j.CreatedAt, &j.CompanyName, &j.CompanyUsername,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
