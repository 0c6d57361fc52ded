package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"jobportal/internal/database"
	"jobportal/internal/models"
)

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const userColumns = `id, username, email, password_hash, role, created_at`

// CreateWithProfile inserts the user and its role-matching profile in a
// single transaction so registration can never leave a half-created account.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *models.User, company *models.Company, seeker *models.JobSeeker) error {
	// Company codes collide with negligible probability, but the unique index
	// makes a collision a retryable insert rather than silent reuse.
	const maxAttempts = 3

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO users (username, email, password_hash, role)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_at`,
				user.Username, user.Email, user.PasswordHash, user.Role,
			).Scan(&user.ID, &user.CreatedAt)
			if err != nil {
				if r.IsUniqueViolation(err, "") {
					return ErrDuplicateUser
				}
				return fmt.Errorf("failed to insert user: %w", err)
			}

			switch {
			case company != nil:
				company.UserID = user.ID
				if company.CompanyID == "" {
					company.CompanyID = GenerateCompanyCode()
				}
				err = tx.QueryRowContext(ctx, `
					INSERT INTO companies (user_id, company_id, company_name)
					VALUES ($1, $2, $3)
					RETURNING id`,
					company.UserID, company.CompanyID, company.CompanyName,
				).Scan(&company.ID)
				if err != nil {
					return fmt.Errorf("failed to insert company profile: %w", err)
				}
			case seeker != nil:
				seeker.UserID = user.ID
				err = tx.QueryRowContext(ctx, `
					INSERT INTO jobseekers (user_id) VALUES ($1)
					RETURNING id`,
					seeker.UserID,
				).Scan(&seeker.ID)
				if err != nil {
					return fmt.Errorf("failed to insert jobseeker profile: %w", err)
				}
			default:
				return fmt.Errorf("no profile supplied for role %q", user.Role)
			}
			return nil
		})

		if err == nil {
			r.GetLogger().Info("User registered",
				zap.Int64("user_id", user.ID),
				zap.String("username", user.Username),
				zap.String("role", user.Role),
			)
			return nil
		}
		lastErr = err

		// Only a company-code collision is worth retrying with fresh entropy.
		if company != nil && r.IsUniqueViolation(err, "companies_company_id_key") {
			company.CompanyID = ""
			continue
		}
		return err
	}
	return lastErr
}

// GetByID retrieves a user by primary key
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GenerateCompanyCode produces a company identifier in the form
// CMP-XXXXXX with six uppercase hex characters.
func GenerateCompanyCode() string {
	id, err := uuid.NewV4()
	if err != nil {
		// NewV4 only fails when the OS entropy source does, in which case
		// there is nothing sensible to fall back to.
		panic(fmt.Sprintf("uuid generation failed: %v", err))
	}
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "CMP-" + hex[:6]
}
