package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jobportal/internal/database"
	"jobportal/internal/models"
)

type companyRepository struct {
	*BaseRepository
}

// NewCompanyRepository creates a new instance of CompanyRepository
func NewCompanyRepository(db *database.Manager, logger *zap.Logger) CompanyRepository {
	return &companyRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const companyColumns = `
	id, user_id, company_id, company_name, tagline, description, website,
	email, phone, location, founded, industry, company_size, company_info,
	logo_url, logo_public_id`

// GetByID retrieves a company profile by primary key
func (r *companyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	return r.getOne(ctx, `SELECT`+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByUserID retrieves the company profile owned by a user
func (r *companyRepository) GetByUserID(ctx context.Context, userID int64) (*models.Company, error) {
	return r.getOne(ctx, `SELECT`+companyColumns+` FROM companies WHERE user_id = $1`, userID)
}

// Update persists the mutable profile fields. user_id and company_id are
// never written.
func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	result, err := r.ExecContext(ctx, `
		UPDATE companies SET
			company_name = $2, tagline = $3, description = $4, website = $5,
			email = $6, phone = $7, location = $8, founded = $9, industry = $10,
			company_size = $11, company_info = $12, logo_url = $13, logo_public_id = $14
		WHERE id = $1`,
		company.ID, company.CompanyName, company.Tagline, company.Description,
		company.Website, company.Email, company.Phone, company.Location,
		company.Founded, company.Industry, company.CompanySize, company.CompanyInfo,
		company.LogoURL, company.LogoPublicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company profile: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("company profile %d not found", company.ID)
	}

	r.GetLogger().Info("Company profile updated",
		zap.Int64("company_id", company.ID),
		zap.String("company_code", company.CompanyID),
	)
	return nil
}

func (r *companyRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Company, error) {
	var c models.Company
	err := r.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.UserID, &c.CompanyID, &c.CompanyName, &c.Tagline, &c.Description,
		&c.Website, &c.Email, &c.Phone, &c.Location, &c.Founded, &c.Industry,
		&c.CompanySize, &c.CompanyInfo, &c.LogoURL, &c.LogoPublicID,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return &c, nil
}
