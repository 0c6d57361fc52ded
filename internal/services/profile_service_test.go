package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/models"
)

func TestCompanyProfileRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")

	profile, err := env.svc.Profile.GetCompanyProfile(context.Background(), company.User.ID)
	require.NoError(t, err)
	originalCode := profile.CompanyID

	updated, err := env.svc.Profile.UpdateCompanyProfile(context.Background(), company.User.ID, &UpdateCompanyProfileRequest{
		CompanyName: strPtr("Acme Corp"),
		Industry:    strPtr("Manufacturing"),
		Website:     strPtr("https://acme.example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.CompanyName)
	require.NotNil(t, updated.Industry)
	assert.Equal(t, "Manufacturing", *updated.Industry)

	// The company code survives every update.
	assert.Equal(t, originalCode, updated.CompanyID)
	assert.Regexp(t, companyCodePattern, updated.CompanyID)
}

func TestCompanyProfilePartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")

	_, err := env.svc.Profile.UpdateCompanyProfile(context.Background(), company.User.ID, &UpdateCompanyProfileRequest{
		Tagline: strPtr("We build everything"),
	})
	require.NoError(t, err)

	profile, err := env.svc.Profile.GetCompanyProfile(context.Background(), company.User.ID)
	require.NoError(t, err)
	// Untouched fields keep their values.
	assert.Equal(t, "acme", profile.CompanyName)
	require.NotNil(t, profile.Tagline)
	assert.Equal(t, "We build everything", *profile.Tagline)
}

func TestCompanyProfileNotFoundForJobSeeker(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.registerSeeker(t, "jane")

	_, err := env.svc.Profile.GetCompanyProfile(context.Background(), seeker.User.ID)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))

	_, err = env.svc.Profile.GetJobSeekerProfile(context.Background(), seeker.User.ID)
	assert.NoError(t, err)
}

func TestJobSeekerProfileRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.registerSeeker(t, "jane")

	updated, err := env.svc.Profile.UpdateJobSeekerProfile(context.Background(), seeker.User.ID, &UpdateJobSeekerProfileRequest{
		FullName: strPtr("Jane Doe"),
		Title:    strPtr("Backend Engineer"),
		Skills:   models.StringList{"go", "postgres"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "Jane Doe", *updated.FullName)
	assert.Equal(t, models.StringList{"go", "postgres"}, updated.Skills)

	_, err = env.svc.Profile.GetJobSeekerProfile(context.Background(), env.registerCompany(t, "acme").User.ID)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestUploadAssetChecksRole(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	seeker := env.registerSeeker(t, "jane")

	_, err := env.svc.Profile.UploadAsset(context.Background(), seeker.User.ID, &AssetUpload{Kind: "logo"})
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))

	_, err = env.svc.Profile.UploadAsset(context.Background(), company.User.ID, &AssetUpload{Kind: "resume"})
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))

	_, err = env.svc.Profile.UploadAsset(context.Background(), company.User.ID, &AssetUpload{Kind: "banner"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}
