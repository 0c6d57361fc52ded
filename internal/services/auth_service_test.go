package services

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var companyCodePattern = regexp.MustCompile(`^CMP-[0-9A-F]{6}$`)

func TestRegisterCompanyCreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	resp := env.registerCompany(t, "acme")
	assert.Equal(t, "company", resp.User.Role)
	assert.Equal(t, "/company/dashboard", resp.Redirect)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	company := env.store.companyForUser(resp.User.ID)
	require.NotNil(t, company)
	assert.Equal(t, "acme", company.CompanyName)
	assert.Regexp(t, companyCodePattern, company.CompanyID)
}

func TestRegisterJobSeekerCreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	resp := env.registerSeeker(t, "jane")
	assert.Equal(t, "jobseeker", resp.User.Role)
	assert.Equal(t, "/jobseeker/dashboard", resp.Redirect)

	seeker := env.store.seekerForUser(resp.User.ID)
	require.NotNil(t, seeker)
	assert.Nil(t, env.store.companyForUser(resp.User.ID))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.registerCompany(t, "acme")

	_, err := env.svc.Auth.Register(context.Background(), &RegisterRequest{
		Username: "acme",
		Email:    "other@example.com",
		Password: "sup3rsecret",
		Role:     "jobseeker",
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, http.StatusBadRequest, GetServiceError(err).GetStatusCode())
	assert.Contains(t, err.Error(), "already taken")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(context.Background(), &RegisterRequest{
		Username: "eve",
		Email:    "eve@example.com",
		Password: "sup3rsecret",
		Role:     "admin",
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Auth.Register(context.Background(), &RegisterRequest{
		Username: "eve",
		Email:    "eve@example.com",
		Password: "short",
		Role:     "jobseeker",
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestLoginSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.registerSeeker(t, "jane")

	resp, err := env.svc.Auth.Login(context.Background(), &LoginRequest{
		Username: "jane",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane", resp.User.Username)
	assert.Equal(t, "/jobseeker/dashboard", resp.Redirect)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerSeeker(t, "jane")

	// Wrong password and unknown username must be indistinguishable.
	for _, req := range []*LoginRequest{
		{Username: "jane", Password: "wrong-password"},
		{Username: "nobody", Password: "sup3rsecret"},
	} {
		_, err := env.svc.Auth.Login(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsAuthenticationError(err))
		assert.Equal(t, "Invalid username or password", GetServiceError(err).Message)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.registerSeeker(t, "jane")
	refresh := resp.Tokens.RefreshToken

	err := env.svc.Auth.Logout(context.Background(), &LogoutRequest{RefreshToken: refresh})
	require.NoError(t, err)

	_, err = env.svc.Auth.RefreshToken(context.Background(), &RefreshRequest{RefreshToken: refresh})
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))

	// Logging out twice is fine.
	assert.NoError(t, env.svc.Auth.Logout(context.Background(), &LogoutRequest{RefreshToken: refresh}))
}

func TestRefreshKeepsTokenWithoutRotation(t *testing.T) {
	env := newTestEnv(t)
	resp := env.registerSeeker(t, "jane")

	pair, err := env.svc.Auth.RefreshToken(context.Background(), &RefreshRequest{
		RefreshToken: resp.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, resp.Tokens.RefreshToken, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)

	// The same refresh token keeps working.
	_, err = env.svc.Auth.RefreshToken(context.Background(), &RefreshRequest{
		RefreshToken: resp.Tokens.RefreshToken,
	})
	assert.NoError(t, err)
}

func TestGetProfileMergesRoleProfile(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")
	seeker := env.registerSeeker(t, "jane")

	profile, err := env.svc.Auth.GetProfile(context.Background(), company.User.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Company)
	assert.Nil(t, profile.JobSeeker)
	assert.Equal(t, "acme", profile.Company.CompanyName)

	profile, err = env.svc.Auth.GetProfile(context.Background(), seeker.User.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.JobSeeker)
	assert.Nil(t, profile.Company)
}

func TestGetProfileSerializesAbsentProfileAsNull(t *testing.T) {
	env := newTestEnv(t)
	company := env.registerCompany(t, "acme")

	profile, err := env.svc.Auth.GetProfile(context.Background(), company.User.ID)
	require.NoError(t, err)

	raw, err := json.Marshal(profile)
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Contains(t, body, "jobseeker_profile")
	assert.Equal(t, "null", string(body["jobseeker_profile"]))
	assert.NotEqual(t, "null", string(body["company_profile"]))
}
