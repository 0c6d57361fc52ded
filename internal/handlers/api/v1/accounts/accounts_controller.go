package accounts

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"jobportal/internal/config"
	"jobportal/internal/contextutils"
	"jobportal/internal/response"
	"jobportal/internal/services"
)

// Controller serves the account, session, and profile endpoints
type Controller struct {
	cfg      *config.Config
	services *services.Collection
	builder  *response.Builder
	logger   *zap.Logger
}

// NewController creates the accounts controller
func NewController(cfg *config.Config, svc *services.Collection, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{cfg: cfg, services: svc, builder: builder, logger: logger}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a user with its role profile and returns tokens
// @Tags accounts
// @Accept json
// @Produce json
// @Router /accounts/register [post]
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	result, err := c.services.Auth.Register(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusCreated, result)
}

// Login godoc
// @Summary Authenticate with username and password
// @Tags accounts
// @Accept json
// @Produce json
// @Router /accounts/login [post]
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	result, err := c.services.Auth.Login(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, result)
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags accounts
// @Security BearerAuth
// @Router /accounts/logout [post]
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	var req services.LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	if err := c.services.Auth.Logout(r.Context(), &req); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, map[string]string{"detail": "Logged out"})
}

// RefreshToken godoc
// @Summary Exchange a refresh token for fresh credentials
// @Tags accounts
// @Router /accounts/token/refresh [post]
func (c *Controller) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req services.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	pair, err := c.services.Auth.RefreshToken(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, pair)
}

// GetProfile godoc
// @Summary Get the caller's account with its role profile
// @Tags accounts
// @Security BearerAuth
// @Router /accounts/profile [get]
func (c *Controller) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.services.Auth.GetProfile(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, profile)
}

// GetCompanyProfile godoc
// @Summary Get the caller's company profile
// @Tags accounts
// @Security BearerAuth
// @Router /accounts/company-profile [get]
func (c *Controller) GetCompanyProfile(w http.ResponseWriter, r *http.Request) {
	company, err := c.services.Profile.GetCompanyProfile(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, company)
}

// UpdateCompanyProfile godoc
// @Summary Update the caller's company profile
// @Tags accounts
// @Security BearerAuth
// @Router /accounts/company-profile [put]
func (c *Controller) UpdateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateCompanyProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	company, err := c.services.Profile.UpdateCompanyProfile(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, company)
}

// GetJobSeekerProfile godoc
// @Summary Get the caller's jobseeker profile
// @Tags accounts
// @Security BearerAuth
// @Router /accounts/jobseeker-profile [get]
func (c *Controller) GetJobSeekerProfile(w http.ResponseWriter, r *http.Request) {
	seeker, err := c.services.Profile.GetJobSeekerProfile(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, seeker)
}

// UpdateJobSeekerProfile godoc
// @Summary Update the caller's jobseeker profile
// @Tags accounts
// @Security BearerAuth
// @Router /accounts/jobseeker-profile [put]
func (c *Controller) UpdateJobSeekerProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateJobSeekerProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	seeker, err := c.services.Profile.UpdateJobSeekerProfile(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, seeker)
}

// UploadAsset godoc
// @Summary Upload a profile asset (logo, profile picture, or resume)
// @Tags accounts
// @Accept multipart/form-data
// @Security BearerAuth
// @Router /accounts/assets [post]
func (c *Controller) UploadAsset(w http.ResponseWriter, r *http.Request) {
	maxSize := c.cfg.Cloudinary.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid or oversized multipart body", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("file is required", err))
		return
	}
	defer file.Close()

	upload := &services.AssetUpload{
		File:     file,
		Filename: header.Filename,
		Size:     header.Size,
		Kind:     r.FormValue("kind"),
	}

	profile, err := c.services.Profile.UploadAsset(r.Context(), contextutils.GetUserID(r.Context()), upload)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, profile)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.NewValidationError("Invalid JSON body", err)
	}
	return nil
}
