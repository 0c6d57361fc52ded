package jobs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"jobportal/internal/contextutils"
	"jobportal/internal/response"
	"jobportal/internal/services"
)

// Controller serves the job and application endpoints
type Controller struct {
	services *services.Collection
	builder  *response.Builder
	logger   *zap.Logger
}

// NewController creates the jobs controller
func NewController(svc *services.Collection, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{services: svc, builder: builder, logger: logger}
}

// ===============================
// JOBS
// ===============================

// List godoc
// @Summary List jobs with search, filters, and ordering
// @Tags jobs
// @Produce json
// @Router /jobs [get]
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	req := parseListQuery(r)
	jobs, total, params, err := c.services.Job.List(r.Context(), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	response.WritePage(c.builder, w, r, jobs, total, params)
}

// Get godoc
// @Summary Get a job posting
// @Tags jobs
// @Produce json
// @Router /jobs/{id} [get]
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	job, err := c.services.Job.Get(r.Context(), jobID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, job)
}

// Create godoc
// @Summary Post a new job for the caller's company
// @Tags jobs
// @Security BearerAuth
// @Router /jobs/company [post]
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid JSON body", err))
		return
	}

	job, err := c.services.Job.Create(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusCreated, job)
}

// Update godoc
// @Summary Update a job the caller's company owns
// @Tags jobs
// @Security BearerAuth
// @Router /jobs/company/{id} [put]
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	var req services.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid JSON body", err))
		return
	}

	job, err := c.services.Job.Update(r.Context(), contextutils.GetUserID(r.Context()), jobID, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, job)
}

// Delete godoc
// @Summary Delete a job the caller's company owns
// @Tags jobs
// @Security BearerAuth
// @Router /jobs/company/{id} [delete]
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	if err := c.services.Job.Delete(r.Context(), contextutils.GetUserID(r.Context()), jobID); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, map[string]string{"detail": "Job deleted"})
}

// ListCompany godoc
// @Summary List the caller's own job postings
// @Tags jobs
// @Security BearerAuth
// @Router /jobs/company [get]
func (c *Controller) ListCompany(w http.ResponseWriter, r *http.Request) {
	req := parseListQuery(r)
	jobs, total, params, err := c.services.Job.ListCompany(r.Context(), contextutils.GetUserID(r.Context()), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	response.WritePage(c.builder, w, r, jobs, total, params)
}

// GetCompanyJob godoc
// @Summary Get one of the caller's own job postings
// @Tags jobs
// @Security BearerAuth
// @Router /jobs/company/{id} [get]
func (c *Controller) GetCompanyJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	job, err := c.services.Job.GetCompanyJob(r.Context(), contextutils.GetUserID(r.Context()), jobID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, job)
}

// ===============================
// APPLICATIONS
// ===============================

// Apply godoc
// @Summary Apply to a job
// @Tags applications
// @Security BearerAuth
// @Router /jobs/apply [post]
func (c *Controller) Apply(w http.ResponseWriter, r *http.Request) {
	var req services.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid JSON body", err))
		return
	}

	app, err := c.services.Application.Apply(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusCreated, app)
}

// ListReceived godoc
// @Summary List applications received on the caller's jobs
// @Tags applications
// @Security BearerAuth
// @Router /jobs/applications [get]
func (c *Controller) ListReceived(w http.ResponseWriter, r *http.Request) {
	apps, total, params, err := c.services.Application.ListReceived(
		r.Context(), contextutils.GetUserID(r.Context()), queryInt(r, "page"))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	response.WritePage(c.builder, w, r, apps, total, params)
}

// ListMine godoc
// @Summary List the caller's submitted applications
// @Tags applications
// @Security BearerAuth
// @Router /jobs/my-applications [get]
func (c *Controller) ListMine(w http.ResponseWriter, r *http.Request) {
	apps, total, params, err := c.services.Application.ListMine(
		r.Context(), contextutils.GetUserID(r.Context()), queryInt(r, "page"))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	response.WritePage(c.builder, w, r, apps, total, params)
}

// UpdateApplicationStatus godoc
// @Summary Update the status of a received application
// @Description The body must carry status and nothing else
// @Tags applications
// @Security BearerAuth
// @Router /jobs/applications/{id} [patch]
func (c *Controller) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid JSON body", err))
		return
	}

	app, err := c.services.Application.UpdateStatus(r.Context(), contextutils.GetUserID(r.Context()), appID, payload)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, http.StatusOK, app)
}

// ===============================
// QUERY PARSING
// ===============================

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.NewValidationError("Invalid id in path", err)
	}
	return id, nil
}

func parseListQuery(r *http.Request) *services.ListJobsRequest {
	q := r.URL.Query()
	req := &services.ListJobsRequest{
		Search:          queryString(q.Get("search")),
		JobType:         queryString(q.Get("job_type")),
		Location:        queryString(q.Get("location")),
		ExperienceLevel: queryString(q.Get("experience_level")),
		Remote:          queryString(q.Get("remote")),
		Education:       queryString(q.Get("education")),
		MinSalary:       queryString(q.Get("min_salary")),
		Urgent:          queryBool(q.Get("urgent")),
		PostedAfter:     queryTime(q.Get("posted_after")),
		PostedBefore:    queryTime(q.Get("posted_before")),
		DeadlineAfter:   queryTime(q.Get("deadline_after")),
		DeadlineBefore:  queryTime(q.Get("deadline_before")),
		Page:            queryInt(r, "page"),
		Ordering:        q.Get("ordering"),
	}
	return req
}

func queryString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func queryBool(value string) *bool {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &parsed
}

// queryTime accepts a date or a full timestamp
func queryTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}

func queryInt(r *http.Request, key string) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 1
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 1
	}
	return parsed
}
