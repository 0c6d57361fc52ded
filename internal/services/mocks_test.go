package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobportal/internal/models"
	"jobportal/internal/repositories"
)

// fakeStore is an in-memory backing store for the repository fakes, good
// enough to drive the services end to end.
type fakeStore struct {
	mu        sync.Mutex
	users     map[int64]*models.User
	companies map[int64]*models.Company
	seekers   map[int64]*models.JobSeeker
	jobs      map[int64]*models.Job
	apps      map[int64]*models.Application
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*models.User),
		companies: make(map[int64]*models.Company),
		seekers:   make(map[int64]*models.JobSeeker),
		jobs:      make(map[int64]*models.Job),
		apps:      make(map[int64]*models.Application),
	}
}

func (f *fakeStore) collection() *repositories.Collection {
	return &repositories.Collection{
		User:        &fakeUserRepo{f},
		Company:     &fakeCompanyRepo{f},
		JobSeeker:   &fakeSeekerRepo{f},
		Job:         &fakeJobRepo{f},
		Application: &fakeAppRepo{f},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) companyForUser(userID int64) *models.Company {
	for _, company := range f.companies {
		if company.UserID == userID {
			return company
		}
	}
	return nil
}

func (f *fakeStore) seekerForUser(userID int64) *models.JobSeeker {
	for _, seeker := range f.seekers {
		if seeker.UserID == userID {
			return seeker
		}
	}
	return nil
}

func (f *fakeStore) fillJobJoins(job *models.Job) {
	for _, company := range f.companies {
		if company.ID == job.CompanyID {
			job.CompanyName = company.CompanyName
			if owner := f.users[company.UserID]; owner != nil {
				job.CompanyUsername = owner.Username
			}
		}
	}
}

func (f *fakeStore) fillAppJoins(app *models.Application) {
	if job := f.jobs[app.JobID]; job != nil {
		app.JobTitle = job.Title
		app.CompanyID = job.CompanyID
		for _, company := range f.companies {
			if company.ID == job.CompanyID {
				app.CompanyName = company.CompanyName
			}
		}
	}
	if seeker := f.seekers[app.JobSeekerID]; seeker != nil {
		app.JobSeekerName = seeker.FullName
		if user := f.users[seeker.UserID]; user != nil {
			app.JobSeekerUsername = user.Username
		}
	}
}

// ===============================
// USER REPOSITORY
// ===============================

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) CreateWithProfile(_ context.Context, user *models.User, company *models.Company, seeker *models.JobSeeker) error {
	f := r.store
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrDuplicateUser
		}
	}

	user.ID = f.id()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user

	switch {
	case company != nil:
		company.ID = f.id()
		company.UserID = user.ID
		if company.CompanyID == "" {
			company.CompanyID = repositories.GenerateCompanyCode()
		}
		f.companies[company.ID] = company
	case seeker != nil:
		seeker.ID = f.id()
		seeker.UserID = user.ID
		f.seekers[seeker.ID] = seeker
	}
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.users[id], nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

// ===============================
// COMPANY REPOSITORY
// ===============================

type fakeCompanyRepo struct{ store *fakeStore }

func (r *fakeCompanyRepo) GetByID(_ context.Context, id int64) (*models.Company, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.companies[id], nil
}

func (r *fakeCompanyRepo) GetByUserID(_ context.Context, userID int64) (*models.Company, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.companyForUser(userID), nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *models.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.companies[company.ID] = company
	return nil
}

// ===============================
// JOBSEEKER REPOSITORY
// ===============================

type fakeSeekerRepo struct{ store *fakeStore }

func (r *fakeSeekerRepo) GetByID(_ context.Context, id int64) (*models.JobSeeker, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.seekers[id], nil
}

func (r *fakeSeekerRepo) GetByUserID(_ context.Context, userID int64) (*models.JobSeeker, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.seekerForUser(userID), nil
}

func (r *fakeSeekerRepo) Update(_ context.Context, seeker *models.JobSeeker) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.seekers[seeker.ID] = seeker
	return nil
}

// ===============================
// JOB REPOSITORY
// ===============================

type fakeJobRepo struct{ store *fakeStore }

func (r *fakeJobRepo) Create(_ context.Context, job *models.Job) error {
	f := r.store
	f.mu.Lock()
	defer f.mu.Unlock()

	job.ID = f.id()
	job.Posted = time.Now()
	job.CreatedAt = job.Posted
	f.fillJobJoins(job)
	f.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id int64) (*models.Job, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	job := r.store.jobs[id]
	if job != nil {
		r.store.fillJobJoins(job)
	}
	return job, nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *models.Job) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id int64) error {
	f := r.store
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, id)
	for appID, app := range f.apps {
		if app.JobID == id {
			delete(f.apps, appID)
		}
	}
	return nil
}

func (r *fakeJobRepo) List(_ context.Context, filter repositories.JobFilter, params models.PageParams) ([]*models.Job, int64, error) {
	f := r.store
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*models.Job
	for _, job := range f.jobs {
		if !f.matchesFilter(job, filter) {
			continue
		}
		f.fillJobJoins(job)
		matched = append(matched, job)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Posted.Equal(matched[j].Posted) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Posted.After(matched[j].Posted)
	})
	return pageSlice(matched, params)
}

func (f *fakeStore) matchesFilter(job *models.Job, filter repositories.JobFilter) bool {
	if filter.CompanyID != nil && job.CompanyID != *filter.CompanyID {
		return false
	}
	if filter.Urgent != nil && job.Urgent != *filter.Urgent {
		return false
	}
	if filter.Location != nil && !ptrContains(job.Location, *filter.Location) {
		return false
	}
	if filter.JobType != nil && !ptrContains(job.JobType, *filter.JobType) {
		return false
	}
	if filter.ExperienceLevel != nil && !ptrContains(job.ExperienceLevel, *filter.ExperienceLevel) {
		return false
	}
	if filter.Search != nil {
		needle := *filter.Search
		companyName := ""
		for _, company := range f.companies {
			if company.ID == job.CompanyID {
				companyName = company.CompanyName
			}
		}
		location := ""
		if job.Location != nil {
			location = *job.Location
		}
		if !containsFold(job.Title, needle) &&
			!containsFold(job.Description, needle) &&
			!containsFold(location, needle) &&
			!containsFold(companyName, needle) {
			return false
		}
	}
	return true
}

// ===============================
// APPLICATION REPOSITORY
// ===============================

type fakeAppRepo struct{ store *fakeStore }

func (r *fakeAppRepo) Create(_ context.Context, app *models.Application) error {
	f := r.store
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.apps {
		if existing.JobID == app.JobID && existing.JobSeekerID == app.JobSeekerID {
			return repositories.ErrDuplicateApplication
		}
	}

	app.ID = f.id()
	app.AppliedAt = time.Now()
	app.Status = models.StatusPending
	f.apps[app.ID] = app
	if job := f.jobs[app.JobID]; job != nil {
		job.ApplicantsCount++
	}
	return nil
}

func (r *fakeAppRepo) GetByID(_ context.Context, id int64) (*models.Application, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	app := r.store.apps[id]
	if app != nil {
		r.store.fillAppJoins(app)
	}
	return app, nil
}

func (r *fakeAppRepo) HasApplied(_ context.Context, jobID, jobSeekerID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, app := range r.store.apps {
		if app.JobID == jobID && app.JobSeekerID == jobSeekerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppRepo) ListByCompany(_ context.Context, companyID int64, params models.PageParams) ([]*models.Application, int64, error) {
	return r.list(params, func(app *models.Application) bool {
		job := r.store.jobs[app.JobID]
		return job != nil && job.CompanyID == companyID
	})
}

func (r *fakeAppRepo) ListByJobSeeker(_ context.Context, jobSeekerID int64, params models.PageParams) ([]*models.Application, int64, error) {
	return r.list(params, func(app *models.Application) bool {
		return app.JobSeekerID == jobSeekerID
	})
}

func (r *fakeAppRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if app := r.store.apps[id]; app != nil {
		app.Status = status
	}
	return nil
}

func (r *fakeAppRepo) list(params models.PageParams, keep func(*models.Application) bool) ([]*models.Application, int64, error) {
	f := r.store
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*models.Application
	for _, app := range f.apps {
		if keep(app) {
			f.fillAppJoins(app)
			matched = append(matched, app)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].AppliedAt.Equal(matched[j].AppliedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].AppliedAt.After(matched[j].AppliedAt)
	})
	return pageSlice(matched, params)
}

// ===============================
// HELPERS
// ===============================

func pageSlice[T any](matched []T, params models.PageParams) ([]T, int64, error) {
	total := int64(len(matched))
	start := params.Offset()
	if start > len(matched) {
		return nil, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func ptrContains(value *string, needle string) bool {
	return value != nil && containsFold(*value, needle)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
