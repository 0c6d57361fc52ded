package router

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/database"
	"jobportal/internal/handlers/api/v1/accounts"
	"jobportal/internal/handlers/api/v1/jobs"
	"jobportal/internal/middleware"
	"jobportal/internal/response"
	"jobportal/internal/services"
)

// Dependencies bundles everything the router needs
type Dependencies struct {
	Config   *config.Config
	Services *services.Collection
	DB       *database.Manager
	Cache    cache.Cache
	Logger   *zap.Logger
}

// New builds the route table
func New(deps *Dependencies) *mux.Router {
	builder := response.NewBuilder(deps.Logger)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger, builder))
	r.Use(middleware.Logging(deps.Logger))

	r.HandleFunc("/health", healthHandler(deps, builder)).Methods(http.MethodGet)
	if !deps.Config.IsProduction() {
		r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	requireAuth := middleware.RequireAuth(deps.Services.Token, builder)

	accountsCtrl := accounts.NewController(deps.Config, deps.Services, builder, deps.Logger)
	jobsCtrl := jobs.NewController(deps.Services, builder, deps.Logger)

	// Public account endpoints
	api.HandleFunc("/accounts/register", accountsCtrl.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountsCtrl.Login).Methods(http.MethodPost)
	api.HandleFunc("/accounts/token/refresh", accountsCtrl.RefreshToken).Methods(http.MethodPost)

	// Authenticated account endpoints
	authAccounts := api.PathPrefix("/accounts").Subrouter()
	authAccounts.Use(requireAuth)
	authAccounts.HandleFunc("/logout", accountsCtrl.Logout).Methods(http.MethodPost)
	authAccounts.HandleFunc("/profile", accountsCtrl.GetProfile).Methods(http.MethodGet)
	authAccounts.HandleFunc("/company-profile", accountsCtrl.GetCompanyProfile).Methods(http.MethodGet)
	authAccounts.HandleFunc("/company-profile", accountsCtrl.UpdateCompanyProfile).Methods(http.MethodPut, http.MethodPatch)
	authAccounts.HandleFunc("/jobseeker-profile", accountsCtrl.GetJobSeekerProfile).Methods(http.MethodGet)
	authAccounts.HandleFunc("/jobseeker-profile", accountsCtrl.UpdateJobSeekerProfile).Methods(http.MethodPut, http.MethodPatch)
	authAccounts.HandleFunc("/assets", accountsCtrl.UploadAsset).Methods(http.MethodPost)

	// Public job endpoints
	api.HandleFunc("/jobs", jobsCtrl.List).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id:[0-9]+}", jobsCtrl.Get).Methods(http.MethodGet)

	// Authenticated job and application endpoints
	authJobs := api.PathPrefix("/jobs").Subrouter()
	authJobs.Use(requireAuth)
	authJobs.HandleFunc("/company", jobsCtrl.Create).Methods(http.MethodPost)
	authJobs.HandleFunc("/company", jobsCtrl.ListCompany).Methods(http.MethodGet)
	authJobs.HandleFunc("/company/{id:[0-9]+}", jobsCtrl.GetCompanyJob).Methods(http.MethodGet)
	authJobs.HandleFunc("/company/{id:[0-9]+}", jobsCtrl.Update).Methods(http.MethodPut, http.MethodPatch)
	authJobs.HandleFunc("/company/{id:[0-9]+}", jobsCtrl.Delete).Methods(http.MethodDelete)
	authJobs.HandleFunc("/apply", jobsCtrl.Apply).Methods(http.MethodPost)
	authJobs.HandleFunc("/applications", jobsCtrl.ListReceived).Methods(http.MethodGet)
	authJobs.HandleFunc("/applications/{id:[0-9]+}", jobsCtrl.UpdateApplicationStatus).Methods(http.MethodPut, http.MethodPatch)
	authJobs.HandleFunc("/my-applications", jobsCtrl.ListMine).Methods(http.MethodGet)

	return r
}

func healthHandler(deps *Dependencies, builder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"database": "ok", "cache": "ok"}
		healthy := true

		if err := deps.DB.Health(r.Context()); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
		if err := deps.Cache.Health(r.Context()); err != nil {
			status["cache"] = err.Error()
			healthy = false
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		builder.WriteSuccess(w, r, code, status)
	}
}
