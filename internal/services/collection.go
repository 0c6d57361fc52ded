package services

import (
	"go.uber.org/zap"

	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/repositories"
	"jobportal/internal/utils"
)

// NewCollection wires every service against the repositories and shared
// infrastructure.
func NewCollection(cfg *config.Config, repos *repositories.Collection, store cache.Cache, assets utils.AssetStore, logger *zap.Logger) *Collection {
	tokens := NewTokenService(&cfg.Auth, store, repos.User, logger)
	return &Collection{
		Token:       tokens,
		Auth:        NewAuthService(&cfg.Auth, repos, tokens, logger),
		Profile:     NewProfileService(repos, assets, logger),
		Job:         NewJobService(&cfg.Pagination, repos, logger),
		Application: NewApplicationService(&cfg.Pagination, repos, logger),
	}
}
