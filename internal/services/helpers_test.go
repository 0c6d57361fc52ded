package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/utils"
)

type testEnv struct {
	cfg   *config.Config
	store *fakeStore
	cache cache.Cache
	svc   *Collection
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			AccessTokenTTL:    15 * time.Minute,
			RefreshTokenTTL:   time.Hour,
			BCryptCost:        bcrypt.MinCost,
			MinPasswordLength: 8,
		},
		Cache: config.CacheConfig{Provider: "memory"},
		Pagination: config.PaginationConfig{
			JobPageSize:         10,
			ApplicationPageSize: 10,
		},
	}

	store := newFakeStore()
	tokenStore, err := cache.New(&cfg.Cache, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { tokenStore.Close() })

	return &testEnv{
		cfg:   cfg,
		store: store,
		cache: tokenStore,
		svc:   NewCollection(cfg, store.collection(), tokenStore, utils.NewDisabledStore(), zap.NewNop()),
	}
}

func (e *testEnv) registerCompany(t *testing.T, username string) *AuthResponse {
	t.Helper()
	resp, err := e.svc.Auth.Register(context.Background(), &RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "sup3rsecret",
		Role:     "company",
	})
	require.NoError(t, err)
	return resp
}

func (e *testEnv) registerSeeker(t *testing.T, username string) *AuthResponse {
	t.Helper()
	resp, err := e.svc.Auth.Register(context.Background(), &RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "sup3rsecret",
		Role:     "jobseeker",
	})
	require.NoError(t, err)
	return resp
}
