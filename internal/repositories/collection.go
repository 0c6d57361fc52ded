package repositories

import (
	"go.uber.org/zap"

	"jobportal/internal/database"
)

// NewCollection wires every repository against the database manager
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		User:        NewUserRepository(db, logger),
		Company:     NewCompanyRepository(db, logger),
		JobSeeker:   NewJobSeekerRepository(db, logger),
		Job:         NewJobRepository(db, logger),
		Application: NewApplicationRepository(db, logger),
	}
}
