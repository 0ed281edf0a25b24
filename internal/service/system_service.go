package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/fund-ledger/internal/database"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version and the schema version of the database.
func (s *SystemService) CheckVersion() (*model.VersionInfo, error) {
	dbVersion, err := database.Version(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get version information: %w", err)
	}

	return &model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
	}, nil
}
