package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/fund-ledger/internal/events"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/repository"
	"github.com/ndewijer/fund-ledger/internal/service"
)

// DefaultFundName is the default fund name used by test services.
const DefaultFundName = "Default Fund"

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	return service.NewFundService(
		repository.NewFundRepository(db),
		DefaultFundName,
	)
}

// NewTestEntryService creates an EntryService that records published events in publisher.
// A nil publisher discards them.
func NewTestEntryService(t *testing.T, db *sql.DB, publisher events.Publisher) *service.EntryService {
	t.Helper()

	return service.NewEntryService(
		db,
		repository.NewEntryRepository(db),
		repository.NewFundRepository(db),
		publisher,
	)
}

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		repository.NewFundRepository(db),
		repository.NewEntryRepository(db),
		ledger.DefaultOptions(),
	)
}

func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()

	fundRepo := repository.NewFundRepository(db)

	return service.NewSnapshotService(
		fundRepo,
		repository.NewSnapshotRepository(db),
		service.NewLedgerService(fundRepo, repository.NewEntryRepository(db), ledger.DefaultOptions()),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Tech Fund")
//	// Returns: "Tech Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
