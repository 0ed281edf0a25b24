package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrFundNotFound indicates that a fund with the given ID does not exist.
	ErrFundNotFound = errors.New("fund not found")

	// ErrEntryNotFound indicates no entry for a specific fund and date combination.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrSnapshotNotFound indicates that no ledger snapshot was computed for a fund yet.
	ErrSnapshotNotFound = errors.New("ledger snapshot not found")

	// ErrNoFundSelected indicates that the session holds no usable fund.
	ErrNoFundSelected = errors.New("no fund selected")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateFundName indicates that another fund already uses the name.
	ErrDuplicateFundName = errors.New("fund name already exists")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// Validation errors for required fields
	ErrInvalidFundID   = errors.New("fund ID is required")
	ErrInvalidFundName = errors.New("fund name is required")
	ErrInvalidDate     = errors.New("date parameter is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Fund operation errors
	ErrFailedToRetrieveFunds = errors.New("failed to retrieve funds")
	ErrFailedToRetrieveFund  = errors.New("failed to retrieve fund")
	ErrFailedToCreateFund    = errors.New("failed to create fund")
	ErrFailedToUpdateFund    = errors.New("failed to update fund")
	ErrFailedToDeleteFund    = errors.New("failed to delete fund")

	// Entry operation errors
	ErrFailedToRetrieveEntries = errors.New("failed to retrieve entries")
	ErrFailedToSaveEntry       = errors.New("failed to save entry")
	ErrFailedToDeleteEntry     = errors.New("failed to delete entry")

	// Ledger operation errors
	ErrFailedToComputeLedger    = errors.New("failed to compute ledger")
	ErrFailedToRenderLedger     = errors.New("failed to render ledger")
	ErrFailedToRetrieveSnapshot = errors.New("failed to retrieve ledger snapshot")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., stored entries that the ledger engine rejects).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
