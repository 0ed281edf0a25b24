package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/model"
)

// FundRepository provides data access methods for the fund table.
type FundRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ListFunds retrieves all funds, most recently created first.
// Returns an empty slice if no funds exist.
func (r *FundRepository) ListFunds(ctx context.Context) ([]model.Fund, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM fund
		ORDER BY created_at DESC, name ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund table: %w", err)
	}
	defer rows.Close()

	funds := []model.Fund{}

	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund table: %w", err)
	}

	return funds, nil
}

// GetFund retrieves a single fund by ID.
// Returns ErrFundNotFound if no fund has that ID.
func (r *FundRepository) GetFund(ctx context.Context, fundID string) (model.Fund, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM fund
		WHERE id = ?
	`

	f, err := scanFund(r.getQuerier().QueryRowContext(ctx, query, fundID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, err
	}

	return f, nil
}

// InsertFund stores a new fund.
// Returns ErrDuplicateFundName if another fund already has the name.
func (r *FundRepository) InsertFund(ctx context.Context, f *model.Fund) error {
	query := `
		INSERT INTO fund (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		f.ID,
		f.Name,
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateFundName
	}
	if err != nil {
		return fmt.Errorf("failed to insert fund: %w", err)
	}

	return nil
}

// RenameFund changes the name of a fund and bumps its updated_at.
// Returns ErrFundNotFound or ErrDuplicateFundName.
func (r *FundRepository) RenameFund(ctx context.Context, fundID, name string, at time.Time) error {
	query := `UPDATE fund SET name = ?, updated_at = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, name, formatTime(at), fundID)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateFundName
	}
	if err != nil {
		return fmt.Errorf("failed to update fund: %w", err)
	}

	return requireAffected(result, apperrors.ErrFundNotFound)
}

// TouchFund records that the entries of a fund changed.
func (r *FundRepository) TouchFund(ctx context.Context, fundID string, at time.Time) error {
	query := `UPDATE fund SET updated_at = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, formatTime(at), fundID)
	if err != nil {
		return fmt.Errorf("failed to touch fund: %w", err)
	}

	return requireAffected(result, apperrors.ErrFundNotFound)
}

// DeleteFund removes a fund. Its entries and snapshot go with it.
// Returns ErrFundNotFound if no fund has that ID.
func (r *FundRepository) DeleteFund(ctx context.Context, fundID string) error {
	query := `DELETE FROM fund WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, fundID)
	if err != nil {
		return fmt.Errorf("failed to delete fund: %w", err)
	}

	return requireAffected(result, apperrors.ErrFundNotFound)
}

// CountFunds returns the number of stored funds.
func (r *FundRepository) CountFunds(ctx context.Context) (int, error) {
	var count int
	if err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM fund`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count funds: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFund(s rowScanner) (model.Fund, error) {
	var f model.Fund
	var createdAtStr, updatedAtStr string

	if err := s.Scan(&f.ID, &f.Name, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Fund{}, err
		}
		return model.Fund{}, fmt.Errorf("failed to scan fund table results: %w", err)
	}

	var err error
	f.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	f.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return f, nil
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
