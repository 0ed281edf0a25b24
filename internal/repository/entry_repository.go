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

// EntryRepository provides data access methods for the fund_entry table.
// A fund holds at most one entry per date.
type EntryRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewEntryRepository creates a new EntryRepository with the provided database connection.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *EntryRepository) WithTx(tx *sql.Tx) *EntryRepository {
	return &EntryRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *EntryRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ListEntries retrieves the entries of a fund in ascending date order.
// Returns an empty slice if the fund has no entries.
func (r *EntryRepository) ListEntries(ctx context.Context, fundID string) ([]model.Entry, error) {
	query := `
		SELECT id, fund_id, date, net_value, addition, shares
		FROM fund_entry
		WHERE fund_id = ?
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_entry table: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_entry table: %w", err)
	}

	return entries, nil
}

// GetEntry retrieves the entry of a fund on date.
// Returns ErrEntryNotFound if there is none.
func (r *EntryRepository) GetEntry(ctx context.Context, fundID string, date time.Time) (model.Entry, error) {
	query := `
		SELECT id, fund_id, date, net_value, addition, shares
		FROM fund_entry
		WHERE fund_id = ? AND date = ?
	`

	e, err := scanEntry(r.getQuerier().QueryRowContext(ctx, query, fundID, formatDate(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return model.Entry{}, err
	}

	return e, nil
}

// UpsertEntry stores e, replacing the values of an existing entry of the same
// fund and date. On replacement the existing ID is kept and written back to e.
func (r *EntryRepository) UpsertEntry(ctx context.Context, e *model.Entry) error {
	query := `
		INSERT INTO fund_entry (id, fund_id, date, net_value, addition, shares)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (fund_id, date) DO UPDATE SET
			net_value = excluded.net_value,
			addition = excluded.addition,
			shares = excluded.shares
		RETURNING id
	`

	err := r.getQuerier().QueryRowContext(ctx, query,
		e.ID,
		e.FundID,
		formatDate(e.Date),
		e.NetValue,
		nullFloat(e.Addition),
		nullFloat(e.Shares),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert fund_entry: %w", err)
	}

	return nil
}

// DeleteEntry removes the entry of a fund on date.
// Returns ErrEntryNotFound if there is none.
func (r *EntryRepository) DeleteEntry(ctx context.Context, fundID string, date time.Time) error {
	query := `DELETE FROM fund_entry WHERE fund_id = ? AND date = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, fundID, formatDate(date))
	if err != nil {
		return fmt.Errorf("failed to delete fund_entry: %w", err)
	}

	return requireAffected(result, apperrors.ErrEntryNotFound)
}

func scanEntry(s rowScanner) (model.Entry, error) {
	var e model.Entry
	var dateStr string
	var addition, shares sql.NullFloat64

	if err := s.Scan(&e.ID, &e.FundID, &dateStr, &e.NetValue, &addition, &shares); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Entry{}, err
		}
		return model.Entry{}, fmt.Errorf("failed to scan fund_entry table results: %w", err)
	}

	var err error
	e.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to parse date: %w", err)
	}
	e.Addition = floatPtr(addition)
	e.Shares = floatPtr(shares)

	return e, nil
}
