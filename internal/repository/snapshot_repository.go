package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/model"
)

// SnapshotRepository provides data access methods for the ledger_snapshot table,
// which keeps the last computed ledger totals of every fund.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// UpsertSnapshot stores the snapshot of a fund, replacing the previous one.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, s model.Snapshot) error {
	query := `
		INSERT INTO ledger_snapshot (
			fund_id, computed_at, entry_count, last_date, total_shares,
			total_value, total_invested, total_growth, cumulative_realized_gain
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fund_id) DO UPDATE SET
			computed_at = excluded.computed_at,
			entry_count = excluded.entry_count,
			last_date = excluded.last_date,
			total_shares = excluded.total_shares,
			total_value = excluded.total_value,
			total_invested = excluded.total_invested,
			total_growth = excluded.total_growth,
			cumulative_realized_gain = excluded.cumulative_realized_gain
	`

	var lastDate sql.NullString
	if s.LastDate != nil {
		lastDate = sql.NullString{String: formatDate(*s.LastDate), Valid: true}
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		s.FundID,
		formatTime(s.ComputedAt),
		s.EntryCount,
		lastDate,
		s.TotalShares,
		s.TotalValue,
		s.TotalInvested,
		s.TotalGrowth,
		s.CumulativeRealizedGain,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ledger_snapshot: %w", err)
	}

	return nil
}

// GetSnapshot retrieves the snapshot of a fund.
// Returns ErrSnapshotNotFound if none was stored yet.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, fundID string) (model.Snapshot, error) {
	query := `
		SELECT fund_id, computed_at, entry_count, last_date, total_shares,
			total_value, total_invested, total_growth, cumulative_realized_gain
		FROM ledger_snapshot
		WHERE fund_id = ?
	`

	var s model.Snapshot
	var computedAtStr string
	var lastDate sql.NullString

	err := r.getQuerier().QueryRowContext(ctx, query, fundID).Scan(
		&s.FundID,
		&computedAtStr,
		&s.EntryCount,
		&lastDate,
		&s.TotalShares,
		&s.TotalValue,
		&s.TotalInvested,
		&s.TotalGrowth,
		&s.CumulativeRealizedGain,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to scan ledger_snapshot table results: %w", err)
	}

	s.ComputedAt, err = ParseTime(computedAtStr)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to parse computed_at: %w", err)
	}
	if lastDate.Valid {
		d, err := ParseTime(lastDate.String)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("failed to parse last_date: %w", err)
		}
		s.LastDate = &d
	}

	return s, nil
}
