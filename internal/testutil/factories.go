package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/fund-ledger/internal/model"
)

// FundBuilder provides a fluent interface for creating test funds.
//
// Example usage:
//
//	// Simple creation with defaults
//	fund := testutil.NewFund().Build(t, db)
//
//	// Customized fund
//	fund := testutil.NewFund().
//	    WithName("Growth Fund").
//	    WithCreatedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type FundBuilder struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// NewFund creates a FundBuilder with sensible defaults.
func NewFund() *FundBuilder {
	return &FundBuilder{
		ID:        MakeID(),
		Name:      MakeFundName("Test Fund"),
		CreatedAt: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *FundBuilder) WithID(id string) *FundBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// WithCreatedAt sets the creation time, which orders fund listings.
func (b *FundBuilder) WithCreatedAt(createdAt time.Time) *FundBuilder {
	b.CreatedAt = createdAt.UTC()
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	query := `
		INSERT INTO fund (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	stamp := b.CreatedAt.Format("2006-01-02T15:04:05.000000000Z07:00")
	_, err := db.Exec(query, b.ID, b.Name, stamp, stamp)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.Fund{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
	}
}

// CreateFund creates a fund with the given name.
func CreateFund(t *testing.T, db *sql.DB, name string) model.Fund {
	t.Helper()
	return NewFund().WithName(name).Build(t, db)
}

// CreateFunds creates count funds with distinct names, the first one oldest.
func CreateFunds(t *testing.T, db *sql.DB, count int) []model.Fund {
	t.Helper()

	base := time.Now().UTC().Add(-time.Duration(count) * time.Minute)
	funds := make([]model.Fund, count)
	for i := range funds {
		funds[i] = NewFund().WithCreatedAt(base.Add(time.Duration(i) * time.Minute)).Build(t, db)
	}
	return funds
}

// EntryBuilder provides a fluent interface for creating test entries.
//
// Example usage:
//
//	testutil.NewEntry(fund.ID).
//	    WithDate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)).
//	    WithNetValue(1.25).
//	    WithAddition(1000).
//	    Build(t, db)
type EntryBuilder struct {
	ID       string
	FundID   string
	Date     time.Time
	NetValue float64
	Addition *float64
	Shares   *float64
}

// NewEntry creates an EntryBuilder for fundID dated today with a net value of 1.
func NewEntry(fundID string) *EntryBuilder {
	y, m, d := time.Now().UTC().Date()
	return &EntryBuilder{
		ID:       MakeID(),
		FundID:   fundID,
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		NetValue: 1.0,
	}
}

// WithID sets a custom ID.
func (b *EntryBuilder) WithID(id string) *EntryBuilder {
	b.ID = id
	return b
}

// WithDate sets the entry date.
func (b *EntryBuilder) WithDate(date time.Time) *EntryBuilder {
	b.Date = date
	return b
}

// WithNetValue sets the net value.
func (b *EntryBuilder) WithNetValue(nv float64) *EntryBuilder {
	b.NetValue = nv
	return b
}

// WithAddition sets the addition.
func (b *EntryBuilder) WithAddition(addition float64) *EntryBuilder {
	b.Addition = &addition
	return b
}

// WithShares sets the shares.
func (b *EntryBuilder) WithShares(shares float64) *EntryBuilder {
	b.Shares = &shares
	return b
}

// Build creates the entry in the database and returns it.
func (b *EntryBuilder) Build(t *testing.T, db *sql.DB) model.Entry {
	t.Helper()

	query := `
		INSERT INTO fund_entry (id, fund_id, date, net_value, addition, shares)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.FundID, b.Date.Format("2006-01-02"), b.NetValue, b.Addition, b.Shares)
	if err != nil {
		t.Fatalf("Failed to create test entry: %v", err)
	}

	return model.Entry{
		ID:       b.ID,
		FundID:   b.FundID,
		Date:     b.Date,
		NetValue: b.NetValue,
		Addition: b.Addition,
		Shares:   b.Shares,
	}
}

// Date returns midnight UTC of a YYYY-MM-DD date and panics on malformed input.
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
