package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/events"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/repository"
)

// EntryService handles the entry store: creating, replacing and removing the
// dated observations of a fund.
type EntryService struct {
	db        *sql.DB
	entryRepo *repository.EntryRepository
	fundRepo  *repository.FundRepository
	publisher events.Publisher
}

// NewEntryService creates a new EntryService. Entry changes are published to publisher.
func NewEntryService(
	db *sql.DB,
	entryRepo *repository.EntryRepository,
	fundRepo *repository.FundRepository,
	publisher events.Publisher,
) *EntryService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &EntryService{
		db:        db,
		entryRepo: entryRepo,
		fundRepo:  fundRepo,
		publisher: publisher,
	}
}

// ListEntries retrieves the entries of a fund in ascending date order.
// Returns ErrFundNotFound if the fund does not exist.
func (s *EntryService) ListEntries(ctx context.Context, fundID string) ([]model.Entry, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundID); err != nil {
		return nil, err
	}
	return s.entryRepo.ListEntries(ctx, fundID)
}

// SaveEntry stores the entry of req for a fund, replacing any entry on the
// same date, and records the change on the fund.
// Returns an error wrapping ledger.ErrMalformedEntry for unusable input.
func (s *EntryService) SaveEntry(ctx context.Context, fundID string, req request.SaveEntryRequest) (*model.Entry, error) {
	parsed, err := ledger.ParseEntry(req.Date, req.NetValue.String(), req.Addition.String(), req.Shares.String())
	if err != nil {
		return nil, err
	}

	entry := &model.Entry{
		ID:       uuid.New().String(),
		FundID:   fundID,
		Date:     parsed.Date,
		NetValue: parsed.NetValue,
		Addition: parsed.Addition,
		Shares:   parsed.Shares,
	}

	err = s.withTx(ctx, func(entryRepo *repository.EntryRepository, fundRepo *repository.FundRepository) error {
		if _, err := fundRepo.GetFund(ctx, fundID); err != nil {
			return err
		}
		if err := entryRepo.UpsertEntry(ctx, entry); err != nil {
			return err
		}
		return fundRepo.TouchFund(ctx, fundID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EntryEvent{
		Type:     events.EntrySaved,
		FundID:   fundID,
		EntryID:  entry.ID,
		Date:     entry.Date.Format(ledger.DateLayout),
		NetValue: entry.NetValue,
		Addition: entry.Addition,
		Shares:   entry.Shares,
	})

	return entry, nil
}

// DeleteEntry removes the entry of a fund on date.
// Returns ErrFundNotFound or ErrEntryNotFound.
func (s *EntryService) DeleteEntry(ctx context.Context, fundID string, date time.Time) error {
	err := s.withTx(ctx, func(entryRepo *repository.EntryRepository, fundRepo *repository.FundRepository) error {
		if _, err := fundRepo.GetFund(ctx, fundID); err != nil {
			return err
		}
		if err := entryRepo.DeleteEntry(ctx, fundID, date); err != nil {
			return err
		}
		return fundRepo.TouchFund(ctx, fundID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.EntryEvent{
		Type:   events.EntryDeleted,
		FundID: fundID,
		Date:   date.Format(ledger.DateLayout),
	})

	return nil
}

func (s *EntryService) withTx(ctx context.Context, fn func(*repository.EntryRepository, *repository.FundRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(s.entryRepo.WithTx(tx), s.fundRepo.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// publish delivers an event after the change was committed. A failed
// delivery is logged and does not undo the change.
func (s *EntryService) publish(ctx context.Context, event events.EntryEvent) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s event for fund %s: %v", event.Type, event.FundID, err)
	}
}
