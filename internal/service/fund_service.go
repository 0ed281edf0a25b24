package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/repository"
)

// FundService handles the fund registry: the named positions entries belong to.
type FundService struct {
	fundRepo        *repository.FundRepository
	defaultFundName string
}

// NewFundService creates a new FundService. defaultFundName names the fund
// created when the registry would otherwise be empty.
func NewFundService(
	fundRepo *repository.FundRepository,
	defaultFundName string,
) *FundService {
	return &FundService{
		fundRepo:        fundRepo,
		defaultFundName: defaultFundName,
	}
}

// ListFunds retrieves all funds, most recently created first.
func (s *FundService) ListFunds(ctx context.Context) ([]model.Fund, error) {
	return s.fundRepo.ListFunds(ctx)
}

// GetFund retrieves a single fund by ID.
// Returns ErrFundNotFound if it does not exist.
func (s *FundService) GetFund(ctx context.Context, fundID string) (model.Fund, error) {
	return s.fundRepo.GetFund(ctx, fundID)
}

// CreateFund registers a new fund under the trimmed name.
// Returns ErrDuplicateFundName if the name is taken.
func (s *FundService) CreateFund(ctx context.Context, req request.CreateFundRequest) (*model.Fund, error) {
	now := time.Now().UTC()
	fund := &model.Fund{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if fund.Name == "" {
		return nil, apperrors.ErrInvalidFundName
	}

	if err := s.fundRepo.InsertFund(ctx, fund); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateFundName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create fund: %w", err)
	}

	return fund, nil
}

// UpdateFund renames a fund.
// Returns ErrFundNotFound or ErrDuplicateFundName.
func (s *FundService) UpdateFund(ctx context.Context, fundID string, req request.UpdateFundRequest) (*model.Fund, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ErrInvalidFundName
	}

	if err := s.fundRepo.RenameFund(ctx, fundID, name, time.Now().UTC()); err != nil {
		return nil, err
	}

	fund, err := s.fundRepo.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return &fund, nil
}

// DeleteFund removes a fund with its entries and snapshot. When it was the
// last fund, the default fund is created so the registry is never empty.
func (s *FundService) DeleteFund(ctx context.Context, fundID string) error {
	if err := s.fundRepo.DeleteFund(ctx, fundID); err != nil {
		return err
	}

	if _, err := s.EnsureDefaultFund(ctx); err != nil {
		return fmt.Errorf("failed to restore default fund: %w", err)
	}
	return nil
}

// EnsureDefaultFund returns the most recent fund, creating the default fund
// first when none exist.
func (s *FundService) EnsureDefaultFund(ctx context.Context) (model.Fund, error) {
	funds, err := s.fundRepo.ListFunds(ctx)
	if err != nil {
		return model.Fund{}, err
	}
	if len(funds) > 0 {
		return funds[0], nil
	}

	fund, err := s.CreateFund(ctx, request.CreateFundRequest{Name: s.defaultFundName})
	if errors.Is(err, apperrors.ErrDuplicateFundName) {
		// created concurrently
		funds, err := s.fundRepo.ListFunds(ctx)
		if err != nil {
			return model.Fund{}, err
		}
		if len(funds) == 0 {
			return model.Fund{}, apperrors.ErrFundNotFound
		}
		return funds[0], nil
	}
	if err != nil {
		return model.Fund{}, err
	}
	return *fund, nil
}

// CurrentFund resolves the fund a session works on: fundID when it still
// exists, otherwise the most recent fund (created if the registry is empty).
func (s *FundService) CurrentFund(ctx context.Context, fundID string) (model.Fund, error) {
	if fundID != "" {
		fund, err := s.fundRepo.GetFund(ctx, fundID)
		if err == nil {
			return fund, nil
		}
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			return model.Fund{}, err
		}
	}
	return s.EnsureDefaultFund(ctx)
}
