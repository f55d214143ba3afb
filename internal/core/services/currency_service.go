package services

import (
	"context"
	"fmt"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
)

// CurrencyService provides business logic for currencies.
type CurrencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)

func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	// Basic validation already handled by DTO binding (required, len=3, uppercase)
	now := time.Now()

	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	err := s.currencyRepo.SaveCurrency(ctx, currency)
	if err != nil {
		s.LogError(ctx, err, "failed to create currency", "currency_code", req.CurrencyCode)
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	return &currency, nil
}

func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
