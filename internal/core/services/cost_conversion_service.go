package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portsrepo "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/LesterCerioli/lts_accounting_app/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultPrecision is used when the reporting currency has no registered
// precision.
const defaultPrecision = 2

// CostConversionService fills the reporting-currency conversion fields of
// cost records. Records for which no rate resolves are persisted anyway with
// the fields nil and picked up later by ReconcileMissingRates.
type CostConversionService struct {
	BaseService
	costRepo          portsrepo.CostRepositoryFacade
	organizationRepo  portsrepo.OrganizationReader
	currencyService   portssvc.CurrencyReaderSvc
	rateResolver      portssvc.RateResolverSvc
	reportingCurrency string
}

// NewCostConversionService creates a new CostConversionService.
func NewCostConversionService(costRepo portsrepo.CostRepositoryFacade, organizationRepo portsrepo.OrganizationReader, currencyService portssvc.CurrencyReaderSvc, rateResolver portssvc.RateResolverSvc, reportingCurrency string) *CostConversionService {
	return &CostConversionService{
		costRepo:          costRepo,
		organizationRepo:  organizationRepo,
		currencyService:   currencyService,
		rateResolver:      rateResolver,
		reportingCurrency: reportingCurrency,
	}
}

var _ portssvc.CostConversionSvcFacade = (*CostConversionService)(nil)

// CreateCost persists a new cost, resolving its conversion fields first. A
// cost whose rate cannot be resolved is still persisted; it stays pending
// until reconciliation finds a rate.
func (s *CostConversionService) CreateCost(ctx context.Context, organizationID string, req dto.CreateCostRequest, creatorUserID string) (*domain.Cost, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: cost amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: organization '%s' not found", apperrors.ErrValidation, organizationID)
		}
		return nil, err
	}
	if _, err := s.currencyService.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", req.CurrencyCode, err)
	}

	now := time.Now()
	cost := domain.Cost{
		CostID:             uuid.NewString(),
		OrganizationID:     organizationID,
		Description:        req.Description,
		Amount:             req.Amount,
		CurrencyCode:       req.CurrencyCode,
		DueDate:            req.DueDate,
		ConvertedAmountBRL: req.ConvertedAmountBRL,
		ExchangeRateMonth:  req.ExchangeRateMonth,
		ExchangeRateValue:  req.ExchangeRateValue,
		Status:             domain.CostPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.PrepareConversion(ctx, &cost); err != nil {
		return nil, err
	}

	if err := s.costRepo.SaveCost(ctx, cost); err != nil {
		s.LogError(ctx, err, "failed to save cost", "organization_id", organizationID)
		return nil, fmt.Errorf("failed to create cost in service: %w", err)
	}

	if cost.NeedsConversion() {
		s.LogWarn(ctx, "cost persisted without conversion, pending reconciliation",
			"cost_id", cost.CostID,
			"organization_id", organizationID,
			"currency", cost.CurrencyCode,
			"due_date", cost.DueDate.Format(time.DateOnly))
	}

	return &cost, nil
}

// PrepareConversion fills the conversion fields of a cost draft in place.
// Caller-supplied conversions are trusted verbatim; a cost already in the
// reporting currency converts at rate one; everything else goes through the
// rate resolution cascade keyed on the due date. A missing rate leaves the
// fields nil without error.
func (s *CostConversionService) PrepareConversion(ctx context.Context, cost *domain.Cost) error {
	if cost.HasExplicitConversion() {
		return nil
	}
	// A partial triple is caller error: either supply the full conversion or
	// none of it.
	if cost.ConvertedAmountBRL != nil || cost.ExchangeRateValue != nil || cost.ExchangeRateMonth != nil {
		return fmt.Errorf("%w: conversion fields must be supplied together or not at all", apperrors.ErrValidation)
	}

	if cost.CurrencyCode == s.reportingCurrency {
		// Identity conversion keeps the amount untouched; rounding would
		// break converted == amount for amounts with extra decimals.
		one := decimal.NewFromInt(1)
		month := domain.YearMonthOf(cost.DueDate)
		converted := cost.Amount
		cost.ConvertedAmountBRL = &converted
		cost.ExchangeRateValue = &one
		cost.ExchangeRateMonth = &month
		return nil
	}

	precision := s.reportingPrecision(ctx)

	month := domain.YearMonthOf(cost.DueDate)
	rate, err := s.rateResolver.ResolveRate(ctx, cost.OrganizationID, cost.CurrencyCode, s.reportingCurrency, month, cost.DueDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	converted := cost.Amount.Mul(rate.Rate).Round(int32(precision))
	cost.ConvertedAmountBRL = &converted
	cost.ExchangeRateValue = &rate.Rate
	cost.ExchangeRateMonth = &rate.YearMonth

	s.LogDebug(ctx, "cost conversion resolved",
		"cost_id", cost.CostID,
		"rate", rate.Rate.String(),
		"rate_month", rate.YearMonth,
		"converted_amount", utils.FormatWithPrecision(converted, precision))
	return nil
}

// ReconcileMissingRates re-runs resolution for every cost of the organization
// whose conversion fields are NULL. Costs whose rate still does not resolve
// stay pending; a later pass picks them up again.
func (s *CostConversionService) ReconcileMissingRates(ctx context.Context, organizationID string) (*domain.ReconciliationResult, error) {
	if _, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID); err != nil {
		return nil, err
	}

	pending, err := s.costRepo.ListCostsMissingConversion(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	result := &domain.ReconciliationResult{
		OrganizationID: organizationID,
		Examined:       len(pending),
	}

	now := time.Now()
	for i := range pending {
		cost := pending[i]
		if err := s.PrepareConversion(ctx, &cost); err != nil {
			s.LogError(ctx, err, "reconciliation failed for cost", "cost_id", cost.CostID)
			result.StillPending++
			continue
		}
		if cost.NeedsConversion() {
			result.StillPending++
			continue
		}

		cost.LastUpdatedAt = now
		cost.LastUpdatedBy = "rate-reconciliation"
		if err := s.costRepo.UpdateCostConversion(ctx, cost); err != nil {
			s.LogError(ctx, err, "failed to persist reconciled conversion", "cost_id", cost.CostID)
			result.StillPending++
			continue
		}
		result.Converted++
	}

	s.LogInfo(ctx, "rate reconciliation finished",
		"organization_id", organizationID,
		"examined", result.Examined,
		"converted", result.Converted,
		"still_pending", result.StillPending)

	return result, nil
}

// reportingPrecision returns the reporting currency's registered precision,
// falling back to two decimal places when the currency is not registered.
func (s *CostConversionService) reportingPrecision(ctx context.Context) int {
	if currency, err := s.currencyService.GetCurrencyByCode(ctx, s.reportingCurrency); err == nil && currency != nil {
		return currency.Precision
	}
	return defaultPrecision
}
