package services

import (
	"context"
	"net/http"

	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
)

// BankService lists banks and resolves account details
type BankService struct {
	requester Requester
}

// NewBankService creates a new instance of BankService
func NewBankService(requester Requester) *BankService {
	return &BankService{requester: requester}
}

// List returns the supported banks
func (s *BankService) List(ctx context.Context) (*types.APIResponse, error) {
	return s.requester.MakeRequest(ctx, http.MethodGet, "/api/external/bank", nil, nil)
}

// LookupAccount resolves the holder of a bank account
func (s *BankService) LookupAccount(ctx context.Context, payload *types.AccountLookupPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/bank/account-lookup", payload, nil)
}

// CurrencyService lists supported currencies
type CurrencyService struct {
	requester Requester
}

// NewCurrencyService creates a new instance of CurrencyService
func NewCurrencyService(requester Requester) *CurrencyService {
	return &CurrencyService{requester: requester}
}

// List returns the supported currencies
func (s *CurrencyService) List(ctx context.Context) (*types.APIResponse, error) {
	return s.requester.MakeRequest(ctx, http.MethodGet, "/api/external/currency", nil, nil)
}

// FeesService computes transfer fees
type FeesService struct {
	requester Requester
}

// NewFeesService creates a new instance of FeesService
func NewFeesService(requester Requester) *FeesService {
	return &FeesService{requester: requester}
}

// GetBreakdown returns the fee breakdown for converting an amount
func (s *FeesService) GetBreakdown(ctx context.Context, payload *types.FeeBreakdownPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/fees/breakdown", payload, nil)
}
