package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
)

// WalletService reads business wallets
type WalletService struct {
	requester Requester
}

// NewWalletService creates a new instance of WalletService
func NewWalletService(requester Requester) *WalletService {
	return &WalletService{requester: requester}
}

// List returns all wallets
func (s *WalletService) List(ctx context.Context) (*types.APIResponse, error) {
	return s.requester.MakeRequest(ctx, http.MethodGet, "/api/external/wallet", nil, nil)
}

// Get returns a wallet by id
func (s *WalletService) Get(ctx context.Context, walletID string) (*types.APIResponse, error) {
	if walletID == "" {
		return nil, blaaizErrors.NewValidation("wallet_id", "Wallet ID is required")
	}
	return s.requester.MakeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/external/wallet/%s", walletID), nil, nil)
}

// VirtualBankAccountService manages virtual bank accounts attached to wallets
type VirtualBankAccountService struct {
	requester Requester
}

// NewVirtualBankAccountService creates a new instance of VirtualBankAccountService
func NewVirtualBankAccountService(requester Requester) *VirtualBankAccountService {
	return &VirtualBankAccountService{requester: requester}
}

// Create opens a virtual bank account for a wallet
func (s *VirtualBankAccountService) Create(ctx context.Context, payload *types.VirtualBankAccountPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/virtual-bank-account", payload, nil)
}

// List returns virtual bank accounts, optionally only those of one wallet
func (s *VirtualBankAccountService) List(ctx context.Context, walletID string) (*types.APIResponse, error) {
	endpoint := "/api/external/virtual-bank-account"
	if walletID != "" {
		endpoint += "?" + url.Values{"wallet_id": {walletID}}.Encode()
	}
	return s.requester.MakeRequest(ctx, http.MethodGet, endpoint, nil, nil)
}

// Get returns a virtual bank account by id
func (s *VirtualBankAccountService) Get(ctx context.Context, vbaID string) (*types.APIResponse, error) {
	if vbaID == "" {
		return nil, blaaizErrors.NewValidation("vba_id", "Virtual bank account ID is required")
	}
	return s.requester.MakeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/external/virtual-bank-account/%s", vbaID), nil, nil)
}
