package services

import (
	"context"
	"net/http"

	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
)

// CollectionService initiates collections
type CollectionService struct {
	requester Requester
}

// NewCollectionService creates a new instance of CollectionService
func NewCollectionService(requester Requester) *CollectionService {
	return &CollectionService{requester: requester}
}

// Initiate starts a fiat collection
func (s *CollectionService) Initiate(ctx context.Context, payload *types.CollectionPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/collection", payload, nil)
}

// InitiateCrypto starts a crypto collection
func (s *CollectionService) InitiateCrypto(ctx context.Context, payload *types.CryptoCollectionPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/collection/crypto", payload, nil)
}

// AttachCustomer links a customer to a collection transaction
func (s *CollectionService) AttachCustomer(ctx context.Context, payload *types.AttachCustomerPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/collection/attach-customer", payload, nil)
}

// GetCryptoNetworks lists the networks available for crypto collections
func (s *CollectionService) GetCryptoNetworks(ctx context.Context) (*types.APIResponse, error) {
	return s.requester.MakeRequest(ctx, http.MethodGet, "/api/external/collection/crypto/networks", nil, nil)
}
