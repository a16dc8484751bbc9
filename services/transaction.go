package services

import (
	"context"
	"fmt"
	"net/http"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
)

// TransactionService reads transactions
type TransactionService struct {
	requester Requester
}

// NewTransactionService creates a new instance of TransactionService
func NewTransactionService(requester Requester) *TransactionService {
	return &TransactionService{requester: requester}
}

// List returns transactions matching the filters. An empty filter set sends
// no body.
func (s *TransactionService) List(ctx context.Context, filters map[string]interface{}) (*types.APIResponse, error) {
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/transaction", filters, nil)
}

// Get returns a transaction by id
func (s *TransactionService) Get(ctx context.Context, transactionID string) (*types.APIResponse, error) {
	if transactionID == "" {
		return nil, blaaizErrors.NewValidation("transaction_id", "Transaction ID is required")
	}
	return s.requester.MakeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/external/transaction/%s", transactionID), nil, nil)
}
