package services

import (
	"context"
	"net/http"

	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
)

// PayoutService initiates payouts
type PayoutService struct {
	requester Requester
}

// NewPayoutService creates a new instance of PayoutService
func NewPayoutService(requester Requester) *PayoutService {
	return &PayoutService{requester: requester}
}

// Initiate starts a payout. bank_transfer payouts need an account number and
// interac payouts need the recipient's email and name.
func (s *PayoutService) Initiate(ctx context.Context, payload *types.PayoutPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/payout", payload, nil)
}
