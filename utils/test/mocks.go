package test

import (
	"context"

	"github.com/blaaiz/blaaiz-go/types"
	"github.com/stretchr/testify/mock"
)

// MockRequester is a testify mock of services.Requester
type MockRequester struct {
	mock.Mock
}

// MakeRequest mocks the MakeRequest method
func (m *MockRequester) MakeRequest(ctx context.Context, method, endpoint string, data interface{}, headers map[string]string) (*types.APIResponse, error) {
	args := m.Called(ctx, method, endpoint, data, headers)
	res, _ := args.Get(0).(*types.APIResponse)
	return res, args.Error(1)
}

// Fetch mocks the Fetch method
func (m *MockRequester) Fetch(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) (*types.RawResponse, error) {
	args := m.Called(ctx, method, rawURL, body, headers)
	res, _ := args.Get(0).(*types.RawResponse)
	return res, args.Error(1)
}

// OKResponse builds a 200 APIResponse around data
func OKResponse(data interface{}) *types.APIResponse {
	return &types.APIResponse{Data: data, Status: 200}
}
