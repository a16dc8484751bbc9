package services

import (
	"context"
	"fmt"
	"net/http"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
)

// CustomerService manages customers and their KYC data
type CustomerService struct {
	requester Requester
	files     *FileService
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(requester Requester, files *FileService) *CustomerService {
	return &CustomerService{
		requester: requester,
		files:     files,
	}
}

// Create creates a customer
func (s *CustomerService) Create(ctx context.Context, payload *types.CustomerPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/customer", payload, nil)
}

// List returns all customers
func (s *CustomerService) List(ctx context.Context) (*types.APIResponse, error) {
	return s.requester.MakeRequest(ctx, http.MethodGet, "/api/external/customer", nil, nil)
}

// Get returns a customer by id
func (s *CustomerService) Get(ctx context.Context, customerID string) (*types.APIResponse, error) {
	if customerID == "" {
		return nil, errCustomerIDRequired
	}
	return s.requester.MakeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/external/customer/%s", customerID), nil, nil)
}

// Update changes the given customer fields
func (s *CustomerService) Update(ctx context.Context, customerID string, updates map[string]interface{}) (*types.APIResponse, error) {
	if customerID == "" {
		return nil, errCustomerIDRequired
	}
	return s.requester.MakeRequest(ctx, http.MethodPut, fmt.Sprintf("/api/external/customer/%s", customerID), updates, nil)
}

// AddKYC submits KYC data for a customer
func (s *CustomerService) AddKYC(ctx context.Context, customerID string, kycData map[string]interface{}) (*types.APIResponse, error) {
	if customerID == "" {
		return nil, errCustomerIDRequired
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, fmt.Sprintf("/api/external/customer/%s/kyc-data", customerID), kycData, nil)
}

// UploadFiles associates already uploaded files with a customer
func (s *CustomerService) UploadFiles(ctx context.Context, customerID string, fileData map[string]interface{}) (*types.APIResponse, error) {
	if customerID == "" {
		return nil, errCustomerIDRequired
	}
	return s.requester.MakeRequest(ctx, http.MethodPut, fmt.Sprintf("/api/external/customer/%s/files", customerID), fileData, nil)
}

// UploadFileComplete uploads a document for the customer in one call.
// See FileService.UploadComplete.
func (s *CustomerService) UploadFileComplete(ctx context.Context, customerID string, req *types.FileUploadRequest) (*types.UploadResult, error) {
	return s.files.UploadComplete(ctx, customerID, req)
}

var errCustomerIDRequired = blaaizErrors.NewValidation("customer_id", "Customer ID is required")
