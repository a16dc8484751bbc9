package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
	"github.com/blaaiz/blaaiz-go/utils/logger"
)

// FileService uploads customer KYC documents
type FileService struct {
	requester Requester
	resolver  *ContentResolver
}

// NewFileService creates a new instance of FileService
func NewFileService(requester Requester, resolver *ContentResolver) *FileService {
	return &FileService{
		requester: requester,
		resolver:  resolver,
	}
}

// GetPresignedURL requests a single-use upload slot for a customer document
func (s *FileService) GetPresignedURL(ctx context.Context, payload *types.PresignedURLPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/file/get-presigned-url", payload, nil)
}

// UploadComplete uploads a document and associates it with the customer.
//
// The steps run in order: request an upload slot, resolve the content, PUT it
// to the slot, then link the file to the customer. Any step failure is
// returned as ErrUpload carrying the failed step.
func (s *FileService) UploadComplete(ctx context.Context, customerID string, req *types.FileUploadRequest) (*types.UploadResult, error) {
	if err := validateUploadRequest(customerID, req); err != nil {
		return nil, err
	}

	log := logger.WithFields(logger.Fields{
		"CustomerID":   customerID,
		"FileCategory": req.FileCategory,
	})

	slot, err := s.requestSlot(ctx, customerID, req.FileCategory)
	if err != nil {
		log.WithField("Error", err.Error()).Errorf("Failed to get upload slot")
		return nil, blaaizErrors.ErrUpload{Step: blaaizErrors.StepRequestSlot, Err: err}
	}

	content, err := s.resolver.Resolve(ctx, req.File, req.ContentType, req.Filename)
	if err != nil {
		log.WithField("Error", err.Error()).Errorf("Failed to resolve file content")
		return nil, blaaizErrors.ErrUpload{Step: blaaizErrors.StepResolve, Err: err}
	}

	if err := s.transfer(ctx, slot.URL, content); err != nil {
		log.WithFields(map[string]interface{}{
			"Error":  err.Error(),
			"FileID": slot.FileID,
		}).Errorf("Failed to upload file")
		return nil, blaaizErrors.ErrUpload{Step: blaaizErrors.StepTransfer, Err: err}
	}

	association, err := s.requester.MakeRequest(ctx, http.MethodPut,
		fmt.Sprintf("/api/external/customer/%s/files", customerID),
		&types.FileAssociationPayload{IDFile: slot.FileID}, nil)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"Error":  err.Error(),
			"FileID": slot.FileID,
		}).Errorf("Failed to associate file")
		return nil, blaaizErrors.ErrUpload{Step: blaaizErrors.StepAssociate, Err: err}
	}

	log.WithField("FileID", slot.FileID).Infof("File uploaded")

	return &types.UploadResult{
		FileID:       slot.FileID,
		PresignedURL: slot.URL,
		Association:  association,
	}, nil
}

// requestSlot obtains the presigned URL and file id for an upload
func (s *FileService) requestSlot(ctx context.Context, customerID string, category types.FileCategory) (*types.UploadSlot, error) {
	res, err := s.GetPresignedURL(ctx, &types.PresignedURLPayload{
		CustomerID:   customerID,
		FileCategory: category,
	})
	if err != nil {
		return nil, err
	}

	url, ok := res.String("data", "url")
	if !ok || url == "" {
		return nil, fmt.Errorf("presigned URL missing from response")
	}
	fileID, ok := res.String("data", "file_id")
	if !ok || fileID == "" {
		return nil, fmt.Errorf("file id missing from response")
	}

	return &types.UploadSlot{URL: url, FileID: fileID}, nil
}

// transfer PUTs the resolved bytes to the presigned URL
func (s *FileService) transfer(ctx context.Context, url string, content *types.ResolvedContent) error {
	headers := map[string]string{
		"Content-Length": strconv.Itoa(len(content.Data)),
	}
	if content.ContentType != "" {
		headers["Content-Type"] = content.ContentType
	}
	if content.Filename != "" {
		headers["Content-Disposition"] = fmt.Sprintf("attachment; filename=\"%s\"", content.Filename)
	}

	res, err := s.requester.Fetch(ctx, http.MethodPut, url, content.Data, headers)
	if err != nil {
		return err
	}
	if !res.IsSuccess() {
		return fmt.Errorf("S3 upload failed with status %d: %s", res.Status, string(res.Body))
	}
	return nil
}

func validateUploadRequest(customerID string, req *types.FileUploadRequest) error {
	if customerID == "" {
		return blaaizErrors.NewValidation("customer_id", "Customer ID is required")
	}
	if req == nil {
		return blaaizErrors.NewValidation("file_options", "File options are required")
	}
	if isEmptyContent(req.File) {
		return blaaizErrors.NewValidation("file", "File is required")
	}
	if req.FileCategory == "" {
		return blaaizErrors.Required("file_category")
	}
	if !req.FileCategory.IsValid() {
		return blaaizErrors.NewValidation("file_category",
			"file_category must be one of: identity, proof_of_address, liveness_check")
	}
	return nil
}

func isEmptyContent(content types.FileContent) bool {
	switch c := content.(type) {
	case nil:
		return true
	case types.RawBytes:
		return len(c) == 0
	case types.Base64Text:
		return c == ""
	case types.DataURL:
		return c == ""
	case types.RemoteURL:
		return c == ""
	}
	return false
}
