package types

import "strings"

// FileCategory classifies an uploaded KYC document
type FileCategory string

const (
	FileCategoryIdentity       FileCategory = "identity"
	FileCategoryProofOfAddress FileCategory = "proof_of_address"
	FileCategoryLivenessCheck  FileCategory = "liveness_check"
)

// IsValid reports whether c is one of the categories accepted by the API
func (c FileCategory) IsValid() bool {
	switch c {
	case FileCategoryIdentity, FileCategoryProofOfAddress, FileCategoryLivenessCheck:
		return true
	}
	return false
}

// FileContent is the content of a file to upload. It is implemented only by
// RawBytes, Base64Text, DataURL and RemoteURL.
type FileContent interface {
	isFileContent()
}

// RawBytes is file content that is already in memory
type RawBytes []byte

// Base64Text is file content encoded as standard base64
type Base64Text string

// DataURL is file content embedded in a data: URL
type DataURL string

// RemoteURL is file content downloaded from an http(s) URL
type RemoteURL string

func (RawBytes) isFileContent()   {}
func (Base64Text) isFileContent() {}
func (DataURL) isFileContent()    {}
func (RemoteURL) isFileContent()  {}

// FileContentFromString classifies textual content: a data: URL, a remote
// http(s) URL, or otherwise plain base64.
func FileContentFromString(s string) FileContent {
	switch {
	case strings.HasPrefix(s, "data:"):
		return DataURL(s)
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return RemoteURL(s)
	default:
		return Base64Text(s)
	}
}

// FileUploadRequest describes one document upload for a customer.
// Filename and ContentType override whatever is inferred from the content.
type FileUploadRequest struct {
	File         FileContent
	FileCategory FileCategory
	Filename     string
	ContentType  string
}

// ResolvedContent is file content materialized into bytes. Empty Filename or
// ContentType means unknown.
type ResolvedContent struct {
	Data        []byte
	Filename    string
	ContentType string
}

// PresignedURLPayload requests an upload slot for a customer document
type PresignedURLPayload struct {
	CustomerID   string       `json:"customer_id" binding:"required"`
	FileCategory FileCategory `json:"file_category" binding:"required"`
}

// FileAssociationPayload links an uploaded file to its customer
type FileAssociationPayload struct {
	IDFile string `json:"id_file"`
}

// UploadSlot is a single-use upload destination issued by the API
type UploadSlot struct {
	URL    string
	FileID string
}

// UploadResult is returned once a file is uploaded and associated
type UploadResult struct {
	FileID       string
	PresignedURL string
	Association  *APIResponse
}
