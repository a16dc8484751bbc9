package errors

import "fmt"

// Error kinds surfaced by the SDK
type (
	// ErrValidation is bad or missing input caught before any network call
	ErrValidation struct {
		Field   string
		Message string
	}
	// ErrInvalidInput is file content that cannot be materialized
	ErrInvalidInput struct {
		Message string
		Err     error
	}
	// ErrDownload is a failed fetch of remote file content
	ErrDownload struct {
		URL    string
		Status int
		Err    error
	}
	// ErrUpload is a failure anywhere in the file upload workflow
	ErrUpload struct {
		Step UploadStep
		Err  error
	}
	// ErrTransport is an HTTP or network failure from the API client
	ErrTransport struct {
		Message string
		Status  int
		Code    string
	}
)

// UploadStep names a stage of the upload workflow
type UploadStep string

const (
	StepRequestSlot UploadStep = "request_slot"
	StepResolve     UploadStep = "resolve_content"
	StepTransfer    UploadStep = "transfer"
	StepAssociate   UploadStep = "associate"
)

// Error codes attached to ErrTransport when the API supplies none
const (
	CodeHTTPError    = "HTTP_ERROR"
	CodeRequestError = "REQUEST_ERROR"
)

// NewValidation returns an ErrValidation for field with the given message
func NewValidation(field, message string) ErrValidation {
	return ErrValidation{Field: field, Message: message}
}

// Required returns the ErrValidation for a missing field
func Required(field string) ErrValidation {
	return ErrValidation{Field: field, Message: fmt.Sprintf("%s is required", field)}
}

func (e ErrValidation) Error() string {
	return e.Message
}

func (e ErrInvalidInput) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e ErrInvalidInput) Unwrap() error {
	return e.Err
}

func (e ErrDownload) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("file download failed: %v", e.Err)
	}
	return fmt.Sprintf("file download failed: HTTP %d", e.Status)
}

func (e ErrDownload) Unwrap() error {
	return e.Err
}

// Error keeps the inner message. ErrUpload deliberately has no Unwrap: callers
// see one failure kind for the whole upload workflow.
func (e ErrUpload) Error() string {
	return fmt.Sprintf("file upload failed: %v", e.Err)
}

func (e ErrTransport) Error() string {
	switch {
	case e.Status != 0 && e.Code != "":
		return fmt.Sprintf("blaaiz: HTTP %d (%s): %s", e.Status, e.Code, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("blaaiz: HTTP %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("blaaiz: %s", e.Message)
	}
}
