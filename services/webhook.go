package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
)

// TimestampFormat is the layout of the timestamp added to verified events
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Canonicalizer turns a structured webhook payload into the exact bytes that
// were signed
type Canonicalizer func(payload interface{}) ([]byte, error)

// WebhookOption configures a WebhookService
type WebhookOption func(*WebhookService)

// WithCanonicalizer replaces the default compact JSON canonicalization
func WithCanonicalizer(canonicalize Canonicalizer) WebhookOption {
	return func(s *WebhookService) {
		s.canonicalize = canonicalize
	}
}

// WithClock sets the clock used to timestamp verified events
func WithClock(now func() time.Time) WebhookOption {
	return func(s *WebhookService) {
		s.now = now
	}
}

// WebhookService manages webhook registration and verifies inbound events
type WebhookService struct {
	requester    Requester
	canonicalize Canonicalizer
	now          func() time.Time
}

// NewWebhookService creates a new instance of WebhookService
func NewWebhookService(requester Requester, opts ...WebhookOption) *WebhookService {
	s := &WebhookService{
		requester:    requester,
		canonicalize: utils.CompactJSON,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register sets the collection and payout webhook URLs
func (s *WebhookService) Register(ctx context.Context, payload *types.WebhookPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/webhook", payload, nil)
}

// Get returns the registered webhook URLs
func (s *WebhookService) Get(ctx context.Context) (*types.APIResponse, error) {
	return s.requester.MakeRequest(ctx, http.MethodGet, "/api/external/webhook", nil, nil)
}

// Update changes the registered webhook URLs
func (s *WebhookService) Update(ctx context.Context, payload *types.WebhookPayload) (*types.APIResponse, error) {
	if payload == nil {
		return nil, blaaizErrors.NewValidation("payload", "payload is required")
	}
	return s.requester.MakeRequest(ctx, http.MethodPut, "/api/external/webhook", payload, nil)
}

// Replay asks the API to resend the webhook for a transaction
func (s *WebhookService) Replay(ctx context.Context, payload *types.WebhookReplayPayload) (*types.APIResponse, error) {
	if err := utils.ValidatePayload(payload); err != nil {
		return nil, err
	}
	return s.requester.MakeRequest(ctx, http.MethodPost, "/api/external/webhook/replay", payload, nil)
}

// VerifySignature checks a webhook signature with the service's canonicalizer
func (s *WebhookService) VerifySignature(payload interface{}, signature, secret string) (bool, error) {
	return verifySignature(s.canonicalize, payload, signature, secret)
}

// ConstructEvent verifies a webhook and returns its body as an event.
// A map payload is copied, never modified.
func (s *WebhookService) ConstructEvent(payload interface{}, signature, secret string) (types.WebhookEvent, error) {
	valid, err := s.VerifySignature(payload, signature, secret)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, blaaizErrors.NewValidation("signature", "Invalid webhook signature")
	}

	event, err := eventFromPayload(payload)
	if err != nil {
		return nil, blaaizErrors.NewValidation("payload", "Invalid webhook payload: unable to parse JSON")
	}

	event["verified"] = true
	event["timestamp"] = s.now().UTC().Format(TimestampFormat)
	return event, nil
}

// VerifyWebhookSignature checks a webhook signature using compact JSON
// canonicalization for structured payloads
func VerifyWebhookSignature(payload interface{}, signature, secret string) (bool, error) {
	return verifySignature(utils.CompactJSON, payload, signature, secret)
}

func verifySignature(canonicalize Canonicalizer, payload interface{}, signature, secret string) (bool, error) {
	if isEmptyPayload(payload) {
		return false, blaaizErrors.NewValidation("payload", "Payload is required for signature verification")
	}
	if signature == "" {
		return false, blaaizErrors.NewValidation("signature", "Signature is required for signature verification")
	}
	if secret == "" {
		return false, blaaizErrors.NewValidation("secret", "Webhook secret is required for signature verification")
	}

	message, err := signedBytes(canonicalize, payload)
	if err != nil {
		return false, blaaizErrors.NewValidation("payload", fmt.Sprintf("unable to serialize payload: %v", err))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	expected := hex.EncodeToString(mac.Sum(nil))

	received := strings.TrimPrefix(signature, "sha256=")
	return hmac.Equal([]byte(received), []byte(expected)), nil
}

// signedBytes returns the bytes a payload was signed over
func signedBytes(canonicalize Canonicalizer, payload interface{}) ([]byte, error) {
	switch p := payload.(type) {
	case string:
		return []byte(p), nil
	case []byte:
		return p, nil
	case json.RawMessage:
		return p, nil
	default:
		return canonicalize(payload)
	}
}

func eventFromPayload(payload interface{}) (types.WebhookEvent, error) {
	switch p := payload.(type) {
	case string:
		return utils.ParseJSONObject([]byte(p))
	case []byte:
		return utils.ParseJSONObject(p)
	case json.RawMessage:
		return utils.ParseJSONObject(p)
	case map[string]interface{}:
		event := make(types.WebhookEvent, len(p)+2)
		for key, value := range p {
			event[key] = value
		}
		return event, nil
	case types.WebhookEvent:
		event := make(types.WebhookEvent, len(p)+2)
		for key, value := range p {
			event[key] = value
		}
		return event, nil
	default:
		return utils.StructToMap(payload)
	}
}

func isEmptyPayload(payload interface{}) bool {
	switch p := payload.(type) {
	case nil:
		return true
	case string:
		return p == ""
	case []byte:
		return len(p) == 0
	case json.RawMessage:
		return len(p) == 0
	}

	value := reflect.ValueOf(payload)
	switch value.Kind() {
	case reflect.Map, reflect.Slice:
		return value.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return value.IsNil()
	}
	return false
}
