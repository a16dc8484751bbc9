package types

// WebhookSignatureHeader carries the HMAC-SHA256 signature of an inbound webhook
const WebhookSignatureHeader = "x-blaaiz-signature"

// WebhookEvent is a verified webhook body. It holds every field of the
// original payload plus "verified" and "timestamp".
type WebhookEvent map[string]interface{}

// Verified reports whether the event passed signature verification
func (e WebhookEvent) Verified() bool {
	verified, _ := e["verified"].(bool)
	return verified
}

// Timestamp is the verification time in ISO-8601 form
func (e WebhookEvent) Timestamp() string {
	return e.GetString("timestamp")
}

// TransactionID returns the transaction the event refers to
func (e WebhookEvent) TransactionID() string {
	return e.GetString("transaction_id")
}

// Status returns the transaction status carried by the event
func (e WebhookEvent) Status() string {
	return e.GetString("status")
}

// GetString returns a top-level string field, or "" if absent
func (e WebhookEvent) GetString(key string) string {
	s, _ := e[key].(string)
	return s
}

// WebhookPayload registers or updates the webhook URLs
type WebhookPayload struct {
	CollectionURL string `json:"collection_url,omitempty" binding:"required"`
	PayoutURL     string `json:"payout_url,omitempty" binding:"required"`
}

// WebhookReplayPayload asks the API to resend a webhook
type WebhookReplayPayload struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// WebhookReceipt is the acknowledgement returned by the webhook receiver
type WebhookReceipt struct {
	Received      bool   `json:"received"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	ReceiptID     string `json:"receipt_id"`
}
