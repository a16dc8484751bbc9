package types

import (
	"net/http"

	"github.com/shopspring/decimal"
)

// APIResponse is the parsed result of a call to the Blaaiz API
type APIResponse struct {
	// Data is the JSON-decoded body, or the raw body string when it is not JSON.
	Data    interface{} `json:"data"`
	Status  int         `json:"status"`
	Headers http.Header `json:"headers"`
}

// Lookup walks nested JSON objects in Data by key.
func (r *APIResponse) Lookup(keys ...string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	current := r.Data
	for _, key := range keys {
		object, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String returns the string found at the given key path, if any
func (r *APIResponse) String(keys ...string) (string, bool) {
	value, ok := r.Lookup(keys...)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// RawResponse is the unclassified result of an absolute-URL request
type RawResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// IsSuccess reports whether the status is in the 2xx range
func (r *RawResponse) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// Amount is a money amount that serializes as a JSON number
type Amount struct {
	decimal.Decimal
}

// NewAmount creates an Amount from a float
func NewAmount(value float64) Amount {
	return Amount{decimal.NewFromFloat(value)}
}

// NewAmountFromString parses an Amount from its decimal string form
func NewAmountFromString(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

// MarshalJSON writes the amount unquoted
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both quoted and unquoted numbers
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// CustomerPayload is the payload for creating a customer
type CustomerPayload struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Type         string `json:"type" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Country      string `json:"country" binding:"required"`
	IDType       string `json:"id_type" binding:"required"`
	IDNumber     string `json:"id_number" binding:"required"`
	BusinessName string `json:"business_name,omitempty" binding:"required_if=Type business"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

// CollectionPayload is the payload for initiating a collection
type CollectionPayload struct {
	Method     string `json:"method" binding:"required"`
	Amount     Amount `json:"amount" binding:"required"`
	WalletID   string `json:"wallet_id" binding:"required"`
	CustomerID string `json:"customer_id,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// CryptoCollectionPayload is the payload for initiating a crypto collection
type CryptoCollectionPayload struct {
	Amount     Amount `json:"amount"`
	Network    string `json:"network,omitempty"`
	Token      string `json:"token,omitempty"`
	WalletID   string `json:"wallet_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

// AttachCustomerPayload links a customer to an existing collection
type AttachCustomerPayload struct {
	CustomerID    string `json:"customer_id" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
}

// PayoutPayload is the payload for initiating a payout
type PayoutPayload struct {
	WalletID         string `json:"wallet_id" binding:"required"`
	CustomerID       string `json:"customer_id,omitempty"`
	Method           string `json:"method" binding:"required"`
	FromAmount       Amount `json:"from_amount" binding:"required"`
	FromCurrencyID   string `json:"from_currency_id" binding:"required"`
	ToCurrencyID     string `json:"to_currency_id" binding:"required"`
	AccountNumber    string `json:"account_number,omitempty" binding:"required_if=Method bank_transfer"`
	BankID           string `json:"bank_id,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty" binding:"required_if=Method interac"`
	InteracFirstName string `json:"interac_first_name,omitempty" binding:"required_if=Method interac"`
	InteracLastName  string `json:"interac_last_name,omitempty" binding:"required_if=Method interac"`
}

// VirtualBankAccountPayload is the payload for creating a virtual bank account
type VirtualBankAccountPayload struct {
	WalletID    string `json:"wallet_id" binding:"required"`
	AccountName string `json:"account_name,omitempty"`
}

// AccountLookupPayload is the payload for resolving a bank account
type AccountLookupPayload struct {
	AccountNumber string `json:"account_number" binding:"required"`
	BankID        string `json:"bank_id" binding:"required"`
}

// FeeBreakdownPayload is the payload for computing a fee breakdown
type FeeBreakdownPayload struct {
	FromCurrencyID string `json:"from_currency_id" binding:"required"`
	ToCurrencyID   string `json:"to_currency_id" binding:"required"`
	FromAmount     Amount `json:"from_amount" binding:"required"`
}

// PayoutConfig drives a complete payout workflow
type PayoutConfig struct {
	CustomerData *CustomerPayload
	PayoutData   *PayoutPayload
}

// PayoutResult is returned by a complete payout workflow
type PayoutResult struct {
	CustomerID string
	Payout     interface{}
	Fees       interface{}
}

// CollectionConfig drives a complete collection workflow
type CollectionConfig struct {
	CustomerData   *CustomerPayload
	CollectionData *CollectionPayload
	CreateVBA      bool
}

// CollectionResult is returned by a complete collection workflow
type CollectionResult struct {
	CustomerID     string
	Collection     interface{}
	VirtualAccount interface{}
}

// Response is the envelope of every webhook receiver response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorData is the struct for error data i.e when Status is "error"
type ErrorData struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
