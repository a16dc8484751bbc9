// Package blaaiz is a client for the Blaaiz remittance API.
//
// A Blaaiz value groups one service per API resource. It is immutable after
// construction and safe for concurrent use.
package blaaiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/blaaiz/blaaiz-go/config"
	"github.com/blaaiz/blaaiz-go/services"
	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils/logger"
)

// Blaaiz is the SDK entry point
type Blaaiz struct {
	conf *config.ClientConfiguration

	Customers           *services.CustomerService
	Collections         *services.CollectionService
	Payouts             *services.PayoutService
	Wallets             *services.WalletService
	VirtualBankAccounts *services.VirtualBankAccountService
	Transactions        *services.TransactionService
	Banks               *services.BankService
	Currencies          *services.CurrencyService
	Fees                *services.FeesService
	Files               *services.FileService
	Webhooks            *services.WebhookService
}

// New creates a client for apiKey
func New(apiKey string, opts ...config.ClientOption) (*Blaaiz, error) {
	conf, err := config.NewClientConfiguration(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(conf), nil
}

// NewWithConfig creates a client from a validated configuration
func NewWithConfig(conf *config.ClientConfiguration, webhookOpts ...services.WebhookOption) *Blaaiz {
	return NewWithRequester(conf, services.NewAPIClient(conf), webhookOpts...)
}

// NewWithRequester creates a client that sends every call through requester
func NewWithRequester(conf *config.ClientConfiguration, requester services.Requester, webhookOpts ...services.WebhookOption) *Blaaiz {
	files := services.NewFileService(requester, services.NewContentResolver(requester, conf.UserAgent))

	return &Blaaiz{
		conf:                conf,
		Customers:           services.NewCustomerService(requester, files),
		Collections:         services.NewCollectionService(requester),
		Payouts:             services.NewPayoutService(requester),
		Wallets:             services.NewWalletService(requester),
		VirtualBankAccounts: services.NewVirtualBankAccountService(requester),
		Transactions:        services.NewTransactionService(requester),
		Banks:               services.NewBankService(requester),
		Currencies:          services.NewCurrencyService(requester),
		Fees:                services.NewFeesService(requester),
		Files:               files,
		Webhooks:            services.NewWebhookService(requester, webhookOpts...),
	}
}

// TestConnection reports whether the API accepts the configured key
func (b *Blaaiz) TestConnection(ctx context.Context) bool {
	if _, err := b.Currencies.List(ctx); err != nil {
		logger.Debugf("Connection test failed: %v", logger.Fields{"BaseURL": b.conf.BaseURL}, err)
		return false
	}
	return true
}

// CreateCompletePayout creates the customer when needed, fetches the fee
// breakdown and initiates the payout
func (b *Blaaiz) CreateCompletePayout(ctx context.Context, cfg *types.PayoutConfig) (*types.PayoutResult, error) {
	if cfg == nil || cfg.PayoutData == nil {
		return nil, blaaizErrors.NewValidation("payout_data", "payout_data is required")
	}

	payout := *cfg.PayoutData
	customerID, err := b.ensureCustomer(ctx, payout.CustomerID, cfg.CustomerData)
	if err != nil {
		return nil, workflowError("Complete payout failed", err)
	}

	fees, err := b.Fees.GetBreakdown(ctx, &types.FeeBreakdownPayload{
		FromCurrencyID: payout.FromCurrencyID,
		ToCurrencyID:   payout.ToCurrencyID,
		FromAmount:     payout.FromAmount,
	})
	if err != nil {
		return nil, workflowError("Complete payout failed", err)
	}

	payout.CustomerID = customerID
	result, err := b.Payouts.Initiate(ctx, &payout)
	if err != nil {
		return nil, workflowError("Complete payout failed", err)
	}

	return &types.PayoutResult{
		CustomerID: customerID,
		Payout:     result.Data,
		Fees:       fees.Data,
	}, nil
}

// CreateCompleteCollection creates the customer when needed, optionally opens
// a virtual bank account and initiates the collection
func (b *Blaaiz) CreateCompleteCollection(ctx context.Context, cfg *types.CollectionConfig) (*types.CollectionResult, error) {
	if cfg == nil || cfg.CollectionData == nil {
		return nil, blaaizErrors.NewValidation("collection_data", "collection_data is required")
	}

	collection := *cfg.CollectionData
	customerID, err := b.ensureCustomer(ctx, collection.CustomerID, cfg.CustomerData)
	if err != nil {
		return nil, workflowError("Complete collection failed", err)
	}

	var virtualAccount interface{}
	if cfg.CreateVBA {
		accountName := "Customer Account"
		if cfg.CustomerData != nil {
			accountName = fmt.Sprintf("%s %s", cfg.CustomerData.FirstName, cfg.CustomerData.LastName)
		}

		vba, err := b.VirtualBankAccounts.Create(ctx, &types.VirtualBankAccountPayload{
			WalletID:    collection.WalletID,
			AccountName: accountName,
		})
		if err != nil {
			return nil, workflowError("Complete collection failed", err)
		}
		virtualAccount = vba.Data
	}

	collection.CustomerID = customerID
	result, err := b.Collections.Initiate(ctx, &collection)
	if err != nil {
		return nil, workflowError("Complete collection failed", err)
	}

	return &types.CollectionResult{
		CustomerID:     customerID,
		Collection:     result.Data,
		VirtualAccount: virtualAccount,
	}, nil
}

// ensureCustomer returns customerID, creating a customer from data when it is empty
func (b *Blaaiz) ensureCustomer(ctx context.Context, customerID string, data *types.CustomerPayload) (string, error) {
	if customerID != "" || data == nil {
		return customerID, nil
	}

	res, err := b.Customers.Create(ctx, data)
	if err != nil {
		return "", err
	}
	id, ok := res.String("data", "id")
	if !ok {
		return "", fmt.Errorf("customer id missing from response")
	}
	return id, nil
}

// workflowError prefixes err, keeping the status and code of API failures
func workflowError(prefix string, err error) error {
	var transportErr blaaizErrors.ErrTransport
	if errors.As(err, &transportErr) {
		return blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("%s: %s", prefix, transportErr.Message),
			Status:  transportErr.Status,
			Code:    transportErr.Code,
		}
	}
	return blaaizErrors.ErrTransport{Message: fmt.Sprintf("%s: %v", prefix, err)}
}

// GetCustomerByID returns a customer
func (b *Blaaiz) GetCustomerByID(ctx context.Context, customerID string) (*types.APIResponse, error) {
	return b.Customers.Get(ctx, customerID)
}

// GetTransactionByID returns a transaction
func (b *Blaaiz) GetTransactionByID(ctx context.Context, transactionID string) (*types.APIResponse, error) {
	return b.Transactions.Get(ctx, transactionID)
}

// GetWalletByID returns a wallet
func (b *Blaaiz) GetWalletByID(ctx context.Context, walletID string) (*types.APIResponse, error) {
	return b.Wallets.Get(ctx, walletID)
}

// GetAllCurrencies lists the supported currencies
func (b *Blaaiz) GetAllCurrencies(ctx context.Context) (*types.APIResponse, error) {
	return b.Currencies.List(ctx)
}

// GetAllBanks lists the supported banks
func (b *Blaaiz) GetAllBanks(ctx context.Context) (*types.APIResponse, error) {
	return b.Banks.List(ctx)
}

// CalculateFees returns the fee breakdown for converting fromAmount
func (b *Blaaiz) CalculateFees(ctx context.Context, fromCurrencyID, toCurrencyID string, fromAmount types.Amount) (*types.APIResponse, error) {
	return b.Fees.GetBreakdown(ctx, &types.FeeBreakdownPayload{
		FromCurrencyID: fromCurrencyID,
		ToCurrencyID:   toCurrencyID,
		FromAmount:     fromAmount,
	})
}

func (b *Blaaiz) String() string {
	return fmt.Sprintf("Blaaiz(base_url='%s')", b.conf.BaseURL)
}
