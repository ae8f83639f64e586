// Package checkout opens one-time payment sessions for priced orders. The
// service resolves the payment-provider customer idempotently (at most one
// customer per email) and never retries session creation: a duplicated
// session has separately metered side effects, so retry policy belongs to
// the caller.
package checkout

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vps-order/core/types"
	"vps-order/internal/errors"
	"vps-order/internal/logging"
)

// Metadata keys owned by the service. They always win over caller-supplied
// duplicates so session records stay unambiguous.
const (
	metaProductName = "productName"
	metaIsAnnual    = "isAnnual"
)

var decimalHundred = decimal.NewFromInt(100)

// SessionParams is what the payment provider needs to open a session.
type SessionParams struct {
	// CustomerID is the provider customer, empty for guest checkout
	CustomerID string

	// AmountMinor is the charge in the currency's minor unit (cents)
	AmountMinor int64

	// Currency is the lowercase ISO currency code
	Currency string

	// ProductName and Description label the single line item
	ProductName string
	Description string

	// SuccessURL and CancelURL are the redirect targets
	SuccessURL string
	CancelURL  string

	// Metadata is attached to the session verbatim
	Metadata map[string]string
}

// Provider is the payment provider boundary. The Stripe adapter implements
// it; tests substitute recording fakes.
type Provider interface {
	// FindCustomerByEmail resolves a customer by exact email match,
	// returning nil without error when none exists
	FindCustomerByEmail(ctx context.Context, email string) (*types.CustomerRecord, error)

	// CreateCustomer registers a new customer for the email
	CreateCustomer(ctx context.Context, email string) (*types.CustomerRecord, error)

	// CreateSession opens a one-time payment session
	CreateSession(ctx context.Context, params SessionParams) (*types.CheckoutSession, error)
}

// Options carries the per-checkout caller inputs.
type Options struct {
	// CustomerEmail, when set, triggers customer resolution
	CustomerEmail string

	// Origin is the caller's origin; redirect URLs derive from it
	Origin string

	// Currency overrides the default checkout currency
	Currency string

	// ProductName and Description label the purchased package
	ProductName string
	Description string

	// Metadata is caller-supplied session metadata
	Metadata map[string]string
}

// Service creates checkout sessions.
type Service struct {
	provider Provider
	currency string
}

// NewService creates a checkout service with a default currency for
// callers that do not specify one.
func NewService(provider Provider, defaultCurrency string) *Service {
	if defaultCurrency == "" {
		defaultCurrency = "usd"
	}
	return &Service{
		provider: provider,
		currency: defaultCurrency,
	}
}

// CreateCheckout resolves the customer, converts the order total to minor
// units and opens a hosted payment session. Failures surface to the caller
// with enough structure to decide on retry; nothing is retried here.
func (s *Service) CreateCheckout(ctx context.Context, order types.PricedOrder, opts Options) (types.CheckoutSession, error) {
	if s.provider == nil {
		return types.CheckoutSession{}, errors.Config("payment provider is not configured")
	}
	if !order.FinalPrice.IsPositive() {
		return types.CheckoutSession{}, errors.Input("order total must be positive")
	}
	if opts.ProductName == "" {
		return types.CheckoutSession{}, errors.Input("product name is required")
	}

	customerID, err := s.resolveCustomer(ctx, opts.CustomerEmail)
	if err != nil {
		return types.CheckoutSession{}, err
	}

	currency := opts.Currency
	if currency == "" {
		currency = s.currency
	}

	params := SessionParams{
		CustomerID:  customerID,
		AmountMinor: minorUnits(order),
		Currency:    currency,
		ProductName: opts.ProductName,
		Description: opts.Description,
		SuccessURL:  opts.Origin + "/billing?success=true",
		CancelURL:   opts.Origin + "/billing?canceled=true",
		Metadata:    s.sessionMetadata(order, opts),
	}

	session, err := s.provider.CreateSession(ctx, params)
	if err != nil {
		return types.CheckoutSession{}, err
	}

	logging.Info("checkout session created",
		zap.String("session_id", session.SessionID),
		zap.Int64("amount_minor", params.AmountMinor),
		zap.String("currency", currency),
	)

	return *session, nil
}

// resolveCustomer reuses an existing provider customer for the email and
// creates one only when the lookup comes back empty. Without an email the
// session is opened for a guest.
func (s *Service) resolveCustomer(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", nil
	}

	existing, err := s.provider.FindCustomerByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ProviderCustomerID, nil
	}

	created, err := s.provider.CreateCustomer(ctx, email)
	if err != nil {
		return "", err
	}
	return created.ProviderCustomerID, nil
}

// sessionMetadata merges caller metadata with the service-owned keys.
// Last writer for the fixed keys is the service, not the caller.
func (s *Service) sessionMetadata(order types.PricedOrder, opts Options) map[string]string {
	merged := make(map[string]string, len(opts.Metadata)+2)
	for k, v := range opts.Metadata {
		merged[k] = v
	}

	merged[metaProductName] = opts.ProductName
	merged[metaIsAnnual] = strconv.FormatBool(order.Term.IsAnnual())

	return merged
}

// minorUnits converts the rounded order total to the provider's integer
// minor-unit representation. The price is already rounded to 2 decimal
// places, so ×100 plus a round-to-integer cannot reintroduce drift.
func minorUnits(order types.PricedOrder) int64 {
	return order.FinalPrice.Mul(decimalHundred).Round(0).IntPart()
}
