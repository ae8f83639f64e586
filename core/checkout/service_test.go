package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vps-order/core/types"
	"vps-order/internal/errors"
)

// fakeProvider records call counts and the last session params.
type fakeProvider struct {
	customers map[string]string // email -> customer id

	findCalls    int
	createCalls  int
	sessionCalls int
	lastParams   SessionParams

	findErr    error
	sessionErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{customers: map[string]string{}}
}

func (p *fakeProvider) FindCustomerByEmail(_ context.Context, email string) (*types.CustomerRecord, error) {
	p.findCalls++
	if p.findErr != nil {
		return nil, p.findErr
	}
	if id, ok := p.customers[email]; ok {
		return &types.CustomerRecord{Email: email, ProviderCustomerID: id}, nil
	}
	return nil, nil
}

func (p *fakeProvider) CreateCustomer(_ context.Context, email string) (*types.CustomerRecord, error) {
	p.createCalls++
	id := "cus_" + email
	p.customers[email] = id
	return &types.CustomerRecord{Email: email, ProviderCustomerID: id}, nil
}

func (p *fakeProvider) CreateSession(_ context.Context, params SessionParams) (*types.CheckoutSession, error) {
	p.sessionCalls++
	p.lastParams = params
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	return &types.CheckoutSession{
		SessionID:   "cs_test_1",
		RedirectURL: "https://pay.example.com/cs_test_1",
	}, nil
}

func order(price string, term types.BillingTerm) types.PricedOrder {
	return types.PricedOrder{
		Term:       term,
		FinalPrice: decimal.RequireFromString(price),
	}
}

func TestCreateCheckoutNewCustomer(t *testing.T) {
	provider := newFakeProvider()
	svc := NewService(provider, "usd")

	session, err := svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{
		CustomerEmail: "alice@example.com",
		Origin:        "https://shop.example.com",
		ProductName:   "s-2vcpu-4gb",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", session.SessionID)
	assert.Equal(t, 1, provider.findCalls)
	assert.Equal(t, 1, provider.createCalls)
	assert.Equal(t, "cus_alice@example.com", provider.lastParams.CustomerID)
}

func TestCreateCheckoutReusesCustomer(t *testing.T) {
	provider := newFakeProvider()
	provider.customers["alice@example.com"] = "cus_existing"
	svc := NewService(provider, "usd")

	_, err := svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{
		CustomerEmail: "alice@example.com",
		ProductName:   "s-2vcpu-4gb",
	})
	require.NoError(t, err)

	// A second customer record must never be created for a known email
	assert.Equal(t, 0, provider.createCalls)
	assert.Equal(t, "cus_existing", provider.lastParams.CustomerID)
}

func TestCreateCheckoutGuest(t *testing.T) {
	provider := newFakeProvider()
	svc := NewService(provider, "usd")

	_, err := svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{
		ProductName: "s-2vcpu-4gb",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, provider.findCalls)
	assert.Equal(t, 0, provider.createCalls)
	assert.Empty(t, provider.lastParams.CustomerID)
}

func TestMinorUnitConversion(t *testing.T) {
	cases := []struct {
		price string
		want  int64
	}{
		{"16", 1600},
		{"13.6", 1360},
		{"9.99", 999},
		{"0.01", 1},
	}

	for _, tc := range cases {
		provider := newFakeProvider()
		svc := NewService(provider, "usd")

		_, err := svc.CreateCheckout(context.Background(), order(tc.price, types.TermMonthly), Options{
			ProductName: "plan",
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, provider.lastParams.AmountMinor, "price %s", tc.price)
	}
}

func TestMetadataServiceKeysWin(t *testing.T) {
	provider := newFakeProvider()
	svc := NewService(provider, "usd")

	_, err := svc.CreateCheckout(context.Background(), order("163.2", types.TermAnnual), Options{
		ProductName: "s-2vcpu-4gb",
		Metadata: map[string]string{
			"campaign":    "spring",
			"productName": "spoofed",
			"isAnnual":    "false",
		},
	})
	require.NoError(t, err)

	meta := provider.lastParams.Metadata
	assert.Equal(t, "spring", meta["campaign"])
	assert.Equal(t, "s-2vcpu-4gb", meta["productName"])
	assert.Equal(t, "true", meta["isAnnual"])
}

func TestRedirectURLsDeriveFromOrigin(t *testing.T) {
	provider := newFakeProvider()
	svc := NewService(provider, "usd")

	_, err := svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{
		Origin:      "https://shop.example.com",
		ProductName: "plan",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/billing?success=true", provider.lastParams.SuccessURL)
	assert.Equal(t, "https://shop.example.com/billing?canceled=true", provider.lastParams.CancelURL)
}

func TestCurrencyDefaulting(t *testing.T) {
	provider := newFakeProvider()
	svc := NewService(provider, "")

	_, err := svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{
		ProductName: "plan",
	})
	require.NoError(t, err)
	assert.Equal(t, "usd", provider.lastParams.Currency)

	_, err = svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{
		ProductName: "plan",
		Currency:    "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "eur", provider.lastParams.Currency)
}

func TestCreateCheckoutValidation(t *testing.T) {
	provider := newFakeProvider()
	svc := NewService(provider, "usd")

	_, err := svc.CreateCheckout(context.Background(), order("0", types.TermMonthly), Options{ProductName: "plan"})
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = svc.CreateCheckout(context.Background(), order("-5", types.TermMonthly), Options{ProductName: "plan"})
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{})
	assert.True(t, errors.IsType(err, errors.TypeInput))

	assert.Equal(t, 0, provider.sessionCalls)
}

func TestNilProviderIsConfigError(t *testing.T) {
	svc := NewService(nil, "usd")

	_, err := svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{ProductName: "plan"})
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestProviderErrorsPassThrough(t *testing.T) {
	provider := newFakeProvider()
	provider.sessionErr = errors.InvalidOrder("amount below minimum charge")
	svc := NewService(provider, "usd")

	_, err := svc.CreateCheckout(context.Background(), order("0.01", types.TermMonthly), Options{ProductName: "plan"})
	assert.True(t, errors.IsType(err, errors.TypeInvalidOrder))

	provider = newFakeProvider()
	provider.findErr = errors.ProviderUnavailable("payment API unreachable", nil)
	svc = NewService(provider, "usd")

	_, err = svc.CreateCheckout(context.Background(), order("16", types.TermMonthly), Options{
		CustomerEmail: "alice@example.com",
		ProductName:   "plan",
	})
	assert.True(t, errors.IsType(err, errors.TypeProviderUnavailable))
	assert.Equal(t, 0, provider.sessionCalls, "no session attempt after customer failure")
}
