// Package stripe is the payment provider adapter. It talks to the Stripe
// REST API directly (form-encoded requests, JSON responses) and implements
// checkout.Provider. Error shape follows the checkout taxonomy: network
// and 5xx failures are PROVIDER_UNAVAILABLE, 4xx rejections INVALID_ORDER.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"vps-order/core/checkout"
	"vps-order/core/types"
	"vps-order/internal/errors"
)

// DefaultBaseURL is the production Stripe API root.
const DefaultBaseURL = "https://api.stripe.com"

// Config configures the Stripe client.
type Config struct {
	// SecretKey authenticates API calls
	SecretKey string

	// BaseURL is the API root (overridden in tests)
	BaseURL string

	// HTTPTimeout bounds each API call
	HTTPTimeout time.Duration
}

// Client is the Stripe API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// New creates a Stripe client. A missing secret key is a deployment
// problem surfaced immediately as CONFIG_ERROR, not at first checkout.
func New(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.SecretKey == "" {
		return nil, errors.Config("stripe secret key is not set")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		secretKey:  cfg.SecretKey,
	}, nil
}

// customerList mirrors the customer listing payload.
type customerList struct {
	Data []customerRecord `json:"data"`
}

type customerRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// sessionRecord mirrors the checkout session payload.
type sessionRecord struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata"`
}

// FindCustomerByEmail implements checkout.Provider. It returns nil without
// error when no customer carries the email.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*types.CustomerRecord, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("limit", "1")

	body, err := c.call(ctx, http.MethodGet, "/v1/customers?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var list customerList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.ProviderUnavailable("unexpected customer list payload", err)
	}
	if len(list.Data) == 0 {
		return nil, nil
	}

	return &types.CustomerRecord{
		ProviderCustomerID: list.Data[0].ID,
		Email:              list.Data[0].Email,
	}, nil
}

// CreateCustomer implements checkout.Provider.
func (c *Client) CreateCustomer(ctx context.Context, email string) (*types.CustomerRecord, error) {
	form := url.Values{}
	form.Set("email", email)

	body, err := c.call(ctx, http.MethodPost, "/v1/customers", form)
	if err != nil {
		return nil, err
	}

	var record customerRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, errors.ProviderUnavailable("unexpected customer payload", err)
	}

	return &types.CustomerRecord{
		ProviderCustomerID: record.ID,
		Email:              record.Email,
	}, nil
}

// CreateSession implements checkout.Provider. One line item, quantity 1:
// the pipeline supports one-shot single-item purchases, not carts.
func (c *Client) CreateSession(ctx context.Context, params checkout.SessionParams) (*types.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	}

	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	if params.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", params.Description)
	}

	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	body, err := c.call(ctx, http.MethodPost, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}

	var record sessionRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, errors.ProviderUnavailable("unexpected session payload", err)
	}

	return &types.CheckoutSession{
		SessionID:   record.ID,
		RedirectURL: record.URL,
		Metadata:    record.Metadata,
	}, nil
}

// call executes one API request and maps failures onto the checkout error
// taxonomy. No retries: the caller owns retry and backoff policy.
func (c *Client) call(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Internal("failed to build stripe request", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ProviderUnavailable("stripe API unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ProviderUnavailable("failed to read stripe response", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, errors.ProviderUnavailable(
			fmt.Sprintf("stripe returned status %d", resp.StatusCode), nil)
	case resp.StatusCode >= 400:
		return nil, errors.InvalidOrder(rejectionMessage(body, resp.StatusCode)).
			WithContext("status", resp.StatusCode)
	}

	return body, nil
}

// rejectionMessage extracts Stripe's error message from a 4xx body.
func rejectionMessage(body []byte, status int) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return msg.String()
	}
	return fmt.Sprintf("stripe rejected the request with status %d", status)
}
