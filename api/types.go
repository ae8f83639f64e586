// Package api - Request/response wire types
package api

// CheckoutRequest is the POST /api/v1/checkout body.
type CheckoutRequest struct {
	// OrderDetails carries the priced order being paid for
	OrderDetails OrderDetails `json:"orderDetails"`

	// IsAnnual marks a 12-month commitment
	IsAnnual bool `json:"isAnnual,omitempty"`
}

// OrderDetails is the order portion of a checkout request.
type OrderDetails struct {
	// Amount is the final price in major currency units
	Amount float64 `json:"amount"`

	// ProductName labels the purchased package
	ProductName string `json:"productName"`

	// Description is an optional package description
	Description string `json:"description,omitempty"`

	// Currency overrides the default checkout currency
	Currency string `json:"currency,omitempty"`

	// CustomerEmail triggers customer resolution when present
	CustomerEmail string `json:"customerEmail,omitempty"`

	// CustomerName is accepted for forward compatibility; the payment
	// provider owns the customer profile
	CustomerName string `json:"customerName,omitempty"`

	// Metadata is attached to the payment session
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CheckoutResponse is the POST /api/v1/checkout success body.
type CheckoutResponse struct {
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionUrl"`
}

// PlanResponse is one catalog entry as displayed to the customer.
type PlanResponse struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Category     string   `json:"category,omitempty"`
	VCPUCount    int      `json:"vcpu_count"`
	MemoryMB     int      `json:"memory_mb"`
	DiskGB       int      `json:"disk_gb"`
	MonthlyPrice string   `json:"monthly_price"`
	Regions      []string `json:"regions,omitempty"`
}

// PlansResponse is the GET /api/v1/plans body.
type PlansResponse struct {
	Plans []PlanResponse `json:"plans"`

	// Categories maps category name to entry count over the full
	// catalog, independent of the applied filter
	Categories map[string]int `json:"categories"`

	Count int `json:"count"`
}

// QuoteRequest is the POST /api/v1/quote body.
type QuoteRequest struct {
	PlanID     string `json:"planId"`
	TermMonths int    `json:"termMonths"`
}

// QuoteResponse is the POST /api/v1/quote success body.
type QuoteResponse struct {
	PlanID     string `json:"planId"`
	TermMonths int    `json:"termMonths"`
	FinalPrice string `json:"finalPrice"`
	Currency   string `json:"currency"`
}
