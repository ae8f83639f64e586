// Package types defines the shared data model for the order pipeline.
package types

import (
	"github.com/shopspring/decimal"
)

// BillingTerm is a commitment length in months. The discount tier is
// derived from it, see core/pricing.
type BillingTerm int

const (
	TermMonthly    BillingTerm = 1
	TermQuarterly  BillingTerm = 3
	TermHalfYearly BillingTerm = 6
	TermAnnual     BillingTerm = 12
)

// IsAnnual reports whether the term spans a full year.
func (t BillingTerm) IsAnnual() bool {
	return t >= TermAnnual
}

// RateCardEntry is a single purchasable compute configuration as published
// by the infrastructure provider. Entries are read-only within this system.
type RateCardEntry struct {
	// Identifier is the provider's slug for the package (e.g. "s-2vcpu-4gb")
	Identifier string `json:"identifier"`

	// VCPUCount is the number of virtual CPUs
	VCPUCount int `json:"vcpu_count"`

	// MemoryMB is the memory allocation in megabytes
	MemoryMB int `json:"memory_mb"`

	// DiskGB is the disk allocation in gigabytes
	DiskGB int `json:"disk_gb"`

	// BaseMonthlyPrice is the provider's raw monthly price, before any
	// markup or discount is applied
	BaseMonthlyPrice decimal.Decimal `json:"base_monthly_price"`

	// RegionTags lists the regions the package is available in
	RegionTags []string `json:"region_tags,omitempty"`
}

// AvailableIn reports whether the entry carries the given region tag.
func (e RateCardEntry) AvailableIn(region string) bool {
	for _, tag := range e.RegionTags {
		if tag == region {
			return true
		}
	}
	return false
}

// PricedOrder is a rate card entry priced for a billing term. It is derived
// fresh on every pricing request and never persisted here.
type PricedOrder struct {
	// Entry is the rate card entry the order is for
	Entry RateCardEntry `json:"entry"`

	// Term is the billing commitment
	Term BillingTerm `json:"term"`

	// FinalPrice is the customer-facing monthly price after markup,
	// margin and term discount, rounded to 2 decimal places
	FinalPrice decimal.Decimal `json:"final_price"`
}

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortCPU       SortKey = "cpu"
	SortMemory    SortKey = "memory"
	SortDisk      SortKey = "disk"
)

// Category classifies rate card entries by package family.
type Category string

const (
	// CategoryAll is the pseudo-category containing every entry
	CategoryAll Category = "all"

	CategoryStandard  Category = "standard"
	CategoryPremium   Category = "premium"
	CategoryDedicated Category = "dedicated"

	// CategoryNone marks entries matching no classification pattern.
	// They are excluded from every specific category but still count
	// toward CategoryAll.
	CategoryNone Category = ""
)

// FilterCriteria describes a catalog query. It is transient and owned by
// the caller; passing the zero value selects the full catalog.
type FilterCriteria struct {
	// SearchText is matched case-insensitively against the package label
	SearchText string `json:"search_text,omitempty"`

	// MinPrice and MaxPrice bound the displayed single-month price,
	// inclusive. A zero MaxPrice means no upper bound.
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`

	// Category restricts results to one category. CategoryAll and
	// CategoryNone both select everything.
	Category Category `json:"category,omitempty"`

	// SortKey selects the ordering. Empty defaults to price ascending.
	SortKey SortKey `json:"sort_key,omitempty"`
}

// CustomerRecord identifies a customer at the payment provider. The
// provider owns the record; this system only looks it up or creates it.
type CustomerRecord struct {
	// ProviderCustomerID is the payment provider's customer identifier
	ProviderCustomerID string `json:"provider_customer_id"`

	// Email is the customer email the record was resolved by
	Email string `json:"email"`
}

// CheckoutSession is a provider-hosted, single-use payment flow. The
// provider owns its expiry; it has no further lifecycle here.
type CheckoutSession struct {
	// SessionID is the provider's session identifier
	SessionID string `json:"session_id"`

	// RedirectURL is the hosted payment page the customer is sent to
	RedirectURL string `json:"redirect_url"`

	// Metadata is the metadata attached to the session
	Metadata map[string]string `json:"metadata,omitempty"`
}
