// Package pricing computes customer-facing prices from raw rate card
// entries. The computation is pure: same inputs always produce the same
// output, and the engine holds no mutable state.
package pricing

import (
	"github.com/shopspring/decimal"

	"vps-order/core/types"
	"vps-order/internal/errors"
)

// Config is the immutable pricing configuration. It is injected at
// construction so tests can vary markup and margin without touching
// package state.
type Config struct {
	// Markup is the multiplier applied to the base monthly price
	Markup decimal.Decimal

	// Margin is the flat amount added after markup
	Margin decimal.Decimal

	// TermDiscounts maps billing terms to discount multipliers.
	// Terms without an entry use 1.00.
	TermDiscounts map[types.BillingTerm]decimal.Decimal
}

// DefaultConfig returns the production pricing configuration: ×1.5 markup,
// +1.00 margin, and the standard discount tiers.
func DefaultConfig() Config {
	return Config{
		Markup: decimal.RequireFromString("1.5"),
		Margin: decimal.RequireFromString("1.00"),
		TermDiscounts: map[types.BillingTerm]decimal.Decimal{
			types.TermMonthly:    decimal.RequireFromString("1.00"),
			types.TermQuarterly:  decimal.RequireFromString("0.95"),
			types.TermHalfYearly: decimal.RequireFromString("0.90"),
			types.TermAnnual:     decimal.RequireFromString("0.85"),
		},
	}
}

// Engine prices rate card entries.
type Engine struct {
	cfg Config
}

// New creates a pricing engine from the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ComputePrice derives the final monthly price for an entry and term.
// Steps, in fixed order: base price, ×markup, +margin, ×term discount,
// round half-up to 2 decimal places.
func (e *Engine) ComputePrice(entry types.RateCardEntry, term types.BillingTerm) (decimal.Decimal, error) {
	if term <= 0 {
		return decimal.Zero, errors.InvalidTerm(int(term))
	}
	if entry.BaseMonthlyPrice.IsNegative() {
		return decimal.Zero, errors.InvalidRate(entry.Identifier, entry.BaseMonthlyPrice.String())
	}

	price := entry.BaseMonthlyPrice.
		Mul(e.cfg.Markup).
		Add(e.cfg.Margin).
		Mul(e.discountFor(term))

	// decimal.Round is half away from zero, which is half-up for the
	// non-negative prices reaching this point
	return price.Round(2), nil
}

// Quote builds a PricedOrder for an entry and term.
func (e *Engine) Quote(entry types.RateCardEntry, term types.BillingTerm) (types.PricedOrder, error) {
	price, err := e.ComputePrice(entry, term)
	if err != nil {
		return types.PricedOrder{}, err
	}

	return types.PricedOrder{
		Entry:      entry,
		Term:       term,
		FinalPrice: price,
	}, nil
}

// discountFor returns the discount multiplier for a term. Unlisted terms
// pay full price.
func (e *Engine) discountFor(term types.BillingTerm) decimal.Decimal {
	if d, ok := e.cfg.TermDiscounts[term]; ok {
		return d
	}
	return decimal.NewFromInt(1)
}
