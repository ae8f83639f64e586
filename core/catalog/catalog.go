// Package catalog implements rate card discovery: classification,
// filtering and ordering of purchasable packages. Everything here is pure
// (no hidden state, no I/O) so filter results are reproducible.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"vps-order/core/pricing"
	"vps-order/core/types"
)

// Classify maps an entry to its category by identifier pattern. The
// patterns mirror the provider's slug conventions ("s-", "c-", "m-"/"g-"/
// "gd-" prefixes); an entry matching none is unclassified.
func Classify(entry types.RateCardEntry) types.Category {
	id := strings.ToLower(entry.Identifier)

	switch {
	case strings.HasPrefix(id, "s-"):
		return types.CategoryStandard
	case strings.HasPrefix(id, "c-"):
		return types.CategoryPremium
	case strings.HasPrefix(id, "m-"),
		strings.HasPrefix(id, "g-"),
		strings.HasPrefix(id, "gd-"),
		strings.HasPrefix(id, "so-"):
		return types.CategoryDedicated
	default:
		return types.CategoryNone
	}
}

// Label derives the human-readable package label shown for an entry.
// Search text matches against this label, not the raw identifier, keeping
// the filter consistent with what the customer sees.
func Label(entry types.RateCardEntry) string {
	parts := []string{entry.Identifier}

	if cat := Classify(entry); cat != types.CategoryNone {
		parts = append(parts, string(cat))
	}
	if entry.VCPUCount > 0 {
		parts = append(parts, fmt.Sprintf("%d vCPU", entry.VCPUCount))
	}
	if entry.MemoryMB > 0 {
		parts = append(parts, fmt.Sprintf("%d GB RAM", entry.MemoryMB/1024))
	}
	if entry.DiskGB > 0 {
		parts = append(parts, fmt.Sprintf("%d GB SSD", entry.DiskGB))
	}

	return strings.Join(parts, " ")
}

// Filter applies FilterCriteria to rate card entries. It depends on the
// pricing engine because the price filter and price sort operate on the
// displayed single-month price, not the raw provider price.
type Filter struct {
	engine *pricing.Engine
}

// NewFilter creates a catalog filter backed by the given pricing engine.
func NewFilter(engine *pricing.Engine) *Filter {
	return &Filter{engine: engine}
}

// FilterAndSort returns the ordered subset of entries matching the
// criteria. The result is always a subset of the input; an empty result is
// a valid business state, not an error.
func (f *Filter) FilterAndSort(entries []types.RateCardEntry, criteria types.FilterCriteria) []types.RateCardEntry {
	if len(entries) == 0 {
		return []types.RateCardEntry{}
	}

	search := strings.ToLower(strings.TrimSpace(criteria.SearchText))

	matched := lo.Filter(entries, func(entry types.RateCardEntry, _ int) bool {
		if search != "" && !strings.Contains(strings.ToLower(Label(entry)), search) {
			return false
		}
		if !f.inPriceRange(entry, criteria) {
			return false
		}
		return matchesCategory(entry, criteria.Category)
	})

	f.sortEntries(matched, criteria.SortKey)
	return matched
}

// CategoryCounts tallies entries per category. CategoryAll always equals
// the total entry count; unclassified entries count toward no specific
// category.
func (f *Filter) CategoryCounts(entries []types.RateCardEntry) map[types.Category]int {
	counts := map[types.Category]int{
		types.CategoryAll:       len(entries),
		types.CategoryStandard:  0,
		types.CategoryPremium:   0,
		types.CategoryDedicated: 0,
	}

	for _, entry := range entries {
		if cat := Classify(entry); cat != types.CategoryNone {
			counts[cat]++
		}
	}

	return counts
}

// DisplayPrice is the single-month customer price used for filtering and
// price sorting. Entries the engine refuses to price display as zero
// rather than failing the whole catalog.
func (f *Filter) DisplayPrice(entry types.RateCardEntry) decimal.Decimal {
	price, err := f.engine.ComputePrice(entry, types.TermMonthly)
	if err != nil {
		return decimal.Zero
	}
	return price
}

func (f *Filter) inPriceRange(entry types.RateCardEntry, criteria types.FilterCriteria) bool {
	if criteria.MinPrice.IsZero() && criteria.MaxPrice.IsZero() {
		return true
	}

	price := f.DisplayPrice(entry)
	if price.LessThan(criteria.MinPrice) {
		return false
	}
	if !criteria.MaxPrice.IsZero() && price.GreaterThan(criteria.MaxPrice) {
		return false
	}
	return true
}

func matchesCategory(entry types.RateCardEntry, category types.Category) bool {
	if category == types.CategoryAll || category == types.CategoryNone {
		return true
	}
	return Classify(entry) == category
}

// sortEntries orders entries in place by the sort key, identifier lexical
// order breaking ties so repeated calls yield identical output.
func (f *Filter) sortEntries(entries []types.RateCardEntry, key types.SortKey) {
	less := f.lessFunc(key)

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case less(a, b):
			return true
		case less(b, a):
			return false
		default:
			return a.Identifier < b.Identifier
		}
	})
}

func (f *Filter) lessFunc(key types.SortKey) func(a, b types.RateCardEntry) bool {
	switch key {
	case types.SortPriceDesc:
		return func(a, b types.RateCardEntry) bool {
			return f.DisplayPrice(a).GreaterThan(f.DisplayPrice(b))
		}
	case types.SortCPU:
		return func(a, b types.RateCardEntry) bool { return a.VCPUCount < b.VCPUCount }
	case types.SortMemory:
		return func(a, b types.RateCardEntry) bool { return a.MemoryMB < b.MemoryMB }
	case types.SortDisk:
		return func(a, b types.RateCardEntry) bool { return a.DiskGB < b.DiskGB }
	default: // SortPriceAsc and unset
		return func(a, b types.RateCardEntry) bool {
			return f.DisplayPrice(a).LessThan(f.DisplayPrice(b))
		}
	}
}
