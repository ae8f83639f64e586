// Package catalog - Static fallback rate card
package catalog

import (
	"github.com/shopspring/decimal"

	"vps-order/core/types"
)

// DefaultRateCard is the packaged rate card used when the provider's size
// listing is unreachable (CLI offline mode, provider outage). Prices track
// the provider's published monthly rates.
func DefaultRateCard() []types.RateCardEntry {
	entry := func(id string, vcpu, memMB, diskGB int, price string, regions ...string) types.RateCardEntry {
		return types.RateCardEntry{
			Identifier:       id,
			VCPUCount:        vcpu,
			MemoryMB:         memMB,
			DiskGB:           diskGB,
			BaseMonthlyPrice: decimal.RequireFromString(price),
			RegionTags:       regions,
		}
	}

	return []types.RateCardEntry{
		entry("s-1vcpu-1gb", 1, 1024, 25, "6.00", "nyc1", "fra1", "sgp1"),
		entry("s-1vcpu-2gb", 1, 2048, 50, "12.00", "nyc1", "fra1", "sgp1"),
		entry("s-2vcpu-2gb", 2, 2048, 60, "18.00", "nyc1", "fra1", "sgp1"),
		entry("s-2vcpu-4gb", 2, 4096, 80, "24.00", "nyc1", "fra1", "sgp1"),
		entry("s-4vcpu-8gb", 4, 8192, 160, "48.00", "nyc1", "fra1"),
		entry("c-2", 2, 4096, 25, "42.00", "nyc1", "fra1"),
		entry("c-4", 4, 8192, 50, "84.00", "nyc1", "fra1"),
		entry("c-8", 8, 16384, 100, "168.00", "nyc1"),
		entry("m-2vcpu-16gb", 2, 16384, 50, "84.00", "nyc1", "fra1"),
		entry("m-4vcpu-32gb", 4, 32768, 100, "168.00", "nyc1"),
		entry("g-2vcpu-8gb", 2, 8192, 25, "63.00", "nyc1"),
		entry("gd-2vcpu-8gb", 2, 8192, 50, "68.00", "nyc1"),
	}
}
