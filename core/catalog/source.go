// Package catalog - Rate card sourcing
package catalog

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vps-order/core/gateway"
	"vps-order/core/types"
	"vps-order/internal/errors"
	"vps-order/internal/logging"
)

const rateCardCacheKey = "rate-card"

// Source loads the live rate card through the provisioning gateway and
// caches it. The provider rarely changes its size list, so a short TTL
// keeps the catalog fresh without hammering the sizes endpoint on every
// page load.
type Source struct {
	gw    *gateway.Gateway
	cache *gocache.Cache
}

// NewSource creates a rate card source with the given cache TTL.
func NewSource(gw *gateway.Gateway, ttl time.Duration) *Source {
	return &Source{
		gw:    gw,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// sizesEnvelope mirrors the provider's size listing payload.
type sizesEnvelope struct {
	Sizes []sizeRecord `json:"sizes"`
}

type sizeRecord struct {
	Slug         string   `json:"slug"`
	VCPUs        int      `json:"vcpus"`
	Memory       int      `json:"memory"`
	Disk         int      `json:"disk"`
	PriceMonthly float64  `json:"price_monthly"`
	Regions      []string `json:"regions"`
	Available    bool     `json:"available"`
}

// List returns the current rate card, from cache when fresh. A gateway
// failure falls back to the packaged static rate card so the storefront
// stays browsable while the provider is down.
func (s *Source) List(ctx context.Context) []types.RateCardEntry {
	if cached, ok := s.cache.Get(rateCardCacheKey); ok {
		return cached.([]types.RateCardEntry)
	}

	entries, err := s.fetch(ctx)
	if err != nil {
		logging.Warn("rate card fetch failed, using static catalog", zap.Error(err))
		return DefaultRateCard()
	}

	s.cache.Set(rateCardCacheKey, entries, gocache.DefaultExpiration)
	return entries
}

// fetch pulls the size list through the gateway and maps it to rate card
// entries. Unavailable sizes are dropped; they cannot be ordered.
func (s *Source) fetch(ctx context.Context) ([]types.RateCardEntry, error) {
	resp, err := s.gw.Dispatch(ctx, types.ProxyRequest{Op: types.OpListSizes})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errors.Newf(errors.TypeUpstream, "size listing returned status %d", resp.StatusCode)
	}

	var envelope sizesEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, errors.Wrap(errors.TypeUpstreamParse, "unexpected size listing shape", err)
	}

	entries := make([]types.RateCardEntry, 0, len(envelope.Sizes))
	for _, size := range envelope.Sizes {
		if !size.Available {
			continue
		}
		entries = append(entries, types.RateCardEntry{
			Identifier:       size.Slug,
			VCPUCount:        size.VCPUs,
			MemoryMB:         size.Memory,
			DiskGB:           size.Disk,
			BaseMonthlyPrice: decimal.NewFromFloat(size.PriceMonthly),
			RegionTags:       size.Regions,
		})
	}

	return entries, nil
}

// Find returns the entry with the given identifier from the current rate
// card.
func (s *Source) Find(ctx context.Context, identifier string) (types.RateCardEntry, error) {
	for _, entry := range s.List(ctx) {
		if entry.Identifier == identifier {
			return entry, nil
		}
	}
	return types.RateCardEntry{}, errors.NotFound("plan", identifier)
}
