package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vps-order/core/gateway"
	"vps-order/internal/errors"
)

// stubUpstream plays back a canned size listing and counts calls.
type stubUpstream struct {
	calls  int
	status int
	body   []byte
}

func (u *stubUpstream) Do(context.Context, string, string, string, []byte) (int, []byte, error) {
	u.calls++
	return u.status, u.body, nil
}

const sizesPayload = `{
	"sizes": [
		{"slug": "s-1vcpu-1gb", "vcpus": 1, "memory": 1024, "disk": 25, "price_monthly": 6.0, "regions": ["nyc1", "fra1"], "available": true},
		{"slug": "s-2vcpu-4gb", "vcpus": 2, "memory": 4096, "disk": 80, "price_monthly": 24.0, "regions": ["nyc1"], "available": true},
		{"slug": "s-retired", "vcpus": 1, "memory": 512, "disk": 20, "price_monthly": 4.0, "regions": [], "available": false}
	]
}`

func newTestSource(upstream *stubUpstream, ttl time.Duration) *Source {
	gw := gateway.New(upstream, gateway.StaticCredential("tok"))
	return NewSource(gw, ttl)
}

func TestSourceListParsesSizes(t *testing.T) {
	upstream := &stubUpstream{status: 200, body: []byte(sizesPayload)}
	source := newTestSource(upstream, time.Minute)

	entries := source.List(context.Background())
	require.Len(t, entries, 2, "unavailable sizes are dropped")

	first := entries[0]
	assert.Equal(t, "s-1vcpu-1gb", first.Identifier)
	assert.Equal(t, 1, first.VCPUCount)
	assert.Equal(t, 1024, first.MemoryMB)
	assert.Equal(t, 25, first.DiskGB)
	assert.Equal(t, "6", first.BaseMonthlyPrice.String())
	assert.Equal(t, []string{"nyc1", "fra1"}, first.RegionTags)
}

func TestSourceListCaches(t *testing.T) {
	upstream := &stubUpstream{status: 200, body: []byte(sizesPayload)}
	source := newTestSource(upstream, time.Minute)

	source.List(context.Background())
	source.List(context.Background())
	source.List(context.Background())

	assert.Equal(t, 1, upstream.calls, "fresh cache must absorb repeat listings")
}

func TestSourceFallsBackToStaticCatalog(t *testing.T) {
	upstream := &stubUpstream{status: 500, body: []byte(`{"id":"server_error"}`)}
	source := newTestSource(upstream, time.Minute)

	entries := source.List(context.Background())
	assert.Equal(t, DefaultRateCard(), entries)

	// Failures are not cached: the next listing hits upstream again
	source.List(context.Background())
	assert.Equal(t, 2, upstream.calls)
}

func TestSourceFind(t *testing.T) {
	upstream := &stubUpstream{status: 200, body: []byte(sizesPayload)}
	source := newTestSource(upstream, time.Minute)

	entry, err := source.Find(context.Background(), "s-2vcpu-4gb")
	require.NoError(t, err)
	assert.Equal(t, "s-2vcpu-4gb", entry.Identifier)

	_, err = source.Find(context.Background(), "s-404")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}
