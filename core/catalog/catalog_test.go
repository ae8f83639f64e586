package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vps-order/core/pricing"
	"vps-order/core/types"
)

func testFilter() *Filter {
	return NewFilter(pricing.New(pricing.DefaultConfig()))
}

func testEntries() []types.RateCardEntry {
	entry := func(id string, vcpu, memMB, diskGB int, price string) types.RateCardEntry {
		return types.RateCardEntry{
			Identifier:       id,
			VCPUCount:        vcpu,
			MemoryMB:         memMB,
			DiskGB:           diskGB,
			BaseMonthlyPrice: decimal.RequireFromString(price),
		}
	}

	return []types.RateCardEntry{
		entry("s-1vcpu-1gb", 1, 1024, 25, "6.00"),
		entry("s-2vcpu-4gb", 2, 4096, 80, "24.00"),
		entry("c-2", 2, 4096, 25, "42.00"),
		entry("m-2vcpu-16gb", 2, 16384, 50, "84.00"),
		entry("g-2vcpu-8gb", 2, 8192, 25, "63.00"),
		entry("legacy-512mb", 1, 512, 20, "4.00"), // unclassified
	}
}

func TestEmptyInputYieldsEmptyOutput(t *testing.T) {
	f := testFilter()

	for _, criteria := range []types.FilterCriteria{
		{},
		{SearchText: "anything"},
		{Category: types.CategoryPremium, SortKey: types.SortDisk},
	} {
		result := f.FilterAndSort(nil, criteria)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	}
}

func TestResultIsSubsetOfInput(t *testing.T) {
	f := testFilter()
	entries := testEntries()

	byID := map[string]bool{}
	for _, e := range entries {
		byID[e.Identifier] = true
	}

	result := f.FilterAndSort(entries, types.FilterCriteria{SearchText: "vcpu"})
	for _, e := range result {
		assert.True(t, byID[e.Identifier], "fabricated entry %s", e.Identifier)
	}
	assert.LessOrEqual(t, len(result), len(entries))
}

func TestTextFilterMatchesLabelCaseInsensitively(t *testing.T) {
	f := testFilter()

	// "standard" appears only in the derived label, not in any slug
	result := f.FilterAndSort(testEntries(), types.FilterCriteria{SearchText: "STANDARD"})
	require.Len(t, result, 2)
	assert.Equal(t, "s-1vcpu-1gb", result[0].Identifier)
	assert.Equal(t, "s-2vcpu-4gb", result[1].Identifier)
}

func TestPriceFilterUsesDisplayedPrice(t *testing.T) {
	f := testFilter()

	// s-1vcpu-1gb displays at 6*1.5+1 = 10.00: a raw-price filter at
	// [6,6] would match it, a displayed-price filter must use 10
	result := f.FilterAndSort(testEntries(), types.FilterCriteria{
		MinPrice: decimal.RequireFromString("10.00"),
		MaxPrice: decimal.RequireFromString("10.00"),
	})
	require.Len(t, result, 1)
	assert.Equal(t, "s-1vcpu-1gb", result[0].Identifier)
}

func TestPriceRangeIsInclusive(t *testing.T) {
	f := testFilter()

	// displayed prices: 10.00, 37.00, 64.00, 127.00, 95.50, 7.00
	result := f.FilterAndSort(testEntries(), types.FilterCriteria{
		MinPrice: decimal.RequireFromString("10.00"),
		MaxPrice: decimal.RequireFromString("64.00"),
	})

	ids := []string{}
	for _, e := range result {
		ids = append(ids, e.Identifier)
	}
	assert.Equal(t, []string{"s-1vcpu-1gb", "s-2vcpu-4gb", "c-2"}, ids)
}

func TestCategoryFilter(t *testing.T) {
	f := testFilter()
	entries := testEntries()

	dedicated := f.FilterAndSort(entries, types.FilterCriteria{Category: types.CategoryDedicated})
	require.Len(t, dedicated, 2)
	for _, e := range dedicated {
		assert.Equal(t, types.CategoryDedicated, Classify(e))
	}

	// "all" and unset both select everything, including unclassified
	all := f.FilterAndSort(entries, types.FilterCriteria{Category: types.CategoryAll})
	assert.Len(t, all, len(entries))
	unset := f.FilterAndSort(entries, types.FilterCriteria{})
	assert.Len(t, unset, len(entries))
}

func TestUnclassifiedExcludedFromSpecificCategories(t *testing.T) {
	f := testFilter()
	entries := testEntries()

	for _, cat := range []types.Category{types.CategoryStandard, types.CategoryPremium, types.CategoryDedicated} {
		for _, e := range f.FilterAndSort(entries, types.FilterCriteria{Category: cat}) {
			assert.NotEqual(t, "legacy-512mb", e.Identifier)
		}
	}
}

func TestCategoryCountsPartition(t *testing.T) {
	f := testFilter()
	entries := testEntries()

	counts := f.CategoryCounts(entries)
	assert.Equal(t, len(entries), counts[types.CategoryAll])

	specific := counts[types.CategoryStandard] + counts[types.CategoryPremium] + counts[types.CategoryDedicated]
	assert.Equal(t, 5, specific)
	assert.LessOrEqual(t, specific, counts[types.CategoryAll])
}

func TestSortKeysAndTieBreak(t *testing.T) {
	f := testFilter()
	entries := testEntries()

	asc := f.FilterAndSort(entries, types.FilterCriteria{SortKey: types.SortPriceAsc})
	require.Len(t, asc, len(entries))
	assert.Equal(t, "legacy-512mb", asc[0].Identifier)
	assert.Equal(t, "m-2vcpu-16gb", asc[len(asc)-1].Identifier)

	desc := f.FilterAndSort(entries, types.FilterCriteria{SortKey: types.SortPriceDesc})
	assert.Equal(t, "m-2vcpu-16gb", desc[0].Identifier)

	// Four entries tie at 2 vCPUs; the tie breaks lexically by identifier
	cpu := f.FilterAndSort(entries, types.FilterCriteria{SortKey: types.SortCPU})
	ids := []string{}
	for _, e := range cpu {
		ids = append(ids, e.Identifier)
	}
	assert.Equal(t, []string{"legacy-512mb", "s-1vcpu-1gb", "c-2", "g-2vcpu-8gb", "m-2vcpu-16gb", "s-2vcpu-4gb"}, ids)
}

func TestSortIsDeterministicAcrossCalls(t *testing.T) {
	f := testFilter()
	entries := testEntries()

	first := f.FilterAndSort(entries, types.FilterCriteria{SortKey: types.SortCPU})
	second := f.FilterAndSort(entries, types.FilterCriteria{SortKey: types.SortCPU})
	assert.Equal(t, first, second)
}

func TestClassify(t *testing.T) {
	cases := map[string]types.Category{
		"s-2vcpu-2gb":   types.CategoryStandard,
		"c-4":           types.CategoryPremium,
		"m-2vcpu-16gb":  types.CategoryDedicated,
		"g-2vcpu-8gb":   types.CategoryDedicated,
		"gd-2vcpu-8gb":  types.CategoryDedicated,
		"so-2vcpu-16gb": types.CategoryDedicated,
		"legacy-512mb":  types.CategoryNone,
		"":              types.CategoryNone,
	}

	for id, want := range cases {
		got := Classify(types.RateCardEntry{Identifier: id})
		assert.Equal(t, want, got, "identifier %q", id)
	}
}
