// Package cmd - Catalog browsing command
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"vps-order/core/catalog"
	"vps-order/core/pricing"
	"vps-order/core/types"
	"vps-order/internal/config"
)

var (
	plansSearch   string
	plansCategory string
	plansSort     string
	plansMinPrice string
	plansMaxPrice string
	plansLive     bool
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List available server packages with customer prices",
	RunE:  runPlans,
}

func init() {
	plansCmd.Flags().StringVarP(&plansSearch, "search", "q", "", "filter by label substring")
	plansCmd.Flags().StringVar(&plansCategory, "category", "", "filter by category (standard, premium, dedicated)")
	plansCmd.Flags().StringVar(&plansSort, "sort", "price_asc", "sort key (price_asc, price_desc, cpu, memory, disk)")
	plansCmd.Flags().StringVar(&plansMinPrice, "min-price", "", "minimum displayed monthly price")
	plansCmd.Flags().StringVar(&plansMaxPrice, "max-price", "", "maximum displayed monthly price")
	plansCmd.Flags().BoolVar(&plansLive, "live", false, "fetch the live rate card instead of the packaged one")
}

func runPlans(cmd *cobra.Command, args []string) error {
	engine := pricing.New(pricing.DefaultConfig())
	filter := catalog.NewFilter(engine)

	entries, err := loadRateCard(cmd.Context())
	if err != nil {
		return err
	}

	criteria := types.FilterCriteria{
		SearchText: plansSearch,
		Category:   types.Category(plansCategory),
		SortKey:    types.SortKey(plansSort),
	}
	if plansMinPrice != "" {
		min, err := decimal.NewFromString(plansMinPrice)
		if err != nil {
			return fmt.Errorf("invalid --min-price: %w", err)
		}
		criteria.MinPrice = min
	}
	if plansMaxPrice != "" {
		max, err := decimal.NewFromString(plansMaxPrice)
		if err != nil {
			return fmt.Errorf("invalid --max-price: %w", err)
		}
		criteria.MaxPrice = max
	}

	matched := filter.FilterAndSort(entries, criteria)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAN\tCATEGORY\tVCPU\tMEMORY\tDISK\tPRICE/MO")
	for _, entry := range matched {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d MB\t%d GB\t$%s\n",
			entry.Identifier,
			catalog.Classify(entry),
			entry.VCPUCount,
			entry.MemoryMB,
			entry.DiskGB,
			filter.DisplayPrice(entry).StringFixed(2),
		)
	}
	w.Flush()

	counts := filter.CategoryCounts(entries)
	fmt.Printf("\n%d of %d plans (standard %d, premium %d, dedicated %d)\n",
		len(matched), counts[types.CategoryAll],
		counts[types.CategoryStandard], counts[types.CategoryPremium], counts[types.CategoryDedicated])

	return nil
}

// loadRateCard fetches the live rate card when --live is set, otherwise
// uses the packaged one.
func loadRateCard(ctx context.Context) ([]types.RateCardEntry, error) {
	if !plansLive {
		return catalog.DefaultRateCard(), nil
	}

	cfg := config.Get()
	source := catalog.NewSource(newGateway(cfg), time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)
	return source.List(ctx), nil
}
