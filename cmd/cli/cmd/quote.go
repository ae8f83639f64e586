// Package cmd - Price quote command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vps-order/core/catalog"
	"vps-order/core/pricing"
	"vps-order/core/types"
)

var quoteTerm int

var quoteCmd = &cobra.Command{
	Use:   "quote <plan-id>",
	Short: "Compute the customer price for a plan and billing term",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().IntVar(&quoteTerm, "term", 1, "billing term in months (1, 3, 6, 12)")
}

func runQuote(cmd *cobra.Command, args []string) error {
	planID := args[0]

	entries, err := loadRateCard(cmd.Context())
	if err != nil {
		return err
	}

	var entry *types.RateCardEntry
	for i := range entries {
		if entries[i].Identifier == planID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("plan not found: %s", planID)
	}

	engine := pricing.New(pricing.DefaultConfig())
	order, err := engine.Quote(*entry, types.BillingTerm(quoteTerm))
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", entry.Identifier, catalog.Label(*entry))
	fmt.Printf("  base price:  $%s/mo\n", entry.BaseMonthlyPrice.StringFixed(2))
	fmt.Printf("  term:        %d months\n", quoteTerm)
	fmt.Printf("  final price: $%s/mo\n", order.FinalPrice.StringFixed(2))

	return nil
}
