// Package cmd provides the CLI commands for vps-order.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vps-order/internal/config"
	"vps-order/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vps-order",
	Short: "Price, browse and provision virtual server packages",
	Long: `vps-order is the operations CLI for the VPS order pipeline.

It browses the provider rate card, computes customer prices for a billing
term, and talks to the infrastructure provider through the same gateway
the server uses.

Examples:
  vps-order plans --category standard --sort price_asc
  vps-order quote s-2vcpu-4gb --term 12
  vps-order infra validate`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vps-order.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(infraCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Format = "console"
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vps-order version 1.0.0")
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath()
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		fmt.Printf("server:   %s (public %s)\n", cfg.Server.Address, cfg.Server.PublicURL)
		fmt.Printf("pricing:  markup ×%s, margin +%s\n", cfg.Pricing.Markup, cfg.Pricing.Margin)
		fmt.Printf("infra:    %s (tokens: %v)\n", cfg.Infra.BaseURL, cfg.Infra.TokenEnvVars)
		fmt.Printf("currency: %s\n", cfg.Stripe.Currency)
		return nil
	},
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vps-order.json"
	}
	return home + "/.vps-order.json"
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
