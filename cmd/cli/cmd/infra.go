// Package cmd - Infrastructure gateway commands
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vps-order/adapters/digitalocean"
	"vps-order/core/gateway"
	"vps-order/core/types"
	"vps-order/internal/config"
)

var infraToken string

var infraCmd = &cobra.Command{
	Use:   "infra",
	Short: "Talk to the infrastructure provider through the gateway",
}

var infraValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the resolved credential against the provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAndPrint(cmd, types.ProxyRequest{Op: types.OpValidate, AuthToken: infraToken})
	},
}

var infraSizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "List purchasable instance sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAndPrint(cmd, types.ProxyRequest{Op: types.OpListSizes, AuthToken: infraToken})
	},
}

var infraRegionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List available regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAndPrint(cmd, types.ProxyRequest{Op: types.OpListRegions, AuthToken: infraToken})
	},
}

func init() {
	infraCmd.PersistentFlags().StringVar(&infraToken, "token", "", "explicit API token (checked after the configured sources)")
	infraCmd.AddCommand(infraValidateCmd)
	infraCmd.AddCommand(infraSizesCmd)
	infraCmd.AddCommand(infraRegionsCmd)
}

// newGateway builds a gateway with the configured credential precedence.
func newGateway(cfg *config.Config) *gateway.Gateway {
	client := digitalocean.New(&digitalocean.Config{
		BaseURL:     cfg.Infra.BaseURL,
		HTTPTimeout: time.Duration(cfg.Infra.TimeoutSeconds) * time.Second,
	})
	return gateway.New(client, gateway.EnvChain(cfg.Infra.TokenEnvVars...)...)
}

func dispatchAndPrint(cmd *cobra.Command, req types.ProxyRequest) error {
	gw := newGateway(config.Get())

	resp, err := gw.Dispatch(cmd.Context(), req)
	if err != nil {
		return err
	}

	if !resp.OK() {
		fmt.Fprintf(os.Stderr, "upstream status %d\n", resp.StatusCode)
	}
	os.Stdout.Write(resp.Body)
	fmt.Println()
	return nil
}
