// Package main - Entry point for the vps-order CLI
package main

import (
	"os"

	"vps-order/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
