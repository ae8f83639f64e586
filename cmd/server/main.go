// Package main - Entry point for the VPS order server
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vps-order/adapters/digitalocean"
	"vps-order/adapters/stripe"
	"vps-order/api"
	"vps-order/core/catalog"
	"vps-order/core/checkout"
	"vps-order/core/gateway"
	"vps-order/core/pricing"
	"vps-order/internal/config"
	"vps-order/internal/logging"
	"vps-order/internal/metrics"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Default().ApplyEnv()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Fatal("failed to load config", zap.Error(err))
		}
		cfg = loaded
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("failed to initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	engine := pricing.New(pricingConfig(cfg))

	doClient := digitalocean.New(&digitalocean.Config{
		BaseURL:     cfg.Infra.BaseURL,
		HTTPTimeout: time.Duration(cfg.Infra.TimeoutSeconds) * time.Second,
	})
	gw := gateway.New(doClient, gateway.EnvChain(cfg.Infra.TokenEnvVars...)...)

	source := catalog.NewSource(gw, time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second)

	stripeClient, err := stripe.New(&stripe.Config{SecretKey: cfg.Stripe.SecretKey})
	if err != nil {
		// The storefront can browse and quote without a payment
		// provider; checkout will answer CONFIG_ERROR until fixed
		logging.Warn("payment provider disabled", zap.Error(err))
	}

	var provider checkout.Provider
	if stripeClient != nil {
		provider = stripeClient
	}
	checkoutSvc := checkout.NewService(provider, cfg.Stripe.Currency)

	server := api.NewServer(version, api.Deps{
		Engine:    engine,
		Source:    source,
		Checkout:  checkoutSvc,
		Gateway:   gw,
		Metrics:   metrics.New(),
		PublicURL: cfg.Server.PublicURL,
	})

	listenAddr := cfg.Server.Address
	if *addr != "" {
		listenAddr = *addr
	}

	httpServer := &http.Server{
		Addr:         listenAddr,
		Handler:      server,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logging.Info("server listening", zap.String("addr", listenAddr), zap.String("version", version))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logging.Error("shutdown failed", zap.Error(err))
	}
	logging.Info("server stopped")
}

// pricingConfig builds the engine configuration from the decimal strings
// in the file config, falling back to defaults on malformed values.
func pricingConfig(cfg *config.Config) pricing.Config {
	pc := pricing.DefaultConfig()

	if markup, err := decimal.NewFromString(cfg.Pricing.Markup); err == nil {
		pc.Markup = markup
	} else {
		logging.Warn("invalid pricing markup, using default", zap.String("markup", cfg.Pricing.Markup))
	}
	if margin, err := decimal.NewFromString(cfg.Pricing.Margin); err == nil {
		pc.Margin = margin
	} else {
		logging.Warn("invalid pricing margin, using default", zap.String("margin", cfg.Pricing.Margin))
	}

	return pc
}
