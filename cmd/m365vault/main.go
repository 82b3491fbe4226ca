package main

import (
	"log"
	"os"

	"github.com/castellan-labs/m365vault-cli/internal/adapters/driven/auth"
	"github.com/castellan-labs/m365vault-cli/internal/adapters/driven/config/file"
	"github.com/castellan-labs/m365vault-cli/internal/adapters/driven/storage/sqlite"
	"github.com/castellan-labs/m365vault-cli/internal/adapters/driving/cli"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driven"
	"github.com/castellan-labs/m365vault-cli/internal/core/services"
	"github.com/castellan-labs/m365vault-cli/internal/polaris"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	configStore, err := file.NewConfigStore("")
	if err != nil {
		log.Printf("failed to create config store: %v", err)
		return 1
	}

	cfg, err := configStore.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	tokenProvider := auth.NewProviderFromConfig(cfg)

	var clientOpts []polaris.Option
	if cfg.RequestsPerSecond > 0 && cfg.BurstSize > 0 {
		clientOpts = append(clientOpts, polaris.WithRateLimit(polaris.RateLimitConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			BurstSize:         cfg.BurstSize,
		}))
	}
	backend := polaris.NewClient(cfg.AccountURL, tokenProvider, clientOpts...)

	// The ledger is advisory; a broken local database must not block
	// recoveries against the backend.
	var ledger driven.RecoveryLedger
	if l, err := sqlite.NewLedger(""); err != nil {
		log.Printf("warning: recovery ledger unavailable: %v", err)
	} else {
		ledger = l
		defer l.Close()
	}

	subscriptionSvc := services.NewSubscriptionService(backend)
	recoverySvc := services.NewRecoveryService(backend, subscriptionSvc, ledger)

	cli.SetServices(&cli.Services{
		Recovery:     recoverySvc,
		Subscription: subscriptionSvc,
		ConfigStore:  configStore,
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
