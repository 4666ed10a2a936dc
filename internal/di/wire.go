//go:build wireinject
// +build wireinject

package di

import (
	"DivScout/pkg/config"
	"DivScout/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideLookupAudit,
		ProvideQuotaStore,
		ProvidePortfolioStore,

		// Providers
		ProvideFMPClient,
		ProvideFinnhubClient,
		ProvideStrategies,

		// Use cases
		ProvideDividendFetcher,
		ProvideAssetSearcher,
		ProvideMarketService,
		ProvideNewsService,
		ProvidePortfolioService,
		ProvideBillingClient,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
