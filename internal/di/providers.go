package di

import (
	"context"
	"fmt"
	"time"

	drepo "DivScout/internal/domain/repository"
	"DivScout/internal/handler/api"
	"DivScout/internal/provider/finnhub"
	"DivScout/internal/provider/fmp"
	internalrepo "DivScout/internal/repository"
	"DivScout/internal/service/billing"
	"DivScout/internal/usecase"
	"DivScout/pkg/cache"
	pkgch "DivScout/pkg/clickhouse"
	"DivScout/pkg/config"
	xhttp "DivScout/pkg/http"
	xlogger "DivScout/pkg/logger"
	"DivScout/pkg/metrics"
	"DivScout/pkg/server"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const auditFlushInterval = 5 * time.Second

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	return xlogger.New(&xlogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the record cache backend selected in config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideClickHouseClient creates the audit ClickHouse client, or nil when
// auditing is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Audit.Host),
		pkgch.WithPort(cfg.Audit.Port),
		pkgch.WithDatabase(cfg.Audit.Database),
		pkgch.WithCredentials(cfg.Audit.User, cfg.Audit.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.Audit.AsyncInsert, cfg.Audit.WaitForAsync),
		pkgch.WithTimeouts(cfg.Audit.DialTimeout, 30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.Audit.Database,
		"CREATE TABLE IF NOT EXISTS " + cfg.Audit.Database + ".lookup_events (ts DateTime64(3), symbol String, source String, duration_ms Int64, ok UInt8) ENGINE=MergeTree ORDER BY (ts)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideLookupAudit creates the audit sink, a no-op one when disabled.
func ProvideLookupAudit(chClient *pkgch.Client, cfg *config.Config) drepo.LookupAudit {
	if chClient == nil {
		return internalrepo.NoopLookupAudit{}
	}
	table := cfg.Audit.Database + ".lookup_events"
	return internalrepo.NewClickHouseLookupAudit(chClient.DB(), table, cfg.Audit.FlushSize, auditFlushInterval)
}

// ProvideQuotaStore creates the Postgres AI credit store, or nil when no DSN
// is configured (everyone gets unlimited credits then).
func ProvideQuotaStore(cfg *config.Config) (drepo.QuotaStore, error) {
	if cfg.Quota.PostgresDSN == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(context.Background(), cfg.Quota.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("quota pool: %w", err)
	}
	return internalrepo.NewPgQuotaStore(pool), nil
}

// ProvidePortfolioStore creates the Redis-backed portfolio store.
func ProvidePortfolioStore(cfg *config.Config) drepo.PortfolioBlobStore {
	rc := cfg.Portfolios.Redis
	host, port := rc.Host, rc.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: rc.Password,
		DB:       rc.DB,
	})
	return internalrepo.NewRedisPortfolioStore(client, rc.Prefix)
}

// ProvideFMPClient creates the primary market-data provider.
func ProvideFMPClient(cfg *config.Config) *fmp.Client {
	p := cfg.Providers.FMP
	return fmp.New(p.APIKey, p.BaseURL, p.Timeout, p.RequestsPerMinute, p.Burst)
}

// ProvideFinnhubClient creates the fallback provider and news source.
func ProvideFinnhubClient(cfg *config.Config) *finnhub.Client {
	p := cfg.Providers.Finnhub
	return finnhub.New(p.APIKey, p.BaseURL, p.Timeout, p.RequestsPerMinute, p.Burst)
}

// ProvideStrategies fixes the resolution order: primary first, fallback next.
func ProvideStrategies(primary *fmp.Client, fallback *finnhub.Client) []usecase.Strategy {
	return []usecase.Strategy{
		usecase.PrimaryStrategy(primary),
		usecase.FallbackStrategy(fallback),
	}
}

// ProvideDividendFetcher creates the dividend resolution use case.
func ProvideDividendFetcher(
	strategies []usecase.Strategy,
	c cache.Service,
	m drepo.Metrics,
	audit drepo.LookupAudit,
	l *xlogger.Logger,
	cfg *config.Config,
) *usecase.DividendFetcher {
	return usecase.NewDividendFetcher(strategies, c, cfg.Cache.TTL, m, audit, l)
}

// ProvideAssetSearcher creates the ticker search use case.
func ProvideAssetSearcher(primary *fmp.Client, fallback *finnhub.Client, l *xlogger.Logger) *usecase.AssetSearcher {
	return usecase.NewAssetSearcher(primary, fallback, l)
}

// ProvideMarketService creates the quote/profile use case.
func ProvideMarketService(primary *fmp.Client, fallback *finnhub.Client, l *xlogger.Logger) *usecase.MarketService {
	return usecase.NewMarketService(primary, fallback, l)
}

// ProvideNewsService creates the news use case.
func ProvideNewsService(source *finnhub.Client, l *xlogger.Logger) *usecase.NewsService {
	return usecase.NewNewsService(source, l)
}

// ProvidePortfolioService creates the portfolio use case.
func ProvidePortfolioService(store drepo.PortfolioBlobStore, l *xlogger.Logger) *usecase.PortfolioService {
	return usecase.NewPortfolioService(store, l)
}

// ProvideBillingClient creates the hosted checkout client.
func ProvideBillingClient(cfg *config.Config) *billing.Client {
	return billing.New(cfg.Billing.APIURL, cfg.Billing.SecretKey, cfg.Billing.Timeout)
}

// ProvideHandler assembles the API handler.
func ProvideHandler(
	l *xlogger.Logger,
	fetcher *usecase.DividendFetcher,
	searcher *usecase.AssetSearcher,
	market *usecase.MarketService,
	news *usecase.NewsService,
	portfolios *usecase.PortfolioService,
	billingClient *billing.Client,
	quota drepo.QuotaStore,
	audit drepo.LookupAudit,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewHandler(l, fetcher, searcher, market, news, portfolios, billingClient, quota, audit, api.Options{
		AdminToken:       cfg.Admin.Token,
		BillingFallback:  cfg.Billing.FallbackURL,
		LookupPlan:       cfg.PlanByPriceID,
		StreamInterval:   cfg.Stream.RefreshInterval,
		StreamMaxSymbols: cfg.Stream.MaxSymbols,
	})
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *xlogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	audit drepo.LookupAudit,
	quota drepo.QuotaStore,
	c cache.Service,
) *server.App {
	app := server.New(cfg, l, handler, chClient, audit, quota)
	switch v := c.(type) {
	case *cache.RedisCache:
		app.AddCloser(v.Close)
	case *cache.MemoryCache:
		app.AddCloser(func() error { v.Close(); return nil })
	}
	return app
}
