package api

import (
	"net/http"
	"time"

	drepo "DivScout/internal/domain/repository"
	"DivScout/internal/service/billing"
	"DivScout/internal/usecase"
	"DivScout/pkg/config"
	xmw "DivScout/pkg/http/middleware"
	xlogger "DivScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ownerHeader identifies whose portfolio collection a request touches. The
// auth proxy in front of the API sets it; unauthenticated local use falls
// back to a shared owner.
const ownerHeader = "X-Owner-Id"

// Handler wires all API routes to their use cases.
type Handler struct {
	logger *xlogger.Logger

	fetcher    *usecase.DividendFetcher
	searcher   *usecase.AssetSearcher
	market     *usecase.MarketService
	news       *usecase.NewsService
	portfolios *usecase.PortfolioService
	billing    *billing.Client
	quota      drepo.QuotaStore
	audit      drepo.LookupAudit

	adminToken      string
	fallbackURL     string
	lookupPlan      func(priceID string) (config.Plan, bool)
	streamInterval  time.Duration
	streamMaxSymbol int
}

type Options struct {
	AdminToken       string
	BillingFallback  string
	LookupPlan       func(priceID string) (config.Plan, bool)
	StreamInterval   time.Duration
	StreamMaxSymbols int
}

func NewHandler(
	l *xlogger.Logger,
	fetcher *usecase.DividendFetcher,
	searcher *usecase.AssetSearcher,
	market *usecase.MarketService,
	news *usecase.NewsService,
	portfolios *usecase.PortfolioService,
	billingClient *billing.Client,
	quota drepo.QuotaStore,
	audit drepo.LookupAudit,
	opts Options,
) *Handler {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 15 * time.Second
	}
	if opts.StreamMaxSymbols <= 0 {
		opts.StreamMaxSymbols = 20
	}
	if opts.LookupPlan == nil {
		opts.LookupPlan = func(string) (config.Plan, bool) { return config.Plan{}, false }
	}
	return &Handler{
		logger:          l,
		fetcher:         fetcher,
		searcher:        searcher,
		market:          market,
		news:            news,
		portfolios:      portfolios,
		billing:         billingClient,
		quota:           quota,
		audit:           audit,
		adminToken:      opts.AdminToken,
		fallbackURL:     opts.BillingFallback,
		lookupPlan:      opts.LookupPlan,
		streamInterval:  opts.StreamInterval,
		streamMaxSymbol: opts.StreamMaxSymbols,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Use(xmw.Metrics())

	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/dividend-data", h.DividendData)
	g.GET("/projection", h.Projection)
	g.GET("/search-assets", h.SearchAssets)
	g.GET("/asset-quote", h.AssetQuote)
	g.GET("/asset-profile", h.AssetProfile)
	g.GET("/news", h.News)
	g.GET("/stream/quotes", h.StreamQuotes)

	g.GET("/portfolios", h.ListPortfolios)
	g.POST("/portfolios", h.CreatePortfolio)
	g.PATCH("/portfolios/:id", h.UpdatePortfolio)
	g.DELETE("/portfolios/:id", h.DeletePortfolio)
	g.POST("/portfolios/:id/activate", h.ActivatePortfolio)

	g.POST("/checkout/session", h.CreateCheckoutSession)
	g.POST("/ai/consume", h.ConsumeAICredit)

	admin := g.Group("/admin", xmw.AdminToken(h.adminToken))
	admin.GET("/usage", h.AdminUsage)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func owner(c echo.Context) string {
	if o := c.Request().Header.Get(ownerHeader); o != "" {
		return o
	}
	return "local"
}
