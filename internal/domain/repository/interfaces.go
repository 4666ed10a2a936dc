package repository

import (
	"context"
	"errors"
	"time"

	"DivScout/internal/domain/models"
)

// ErrNoData reports that a provider answered but returned nothing usable for
// the symbol (missing price, or no dividend signal at all). Distinct from
// transport errors so the orchestrator can tell business failure from outage.
var ErrNoData = errors.New("no usable data for symbol")

// ErrQuotaExceeded reports an exhausted AI credit balance.
var ErrQuotaExceeded = errors.New("ai credit quota exceeded")

// MarketData is one external market-data provider. Implementations return
// ErrNoData when the response is well-formed but empty for the symbol, and
// plain errors for transport or payload failures.
type MarketData interface {
	Name() string
	Configured() bool
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	Profile(ctx context.Context, symbol string) (*models.Profile, error)
	Dividends(ctx context.Context, symbol string, from, to time.Time) ([]models.DividendEvent, error)
	Search(ctx context.Context, query string) ([]models.Asset, error)
}

// NewsSource supplies raw market news articles.
type NewsSource interface {
	Configured() bool
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error)
	CategoryNews(ctx context.Context, category string) ([]models.NewsArticle, error)
}

// Metrics records domain metrics.
type Metrics interface {
	RecordProviderRequest(provider, endpoint, outcome string)
	RecordResolution(source string)
	RecordCacheLookup(result string)
	RecordLastPrice(symbol string, price float64)
	RecordFetchLatency(source string, seconds float64)
}

// LookupEvent is one audited per-symbol resolution.
type LookupEvent struct {
	Timestamp time.Time `json:"ts"`
	Symbol    string    `json:"symbol"`
	Source    string    `json:"source"`
	Duration  int64     `json:"durationMs"`
	OK        bool      `json:"ok"`
}

// LookupAudit persists resolution events for the admin usage view.
type LookupAudit interface {
	Record(event LookupEvent)
	Recent(ctx context.Context, limit int) ([]LookupEvent, error)
	Close() error
}

// QuotaStore accounts AI credits. Consume returns the remaining balance or
// ErrQuotaExceeded when the user has none left.
type QuotaStore interface {
	Consume(ctx context.Context, userID string) (remaining int, err error)
	Close()
}

// PortfolioBlobStore persists the JSON-encoded portfolio collection and the
// active-portfolio pointer per owner under fixed keys. A missing blob is
// (nil, nil).
type PortfolioBlobStore interface {
	GetBlob(ctx context.Context, owner string) ([]byte, error)
	SetBlob(ctx context.Context, owner string, blob []byte) error
	GetActive(ctx context.Context, owner string) (string, error)
	SetActive(ctx context.Context, owner, id string) error
	ClearActive(ctx context.Context, owner string) error
}
