package fmp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	xhttp "DivScout/pkg/http"

	"golang.org/x/time/rate"
)

// Client is the primary market-data provider (Financial Modeling Prep API).
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter *rate.Limiter
}

// New creates an FMP client. An empty apiKey leaves the provider unconfigured.
func New(apiKey, baseURL string, timeout time.Duration, requestsPerMinute, burst int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 300
	}
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

func (c *Client) Name() string { return "fmp" }

func (c *Client) Configured() bool { return c.apiKey != "" }

type fmpQuote struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	PreviousClose     float64 `json:"previousClose"`
}

// Quote fetches the latest quote. An empty response array means the symbol is
// unknown to the provider (ErrNoData).
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var raw []fmpQuote
	if err := c.get(ctx, "/api/v3/quote/"+symbol, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("quote %s: %w", symbol, drepo.ErrNoData)
	}
	q := raw[0]
	return &models.Quote{
		Symbol:        symbol,
		Price:         q.Price,
		PreviousClose: q.PreviousClose,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
	}, nil
}

type fmpProfile struct {
	Symbol        string `json:"symbol"`
	CompanyName   string `json:"companyName"`
	Currency      string `json:"currency"`
	Sector        string `json:"sector"`
	Industry      string `json:"industry"`
	ExchangeShort string `json:"exchangeShortName"`
}

func (c *Client) Profile(ctx context.Context, symbol string) (*models.Profile, error) {
	var raw []fmpProfile
	if err := c.get(ctx, "/api/v3/profile/"+symbol, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("profile %s: %w", symbol, drepo.ErrNoData)
	}
	p := raw[0]
	prof := &models.Profile{
		Symbol:      symbol,
		CompanyName: p.CompanyName,
		Currency:    p.Currency,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Exchange:    p.ExchangeShort,
	}
	if prof.CompanyName == "" {
		prof.CompanyName = symbol
	}
	if prof.Currency == "" {
		prof.Currency = "USD"
	}
	return prof, nil
}

type fmpDividendHistory struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date     string  `json:"date"`
		Dividend float64 `json:"dividend"`
	} `json:"historical"`
}

// Dividends returns dividend events within [from, to]. A history payload with
// no events is a valid empty slice, not an error: plenty of listed assets
// simply pay nothing.
func (c *Client) Dividends(ctx context.Context, symbol string, from, to time.Time) ([]models.DividendEvent, error) {
	var raw fmpDividendHistory
	if err := c.get(ctx, "/api/v3/historical-price-full/stock_dividend/"+symbol, nil, &raw); err != nil {
		return nil, err
	}
	events := make([]models.DividendEvent, 0, len(raw.Historical))
	for _, h := range raw.Historical {
		t, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		if t.Before(from) || t.After(to) {
			continue
		}
		events = append(events, models.DividendEvent{Date: t, Amount: h.Dividend})
	}
	return events, nil
}

type fmpSearchRow struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	StockExchange string `json:"stockExchange"`
	ExchangeShort string `json:"exchangeShortName"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.Asset, error) {
	var raw []fmpSearchRow
	params := map[string][]string{
		"query": {query},
		"limit": {"10"},
	}
	if err := c.get(ctx, "/api/v3/search", params, &raw); err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(raw))
	for _, r := range raw {
		assets = append(assets, models.Asset{
			Symbol:        strings.ToUpper(r.Symbol),
			Description:   r.Name,
			DisplaySymbol: strings.ToUpper(r.Symbol),
			Type:          classify(r.Name),
			Currency:      r.Currency,
			Exchange:      r.ExchangeShort,
		})
	}
	return assets, nil
}

// FMP search rows carry no instrument type; fall back to a name heuristic.
func classify(name string) models.AssetType {
	if strings.Contains(strings.ToUpper(name), "ETF") {
		return models.AssetETF
	}
	if name == "" {
		return models.AssetUnknown
	}
	return models.AssetStock
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	if !c.Configured() {
		return fmt.Errorf("fmp: api key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("fmp rate wait: %w", err)
	}
	if params == nil {
		params = map[string][]string{}
	}
	params["apikey"] = []string{c.apiKey}
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, dest)
}
