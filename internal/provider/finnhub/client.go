package finnhub

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	xhttp "DivScout/pkg/http"
	"DivScout/pkg/util"

	"golang.org/x/time/rate"
)

// Client is the secondary market-data provider (Finnhub REST API). It also
// serves as the news source.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter *rate.Limiter
}

// New creates a Finnhub client. An empty apiKey leaves the provider unconfigured.
func New(apiKey, baseURL string, timeout time.Duration, requestsPerMinute, burst int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 5
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

func (c *Client) Name() string { return "finnhub" }

func (c *Client) Configured() bool { return c.apiKey != "" }

type fhQuote struct {
	C  float64 `json:"c"`  // current price
	D  float64 `json:"d"`  // change
	DP float64 `json:"dp"` // change percent
	PC float64 `json:"pc"` // previous close
}

func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var raw fhQuote
	if err := c.get(ctx, "/api/v1/quote", map[string][]string{"symbol": {symbol}}, &raw); err != nil {
		return nil, err
	}
	// Finnhub answers unknown symbols with an all-zero quote.
	if raw.C == 0 && raw.PC == 0 {
		return nil, fmt.Errorf("quote %s: %w", symbol, drepo.ErrNoData)
	}
	return &models.Quote{
		Symbol:        symbol,
		Price:         raw.C,
		PreviousClose: raw.PC,
		Change:        raw.D,
		ChangePercent: raw.DP,
	}, nil
}

type fhProfile struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Industry string `json:"finnhubIndustry"`
	Exchange string `json:"exchange"`
}

func (c *Client) Profile(ctx context.Context, symbol string) (*models.Profile, error) {
	var raw fhProfile
	if err := c.get(ctx, "/api/v1/stock/profile2", map[string][]string{"symbol": {symbol}}, &raw); err != nil {
		return nil, err
	}
	if raw.Name == "" && raw.Currency == "" {
		return nil, fmt.Errorf("profile %s: %w", symbol, drepo.ErrNoData)
	}
	prof := &models.Profile{
		Symbol:      symbol,
		CompanyName: raw.Name,
		Currency:    raw.Currency,
		Industry:    raw.Industry,
		Exchange:    raw.Exchange,
	}
	if prof.CompanyName == "" {
		prof.CompanyName = symbol
	}
	if prof.Currency == "" {
		prof.Currency = "USD"
	}
	return prof, nil
}

type fhDividend struct {
	Amount  float64 `json:"amount"`
	PayDate string  `json:"payDate"`
	Date    string  `json:"date"`
}

func (c *Client) Dividends(ctx context.Context, symbol string, from, to time.Time) ([]models.DividendEvent, error) {
	params := map[string][]string{
		"symbol": {symbol},
		"from":   {from.Format("2006-01-02")},
		"to":     {to.Format("2006-01-02")},
	}
	var raw []fhDividend
	if err := c.get(ctx, "/api/v1/stock/dividend", params, &raw); err != nil {
		return nil, err
	}
	events := make([]models.DividendEvent, 0, len(raw))
	for _, d := range raw {
		day := d.PayDate
		if day == "" {
			day = d.Date
		}
		t, ok := util.ParseDay(day)
		if !ok {
			continue
		}
		if t.Before(from) || t.After(to) {
			continue
		}
		events = append(events, models.DividendEvent{Date: t, Amount: d.Amount})
	}
	return events, nil
}

type fhSearchResult struct {
	Count  int `json:"count"`
	Result []struct {
		Symbol        string `json:"symbol"`
		DisplaySymbol string `json:"displaySymbol"`
		Description   string `json:"description"`
		Type          string `json:"type"`
	} `json:"result"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.Asset, error) {
	var raw fhSearchResult
	if err := c.get(ctx, "/api/v1/search", map[string][]string{"q": {query}}, &raw); err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(raw.Result))
	for _, r := range raw.Result {
		assets = append(assets, models.Asset{
			Symbol:        strings.ToUpper(r.Symbol),
			Description:   r.Description,
			DisplaySymbol: r.DisplaySymbol,
			Type:          mapType(r.Type),
		})
	}
	return assets, nil
}

func mapType(t string) models.AssetType {
	switch strings.ToUpper(t) {
	case "COMMON STOCK", "ADR", "REIT":
		return models.AssetStock
	case "ETP", "ETF":
		return models.AssetETF
	default:
		return models.AssetUnknown
	}
}

type fhArticle struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// CompanyNews returns raw articles for a symbol; enrichment happens upstream.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error) {
	params := map[string][]string{
		"symbol": {symbol},
		"from":   {from.Format("2006-01-02")},
		"to":     {to.Format("2006-01-02")},
	}
	var raw []fhArticle
	if err := c.get(ctx, "/api/v1/company-news", params, &raw); err != nil {
		return nil, err
	}
	return toArticles(raw), nil
}

func (c *Client) CategoryNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	var raw []fhArticle
	if err := c.get(ctx, "/api/v1/news", map[string][]string{"category": {category}}, &raw); err != nil {
		return nil, err
	}
	return toArticles(raw), nil
}

func toArticles(raw []fhArticle) []models.NewsArticle {
	out := make([]models.NewsArticle, 0, len(raw))
	for _, a := range raw {
		tickers := util.SplitSymbols(a.Related)
		out = append(out, models.NewsArticle{
			ID:          strconv.FormatInt(a.ID, 10),
			Headline:    a.Headline,
			Summary:     a.Summary,
			Source:      a.Source,
			URL:         a.URL,
			Image:       a.Image,
			PublishedAt: time.Unix(a.Datetime, 0).UTC(),
			Category:    a.Category,
			Tickers:     tickers,
		})
	}
	return out
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	if !c.Configured() {
		return fmt.Errorf("finnhub: api key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("finnhub rate wait: %w", err)
	}
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
		Headers:     map[string]string{"X-Finnhub-Token": c.apiKey},
	}, dest)
}
