package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL, 5*time.Second, 6000, 100)
}

func TestQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/quote/KO", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(`[{"symbol":"KO","price":61.25,"change":0.5,"changesPercentage":0.82,"previousClose":60.75}]`))
	})

	q, err := c.Quote(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, "KO", q.Symbol)
	assert.Equal(t, 61.25, q.Price)
	assert.Equal(t, 60.75, q.PreviousClose)
	assert.Equal(t, 0.5, q.Change)
	assert.Equal(t, 0.82, q.ChangePercent)
}

func TestQuoteUnknownSymbol(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := c.Quote(context.Background(), "NOPE")
	require.ErrorIs(t, err, drepo.ErrNoData)
}

func TestQuoteServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	})

	_, err := c.Quote(context.Background(), "KO")
	require.Error(t, err)
	assert.NotErrorIs(t, err, drepo.ErrNoData)
}

func TestProfileDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"KO","companyName":"","currency":"","sector":"Consumer Defensive"}]`))
	})

	p, err := c.Profile(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, "KO", p.CompanyName, "blank name falls back to the symbol")
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "Consumer Defensive", p.Sector)
}

func TestDividendsWindowFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/historical-price-full/stock_dividend/KO", r.URL.Path)
		w.Write([]byte(`{"symbol":"KO","historical":[
			{"date":"2026-06-13","dividend":0.51},
			{"date":"2026-03-13","dividend":0.51},
			{"date":"2024-01-02","dividend":0.46},
			{"date":"bogus","dividend":9.99}
		]}`))
	})

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	events, err := c.Dividends(context.Background(), "KO", from, to)
	require.NoError(t, err)
	require.Len(t, events, 2, "out-of-window and unparseable rows are skipped")
	assert.Equal(t, 0.51, events[0].Amount)
}

func TestSearchClassification(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "coca", r.URL.Query().Get("query"))
		w.Write([]byte(`[
			{"symbol":"ko","name":"Coca-Cola Company","currency":"USD","exchangeShortName":"NYSE"},
			{"symbol":"koct","name":"Innovator Coca-Cola ETF","currency":"USD"}
		]`))
	})

	assets, err := c.Search(context.Background(), "coca")
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "KO", assets[0].Symbol)
	assert.Equal(t, models.AssetStock, assets[0].Type)
	assert.Equal(t, models.AssetETF, assets[1].Type)
}

func TestUnconfiguredClientRefuses(t *testing.T) {
	c := New("", "http://localhost:1", time.Second, 60, 5)
	assert.False(t, c.Configured())

	_, err := c.Quote(context.Background(), "KO")
	require.Error(t, err)
}
