package finnhub

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
	return New("test-token", srv.URL, 5*time.Second, 6000, 100)
}

func TestQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/quote", r.URL.Path)
		assert.Equal(t, "KO", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-token", r.Header.Get("X-Finnhub-Token"))
		w.Write([]byte(`{"c":61.25,"d":0.5,"dp":0.82,"pc":60.75}`))
	})

	q, err := c.Quote(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, 61.25, q.Price)
	assert.Equal(t, 60.75, q.PreviousClose)
}

func TestQuoteAllZeroIsNoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":0,"d":0,"dp":0,"pc":0}`))
	})

	_, err := c.Quote(context.Background(), "NOPE")
	require.ErrorIs(t, err, drepo.ErrNoData)
}

func TestProfileEmptyIsNoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := c.Profile(context.Background(), "NOPE")
	require.ErrorIs(t, err, drepo.ErrNoData)
}

func TestDividendsPayDatePreferred(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stock/dividend", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("from"))
		assert.NotEmpty(t, r.URL.Query().Get("to"))
		w.Write([]byte(`[
			{"amount":0.46,"payDate":"2026-04-01","date":"2026-03-13"},
			{"amount":0.46,"payDate":"","date":"2026-06-13"},
			{"amount":0.40,"payDate":"2020-01-01","date":"2020-01-01"}
		]`))
	})

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	events, err := c.Dividends(context.Background(), "KO", from, to)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC), events[1].Date)
}

func TestSearchTypeMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "coca", r.URL.Query().Get("q"))
		w.Write([]byte(`{"count":3,"result":[
			{"symbol":"KO","displaySymbol":"KO","description":"COCA-COLA CO","type":"Common Stock"},
			{"symbol":"COKE.ETF","displaySymbol":"COKE.ETF","description":"SOME BEVERAGE ETP","type":"ETP"},
			{"symbol":"KO26","displaySymbol":"KO26","description":"KO WARRANT","type":"Warrant"}
		]}`))
	})

	assets, err := c.Search(context.Background(), "coca")
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, models.AssetStock, assets[0].Type)
	assert.Equal(t, models.AssetETF, assets[1].Type)
	assert.Equal(t, models.AssetUnknown, assets[2].Type)
}

func TestCompanyNews(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/company-news", r.URL.Path)
		w.Write([]byte(`[{
			"id":42,"category":"company","datetime":1756700000,
			"headline":"KO raises dividend","source":"Wire","summary":"...",
			"url":"https://example.com/a","related":"KO, PEP, KO"
		}]`))
	})

	articles, err := c.CompanyNews(context.Background(), "KO", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	a := articles[0]
	assert.Equal(t, "42", a.ID)
	assert.Equal(t, "KO raises dividend", a.Headline)
	assert.Equal(t, []string{"KO", "PEP"}, a.Tickers, "related list is deduplicated")
	assert.Equal(t, time.Unix(1756700000, 0).UTC(), a.PublishedAt)
}

func TestMalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": "not a number"`))
	})

	_, err := c.Quote(context.Background(), "KO")
	require.Error(t, err)
	assert.NotErrorIs(t, err, drepo.ErrNoData)
}
