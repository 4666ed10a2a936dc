package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	internalrepo "DivScout/internal/repository"
	"DivScout/internal/service/billing"
	"DivScout/internal/usecase"
	"DivScout/pkg/config"
	xlogger "DivScout/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name       string
	configured bool
	quote      *models.Quote
	profile    *models.Profile
	events     []models.DividendEvent
	assets     []models.Asset
	err        error
}

func (p *stubProvider) Name() string     { return p.name }
func (p *stubProvider) Configured() bool { return p.configured }

func (p *stubProvider) Quote(context.Context, string) (*models.Quote, error) {
	return p.quote, p.err
}

func (p *stubProvider) Profile(context.Context, string) (*models.Profile, error) {
	return p.profile, p.err
}

func (p *stubProvider) Dividends(context.Context, string, time.Time, time.Time) ([]models.DividendEvent, error) {
	return p.events, p.err
}

func (p *stubProvider) Search(context.Context, string) ([]models.Asset, error) {
	return p.assets, p.err
}

func (p *stubProvider) CompanyNews(context.Context, string, time.Time, time.Time) ([]models.NewsArticle, error) {
	return nil, p.err
}

func (p *stubProvider) CategoryNews(context.Context, string) ([]models.NewsArticle, error) {
	return nil, p.err
}

type stubMetrics struct{}

func (stubMetrics) RecordProviderRequest(string, string, string) {}
func (stubMetrics) RecordResolution(string)                      {}
func (stubMetrics) RecordCacheLookup(string)                     {}
func (stubMetrics) RecordLastPrice(string, float64)              {}
func (stubMetrics) RecordFetchLatency(string, float64)           {}

type stubQuota struct {
	remaining int
	err       error
}

func (s *stubQuota) Consume(context.Context, string) (int, error) { return s.remaining, s.err }
func (s *stubQuota) Close()                                       {}

type testEnv struct {
	echo    *echo.Echo
	primary *stubProvider
	quota   *stubQuota
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvBilling(t, billing.New("", "", time.Second))
}

func newTestEnvBilling(t *testing.T, billingClient *billing.Client) *testEnv {
	t.Helper()

	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	now := time.Now()
	primary := &stubProvider{
		name:       "fmp",
		configured: true,
		quote:      &models.Quote{Symbol: "KO", Price: 60, PreviousClose: 59.5, Change: 0.5, ChangePercent: 0.84},
		profile:    &models.Profile{Symbol: "KO", CompanyName: "Coca-Cola", Currency: "USD"},
		events: []models.DividendEvent{
			{Date: now.AddDate(0, -1, 0), Amount: 0.46},
			{Date: now.AddDate(0, -4, 0), Amount: 0.46},
			{Date: now.AddDate(0, -7, 0), Amount: 0.46},
			{Date: now.AddDate(0, -10, 0), Amount: 0.46},
		},
		assets: []models.Asset{{Symbol: "KO", Description: "Coca-Cola", Type: models.AssetStock}},
	}
	fallback := &stubProvider{name: "finnhub"}

	fetcher := usecase.NewDividendFetcher(
		[]usecase.Strategy{usecase.PrimaryStrategy(primary), usecase.FallbackStrategy(fallback)},
		nil, time.Minute, stubMetrics{}, nil, l)
	searcher := usecase.NewAssetSearcher(primary, fallback, l)
	market := usecase.NewMarketService(primary, fallback, l)
	news := usecase.NewNewsService(fallback, l)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	portfolios := usecase.NewPortfolioService(internalrepo.NewRedisPortfolioStore(client, ""), l)

	quota := &stubQuota{remaining: 3}
	plans := []config.Plan{
		{Name: "Casual", PriceID: "price_casual_monthly", Tier: "casual"},
		{Name: "Professional", PriceID: "price_professional_monthly", Tier: "professional"},
	}
	h := NewHandler(l, fetcher, searcher, market, news, portfolios,
		billingClient, quota, internalrepo.NoopLookupAudit{},
		Options{
			AdminToken:      "secret",
			BillingFallback: "https://divscout.app/pricing",
			LookupPlan: func(priceID string) (config.Plan, bool) {
				for _, p := range plans {
					if p.PriceID == priceID {
						return p, true
					}
				}
				return config.Plan{}, false
			},
		})

	e := echo.New()
	h.RegisterRoutes(e)
	return &testEnv{echo: e, primary: primary, quota: quota}
}

func (env *testEnv) do(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDividendDataEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/dividend-data?symbols=ko,%20pep", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 2)

	first := data[0].(map[string]interface{})
	assert.Equal(t, "KO", first["symbol"])
	assert.Equal(t, true, first["hasData"])
	assert.Equal(t, "primary", first["source"])
	assert.InDelta(t, 1.84, first["annualDividend"].(float64), 1e-9)
}

func TestDividendDataMissingSymbols(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/dividend-data", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/dividend-data?symbols=%20,%20", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/projection?symbols=KO&amount=10000", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.InDelta(t, 10000, body["totalInvestment"].(float64), 1e-9)
	calcs := body["calculations"].([]interface{})
	require.Len(t, calcs, 1)
	calc := calcs[0].(map[string]interface{})
	assert.InDelta(t, 10000.0/60, calc["shares"].(float64), 1e-6)
	assert.InDelta(t, 10000.0/60*1.84, calc["annualDividend"].(float64), 1e-6)

	// Amount must be positive.
	rec = env.do(http.MethodGet, "/api/projection?symbols=KO&amount=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchAssetsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/search-assets?q=coca", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "fmp", body["dataSource"])
}

func TestSearchAssetsRequiresAPIKey(t *testing.T) {
	env := newTestEnv(t)
	env.primary.configured = false

	rec := env.do(http.MethodGet, "/api/search-assets?q=coca", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["requiresApiKey"])
}

func TestAssetQuoteMockFlag(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/asset-quote?symbol=KO", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["mock"])

	env.primary.configured = false
	rec = env.do(http.MethodGet, "/api/asset-quote?symbol=KO", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["mock"])
}

func TestAssetProfileNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.primary.err = drepo.ErrNoData
	env.primary.profile = nil

	rec := env.do(http.MethodGet, "/api/asset-profile?symbol=ZZZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewsEndpointDemoFallback(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["demo"])
	assert.NotEmpty(t, body["articles"])
}

func TestPortfolioEndpoints(t *testing.T) {
	env := newTestEnv(t)
	hdr := map[string]string{ownerHeader: "alice"}

	rec := env.do(http.MethodPost, "/api/portfolios", `{"name":"Income 2026","totalAmount":10000}`, hdr)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	rec = env.do(http.MethodGet, "/api/portfolios", "", hdr)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, id, body["activeId"])
	assert.Len(t, body["portfolios"].([]interface{}), 1)

	// Another owner sees nothing.
	rec = env.do(http.MethodGet, "/api/portfolios", "", map[string]string{ownerHeader: "bob"})
	body = decode(t, rec)
	assert.Empty(t, body["portfolios"])

	rec = env.do(http.MethodPatch, "/api/portfolios/"+id, `{"name":"Renamed"}`, hdr)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodDelete, "/api/portfolios/"+id, "", hdr)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/portfolios", "", hdr)
	body = decode(t, rec)
	assert.Empty(t, body["portfolios"])
	assert.Equal(t, "", body["activeId"])

	// Name is required.
	rec = env.do(http.MethodPost, "/api/portfolios", `{"totalAmount":1}`, hdr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPortfolioInvalidNameIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	hdr := map[string]string{ownerHeader: "alice"}

	// Sanitizes to empty.
	rec := env.do(http.MethodPost, "/api/portfolios", `{"name":"<<>>"}`, hdr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/portfolios", `{"name":"Valid"}`, hdr)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	rec = env.do(http.MethodPatch, "/api/portfolios/"+id, `{"name":"<>"}`, hdr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	long := strings.Repeat("x", 101)
	rec = env.do(http.MethodPatch, "/api/portfolios/"+id, `{"name":"`+long+`"}`, hdr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutFallback(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/checkout/session",
		`{"priceId":"price_casual_monthly","planName":"Casual"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "https://divscout.app/pricing", body["fallbackUrl"])
	assert.NotEmpty(t, body["error"])
}

func TestCheckoutRejectsUnknownPriceID(t *testing.T) {
	var billingCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		billingCalls++
		w.Write([]byte(`{"id":"cs_1","url":"https://checkout.example.com/cs_1"}`))
	}))
	defer srv.Close()

	env := newTestEnvBilling(t, billing.New(srv.URL, "sk_test", time.Second))

	rec := env.do(http.MethodPost, "/api/checkout/session",
		`{"priceId":"price_bogus","planName":"NotAPlan"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, billingCalls, "unknown price ids never reach the billing provider")

	// A configured plan goes through, under the configured plan name.
	rec = env.do(http.MethodPost, "/api/checkout/session",
		`{"priceId":"price_professional_monthly","planName":"whatever"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://checkout.example.com/cs_1", decode(t, rec)["url"])
	assert.Equal(t, 1, billingCalls)
}

func TestConsumeAICredit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/ai/consume", `{"userId":"u1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec)["remaining"])

	env.quota.err = drepo.ErrQuotaExceeded
	rec = env.do(http.MethodPost, "/api/ai/consume", `{"userId":"u1"}`, nil)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	// Missing user id is rejected before touching the store.
	rec = env.do(http.MethodPost, "/api/ai/consume", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUsageAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/admin/usage", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/admin/usage", "", map[string]string{"X-Admin-Token": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/admin/usage", "", map[string]string{"X-Admin-Token": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(0), body["count"])
}
