package usecase

import (
	"context"
	"errors"
	"math"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	xlogger "DivScout/pkg/logger"
)

// ErrProfileNotFound maps to 404 on the asset-profile endpoint.
var ErrProfileNotFound = errors.New("asset profile not found")

// MarketService serves single-asset quote and profile lookups with the usual
// primary-then-fallback order. Quotes degrade to a deterministic synthetic
// quote instead of failing; profiles report not-found.
type MarketService struct {
	primary  drepo.MarketData
	fallback drepo.MarketData
	logger   *xlogger.Logger
}

func NewMarketService(primary, fallback drepo.MarketData, l *xlogger.Logger) *MarketService {
	return &MarketService{primary: primary, fallback: fallback, logger: l}
}

// Quote returns a live quote, or a synthetic mock when no provider can answer.
// The bool reports whether the quote is synthetic.
func (m *MarketService) Quote(ctx context.Context, symbol string) (*models.Quote, bool) {
	for _, p := range []drepo.MarketData{m.primary, m.fallback} {
		if !p.Configured() {
			continue
		}
		q, err := p.Quote(ctx, symbol)
		if err == nil {
			return q, false
		}
		m.logger.Debug("quote lookup failed",
			xlogger.String("provider", p.Name()),
			xlogger.String("symbol", symbol),
			xlogger.Error(err),
		)
	}
	return mockQuote(symbol), true
}

// Profile returns the company profile or ErrProfileNotFound.
func (m *MarketService) Profile(ctx context.Context, symbol string) (*models.Profile, error) {
	for _, p := range []drepo.MarketData{m.primary, m.fallback} {
		if !p.Configured() {
			continue
		}
		prof, err := p.Profile(ctx, symbol)
		if err == nil {
			return prof, nil
		}
		if !errors.Is(err, drepo.ErrNoData) {
			m.logger.Warn("profile lookup failed",
				xlogger.String("provider", p.Name()),
				xlogger.String("symbol", symbol),
				xlogger.Error(err),
			)
		}
	}
	return nil, ErrProfileNotFound
}

// mockQuote derives a stable pseudo-price from the symbol so repeated demo
// requests render consistently.
func mockQuote(symbol string) *models.Quote {
	var h uint32
	for _, r := range symbol {
		h = h*31 + uint32(r)
	}
	price := 20 + float64(h%4800)/10.0 // 20.00 .. 499.90
	change := math.Round((float64(int32(h>>8)%500)/100.0-2.5)*100) / 100
	prev := math.Round((price-change)*100) / 100
	pct := 0.0
	if prev != 0 {
		pct = math.Round(change/prev*10000) / 100
	}
	return &models.Quote{
		Symbol:        symbol,
		Price:         math.Round(price*100) / 100,
		PreviousClose: prev,
		Change:        change,
		ChangePercent: pct,
	}
}
