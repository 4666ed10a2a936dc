package usecase

import (
	"context"
	"errors"
	"testing"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteLive(t *testing.T) {
	primary := &fakeProvider{
		name: "fmp", configured: true,
		quote: &models.Quote{Symbol: "KO", Price: 61.2},
	}
	m := NewMarketService(primary, &fakeProvider{name: "finnhub"}, testLogger(t))

	q, synthetic := m.Quote(context.Background(), "KO")
	assert.False(t, synthetic)
	assert.Equal(t, 61.2, q.Price)
}

func TestQuoteSyntheticFallback(t *testing.T) {
	primary := &fakeProvider{name: "fmp", configured: true, quoteErr: errors.New("500")}
	fallback := &fakeProvider{name: "finnhub", configured: true, quoteErr: drepo.ErrNoData}
	m := NewMarketService(primary, fallback, testLogger(t))

	q1, synthetic := m.Quote(context.Background(), "FAKE")
	require.True(t, synthetic)
	assert.Equal(t, "FAKE", q1.Symbol)
	assert.GreaterOrEqual(t, q1.Price, 20.0)
	assert.LessOrEqual(t, q1.Price, 499.9)

	// Synthetic quotes are stable across calls for the same symbol.
	q2, _ := m.Quote(context.Background(), "FAKE")
	assert.Equal(t, q1, q2)

	// And different symbols get their own price.
	q3, _ := m.Quote(context.Background(), "OTHER")
	assert.NotEqual(t, q1.Price, q3.Price)
}

func TestProfileNotFound(t *testing.T) {
	primary := &fakeProvider{name: "fmp", configured: true, profileErr: drepo.ErrNoData}
	fallback := &fakeProvider{name: "finnhub"}
	m := NewMarketService(primary, fallback, testLogger(t))

	_, err := m.Profile(context.Background(), "FAKE")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileFallback(t *testing.T) {
	primary := &fakeProvider{name: "fmp", configured: true, profileErr: drepo.ErrNoData}
	fallback := &fakeProvider{
		name: "finnhub", configured: true,
		profile: &models.Profile{Symbol: "KO", CompanyName: "Coca-Cola"},
	}
	m := NewMarketService(primary, fallback, testLogger(t))

	p, err := m.Profile(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, "Coca-Cola", p.CompanyName)
}
