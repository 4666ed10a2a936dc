package usecase

import (
	"context"
	"errors"
	"testing"

	"DivScout/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUnavailableWithoutProviders(t *testing.T) {
	primary := &fakeProvider{name: "fmp"}
	fallback := &fakeProvider{name: "finnhub"}
	s := NewAssetSearcher(primary, fallback, testLogger(t))

	_, _, err := s.Search(context.Background(), "coca")
	require.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestSearchPrefersPrimary(t *testing.T) {
	primary := &fakeProvider{
		name: "fmp", configured: true,
		searchAssets: []models.Asset{{Symbol: "KO", Description: "Coca-Cola", Type: models.AssetStock}},
	}
	fallback := &fakeProvider{name: "finnhub", configured: true}
	s := NewAssetSearcher(primary, fallback, testLogger(t))

	assets, source, err := s.Search(context.Background(), "coca")
	require.NoError(t, err)
	assert.Equal(t, "fmp", source)
	require.Len(t, assets, 1)
	assert.Equal(t, "KO", assets[0].Symbol)
}

func TestSearchFallsBackOnPrimaryError(t *testing.T) {
	primary := &fakeProvider{name: "fmp", configured: true, searchErr: errors.New("429")}
	fallback := &fakeProvider{
		name: "finnhub", configured: true,
		searchAssets: []models.Asset{{Symbol: "KO", Description: "Coca-Cola Co", Type: models.AssetStock}},
	}
	s := NewAssetSearcher(primary, fallback, testLogger(t))

	assets, source, err := s.Search(context.Background(), "coca")
	require.NoError(t, err)
	assert.Equal(t, "finnhub", source)
	require.Len(t, assets, 1)
}

func TestSearchEmptyWhenAllFail(t *testing.T) {
	primary := &fakeProvider{name: "fmp", configured: true, searchErr: errors.New("500")}
	fallback := &fakeProvider{name: "finnhub", configured: true, searchErr: errors.New("500")}
	s := NewAssetSearcher(primary, fallback, testLogger(t))

	assets, source, err := s.Search(context.Background(), "coca")
	require.NoError(t, err)
	assert.Empty(t, assets)
	assert.Empty(t, source)
}
