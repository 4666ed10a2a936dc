package usecase

import (
	"context"
	"errors"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	xlogger "DivScout/pkg/logger"
)

// ErrSearchUnavailable means no provider is configured at all; the handler
// maps it to 400 with requiresApiKey set.
var ErrSearchUnavailable = errors.New("asset search requires a provider api key")

// AssetSearcher runs symbol search with the same primary-then-fallback order
// as dividend resolution.
type AssetSearcher struct {
	primary  drepo.MarketData
	fallback drepo.MarketData
	logger   *xlogger.Logger
}

func NewAssetSearcher(primary, fallback drepo.MarketData, l *xlogger.Logger) *AssetSearcher {
	return &AssetSearcher{primary: primary, fallback: fallback, logger: l}
}

// Search returns matching assets and the name of the provider that answered.
func (s *AssetSearcher) Search(ctx context.Context, query string) ([]models.Asset, string, error) {
	if !s.primary.Configured() && !s.fallback.Configured() {
		return nil, "", ErrSearchUnavailable
	}

	if s.primary.Configured() {
		assets, err := s.primary.Search(ctx, query)
		if err == nil && len(assets) > 0 {
			return assets, s.primary.Name(), nil
		}
		if err != nil {
			s.logger.Warn("primary search failed",
				xlogger.String("provider", s.primary.Name()),
				xlogger.Error(err),
			)
		}
	}

	if s.fallback.Configured() {
		assets, err := s.fallback.Search(ctx, query)
		if err != nil {
			s.logger.Warn("fallback search failed",
				xlogger.String("provider", s.fallback.Name()),
				xlogger.Error(err),
			)
			return []models.Asset{}, "", nil
		}
		return assets, s.fallback.Name(), nil
	}

	return []models.Asset{}, "", nil
}
