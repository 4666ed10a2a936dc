package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"DivScout/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNewsSource struct {
	configured bool
	company    []models.NewsArticle
	perSymbol  map[string][]models.NewsArticle
	failSymbol string
	category   []models.NewsArticle
	err        error
}

func (s *fakeNewsSource) Configured() bool { return s.configured }

func (s *fakeNewsSource) CompanyNews(_ context.Context, symbol string, _, _ time.Time) ([]models.NewsArticle, error) {
	if s.failSymbol != "" && symbol == s.failSymbol {
		return nil, errors.New("company news unavailable")
	}
	if s.perSymbol != nil {
		return s.perSymbol[symbol], nil
	}
	return s.company, s.err
}

func (s *fakeNewsSource) CategoryNews(context.Context, string) ([]models.NewsArticle, error) {
	return s.category, s.err
}

func TestNewsSentimentClassification(t *testing.T) {
	tests := []struct {
		text string
		want models.Sentiment
	}{
		{"Company beats estimates and raises dividend", models.SentimentPositive},
		{"Shares plunge after earnings miss", models.SentimentNegative},
		{"Quarterly report published on schedule", models.SentimentNeutral},
		{"Record profit despite lawsuit and layoff worries", models.SentimentNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifySentiment(tt.text), tt.text)
	}
}

func TestNewsEnrichment(t *testing.T) {
	now := time.Now()
	src := &fakeNewsSource{
		configured: true,
		company: []models.NewsArticle{
			{Headline: "KO raises dividend for 63rd year", PublishedAt: now.Add(-time.Hour)},
			{Headline: "Beverage sector outlook", PublishedAt: now.Add(-3 * time.Hour)},
		},
	}
	n := NewNewsService(src, testLogger(t))

	articles := n.Fetch(context.Background(), []string{"KO"}, "", 20)
	require.Len(t, articles, 2)

	assert.Equal(t, models.SentimentPositive, articles[0].Sentiment)
	assert.Contains(t, articles[0].Tickers, "KO")
	assert.Equal(t, "general", articles[0].Category)
	assert.NotContains(t, articles[1].Tickers, "KO")
	assert.True(t, articles[0].PublishedAt.After(articles[1].PublishedAt), "newest first")
}

func TestNewsDemoFallback(t *testing.T) {
	for _, src := range []*fakeNewsSource{
		{configured: false},
		{configured: true, err: errors.New("401")},
	} {
		n := NewNewsService(src, testLogger(t))
		articles := n.Fetch(context.Background(), nil, "general", 20)
		require.NotEmpty(t, articles)
		for _, a := range articles {
			assert.True(t, a.Demo)
		}
	}
}

func TestNewsPartialSymbolFailure(t *testing.T) {
	now := time.Now()
	src := &fakeNewsSource{
		configured: true,
		failSymbol: "PEP",
		perSymbol: map[string][]models.NewsArticle{
			"KO": {{Headline: "KO quarterly payout confirmed", PublishedAt: now.Add(-time.Hour)}},
		},
	}
	n := NewNewsService(src, testLogger(t))

	// PEP's failure drops only PEP; KO's articles are still served live.
	articles := n.Fetch(context.Background(), []string{"KO", "PEP"}, "general", 20)
	require.Len(t, articles, 1)
	assert.Equal(t, "KO quarterly payout confirmed", articles[0].Headline)
	assert.False(t, articles[0].Demo)

	// With every symbol failing there is nothing live left, so demo applies.
	src.failSymbol = "KO"
	src.perSymbol = nil
	src.err = errors.New("company news unavailable")
	articles = n.Fetch(context.Background(), []string{"KO"}, "general", 20)
	require.NotEmpty(t, articles)
	assert.True(t, articles[0].Demo)
}

func TestNewsLimit(t *testing.T) {
	n := NewNewsService(&fakeNewsSource{}, testLogger(t))
	articles := n.Fetch(context.Background(), nil, "general", 2)
	assert.Len(t, articles, 2)
}
