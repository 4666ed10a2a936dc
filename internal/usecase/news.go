package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"DivScout/internal/domain/models"
	drepo "DivScout/internal/domain/repository"
	xlogger "DivScout/pkg/logger"
)

var positiveWords = []string{
	"beat", "beats", "raise", "raises", "record", "growth", "surge", "gain",
	"upgrade", "strong", "profit", "dividend increase", "outperform", "rally",
}

var negativeWords = []string{
	"miss", "misses", "cut", "cuts", "drop", "fall", "falls", "loss", "losses",
	"downgrade", "weak", "lawsuit", "layoff", "recall", "plunge", "warning",
}

// NewsService fetches market news from the configured news source, enriches
// each article with sentiment, category and ticker tags, and degrades to a
// fixed demo dataset whenever the source is missing or failing.
type NewsService struct {
	source drepo.NewsSource
	logger *xlogger.Logger
	now    func() time.Time
}

func NewNewsService(source drepo.NewsSource, l *xlogger.Logger) *NewsService {
	return &NewsService{source: source, logger: l, now: time.Now}
}

// Fetch returns enriched articles for the given symbols (company news) or a
// category feed. Never fails; any upstream problem yields the demo set.
func (n *NewsService) Fetch(ctx context.Context, symbols []string, category string, limit int) []models.NewsArticle {
	if category == "" {
		category = "general"
	}
	if limit <= 0 {
		limit = 20
	}

	articles := n.fetchRaw(ctx, symbols, category)
	if articles == nil {
		articles = demoArticles(n.now().UTC())
	}

	for i := range articles {
		a := &articles[i]
		a.Sentiment = classifySentiment(a.Headline + " " + a.Summary)
		if a.Category == "" {
			a.Category = category
		}
		a.Tickers = tagTickers(a, symbols)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}

func (n *NewsService) fetchRaw(ctx context.Context, symbols []string, category string) []models.NewsArticle {
	if n.source == nil || !n.source.Configured() {
		return nil
	}

	if len(symbols) == 0 {
		articles, err := n.source.CategoryNews(ctx, category)
		if err != nil {
			n.logger.Warn("category news failed", xlogger.Error(err))
			return nil
		}
		return articles
	}

	// One symbol's failure drops only that symbol; whatever the others
	// produced is still served. All-failed reads as nil and the caller
	// falls back to the demo set.
	to := n.now()
	from := to.AddDate(0, 0, -7)
	var out []models.NewsArticle
	for _, sym := range symbols {
		articles, err := n.source.CompanyNews(ctx, sym, from, to)
		if err != nil {
			n.logger.Warn("company news failed",
				xlogger.String("symbol", sym),
				xlogger.Error(err),
			)
			continue
		}
		out = append(out, articles...)
	}
	return out
}

func classifySentiment(text string) models.Sentiment {
	t := strings.ToLower(text)
	score := 0
	for _, w := range positiveWords {
		if strings.Contains(t, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(t, w) {
			score--
		}
	}
	switch {
	case score > 0:
		return models.SentimentPositive
	case score < 0:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// tagTickers keeps provider-supplied tags and adds any requested symbol
// mentioned in the headline.
func tagTickers(a *models.NewsArticle, symbols []string) []string {
	seen := make(map[string]struct{}, len(a.Tickers))
	out := make([]string, 0, len(a.Tickers))
	for _, t := range a.Tickers {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	upper := strings.ToUpper(a.Headline)
	for _, sym := range symbols {
		if _, dup := seen[sym]; dup {
			continue
		}
		if strings.Contains(upper, sym) {
			seen[sym] = struct{}{}
			out = append(out, sym)
		}
	}
	return out
}

// demoArticles is the fixed dataset served when no live news is available.
func demoArticles(now time.Time) []models.NewsArticle {
	return []models.NewsArticle{
		{
			ID:          "demo-1",
			Headline:    "Dividend aristocrats raise payouts for 25th consecutive year",
			Summary:     "A broad group of S&P 500 companies announced dividend increases this quarter, extending multi-decade growth streaks.",
			Source:      "DivScout Demo",
			URL:         "https://example.com/demo/aristocrats",
			PublishedAt: now.Add(-2 * time.Hour),
			Category:    "general",
			Tickers:     []string{"KO", "JNJ", "PG"},
			Demo:        true,
		},
		{
			ID:          "demo-2",
			Headline:    "REIT sector yields climb as rates stabilize",
			Summary:     "Monthly-payer REITs saw yields drift higher, drawing income-focused investors back into the sector.",
			Source:      "DivScout Demo",
			URL:         "https://example.com/demo/reits",
			PublishedAt: now.Add(-5 * time.Hour),
			Category:    "general",
			Tickers:     []string{"O", "STAG"},
			Demo:        true,
		},
		{
			ID:          "demo-3",
			Headline:    "Tech giant announces first-ever dividend alongside record earnings",
			Summary:     "The company beat estimates and initiated a quarterly payout, joining the ranks of dividend-paying large caps.",
			Source:      "DivScout Demo",
			URL:         "https://example.com/demo/tech-dividend",
			PublishedAt: now.Add(-8 * time.Hour),
			Category:    "technology",
			Tickers:     []string{"META"},
			Demo:        true,
		},
		{
			ID:          "demo-4",
			Headline:    "Utility stocks under pressure after regulator cuts allowed returns",
			Summary:     "Shares of several regulated utilities fell as a state commission trimmed rate-case outcomes.",
			Source:      "DivScout Demo",
			URL:         "https://example.com/demo/utilities",
			PublishedAt: now.Add(-11 * time.Hour),
			Category:    "general",
			Tickers:     []string{"SO", "DUK"},
			Demo:        true,
		},
	}
}
