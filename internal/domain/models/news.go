package models

import "time"

// Sentiment is a coarse keyword-derived article mood.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NewsArticle is an enriched market news item.
type NewsArticle struct {
	ID          string    `json:"id"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category"`
	Sentiment   Sentiment `json:"sentiment"`
	Tickers     []string  `json:"tickers"`
	Demo        bool      `json:"demo,omitempty"`
}
