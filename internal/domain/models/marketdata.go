package models

import "time"

// AssetType classifies a search result.
type AssetType string

const (
	AssetStock   AssetType = "Stock"
	AssetETF     AssetType = "ETF"
	AssetUnknown AssetType = "Unknown"
)

// Asset is a search result reference, immutable once returned.
type Asset struct {
	Symbol        string    `json:"symbol"`
	Description   string    `json:"description"`
	DisplaySymbol string    `json:"displaySymbol"`
	Type          AssetType `json:"type"`
	Currency      string    `json:"currency,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
}

// Quote is a provider-neutral price snapshot.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// Profile is a provider-neutral company profile.
type Profile struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
	Currency    string `json:"currency"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Exchange    string `json:"exchange,omitempty"`
}

// DividendEvent is a single historical dividend payment.
type DividendEvent struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// DataSource tags which provider produced a record.
type DataSource string

const (
	SourcePrimary  DataSource = "primary"
	SourceFallback DataSource = "fallback"
	SourceNone     DataSource = "none"
)

// DividendRecord is the canonical per-symbol snapshot used internally
// regardless of data source. HasData is true iff a provider returned a
// positive price; otherwise all financial fields are zero and Error is set.
type DividendRecord struct {
	Symbol         string     `json:"symbol"`
	Price          float64    `json:"price"`
	PreviousClose  float64    `json:"previousClose"`
	Change         float64    `json:"change"`
	ChangePercent  float64    `json:"changePercent"`
	AnnualDividend float64    `json:"annualDividend"`
	DividendYield  float64    `json:"dividendYield"`
	CompanyName    string     `json:"companyName"`
	Currency       string     `json:"currency"`
	LastUpdated    time.Time  `json:"lastUpdated"`
	HasData        bool       `json:"hasData"`
	Source         DataSource `json:"source"`
	Error          string     `json:"error,omitempty"`
}

// NoDataRecord builds the canonical "no data" record for a symbol.
func NoDataRecord(symbol, reason string, now time.Time) DividendRecord {
	return DividendRecord{
		Symbol:      symbol,
		CompanyName: symbol,
		Currency:    "USD",
		LastUpdated: now,
		HasData:     false,
		Source:      SourceNone,
		Error:       reason,
	}
}
