package models

// Request structs are bound from query/body by echo and validated via
// go-playground/validator; defaults come from creasty/defaults tags.

type DividendDataRequest struct {
	Symbols string `query:"symbols" validate:"required"`
}

type ProjectionRequest struct {
	Symbols string  `query:"symbols" validate:"required"`
	Amount  float64 `query:"amount" validate:"required,gt=0"`
}

type SearchRequest struct {
	Q string `query:"q" validate:"required,min=2"`
}

type SymbolRequest struct {
	Symbol string `query:"symbol" validate:"required,min=1,max=12"`
}

type NewsRequest struct {
	Symbols  string `query:"symbols"`
	Category string `query:"category" default:"general"`
	Limit    int    `query:"limit" default:"20" validate:"gte=1,lte=50"`
}

type CreatePortfolioRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=500"`
	TotalAmount float64 `json:"totalAmount" validate:"gte=0"`
}

type CheckoutRequest struct {
	PriceID  string `json:"priceId" validate:"required"`
	PlanName string `json:"planName" validate:"required"`
}

type ConsumeRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// SearchResponse is the search-assets payload shape.
type SearchResponse struct {
	Count          int     `json:"count"`
	Result         []Asset `json:"result"`
	DataSource     string  `json:"dataSource"`
	Message        string  `json:"message,omitempty"`
	RequiresAPIKey bool    `json:"requiresApiKey,omitempty"`
}
