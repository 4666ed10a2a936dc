package models

import "time"

// PortfolioAsset is a holding owned by its parent portfolio. Allocation is a
// percentage in [0,100]; CustomAmount overrides the equal-weight split when set.
type PortfolioAsset struct {
	Asset
	Allocation   float64  `json:"allocation"`
	CustomAmount *float64 `json:"customAmount,omitempty"`
}

// Portfolio is a named collection of holdings.
type Portfolio struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	TotalAmount float64          `json:"totalAmount"`
	Assets      []PortfolioAsset `json:"assets"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PortfolioPatch carries partial updates; nil fields are left untouched.
type PortfolioPatch struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	TotalAmount *float64          `json:"totalAmount,omitempty"`
	Assets      *[]PortfolioAsset `json:"assets,omitempty"`
}
