package models

// DividendCalculation is the per-asset projection derived from a
// DividendRecord and an allocated investment amount.
type DividendCalculation struct {
	Symbol           string  `json:"symbol"`
	CompanyName      string  `json:"companyName"`
	InvestmentAmount float64 `json:"investmentAmount"`
	Shares           float64 `json:"shares"`
	AnnualDividend   float64 `json:"annualDividend"`
	MonthlyDividend  float64 `json:"monthlyDividend"`
	DividendYield    float64 `json:"dividendYield"`
	Price            float64 `json:"price"`
	HasData          bool    `json:"hasData"`
	Error            string  `json:"error,omitempty"`
}

// ProjectionResult aggregates per-asset calculations for one investment.
type ProjectionResult struct {
	Calculations         []DividendCalculation `json:"calculations"`
	TotalAnnualDividend  float64               `json:"totalAnnualDividend"`
	TotalMonthlyDividend float64               `json:"totalMonthlyDividend"`
	TotalInvestment      float64               `json:"totalInvestment"`
	AverageYield         float64               `json:"averageYield"`
}
