package usecase

import "DivScout/internal/domain/models"

// Project computes dividend income for an equal-weight split of
// totalInvestment across the given records. Equal weighting is a deliberate
// simplification; allocation is not price- or market-cap-weighted.
//
// Records without data still yield a zeroed calculation carrying the original
// error, so callers can render the asset instead of dropping it. Pure function:
// identical inputs produce identical outputs.
func Project(records []models.DividendRecord, totalInvestment float64) models.ProjectionResult {
	result := models.ProjectionResult{
		Calculations:    make([]models.DividendCalculation, 0, len(records)),
		TotalInvestment: totalInvestment,
	}
	if len(records) == 0 {
		return result
	}

	perAsset := totalInvestment / float64(len(records))

	for _, rec := range records {
		calc := models.DividendCalculation{
			Symbol:           rec.Symbol,
			CompanyName:      rec.CompanyName,
			InvestmentAmount: perAsset,
			Price:            rec.Price,
			DividendYield:    rec.DividendYield,
			HasData:          rec.HasData,
			Error:            rec.Error,
		}
		if rec.Price > 0 {
			calc.Shares = perAsset / rec.Price
			calc.AnnualDividend = calc.Shares * rec.AnnualDividend
			calc.MonthlyDividend = calc.AnnualDividend / 12
		}
		result.TotalAnnualDividend += calc.AnnualDividend
		result.Calculations = append(result.Calculations, calc)
	}

	result.TotalMonthlyDividend = result.TotalAnnualDividend / 12
	if totalInvestment > 0 {
		result.AverageYield = result.TotalAnnualDividend / totalInvestment * 100
	}
	return result
}
