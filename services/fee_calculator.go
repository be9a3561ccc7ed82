package services

import (
	"math"

	"instalapro-backend/models"
)

const (
	IVARate        = 0.16
	CommissionRate = 0.20
)

// floor2 truncates to cents. Used for the commission split and the tax
// back-out so neither is ever overstated.
func floor2(x float64) float64 {
	return math.Floor(x*100) / 100
}

// round2 rounds half-up to cents. Used only for the displayed IVA line.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// FeeResult is the full output of a fee calculation: the line items
// with their derived splits, plus the three breakdown views.
type FeeResult struct {
	JobDetails []models.JobDetail
	Subtotals  models.FeeBreakdown
	IVA        models.FeeBreakdown
	Totals     models.FeeBreakdown
}

// CalculateFees derives the commission split per line item and the
// aggregate subtotal/IVA/total views from tax-inclusive installation
// fees. Pure: same input, same output, no I/O.
//
// The stored totals are always subtotals + iva recombined per
// component. Because the subtotal truncates the tax back-out, the
// recombined total can sit up to one cent below the raw input sum;
// that drift is accepted and asserted in tests.
func CalculateFees(jobDetails []models.JobDetail) FeeResult {
	details := make([]models.JobDetail, len(jobDetails))
	var raw models.FeeBreakdown

	for i, detail := range jobDetails {
		detail.CommissionFee = floor2(detail.InstallationServiceFee * CommissionRate)
		detail.InstallerPayment = detail.InstallationServiceFee - detail.CommissionFee

		raw.InstallationServiceFee += detail.InstallationServiceFee
		raw.CommissionFee += detail.CommissionFee
		raw.InstallerPayment += detail.InstallerPayment

		details[i] = detail
	}

	subtotals := mapBreakdown(raw, func(v float64) float64 {
		return floor2(v / (1 + IVARate))
	})
	iva := mapBreakdown(subtotals, func(v float64) float64 {
		return round2(v * IVARate)
	})
	totals := models.FeeBreakdown{
		InstallationServiceFee: round2(subtotals.InstallationServiceFee + iva.InstallationServiceFee),
		CommissionFee:          round2(subtotals.CommissionFee + iva.CommissionFee),
		InstallerPayment:       round2(subtotals.InstallerPayment + iva.InstallerPayment),
	}

	return FeeResult{
		JobDetails: details,
		Subtotals:  subtotals,
		IVA:        iva,
		Totals:     totals,
	}
}

func mapBreakdown(b models.FeeBreakdown, f func(float64) float64) models.FeeBreakdown {
	return models.FeeBreakdown{
		InstallationServiceFee: f(b.InstallationServiceFee),
		CommissionFee:          f(b.CommissionFee),
		InstallerPayment:       f(b.InstallerPayment),
	}
}
