package booking

import (
	"github.com/shopspring/decimal"

	"serviqo/config"
	"serviqo/models"
)

// priceBreakdown computes the fixed-point price components: the platform
// fee is a configured rate applied to service price plus travel fee, and
// the total is the sum of all three.
func priceBreakdown(servicePrice, travelFee float64) (svc, travel, fee, total models.Amount) {
	svc = models.AmountFromFloat(servicePrice)
	travel = models.AmountFromFloat(travelFee)
	fee, total = feeAndTotal(svc, travel)
	return svc, travel, fee, total
}

// feeAndTotal is the fixed-point core; amounts already in decimal form
// (quoted prices in particular) never round-trip through float64.
func feeAndTotal(svc, travel models.Amount) (fee, total models.Amount) {
	rate := decimal.NewFromFloat(config.AppConfig.PlatformFeeRate)
	fee = models.NewAmount(svc.Add(travel.Decimal).Mul(rate).Round(2))
	total = models.NewAmount(svc.Add(travel.Decimal).Add(fee.Decimal).Round(2))
	return fee, total
}
