package service

import "github.com/shopspring/decimal"

// CalculateRightOfUseAsset adds initial direct costs to the liability and
// deducts lease incentives received.
func CalculateRightOfUseAsset(liability, initialDirectCosts, incentives decimal.Decimal) decimal.Decimal {
	return liability.Add(initialDirectCosts).Sub(incentives)
}
