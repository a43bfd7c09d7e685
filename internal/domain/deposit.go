package domain

import "github.com/reservado/Reservado-BookingService/pkg/money"

// ComputeDeposit returns the up-front amount required to hold a reservation.
//
// Priority chain, first match wins:
//  1. service-level fixed amount
//  2. service-level percentage of the total
//  3. merchant-level percentage (when the merchant requires deposits)
//  4. zero
//
// The result is rounded to two decimals and never exceeds the total.
func ComputeDeposit(offering *ServiceOffering, settings *MerchantSettings, totalAmount float64) float64 {
	deposit := 0.0

	switch {
	case offering.DepositFixedAmount != nil:
		deposit = money.Round2(*offering.DepositFixedAmount)
	case offering.DepositPercentage != nil:
		deposit = money.Percentage(totalAmount, *offering.DepositPercentage)
	case settings.RequireDeposit:
		deposit = money.Percentage(totalAmount, settings.DepositPercentage)
	}

	if deposit > totalAmount {
		deposit = totalAmount
	}
	if deposit < 0 {
		deposit = 0
	}
	return deposit
}
