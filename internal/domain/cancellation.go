package domain

import (
	"time"

	"github.com/reservado/Reservado-BookingService/pkg/money"
)

// RefundInfo reports the deposit amount eligible for refund on cancellation.
// Computing it moves no money; the payment collaborator acts on it.
type RefundInfo struct {
	EligibleAmount float64
	WithinDeadline bool
	HoursUntil     float64
}

// ComputeRefund applies the merchant cancellation policy: a cancellation at
// least deadlineHours before the scheduled start refunds refundPercentage of
// the deposit; anything later refunds nothing. Identical for staff- and
// customer-initiated cancellations.
func ComputeRefund(settings *MerchantSettings, scheduledAt, now time.Time, depositAmount float64) RefundInfo {
	hoursUntil := scheduledAt.Sub(now).Hours()

	if hoursUntil < float64(settings.CancellationDeadlineHours) {
		return RefundInfo{EligibleAmount: 0, WithinDeadline: false, HoursUntil: hoursUntil}
	}

	return RefundInfo{
		EligibleAmount: money.Percentage(depositAmount, settings.CancellationRefundPercentage),
		WithinDeadline: true,
		HoursUntil:     hoursUntil,
	}
}
