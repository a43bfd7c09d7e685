package get_merchant_reservations

import (
	"context"

	"github.com/reservado/Reservado-BookingService/internal/domain"
)

type ReservationService interface {
	GetMerchantReservations(ctx context.Context, filter domain.MerchantReservationsFilter) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
