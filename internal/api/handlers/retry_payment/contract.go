package retry_payment

import (
	"context"

	"github.com/reservado/Reservado-BookingService/internal/service/payments/models"
)

type PaymentService interface {
	RetryPayment(ctx context.Context, reservationID int64) (*models.PaymentAttempt, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
