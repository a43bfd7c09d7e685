package payment_webhook

import (
	"context"

	"github.com/reservado/Reservado-BookingService/internal/integrations/gateway"
)

type PaymentService interface {
	Reconcile(ctx context.Context, provider, providerRef string, status gateway.Status) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
