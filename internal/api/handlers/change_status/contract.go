package change_status

import (
	"context"

	"github.com/reservado/Reservado-BookingService/internal/service/reservations/models"
)

type ReservationService interface {
	ChangeStatus(ctx context.Context, params models.ChangeStatusParams) (*models.StatusChange, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
