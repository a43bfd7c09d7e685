package create_reservation

import (
	"fmt"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

func validateRequest(req *Request) error {
	if req.MerchantID <= 0 {
		return fmt.Errorf("%w: merchant id must be positive", ErrInvalidInput)
	}
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resource id must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: booking date is required", ErrInvalidInput)
	}
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if domain.NormalizePhone(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	if req.StartTime != nil {
		if _, err := types.NewTimeStringFromString(*req.StartTime); err != nil {
			return fmt.Errorf("%w: start time must be HH:MM", ErrInvalidInput)
		}
	}
	return nil
}

// scheduledAt returns the absolute start instant of the requested slot.
// Full-day requests start at midnight of the booking date.
func scheduledAt(date time.Time, startTime *types.TimeString, loc *time.Location) time.Time {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if startTime == nil {
		return midnight
	}
	minutes, err := startTime.Minutes()
	if err != nil {
		return midnight
	}
	return midnight.Add(time.Duration(minutes) * time.Minute)
}

// validateBookingNotice rejects slots starting before the merchant's minimum
// booking notice. Past slots fail here too since they are always inside the
// notice horizon.
func validateBookingNotice(startsAt, now time.Time, minNoticeMinutes int) error {
	earliest := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	if startsAt.Before(earliest) {
		return ErrTooLateToBook
	}
	return nil
}
