package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	catalogRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/catalog"
)

// countOverlapping counts reservations whose conflict windows intersect the
// candidate's conflict window. Each reservation is widened by its own
// service's buffers, so a cleanup buffer on an existing booking blocks the
// adjacent slot just like one on the candidate does.
//
// excludeID skips one reservation (the row being rescheduled); 0 skips none.
func (uc *UseCase) countOverlapping(
	ctx context.Context,
	merchantID int64,
	candidate domain.Window,
	existing []*domain.Reservation,
	excludeID int64,
) (int, error) {
	// Buffer lookup cache keyed by service id; the offerings of the existing
	// rows are usually a handful per day.
	buffers := map[int64][2]int{}

	count := 0
	for _, res := range existing {
		if excludeID != 0 && res.ID == excludeID {
			continue
		}

		window, err := res.Window()
		if err != nil {
			return 0, fmt.Errorf("reservation id=%d has malformed time: %w", res.ID, err)
		}

		b, ok := buffers[res.ServiceID]
		if !ok {
			b, err = uc.offeringBuffers(ctx, merchantID, res.ServiceID)
			if err != nil {
				return 0, err
			}
			buffers[res.ServiceID] = b
		}

		if candidate.Overlaps(window.WithBuffers(b[0], b[1])) {
			count++
		}
	}
	return count, nil
}

// offeringBuffers returns the (before, after) buffers of a service. A service
// deleted after its reservations were made contributes no buffers.
func (uc *UseCase) offeringBuffers(ctx context.Context, merchantID, serviceID int64) ([2]int, error) {
	offering, err := uc.catalogRepo.GetServiceOffering(ctx, merchantID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrOfferingNotFound) {
			return [2]int{}, nil
		}
		return [2]int{}, fmt.Errorf("failed to load offering id=%d: %w", serviceID, err)
	}
	return [2]int{offering.BufferBeforeMinutes, offering.BufferAfterMinutes}, nil
}
