package reschedule_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	catalogRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/catalog"
	reservationRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/reservation"
	"github.com/reservado/Reservado-BookingService/pkg/lockkey"
	"github.com/reservado/Reservado-BookingService/pkg/ptr"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

// UseCase moves a reservation to a new slot. The new slot goes through the
// same availability pipeline as creation, with the reservation's own row
// excluded from the conflict count. Price and deposit are untouched: a
// reschedule is the same sale at a different time.
type UseCase struct {
	reservationRepo ReservationRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	reservationRepo ReservationRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute runs the reschedule pipeline.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleReservation: reservation=%d, merchant=%d, date=%s",
		req.ReservationID, req.MerchantID, req.Date.Format(domain.DateFormat))

	// 1. Validate the request shape.
	if req.ReservationID <= 0 || req.MerchantID <= 0 {
		return nil, fmt.Errorf("%w: reservation and merchant ids must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: booking date is required", ErrInvalidInput)
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staff id must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Merchant settings for the notice policy.
	settings, err := uc.catalogRepo.GetMerchantSettings(ctx, req.MerchantID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrSettingsNotFound) {
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("RescheduleReservation: failed to get merchant settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get merchant settings: %v", ErrInternal, err)
	}

	var result *domain.Reservation

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3. Load the reservation with a row lock and check ownership.
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			uc.logger.Error("RescheduleReservation: failed to load reservation: %v", err)
			return fmt.Errorf("%w: failed to load reservation: %v", ErrInternal, err)
		}
		if res.MerchantID != req.MerchantID {
			return ErrReservationNotFound
		}
		if !res.CanReschedule() {
			uc.logger.Warn("RescheduleReservation: reservation=%d is %s, cannot reschedule",
				res.ID, res.Status)
			return ErrNotReschedulable
		}

		// 4. Buffers and full-day flag come from the booked service.
		offering, err := uc.catalogRepo.GetServiceOffering(txCtx, res.MerchantID, res.ServiceID)
		if err != nil {
			uc.logger.Error("RescheduleReservation: failed to get offering id=%d: %v", res.ServiceID, err)
			return fmt.Errorf("%w: failed to get service offering: %v", ErrInternal, err)
		}

		// 5. Resolve the new slot times.
		var startTime, endTime *types.TimeString
		if !offering.FullDayPricing {
			if req.StartTime == nil {
				return fmt.Errorf("%w: start time is required for this service", ErrInvalidInput)
			}
			st, err := types.NewTimeStringFromString(*req.StartTime)
			if err != nil {
				return fmt.Errorf("%w: start time must be HH:MM", ErrInvalidInput)
			}
			et, err := st.AddMinutes(res.DurationMinutes)
			if err != nil {
				return fmt.Errorf("%w: service does not fit in the booking date", ErrInvalidInput)
			}
			startTime, endTime = ptr.Ptr(st), ptr.Ptr(et)
		} else if req.StartTime != nil {
			return fmt.Errorf("%w: full-day services take no start time", ErrInvalidInput)
		}

		staffID := res.StaffID
		if req.StaffID != nil {
			staffID = req.StaffID
		}

		// 6. Enforce the minimum booking notice on the new slot.
		startsAt := slotInstant(req.Date, startTime, now.Location())
		earliest := now.Add(time.Duration(settings.MinBookingNoticeMinutes) * time.Minute)
		if startsAt.Before(earliest) {
			return ErrTooLateToBook
		}

		// 7. Windows for the availability check.
		var bookedWindow domain.Window
		if offering.FullDayPricing {
			bookedWindow = domain.FullDayWindow()
		} else {
			bookedWindow, err = domain.NewBookedWindow(*startTime, res.DurationMinutes)
			if err != nil {
				return fmt.Errorf("%w: failed to build booking window: %v", ErrInternal, err)
			}
		}
		conflictWindow := bookedWindow.WithBuffers(offering.BufferBeforeMinutes, offering.BufferAfterMinutes)

		// 8. Serialize on the target slot.
		key := lockkey.ForResourceSlot(res.ResourceID, req.Date)
		if staffID != nil {
			key = lockkey.ForStaffSlot(*staffID, req.Date)
		}
		if err := uc.reservationRepo.AcquireSlotLock(txCtx, key); err != nil {
			uc.logger.Error("RescheduleReservation: failed to acquire slot lock: %v", err)
			return fmt.Errorf("%w: failed to acquire slot lock: %v", ErrInternal, err)
		}

		// 9. Staff blocks veto the new slot.
		if staffID != nil {
			slotFrom := startsAt.Add(time.Duration(conflictWindow.Start-bookedWindow.Start) * time.Minute)
			slotTo := startsAt.Add(time.Duration(conflictWindow.End-bookedWindow.Start) * time.Minute)
			blocks, err := uc.catalogRepo.ListStaffBlocks(txCtx, *staffID, slotFrom, slotTo)
			if err != nil {
				uc.logger.Error("RescheduleReservation: failed to list staff blocks: %v", err)
				return fmt.Errorf("%w: failed to list staff blocks: %v", ErrInternal, err)
			}
			for _, block := range blocks {
				if block.Covers(slotFrom, slotTo) {
					return ErrStaffBlocked
				}
			}
		}

		// 10. Conflict count excluding the reservation's own row.
		existing, err := uc.reservationRepo.ListActiveForSlot(txCtx, res.ResourceID, staffID, req.Date)
		if err != nil {
			uc.logger.Error("RescheduleReservation: failed to list active reservations: %v", err)
			return fmt.Errorf("%w: failed to list active reservations: %v", ErrInternal, err)
		}
		overlapping, err := uc.countOverlapping(txCtx, res.MerchantID, conflictWindow, existing, res.ID)
		if err != nil {
			uc.logger.Error("RescheduleReservation: failed to count overlaps: %v", err)
			return fmt.Errorf("%w: failed to count overlaps: %v", ErrInternal, err)
		}

		capacity := 1
		if staffID == nil {
			resource, err := uc.catalogRepo.GetResource(txCtx, res.MerchantID, res.ResourceID)
			if err != nil {
				uc.logger.Error("RescheduleReservation: failed to get resource: %v", err)
				return fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
			}
			capacity = resource.MaxConcurrentBookings
		}
		if overlapping >= capacity {
			uc.incSlotConflict(conflictKind(staffID))
			uc.logger.Warn("RescheduleReservation: slot not available, %d/%d spots taken", overlapping, capacity)
			return ErrSlotNotAvailable
		}

		// 11. Persist the move.
		if err := uc.reservationRepo.UpdateSchedule(txCtx, res.ID, req.Date, startTime, endTime, staffID); err != nil {
			uc.logger.Error("RescheduleReservation: failed to update schedule: %v", err)
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		res.BookingDate = req.Date
		res.StartTime = startTime
		res.EndTime = endTime
		res.StaffID = staffID
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleReservation: reservation=%d moved to %s %v",
		result.ID, result.BookingDate.Format(domain.DateFormat), result.StartTime)
	return buildResponse(result), nil
}

// countOverlapping counts reservations whose buffered windows intersect the
// candidate window, skipping the row being moved.
func (uc *UseCase) countOverlapping(
	ctx context.Context,
	merchantID int64,
	candidate domain.Window,
	existing []*domain.Reservation,
	excludeID int64,
) (int, error) {
	buffers := map[int64][2]int{}

	count := 0
	for _, res := range existing {
		if res.ID == excludeID {
			continue
		}

		window, err := res.Window()
		if err != nil {
			return 0, fmt.Errorf("reservation id=%d has malformed time: %w", res.ID, err)
		}

		b, ok := buffers[res.ServiceID]
		if !ok {
			offering, err := uc.catalogRepo.GetServiceOffering(ctx, merchantID, res.ServiceID)
			switch {
			case errors.Is(err, catalogRepo.ErrOfferingNotFound):
				b = [2]int{}
			case err != nil:
				return 0, fmt.Errorf("failed to load offering id=%d: %w", res.ServiceID, err)
			default:
				b = [2]int{offering.BufferBeforeMinutes, offering.BufferAfterMinutes}
			}
			buffers[res.ServiceID] = b
		}

		if candidate.Overlaps(window.WithBuffers(b[0], b[1])) {
			count++
		}
	}
	return count, nil
}

// slotInstant returns the absolute start instant of the slot; full-day slots
// start at midnight of the booking date.
func slotInstant(date time.Time, startTime *types.TimeString, loc *time.Location) time.Time {
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

func conflictKind(staffID *int64) string {
	if staffID != nil {
		return "staff"
	}
	return "resource"
}

func (uc *UseCase) incSlotConflict(kind string) {
	if uc.metrics != nil {
		uc.metrics.IncSlotConflict(kind)
	}
}
