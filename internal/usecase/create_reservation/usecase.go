package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	catalogRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/catalog"
	"github.com/reservado/Reservado-BookingService/internal/service/payments"
	paymentModels "github.com/reservado/Reservado-BookingService/internal/service/payments/models"
	"github.com/reservado/Reservado-BookingService/pkg/lockkey"
	"github.com/reservado/Reservado-BookingService/pkg/money"
	"github.com/reservado/Reservado-BookingService/pkg/ptr"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

// UseCase creates a reservation: availability check and insert under the slot
// lock, deposit charge after commit.
type UseCase struct {
	reservationRepo ReservationRepository
	catalogRepo     CatalogRepository
	paymentService  PaymentService
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	reservationRepo ReservationRepository,
	catalogRepo CatalogRepository,
	paymentService PaymentService,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		catalogRepo:     catalogRepo,
		paymentService:  paymentService,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute runs the reservation pipeline. The serializable transaction plus
// the advisory slot lock guarantee that two concurrent requests for the same
// slot never both pass the availability check.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: merchant=%d, resource=%d, service=%d, date=%s",
		req.MerchantID, req.ResourceID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Validate the request shape.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Load merchant settings; a merchant without settings does not exist
	// from the engine's point of view.
	settings, err := uc.catalogRepo.GetMerchantSettings(ctx, req.MerchantID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrSettingsNotFound) {
			uc.logger.Warn("CreateReservation: merchant id=%d not found", req.MerchantID)
			return nil, ErrMerchantNotFound
		}
		uc.logger.Error("CreateReservation: failed to get merchant settings id=%d: %v", req.MerchantID, err)
		return nil, fmt.Errorf("%w: failed to get merchant settings: %v", ErrInternal, err)
	}

	// 3. Load the service offering.
	offering, err := uc.catalogRepo.GetServiceOffering(ctx, req.MerchantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrOfferingNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get offering id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service offering: %v", ErrInternal, err)
	}

	// 4. Load the resource.
	resource, err := uc.catalogRepo.GetResource(ctx, req.MerchantID, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateReservation: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 5. Resolve the slot times. Full-day priced services ignore any
	// submitted start time; timed services require one.
	var startTime, endTime *types.TimeString
	if !offering.FullDayPricing {
		if req.StartTime == nil {
			return nil, fmt.Errorf("%w: start time is required for this service", ErrInvalidInput)
		}
		st, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: start time must be HH:MM", ErrInvalidInput)
		}
		et, err := st.AddMinutes(offering.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: service does not fit in the booking date", ErrInvalidInput)
		}
		startTime, endTime = ptr.Ptr(st), ptr.Ptr(et)
	}

	// 6. Enforce the minimum booking notice.
	startsAt := scheduledAt(req.Date, startTime, now.Location())
	if err := validateBookingNotice(startsAt, now, settings.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateReservation: slot %s starts inside the %dmin notice window",
			startsAt.Format(time.RFC3339), settings.MinBookingNoticeMinutes)
		return nil, err
	}

	// 7. Price the booking.
	totalAmount := money.Round2(offering.Price)
	depositAmount := domain.ComputeDeposit(offering, settings, totalAmount)

	// 8. Build the windows: the booked interval and the buffered conflict
	// interval used for the availability check.
	var bookedWindow domain.Window
	if offering.FullDayPricing {
		bookedWindow = domain.FullDayWindow()
	} else {
		bookedWindow, err = domain.NewBookedWindow(*startTime, offering.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to build booking window: %v", ErrInternal, err)
		}
	}
	conflictWindow := bookedWindow.WithBuffers(offering.BufferBeforeMinutes, offering.BufferAfterMinutes)

	var result *domain.Reservation

	// 9. Availability check and insert under the slot lock.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Serialize on the (staff|resource, date) pair. Requests for
		// other slots proceed in parallel.
		key := lockkey.ForResourceSlot(req.ResourceID, req.Date)
		if req.StaffID != nil {
			key = lockkey.ForStaffSlot(*req.StaffID, req.Date)
		}
		if err := uc.reservationRepo.AcquireSlotLock(txCtx, key); err != nil {
			uc.logger.Error("CreateReservation: failed to acquire slot lock: %v", err)
			return fmt.Errorf("%w: failed to acquire slot lock: %v", ErrInternal, err)
		}

		// 9.2. Staff blocks veto the slot outright.
		if req.StaffID != nil {
			slotFrom := startsAt.Add(time.Duration(conflictWindow.Start-bookedWindow.Start) * time.Minute)
			slotTo := startsAt.Add(time.Duration(conflictWindow.End-bookedWindow.Start) * time.Minute)
			blocks, err := uc.catalogRepo.ListStaffBlocks(txCtx, *req.StaffID, slotFrom, slotTo)
			if err != nil {
				uc.logger.Error("CreateReservation: failed to list staff blocks: %v", err)
				return fmt.Errorf("%w: failed to list staff blocks: %v", ErrInternal, err)
			}
			for _, block := range blocks {
				if block.Covers(slotFrom, slotTo) {
					uc.logger.Warn("CreateReservation: staff id=%d blocked on %s",
						*req.StaffID, req.Date.Format(domain.DateFormat))
					return ErrStaffBlocked
				}
			}
		}

		// 9.3. Load the competing reservations with row locks.
		existing, err := uc.reservationRepo.ListActiveForSlot(txCtx, req.ResourceID, req.StaffID, req.Date)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to list active reservations: %v", err)
			return fmt.Errorf("%w: failed to list active reservations: %v", ErrInternal, err)
		}

		overlapping, err := uc.countOverlapping(txCtx, req.MerchantID, conflictWindow, existing, 0)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to count overlaps: %v", err)
			return fmt.Errorf("%w: failed to count overlaps: %v", ErrInternal, err)
		}

		// 9.4. Staff bookings are exclusive; resource bookings share the
		// resource's concurrency limit.
		capacity := 1
		if req.StaffID == nil {
			capacity = resource.MaxConcurrentBookings
		}
		if overlapping >= capacity {
			uc.incSlotConflict(conflictKind(req.StaffID))
			uc.logger.Warn("CreateReservation: slot not available, %d/%d spots taken", overlapping, capacity)
			return ErrSlotNotAvailable
		}

		// 9.5. Insert. A zero deposit confirms immediately; otherwise the
		// reservation waits on its payment deadline.
		reservation := &domain.Reservation{
			MerchantID:      req.MerchantID,
			ResourceID:      req.ResourceID,
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			BookingDate:     req.Date,
			StartTime:       startTime,
			EndTime:         endTime,
			DurationMinutes: offering.DurationMinutes,
			CustomerName:    req.CustomerName,
			CustomerPhone:   domain.NormalizePhone(req.CustomerPhone),
			CustomerEmail:   req.CustomerEmail,
			TotalAmount:     totalAmount,
			DepositAmount:   depositAmount,
			Status:          domain.InitialStatus(depositAmount),
			CustomerNotes:   req.CustomerNotes,
		}
		if depositAmount > 0 {
			expiresAt := now.Add(time.Duration(settings.DepositTTLMinutes) * time.Minute)
			reservation.DepositExpiresAt = &expiresAt
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.incReservationCreated(string(result.Status))
	uc.logger.Info("CreateReservation: created reservation id=%d status=%s deposit=%.2f",
		result.ID, result.Status, result.DepositAmount)

	// 10. Open the deposit charge outside the transaction. A gateway failure
	// leaves the reservation pending with its deadline; payment retry is the
	// recovery path and the sweeper the fallback.
	var attempt *paymentModels.PaymentAttempt
	if result.DepositAmount > 0 {
		attempt, err = uc.paymentService.CreateDeposit(ctx, result, settings)
		if err != nil {
			uc.logger.Error("CreateReservation: deposit charge failed for reservation=%d: %v", result.ID, err)
			if errors.Is(err, payments.ErrGateway) {
				return nil, fmt.Errorf("%w: reservation id=%d created", ErrPaymentGateway, result.ID)
			}
			return nil, fmt.Errorf("%w: failed to open deposit charge: %v", ErrInternal, err)
		}
	}

	return buildResponse(result, attempt), nil
}

func conflictKind(staffID *int64) string {
	if staffID != nil {
		return "staff"
	}
	return "resource"
}

func (uc *UseCase) incReservationCreated(status string) {
	if uc.metrics != nil {
		uc.metrics.IncReservationCreated(status)
	}
}

func (uc *UseCase) incSlotConflict(kind string) {
	if uc.metrics != nil {
		uc.metrics.IncSlotConflict(kind)
	}
}
