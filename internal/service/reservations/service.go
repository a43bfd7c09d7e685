package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	reservationRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/reservation"
	"github.com/reservado/Reservado-BookingService/internal/service/reservations/models"
)

// Service covers reservation reads and the status machine: lookups, merchant
// listings and status transitions with the cancellation refund policy.
type Service struct {
	reservations ReservationRepository
	payments     PaymentRepository
	catalog      CatalogRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService creates the reservation service.
func NewService(
	reservations ReservationRepository,
	payments PaymentRepository,
	catalog CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservations: reservations,
		payments:     payments,
		catalog:      catalog,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID loads one reservation scoped to a merchant. A reservation owned by
// another merchant is reported as not found, never as forbidden.
func (s *Service) GetByID(ctx context.Context, id, merchantID int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: failed to load reservation=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - load reservation: %v", ErrInternal, err)
	}
	if res.MerchantID != merchantID {
		return nil, ErrReservationNotFound
	}
	return res, nil
}

// GetMerchantReservations lists reservations matching the filter. Customer
// phone filters are matched on the normalized digits-only form.
func (s *Service) GetMerchantReservations(ctx context.Context, filter domain.MerchantReservationsFilter) ([]*domain.Reservation, error) {
	if filter.CustomerPhone != nil {
		normalized := domain.NormalizePhone(*filter.CustomerPhone)
		filter.CustomerPhone = &normalized
	}

	list, err := s.reservations.GetByMerchantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetMerchantReservations: failed for merchant=%d: %v", filter.MerchantID, err)
		return nil, fmt.Errorf("%w: GetMerchantReservations - list reservations: %v", ErrInternal, err)
	}
	return list, nil
}

// ChangeStatus moves a reservation through the status machine. Cancellations
// additionally compute refund eligibility and retire open payment attempts.
// Customers may only cancel their own reservation; every other transition is
// merchant-side.
func (s *Service) ChangeStatus(ctx context.Context, params models.ChangeStatusParams) (*models.StatusChange, error) {
	if _, err := domain.ParseReservationStatus(string(params.NewStatus)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, params.NewStatus)
	}
	if params.Actor == models.ActorCustomer && params.NewStatus != domain.StatusCancelled {
		return nil, ErrForbidden
	}

	var result *models.StatusChange

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.reservations.GetByID(txCtx, params.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: ChangeStatus - load reservation: %v", ErrInternal, err)
		}
		if res.MerchantID != params.MerchantID {
			return ErrReservationNotFound
		}

		if params.Actor == models.ActorCustomer &&
			!domain.SamePhone(res.CustomerPhone, params.CustomerPhone) {
			return ErrForbidden
		}

		if err := domain.CheckTransition(res.Status, params.NewStatus); err != nil {
			// InvalidTransitionError carries the from/to pair for the caller.
			return err
		}

		if params.NewStatus == domain.StatusCancelled {
			result, err = s.cancel(txCtx, res, params)
			return err
		}

		if err := s.reservations.UpdateStatus(txCtx, res.ID, params.NewStatus); err != nil {
			return fmt.Errorf("%w: ChangeStatus - update status: %v", ErrInternal, err)
		}
		res.Status = params.NewStatus
		result = &models.StatusChange{Reservation: res}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ChangeStatus: reservation=%d now %s (actor=%s)",
		params.ReservationID, params.NewStatus, params.Actor)
	return result, nil
}

// cancel applies the cancellation inside the caller's transaction: compute
// refund eligibility, persist the cancellation, expire open attempts.
func (s *Service) cancel(ctx context.Context, res *domain.Reservation, params models.ChangeStatusParams) (*models.StatusChange, error) {
	settings, err := s.catalog.GetMerchantSettings(ctx, res.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("%w: cancel - load merchant settings: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	refund := domain.ComputeRefund(settings, res.ScheduledAt(now.Location()), now, res.DepositAmount)

	// Refund eligibility only matters when a deposit was actually collected.
	paid, err := s.payments.HasApproved(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: cancel - check approved payments: %v", ErrInternal, err)
	}
	if !paid {
		refund.EligibleAmount = 0
	}

	reason := params.Reason
	if reason == "" {
		reason = "cancelada pelo " + string(params.Actor)
	}

	if err := s.reservations.Cancel(ctx, res.ID, reason); err != nil {
		return nil, fmt.Errorf("%w: cancel - persist cancellation: %v", ErrInternal, err)
	}
	if _, err := s.payments.ExpirePendingForReservation(ctx, res.ID); err != nil {
		return nil, fmt.Errorf("%w: cancel - expire open payments: %v", ErrInternal, err)
	}

	if paid && refund.EligibleAmount > 0 {
		s.logger.Info("cancel: reservation=%d eligible for refund of %.2f (%.1fh before start)",
			res.ID, refund.EligibleAmount, refund.HoursUntil)
	}

	res.Status = domain.StatusCancelled
	res.CancellationReason = &reason
	res.CancelledAt = &now

	return &models.StatusChange{Reservation: res, Refund: &refund}, nil
}
