package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/internal/infra/storage/payment"
	reservationRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/reservation"
	"github.com/reservado/Reservado-BookingService/internal/integrations/gateway"
	"github.com/reservado/Reservado-BookingService/internal/service/payments/models"
	"github.com/reservado/Reservado-BookingService/pkg/ptr"
)

const cancelReasonPaymentRejected = "pagamento não aprovado pelo provedor"

// Service orchestrates deposit collection: creating charges through the
// selected gateway, reconciling provider callbacks into the reservation
// status machine, and issuing retry attempts.
//
// Gateway calls always run outside the booking serialization lock and
// outside database transactions: the lock only guards the
// availability-check-then-insert race, never a network round-trip.
type Service struct {
	reservations ReservationRepository
	payments     PaymentRepository
	catalog      CatalogRepository
	gateways     GatewaySelector
	txManager    TransactionManager
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewService creates the payment orchestrator.
func NewService(
	reservations ReservationRepository,
	payments PaymentRepository,
	catalog CatalogRepository,
	gateways GatewaySelector,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservations: reservations,
		payments:     payments,
		catalog:      catalog,
		gateways:     gateways,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// CreateDeposit opens a deposit charge for a freshly created reservation.
// Called after the booking transaction committed; the reservation is already
// pending_payment with its deadline set.
func (s *Service) CreateDeposit(ctx context.Context, res *domain.Reservation, settings *domain.MerchantSettings) (*models.PaymentAttempt, error) {
	if res.DepositAmount <= 0 {
		return nil, ErrNoDepositRequired
	}

	expiresAt := res.DepositExpiresAt
	if expiresAt == nil {
		expiresAt = ptr.Ptr(s.timeProvider.Now().Add(time.Duration(settings.DepositTTLMinutes) * time.Minute))
	}

	gw := s.gateways.ForMerchant(settings)

	attempt, err := s.createAttempt(ctx, gw, res, *expiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateDeposit: reservation=%d provider=%s ref=%s amount=%.2f",
		res.ID, attempt.Provider, attempt.ProviderRef, attempt.Amount)
	return attempt, nil
}

// createAttempt inserts a pending payment row, opens the charge on the
// provider, then persists the provider handle on both the payment row and
// the reservation.
func (s *Service) createAttempt(ctx context.Context, gw gateway.Gateway, res *domain.Reservation, expiresAt time.Time) (*models.PaymentAttempt, error) {
	p, err := s.payments.Create(ctx, &domain.Payment{
		ReservationID: res.ID,
		Amount:        res.DepositAmount,
		Status:        domain.PaymentPending,
		Provider:      gw.Provider(),
		ExpiresAt:     &expiresAt,
	})
	if err != nil {
		s.logger.Error("createAttempt: failed to create payment row for reservation=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: createAttempt - create payment row: %v", ErrInternal, err)
	}

	email := ""
	if res.CustomerEmail != nil {
		email = *res.CustomerEmail
	}

	intent, err := gw.CreateDeposit(ctx, &gateway.CreateDepositRequest{
		// The payment row id makes the key unique per attempt and stable
		// across provider-side retries of the same attempt.
		IdempotencyKey: fmt.Sprintf("resv-%d-pay-%d", res.ID, p.ID),
		ReservationID:  res.ID,
		Amount:         res.DepositAmount,
		Description:    fmt.Sprintf("Sinal da reserva #%d", res.ID),
		Customer: gateway.Customer{
			Name:  res.CustomerName,
			Phone: res.CustomerPhone,
			Email: email,
		},
		ExpiresAt: expiresAt,
	})
	if err != nil {
		// The attempt row stays behind as a failed trace; the reservation
		// keeps its deadline and the sweeper or a retry resolves it.
		if updateErr := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentRejected); updateErr != nil {
			s.logger.Error("createAttempt: failed to mark payment=%d rejected: %v", p.ID, updateErr)
		}
		s.incPayment(gw.Provider(), "gateway_error")
		s.logger.Error("createAttempt: gateway call failed for reservation=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := s.payments.SetProviderData(ctx, p.ID, intent.ProviderRef, intent.QRCode, intent.CopyPasteCode); err != nil {
		s.logger.Error("createAttempt: failed to persist provider data for payment=%d: %v", p.ID, err)
		return nil, fmt.Errorf("%w: createAttempt - persist provider data: %v", ErrInternal, err)
	}

	err = s.reservations.SetPaymentInfo(
		ctx,
		res.ID,
		gw.Provider(),
		ptr.Ptr(intent.ProviderRef),
		ptr.Ptr(intent.QRCode),
		ptr.Ptr(intent.CopyPasteCode),
		&expiresAt,
		domain.StatusPendingPayment,
	)
	if err != nil {
		s.logger.Error("createAttempt: failed to persist payment info on reservation=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: createAttempt - persist reservation payment info: %v", ErrInternal, err)
	}

	s.incPayment(gw.Provider(), "created")

	p.ProviderRef = ptr.Ptr(intent.ProviderRef)
	p.QRCode = ptr.Ptr(intent.QRCode)
	p.CopyPasteCode = ptr.Ptr(intent.CopyPasteCode)

	return models.FromDomainPayment(p), nil
}

// Reconcile applies a provider-reported status to the payment row and the
// reservation. It is idempotent: replaying the same notification is a no-op,
// and notifications for unknown references are ignored (they may belong to
// charges outside this installation's scope).
func (s *Service) Reconcile(ctx context.Context, provider, providerRef string, status gateway.Status) error {
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		p, err := s.payments.GetByProviderRef(txCtx, provider, providerRef)
		if err != nil {
			if errors.Is(err, payment.ErrPaymentNotFound) {
				s.logger.Info("Reconcile: unknown provider ref %s/%s, ignoring", provider, providerRef)
				return nil
			}
			s.logger.Error("Reconcile: failed to load payment %s/%s: %v", provider, providerRef, err)
			return fmt.Errorf("%w: Reconcile - load payment: %v", ErrInternal, err)
		}

		switch status {
		case gateway.StatusApproved:
			return s.reconcileApproved(txCtx, p)
		case gateway.StatusRejected, gateway.StatusCancelled:
			return s.reconcileFailed(txCtx, p, domain.PaymentRejected)
		case gateway.StatusExpired:
			return s.reconcileFailed(txCtx, p, domain.PaymentExpired)
		default:
			// Still pending on the provider side; nothing to apply.
			return nil
		}
	})
}

func (s *Service) reconcileApproved(ctx context.Context, p *domain.Payment) error {
	if p.Status == domain.PaymentApproved {
		// Webhook replay.
		return nil
	}

	ok, err := s.payments.MarkApprovedIfPending(ctx, p.ID, s.timeProvider.Now())
	if err != nil {
		if errors.Is(err, payment.ErrAlreadyApproved) {
			s.logger.Warn("reconcileApproved: reservation=%d already has an approved payment, payment=%d left as-is",
				p.ReservationID, p.ID)
			return nil
		}
		s.logger.Error("reconcileApproved: failed to approve payment=%d: %v", p.ID, err)
		return fmt.Errorf("%w: reconcileApproved - approve payment: %v", ErrInternal, err)
	}
	if !ok {
		// Lost a race with another reconciliation of the same reference.
		return nil
	}

	s.incPayment(p.Provider, string(domain.PaymentApproved))

	res, err := s.reservations.GetByID(ctx, p.ReservationID)
	if err != nil {
		s.logger.Error("reconcileApproved: failed to load reservation=%d: %v", p.ReservationID, err)
		return fmt.Errorf("%w: reconcileApproved - load reservation: %v", ErrInternal, err)
	}

	switch res.Status {
	case domain.StatusPendingPayment:
		if err := s.reservations.UpdateStatus(ctx, res.ID, domain.StatusConfirmed); err != nil {
			s.logger.Error("reconcileApproved: failed to confirm reservation=%d: %v", res.ID, err)
			return fmt.Errorf("%w: reconcileApproved - confirm reservation: %v", ErrInternal, err)
		}
		s.logger.Info("reconcileApproved: reservation=%d confirmed by payment=%d", res.ID, p.ID)
	case domain.StatusConfirmed:
		// Already confirmed (replay or manual confirmation); nothing to do.
	default:
		// Paid after the reservation left pending_payment (e.g. swept a
		// moment earlier). The money is recorded; resolving it is a manual
		// refund decision.
		s.logger.Warn("reconcileApproved: payment=%d approved but reservation=%d is %s",
			p.ID, res.ID, res.Status)
	}
	return nil
}

func (s *Service) reconcileFailed(ctx context.Context, p *domain.Payment, target domain.PaymentStatus) error {
	if p.IsFinal() {
		return nil
	}

	if err := s.payments.UpdateStatus(ctx, p.ID, target); err != nil {
		s.logger.Error("reconcileFailed: failed to update payment=%d to %s: %v", p.ID, target, err)
		return fmt.Errorf("%w: reconcileFailed - update payment: %v", ErrInternal, err)
	}
	s.incPayment(p.Provider, string(target))

	// Only a reservation still waiting on this deposit gets cancelled; a
	// reservation already confirmed by another attempt is left alone.
	cancelled, err := s.reservations.CancelIfPendingPayment(ctx, p.ReservationID, cancelReasonPaymentRejected)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil
		}
		s.logger.Error("reconcileFailed: failed to cancel reservation=%d: %v", p.ReservationID, err)
		return fmt.Errorf("%w: reconcileFailed - cancel reservation: %v", ErrInternal, err)
	}
	if cancelled {
		s.logger.Info("reconcileFailed: reservation=%d cancelled after payment=%d became %s",
			p.ReservationID, p.ID, target)
	}
	return nil
}

// RetryPayment issues a fresh deposit attempt for a reservation stuck in
// pending_payment or already cancelled for lack of payment. The reservation
// is reset to pending_payment with a new deadline.
//
// Reopening a cancelled reservation intentionally bypasses the status
// transition table: payment retry is the product's recovery path for missed
// deadlines and gateway failures.
func (s *Service) RetryPayment(ctx context.Context, reservationID int64) (*models.PaymentAttempt, error) {
	var (
		res      *domain.Reservation
		settings *domain.MerchantSettings
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		res, err = s.reservations.GetByID(txCtx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: RetryPayment - load reservation: %v", ErrInternal, err)
		}

		if res.DepositAmount <= 0 {
			return ErrNoDepositRequired
		}
		if res.Status != domain.StatusPendingPayment && res.Status != domain.StatusCancelled {
			return ErrRetryNotAllowed
		}

		approved, err := s.payments.HasApproved(txCtx, res.ID)
		if err != nil {
			return fmt.Errorf("%w: RetryPayment - check approved payments: %v", ErrInternal, err)
		}
		if approved {
			return ErrAlreadyPaid
		}

		settings, err = s.catalog.GetMerchantSettings(txCtx, res.MerchantID)
		if err != nil {
			return fmt.Errorf("%w: RetryPayment - load merchant settings: %v", ErrInternal, err)
		}

		// Supersede older attempts before opening a new one.
		if _, err := s.payments.ExpirePendingForReservation(txCtx, res.ID); err != nil {
			return fmt.Errorf("%w: RetryPayment - expire old attempts: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	expiresAt := s.timeProvider.Now().Add(time.Duration(settings.DepositTTLMinutes) * time.Minute)
	res.DepositExpiresAt = &expiresAt

	// Gateway call after the transaction: never hold database state across
	// the provider round-trip.
	gw := s.gateways.ForMerchant(settings)
	attempt, err := s.createAttempt(ctx, gw, res, expiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("RetryPayment: reservation=%d new attempt payment=%d provider=%s",
		res.ID, attempt.PaymentID, attempt.Provider)
	return attempt, nil
}

// SyncStatus polls the provider for the latest attempt of a reservation and
// reconciles the answer. Manual fallback when webhooks are delayed.
func (s *Service) SyncStatus(ctx context.Context, reservationID int64) (gateway.Status, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return "", ErrReservationNotFound
		}
		return "", fmt.Errorf("%w: SyncStatus - load reservation: %v", ErrInternal, err)
	}

	attempts, err := s.payments.ListByReservation(ctx, res.ID)
	if err != nil {
		return "", fmt.Errorf("%w: SyncStatus - list payments: %v", ErrInternal, err)
	}

	var latest *domain.Payment
	for _, p := range attempts {
		if p.ProviderRef != nil {
			latest = p
			break
		}
	}
	if latest == nil {
		return "", ErrPaymentNotFound
	}

	settings, err := s.catalog.GetMerchantSettings(ctx, res.MerchantID)
	if err != nil {
		return "", fmt.Errorf("%w: SyncStatus - load merchant settings: %v", ErrInternal, err)
	}

	gw := s.gateways.ForMerchant(settings)
	status, err := gw.QueryStatus(ctx, *latest.ProviderRef)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := s.Reconcile(ctx, latest.Provider, *latest.ProviderRef, status); err != nil {
		return "", err
	}
	return status, nil
}

func (s *Service) incPayment(provider, status string) {
	if s.metrics != nil {
		s.metrics.IncPayment(provider, status)
	}
}
