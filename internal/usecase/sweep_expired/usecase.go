package sweep_expired

import (
	"context"
	"errors"
	"fmt"
)

const cancelReasonDeadline = "prazo de pagamento expirado"

// batchSize caps one sweep run; leftovers are picked up on the next tick.
const batchSize = 200

// ErrInternal is returned when the candidate listing itself fails. Per-row
// failures are logged and skipped instead.
var ErrInternal = errors.New("sweep_expired: internal error")

// UseCase cancels reservations whose deposit deadline passed while still in
// pending_payment. Each reservation is swept in its own short transaction
// with a guarded update, so a sweep racing a webhook can never cancel a
// reservation the webhook just confirmed.
type UseCase struct {
	reservationRepo ReservationRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewUseCase creates the sweeper use case.
func NewUseCase(
	reservationRepo ReservationRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute runs one sweep and returns how many reservations were cancelled.
// Safe to run concurrently: the candidate listing skips rows another sweeper
// holds, and the guarded cancel makes replays no-ops.
func (uc *UseCase) Execute(ctx context.Context) (int, error) {
	now := uc.timeProvider.Now()

	ids, err := uc.reservationRepo.ListExpiredPendingIDs(ctx, now, batchSize)
	if err != nil {
		uc.logger.Error("SweepExpired: failed to list candidates: %v", err)
		return 0, fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	swept := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		var cancelled bool
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			// Reset on retry so a rolled-back attempt is not counted.
			cancelled = false

			ok, err := uc.reservationRepo.CancelIfPendingPayment(txCtx, id, cancelReasonDeadline)
			if err != nil {
				return err
			}
			if !ok {
				// Paid or cancelled between listing and locking.
				return nil
			}
			if _, err := uc.paymentRepo.ExpirePendingForReservation(txCtx, id); err != nil {
				return err
			}
			cancelled = true
			return nil
		})
		if err != nil {
			// One stuck row must not stall the rest of the batch.
			uc.logger.Error("SweepExpired: failed to sweep reservation=%d: %v", id, err)
			uc.incSwept("error")
			continue
		}
		if cancelled {
			swept++
			uc.incSwept("cancelled")
		}
	}

	if swept > 0 {
		uc.logger.Info("SweepExpired: cancelled %d of %d candidates", swept, len(ids))
	}
	return swept, nil
}

func (uc *UseCase) incSwept(result string) {
	if uc.metrics != nil {
		uc.metrics.IncSwept(result)
	}
}
