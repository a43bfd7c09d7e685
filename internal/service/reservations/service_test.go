package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	reservationRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/reservation"
	"github.com/reservado/Reservado-BookingService/internal/service/reservations/models"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

type fakeReservationRepo struct {
	byID       map[int64]*domain.Reservation
	lastFilter *domain.MerchantReservationsFilter
	listResult []*domain.Reservation
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeReservationRepo) GetByMerchantWithFilter(_ context.Context, filter domain.MerchantReservationsFilter) ([]*domain.Reservation, error) {
	f.lastFilter = &filter
	return f.listResult, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	f.byID[id].Status = status
	return nil
}

func (f *fakeReservationRepo) Cancel(_ context.Context, id int64, reason string) error {
	res := f.byID[id]
	res.Status = domain.StatusCancelled
	res.CancellationReason = &reason
	return nil
}

type fakePaymentRepo struct {
	approved map[int64]bool
	expired  map[int64]int64
}

func (f *fakePaymentRepo) HasApproved(_ context.Context, reservationID int64) (bool, error) {
	return f.approved[reservationID], nil
}

func (f *fakePaymentRepo) ExpirePendingForReservation(_ context.Context, reservationID int64) (int64, error) {
	if f.expired == nil {
		f.expired = map[int64]int64{}
	}
	f.expired[reservationID]++
	return 1, nil
}

type fakeCatalogRepo struct {
	settings *domain.MerchantSettings
}

func (f *fakeCatalogRepo) GetMerchantSettings(_ context.Context, _ int64) (*domain.MerchantSettings, error) {
	return f.settings, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func confirmedReservation(id int64) *domain.Reservation {
	start := types.TimeString("16:00")
	return &domain.Reservation{
		ID:              id,
		MerchantID:      1,
		ResourceID:      1,
		ServiceID:       1,
		BookingDate:     time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       &start,
		DurationMinutes: 60,
		CustomerName:    "Ana Souza",
		CustomerPhone:   "5511987654321",
		TotalAmount:     200,
		DepositAmount:   60,
		Status:          domain.StatusConfirmed,
	}
}

func newTestService(res *fakeReservationRepo, pays *fakePaymentRepo, settings *domain.MerchantSettings) *Service {
	if settings == nil {
		settings = &domain.MerchantSettings{
			MerchantID:                   1,
			CancellationDeadlineHours:    24,
			CancellationRefundPercentage: 50,
		}
	}
	svc := NewService(res, pays, &fakeCatalogRepo{settings: settings}, passthroughTxManager{}, nopLogger{})
	svc.timeProvider = fixedClock{now: testNow}
	return svc
}

func TestGetByID(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
	svc := newTestService(repo, &fakePaymentRepo{}, nil)

	t.Run("owner sees the reservation", func(t *testing.T) {
		res, err := svc.GetByID(context.Background(), 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ID)
	})

	t.Run("another merchant gets not found", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 99, 1)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestGetMerchantReservations_NormalizesPhoneFilter(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{}}
	svc := newTestService(repo, &fakePaymentRepo{}, nil)

	raw := "+55 (11) 98765-4321"
	_, err := svc.GetMerchantReservations(context.Background(), domain.MerchantReservationsFilter{
		MerchantID:    1,
		CustomerPhone: &raw,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter)
	require.NotNil(t, repo.lastFilter.CustomerPhone)
	assert.Equal(t, "5511987654321", *repo.lastFilter.CustomerPhone)
}

func TestChangeStatus(t *testing.T) {
	t.Run("merchant confirms progress", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		svc := newTestService(repo, &fakePaymentRepo{}, nil)

		change, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusInProgress,
			Actor:         models.ActorMerchant,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusInProgress, change.Reservation.Status)
		assert.Nil(t, change.Refund)
	})

	t.Run("invalid transition is reported with the pair", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		svc := newTestService(repo, &fakePaymentRepo{}, nil)

		_, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusNoShow,
			Actor:         models.ActorMerchant,
		})

		var transitionErr *domain.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, domain.StatusConfirmed, transitionErr.From)
		assert.Equal(t, domain.StatusNoShow, transitionErr.To)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := newTestService(&fakeReservationRepo{}, &fakePaymentRepo{}, nil)

		_, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.ReservationStatus("archived"),
			Actor:         models.ActorMerchant,
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("customer may only cancel", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		svc := newTestService(repo, &fakePaymentRepo{}, nil)

		_, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCompleted,
			Actor:         models.ActorCustomer,
			CustomerPhone: "5511987654321",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("customer cancel requires matching phone", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		svc := newTestService(repo, &fakePaymentRepo{}, nil)

		_, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCancelled,
			Actor:         models.ActorCustomer,
			CustomerPhone: "5511900000000",
		})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, domain.StatusConfirmed, repo.byID[1].Status)
	})

	t.Run("customer cancel accepts formatted phone", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		pays := &fakePaymentRepo{approved: map[int64]bool{1: true}}
		svc := newTestService(repo, pays, nil)

		change, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCancelled,
			Actor:         models.ActorCustomer,
			CustomerPhone: "+55 (11) 98765-4321",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, change.Reservation.Status)
	})

	t.Run("ownership mismatch is not found", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		svc := newTestService(repo, &fakePaymentRepo{}, nil)

		_, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    2,
			NewStatus:     domain.StatusCompleted,
			Actor:         models.ActorMerchant,
		})
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestChangeStatus_Cancellation(t *testing.T) {
	t.Run("early cancel of a paid deposit refunds the policy share", func(t *testing.T) {
		// Booked for 2026-09-16 16:00, cancelled 54h ahead with a 24h deadline.
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		pays := &fakePaymentRepo{approved: map[int64]bool{1: true}}
		svc := newTestService(repo, pays, nil)

		change, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCancelled,
			Actor:         models.ActorMerchant,
			Reason:        "cliente pediu",
		})
		require.NoError(t, err)

		require.NotNil(t, change.Refund)
		assert.True(t, change.Refund.WithinDeadline)
		assert.Equal(t, 30.0, change.Refund.EligibleAmount)

		res := change.Reservation
		assert.Equal(t, domain.StatusCancelled, res.Status)
		require.NotNil(t, res.CancellationReason)
		assert.Equal(t, "cliente pediu", *res.CancellationReason)
		assert.Equal(t, int64(1), pays.expired[1])
	})

	t.Run("late cancel refunds nothing", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		repo.byID[1].BookingDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
		pays := &fakePaymentRepo{approved: map[int64]bool{1: true}}
		svc := newTestService(repo, pays, nil)

		change, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCancelled,
			Actor:         models.ActorMerchant,
		})
		require.NoError(t, err)

		require.NotNil(t, change.Refund)
		assert.False(t, change.Refund.WithinDeadline)
		assert.Equal(t, 0.0, change.Refund.EligibleAmount)
	})

	t.Run("unpaid deposit never refunds", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		repo.byID[1].Status = domain.StatusPendingPayment
		pays := &fakePaymentRepo{}
		svc := newTestService(repo, pays, nil)

		change, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCancelled,
			Actor:         models.ActorMerchant,
		})
		require.NoError(t, err)

		require.NotNil(t, change.Refund)
		// Cancelled far enough ahead, but nothing was collected.
		assert.True(t, change.Refund.WithinDeadline)
		assert.Equal(t, 0.0, change.Refund.EligibleAmount)
	})

	t.Run("default reason names the actor", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		svc := newTestService(repo, &fakePaymentRepo{}, nil)

		change, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCancelled,
			Actor:         models.ActorMerchant,
		})
		require.NoError(t, err)

		require.NotNil(t, change.Reservation.CancellationReason)
		assert.Equal(t, "cancelada pelo merchant", *change.Reservation.CancellationReason)
	})

	t.Run("terminal status cannot be cancelled", func(t *testing.T) {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: confirmedReservation(1)}}
		repo.byID[1].Status = domain.StatusCompleted
		svc := newTestService(repo, &fakePaymentRepo{}, nil)

		_, err := svc.ChangeStatus(context.Background(), models.ChangeStatusParams{
			ReservationID: 1,
			MerchantID:    1,
			NewStatus:     domain.StatusCancelled,
			Actor:         models.ActorMerchant,
		})

		var transitionErr *domain.InvalidTransitionError
		assert.True(t, errors.As(err, &transitionErr))
	})
}
