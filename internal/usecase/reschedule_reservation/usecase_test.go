package reschedule_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	catalogRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/catalog"
	reservationRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/reservation"
	"github.com/reservado/Reservado-BookingService/pkg/ptr"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

type fakeReservationRepo struct {
	byID     map[int64]*domain.Reservation
	active   []*domain.Reservation
	lockKeys []int64
	updated  bool
}

func (f *fakeReservationRepo) AcquireSlotLock(_ context.Context, key int64) error {
	f.lockKeys = append(f.lockKeys, key)
	return nil
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeReservationRepo) ListActiveForSlot(_ context.Context, resourceID int64, staffID *int64, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.active {
		if !res.IsActive() || !res.BookingDate.Equal(date) {
			continue
		}
		if staffID != nil {
			if res.StaffID != nil && *res.StaffID == *staffID {
				out = append(out, res)
			}
			continue
		}
		if res.ResourceID == resourceID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateSchedule(_ context.Context, id int64, date time.Time, startTime, endTime *types.TimeString, staffID *int64) error {
	res := f.byID[id]
	res.BookingDate = date
	res.StartTime = startTime
	res.EndTime = endTime
	res.StaffID = staffID
	f.updated = true
	return nil
}

type fakeCatalogRepo struct {
	offerings map[int64]*domain.ServiceOffering
	resources map[int64]*domain.Resource
	settings  *domain.MerchantSettings
	blocks    []*domain.StaffBlock
}

func (f *fakeCatalogRepo) GetServiceOffering(_ context.Context, _, serviceID int64) (*domain.ServiceOffering, error) {
	offering, ok := f.offerings[serviceID]
	if !ok {
		return nil, catalogRepo.ErrOfferingNotFound
	}
	return offering, nil
}

func (f *fakeCatalogRepo) GetResource(_ context.Context, _, resourceID int64) (*domain.Resource, error) {
	resource, ok := f.resources[resourceID]
	if !ok {
		return nil, catalogRepo.ErrResourceNotFound
	}
	return resource, nil
}

func (f *fakeCatalogRepo) GetMerchantSettings(_ context.Context, _ int64) (*domain.MerchantSettings, error) {
	if f.settings == nil {
		return nil, catalogRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeCatalogRepo) ListStaffBlocks(_ context.Context, staffID int64, from, to time.Time) ([]*domain.StaffBlock, error) {
	var out []*domain.StaffBlock
	for _, b := range f.blocks {
		if b.StaffID == staffID && b.StartsAt.Before(to) && b.EndsAt.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
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

var (
	testNow  = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
)

func testReservation() *domain.Reservation {
	start := types.TimeString("10:00")
	end := types.TimeString("11:00")
	return &domain.Reservation{
		ID:              1,
		MerchantID:      1,
		ResourceID:      1,
		ServiceID:       1,
		BookingDate:     testDate,
		StartTime:       &start,
		EndTime:         &end,
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func newTestUseCase(repo *fakeReservationRepo, catalog *fakeCatalogRepo) *UseCase {
	if catalog.settings == nil {
		catalog.settings = &domain.MerchantSettings{MerchantID: 1}
	}
	if catalog.offerings == nil {
		catalog.offerings = map[int64]*domain.ServiceOffering{
			1: {ID: 1, MerchantID: 1, DurationMinutes: 60},
		}
	}
	if catalog.resources == nil {
		catalog.resources = map[int64]*domain.Resource{
			1: {ID: 1, MerchantID: 1, MaxConcurrentBookings: 1},
		}
	}
	uc := NewUseCase(repo, catalog, passthroughTxManager{}, nil, nopLogger{})
	uc.timeProvider = fixedClock{now: testNow}
	return uc
}

func TestExecute_MovesReservation(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: testReservation()}}
	uc := newTestUseCase(repo, &fakeCatalogRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("14:00"),
	})
	require.NoError(t, err)

	assert.True(t, repo.updated)
	require.NotNil(t, resp.StartTime)
	assert.Equal(t, "14:00", *resp.StartTime)
	require.NotNil(t, resp.EndTime)
	assert.Equal(t, "15:00", *resp.EndTime)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_OwnRowDoesNotBlockTheMove(t *testing.T) {
	res := testReservation()
	repo := &fakeReservationRepo{
		byID:   map[int64]*domain.Reservation{1: res},
		active: []*domain.Reservation{res},
	}
	uc := newTestUseCase(repo, &fakeCatalogRepo{})

	// Moving 30 minutes later overlaps the old slot, which is the row itself.
	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("10:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10:30", *resp.StartTime)
}

func TestExecute_TargetSlotTaken(t *testing.T) {
	res := testReservation()
	otherStart := types.TimeString("14:00")
	otherEnd := types.TimeString("15:00")
	other := &domain.Reservation{
		ID:              2,
		MerchantID:      1,
		ResourceID:      1,
		ServiceID:       1,
		BookingDate:     testDate,
		StartTime:       &otherStart,
		EndTime:         &otherEnd,
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
	repo := &fakeReservationRepo{
		byID:   map[int64]*domain.Reservation{1: res},
		active: []*domain.Reservation{res, other},
	}
	uc := newTestUseCase(repo, &fakeCatalogRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("14:30"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.False(t, repo.updated)
}

func TestExecute_StatusGuards(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			res := testReservation()
			res.Status = status
			repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: res}}
			uc := newTestUseCase(repo, &fakeCatalogRepo{})

			_, err := uc.Execute(context.Background(), &Request{
				ReservationID: 1,
				MerchantID:    1,
				Date:          testDate,
				StartTime:     ptr.Ptr("14:00"),
			})
			assert.ErrorIs(t, err, ErrNotReschedulable)
		})
	}
}

func TestExecute_OwnershipMismatchIsNotFound(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: testReservation()}}
	uc := newTestUseCase(repo, &fakeCatalogRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    2,
		Date:          testDate,
		StartTime:     ptr.Ptr("14:00"),
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_MinimumNoticeAppliesToNewSlot(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: testReservation()}}
	catalog := &fakeCatalogRepo{
		settings: &domain.MerchantSettings{MerchantID: 1, MinBookingNoticeMinutes: 24 * 60},
	}
	uc := newTestUseCase(repo, catalog)

	// Tomorrow 08:00 is less than 24h from 09:00 today.
	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("08:00"),
	})
	assert.ErrorIs(t, err, ErrTooLateToBook)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("10:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", *resp.StartTime)
}

func TestExecute_MoveToBlockedStaff(t *testing.T) {
	res := testReservation()
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: res}}
	catalog := &fakeCatalogRepo{
		blocks: []*domain.StaffBlock{{
			ID:       1,
			StaffID:  5,
			StartsAt: time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC),
		}},
	}
	uc := newTestUseCase(repo, catalog)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("14:00"),
		StaffID:       ptr.Ptr(int64(5)),
	})
	assert.ErrorIs(t, err, ErrStaffBlocked)

	// Morning slot is outside the block.
	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("10:00"),
		StaffID:       ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(5), *resp.StaffID)
}

func TestExecute_FullDayServiceTakesNoStartTime(t *testing.T) {
	res := testReservation()
	res.StartTime = nil
	res.EndTime = nil
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{1: res}}
	catalog := &fakeCatalogRepo{
		offerings: map[int64]*domain.ServiceOffering{
			1: {ID: 1, MerchantID: 1, FullDayPricing: true},
		},
	}
	uc := newTestUseCase(repo, catalog)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("10:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	newDate := testDate.AddDate(0, 0, 2)
	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		MerchantID:    1,
		Date:          newDate,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.StartTime)
	assert.True(t, resp.BookingDate.Equal(newDate))
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{}}
	uc := newTestUseCase(repo, &fakeCatalogRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 99,
		MerchantID:    1,
		Date:          testDate,
		StartTime:     ptr.Ptr("14:00"),
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
