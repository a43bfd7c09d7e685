package create_reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	catalogRepo "github.com/reservado/Reservado-BookingService/internal/infra/storage/catalog"
	"github.com/reservado/Reservado-BookingService/internal/service/payments"
	"github.com/reservado/Reservado-BookingService/internal/service/payments/models"
	"github.com/reservado/Reservado-BookingService/pkg/ptr"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

var errGatewayDown = fmt.Errorf("%w: provider timeout", payments.ErrGateway)

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	nextID       int64
	lockKeys     []int64
}

func (f *fakeReservationRepo) AcquireSlotLock(_ context.Context, key int64) error {
	f.lockKeys = append(f.lockKeys, key)
	return nil
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	f.reservations = append(f.reservations, res)
	return res, nil
}

func (f *fakeReservationRepo) ListActiveForSlot(_ context.Context, resourceID int64, staffID *int64, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.reservations {
		if !res.IsActive() || !res.BookingDate.Equal(date) {
			continue
		}
		if staffID != nil {
			if res.StaffID == nil || *res.StaffID != *staffID {
				continue
			}
		} else if res.ResourceID != resourceID {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

type fakeCatalogRepo struct {
	settings  map[int64]*domain.MerchantSettings
	offerings map[int64]*domain.ServiceOffering
	resources map[int64]*domain.Resource
	blocks    []*domain.StaffBlock
}

func (f *fakeCatalogRepo) GetMerchantSettings(_ context.Context, merchantID int64) (*domain.MerchantSettings, error) {
	s, ok := f.settings[merchantID]
	if !ok {
		return nil, catalogRepo.ErrSettingsNotFound
	}
	return s, nil
}

func (f *fakeCatalogRepo) GetServiceOffering(_ context.Context, _, serviceID int64) (*domain.ServiceOffering, error) {
	o, ok := f.offerings[serviceID]
	if !ok {
		return nil, catalogRepo.ErrOfferingNotFound
	}
	return o, nil
}

func (f *fakeCatalogRepo) GetResource(_ context.Context, _, resourceID int64) (*domain.Resource, error) {
	r, ok := f.resources[resourceID]
	if !ok {
		return nil, catalogRepo.ErrResourceNotFound
	}
	return r, nil
}

func (f *fakeCatalogRepo) ListStaffBlocks(_ context.Context, staffID int64, from, to time.Time) ([]*domain.StaffBlock, error) {
	var out []*domain.StaffBlock
	for _, b := range f.blocks {
		if b.StaffID == staffID && b.Covers(from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakePaymentService struct {
	err      error
	attempts int
}

func (f *fakePaymentService) CreateDeposit(_ context.Context, res *domain.Reservation, _ *domain.MerchantSettings) (*models.PaymentAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.attempts++
	return &models.PaymentAttempt{
		PaymentID:     int64(f.attempts),
		ReservationID: res.ID,
		Provider:      domain.ProviderFakePay,
		ProviderRef:   "FAKE-REF",
		QRCode:        "QR",
		CopyPasteCode: "COPY",
		Amount:        res.DepositAmount,
		Status:        string(domain.PaymentPending),
	}, nil
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

func newTestUseCase(resRepo *fakeReservationRepo, catalog *fakeCatalogRepo, paySvc *fakePaymentService, now time.Time) *UseCase {
	uc := NewUseCase(resRepo, catalog, paySvc, passthroughTxManager{}, nil, nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func defaultCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		settings: map[int64]*domain.MerchantSettings{
			1: {
				MerchantID:        1,
				RequireDeposit:    true,
				DepositPercentage: 30,
				DepositTTLMinutes: 30,
			},
		},
		offerings: map[int64]*domain.ServiceOffering{
			10: {
				ID:              10,
				MerchantID:      1,
				Name:            "Corte de cabelo",
				Price:           200,
				DurationMinutes: 60,
			},
		},
		resources: map[int64]*domain.Resource{
			5: {ID: 5, MerchantID: 1, MaxConcurrentBookings: 2},
		},
	}
}

func baseRequest() *Request {
	return &Request{
		MerchantID:    1,
		ResourceID:    5,
		ServiceID:     10,
		Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:     ptr.Ptr("10:00"),
		CustomerName:  "Ana Souza",
		CustomerPhone: "+55 11 98765-4321",
	}
}

func TestCreateReservation_Success(t *testing.T) {
	resRepo := &fakeReservationRepo{}
	paySvc := &fakePaymentService{}
	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(resRepo, defaultCatalog(), paySvc, now)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
	assert.Equal(t, 200.0, resp.TotalAmount)
	assert.Equal(t, 60.0, resp.DepositAmount)
	require.NotNil(t, resp.StartTime)
	assert.Equal(t, "10:00", *resp.StartTime)
	require.NotNil(t, resp.EndTime)
	assert.Equal(t, "11:00", *resp.EndTime)
	assert.Equal(t, "5511987654321", resp.CustomerPhone)

	require.NotNil(t, resp.Payment)
	assert.Equal(t, domain.ProviderFakePay, resp.Payment.Provider)
	assert.Equal(t, 60.0, resp.Payment.Amount)

	require.Len(t, resRepo.reservations, 1)
	assert.NotEmpty(t, resRepo.lockKeys)
	require.NotNil(t, resRepo.reservations[0].DepositExpiresAt)
	assert.Equal(t, now.Add(30*time.Minute), *resRepo.reservations[0].DepositExpiresAt)
}

func TestCreateReservation_ZeroDepositConfirmsImmediately(t *testing.T) {
	catalog := defaultCatalog()
	catalog.settings[1].RequireDeposit = false
	resRepo := &fakeReservationRepo{}
	paySvc := &fakePaymentService{}
	uc := newTestUseCase(resRepo, catalog, paySvc, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 0.0, resp.DepositAmount)
	assert.Nil(t, resp.Payment)
	assert.Zero(t, paySvc.attempts)
	assert.Nil(t, resRepo.reservations[0].DepositExpiresAt)
}

func TestCreateReservation_ResourceCapacity(t *testing.T) {
	catalog := defaultCatalog()
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(resRepo, catalog, &fakePaymentService{}, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	// Capacity 2: the first two bookings of the same slot pass, the third
	// gets rejected.
	_, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// A non-overlapping slot on the same day still works.
	later := baseRequest()
	later.StartTime = ptr.Ptr("15:00")
	_, err = uc.Execute(context.Background(), later)
	assert.NoError(t, err)
}

func TestCreateReservation_StaffExclusivity(t *testing.T) {
	catalog := defaultCatalog()
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(resRepo, catalog, &fakePaymentService{}, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	withStaff := baseRequest()
	withStaff.StaffID = ptr.Ptr(int64(77))
	_, err := uc.Execute(context.Background(), withStaff)
	require.NoError(t, err)

	// The resource has spare capacity but the staff member does not.
	again := baseRequest()
	again.StaffID = ptr.Ptr(int64(77))
	_, err = uc.Execute(context.Background(), again)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Another staff member is free at the same time.
	other := baseRequest()
	other.StaffID = ptr.Ptr(int64(78))
	_, err = uc.Execute(context.Background(), other)
	assert.NoError(t, err)
}

func TestCreateReservation_BufferBlocksAdjacentSlot(t *testing.T) {
	catalog := defaultCatalog()
	catalog.offerings[10].BufferAfterMinutes = 15
	catalog.resources[5].MaxConcurrentBookings = 1
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(resRepo, catalog, &fakePaymentService{}, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// 10:00-11:00 plus 15min cleanup blocks an 11:05 start.
	at1105 := baseRequest()
	at1105.StartTime = ptr.Ptr("11:05")
	_, err = uc.Execute(context.Background(), at1105)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	at1115 := baseRequest()
	at1115.StartTime = ptr.Ptr("11:15")
	_, err = uc.Execute(context.Background(), at1115)
	assert.NoError(t, err)
}

func TestCreateReservation_StaffBlockVetoes(t *testing.T) {
	catalog := defaultCatalog()
	catalog.blocks = []*domain.StaffBlock{{
		ID:       1,
		StaffID:  77,
		StartsAt: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC),
	}}
	uc := newTestUseCase(&fakeReservationRepo{}, catalog, &fakePaymentService{}, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.StaffID = ptr.Ptr(int64(77))
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffBlocked)
}

func TestCreateReservation_MinimumNotice(t *testing.T) {
	catalog := defaultCatalog()
	catalog.settings[1].MinBookingNoticeMinutes = 120
	uc := newTestUseCase(&fakeReservationRepo{}, catalog, &fakePaymentService{},
		time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC))

	// 10:00 start with 120min notice required at 09:00 is too late.
	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)

	// 11:30 is far enough out.
	ok := baseRequest()
	ok.StartTime = ptr.Ptr("11:30")
	_, err = uc.Execute(context.Background(), ok)
	assert.NoError(t, err)
}

func TestCreateReservation_FullDayService(t *testing.T) {
	catalog := defaultCatalog()
	catalog.offerings[10].FullDayPricing = true
	catalog.resources[5].MaxConcurrentBookings = 1
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(resRepo, catalog, &fakePaymentService{}, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.StartTime = nil
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.StartTime)

	// The whole day is taken; any timed attempt collides.
	catalog.offerings[10].FullDayPricing = false
	timed := baseRequest()
	_, err = uc.Execute(context.Background(), timed)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestCreateReservation_NotFoundErrors(t *testing.T) {
	catalog := defaultCatalog()
	uc := newTestUseCase(&fakeReservationRepo{}, catalog, &fakePaymentService{},
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	unknownMerchant := baseRequest()
	unknownMerchant.MerchantID = 999
	_, err := uc.Execute(context.Background(), unknownMerchant)
	assert.ErrorIs(t, err, ErrMerchantNotFound)

	unknownService := baseRequest()
	unknownService.ServiceID = 999
	_, err = uc.Execute(context.Background(), unknownService)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	unknownResource := baseRequest()
	unknownResource.ResourceID = 999
	_, err = uc.Execute(context.Background(), unknownResource)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestCreateReservation_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, defaultCatalog(), &fakePaymentService{},
		time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	noName := baseRequest()
	noName.CustomerName = ""
	_, err := uc.Execute(context.Background(), noName)
	assert.ErrorIs(t, err, ErrInvalidInput)

	noPhone := baseRequest()
	noPhone.CustomerPhone = "---"
	_, err = uc.Execute(context.Background(), noPhone)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badTime := baseRequest()
	badTime.StartTime = ptr.Ptr("25:99")
	_, err = uc.Execute(context.Background(), badTime)
	assert.ErrorIs(t, err, ErrInvalidInput)

	noStart := baseRequest()
	noStart.StartTime = nil
	_, err = uc.Execute(context.Background(), noStart)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateReservation_GatewayFailureKeepsReservation(t *testing.T) {
	resRepo := &fakeReservationRepo{}
	paySvc := &fakePaymentService{err: errGatewayDown}
	uc := newTestUseCase(resRepo, defaultCatalog(), paySvc, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrPaymentGateway)

	// The booking itself survived; retry is the recovery path.
	require.Len(t, resRepo.reservations, 1)
	assert.Equal(t, domain.StatusPendingPayment, resRepo.reservations[0].Status)
}

func TestCreateReservation_CancelledRowFreesSlot(t *testing.T) {
	catalog := defaultCatalog()
	catalog.resources[5].MaxConcurrentBookings = 1
	resRepo := &fakeReservationRepo{
		reservations: []*domain.Reservation{{
			ID:          100,
			MerchantID:  1,
			ResourceID:  5,
			ServiceID:   10,
			BookingDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			StartTime:   ptr.Ptr(types.TimeString("10:00")),
			EndTime:     ptr.Ptr(types.TimeString("11:00")),
			Status:      domain.StatusCancelled,
		}},
		nextID: 100,
	}
	uc := newTestUseCase(resRepo, catalog, &fakePaymentService{}, time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.NoError(t, err)
}
