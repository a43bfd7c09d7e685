package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/pkg/dbmetrics"
	"github.com/reservado/Reservado-BookingService/pkg/psqlbuilder"
	"github.com/reservado/Reservado-BookingService/pkg/types"
)

// Repository is the reservations storage layer.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a reservations repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var reservationColumns = []string{
	"id",
	"merchant_id",
	"resource_id",
	"staff_id",
	"service_id",
	"booking_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"customer_name",
	"customer_phone",
	"customer_email",
	"total_amount",
	"deposit_amount",
	"status",
	"payment_provider",
	"payment_provider_ref",
	"payment_qr_code",
	"payment_copy_paste",
	"deposit_expires_at",
	"customer_notes",
	"internal_notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// AcquireSlotLock takes the transaction-scoped advisory lock serializing
// booking attempts on one (staff-or-resource, date) key. Blocks until the
// competing transaction commits or rolls back; released automatically at
// transaction end, so there is no unlock counterpart.
func (r *Repository) AcquireSlotLock(ctx context.Context, key int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrLockNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
		return fmt.Errorf("%w: AcquireSlotLock - advisory lock: %v", ErrExecQuery, err)
	}
	return nil
}

// Create inserts a new reservation and fills the generated fields.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"merchant_id",
			"resource_id",
			"staff_id",
			"service_id",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"customer_name",
			"customer_phone",
			"customer_email",
			"total_amount",
			"deposit_amount",
			"status",
			"deposit_expires_at",
			"customer_notes",
			"internal_notes",
		).
		Values(
			res.MerchantID,
			res.ResourceID,
			res.StaffID,
			res.ServiceID,
			res.BookingDate,
			timeStringOrNil(res.StartTime),
			timeStringOrNil(res.EndTime),
			res.DurationMinutes,
			res.CustomerName,
			res.CustomerPhone,
			res.CustomerEmail,
			res.TotalAmount,
			res.DepositAmount,
			res.Status,
			res.DepositExpiresAt,
			res.CustomerNotes,
			res.InternalNotes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID fetches a reservation by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	// Inside a transaction the row is locked so concurrent status changes
	// serialize on it.
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}
	return res, nil
}

// ListActiveForSlot returns the active reservations competing for a slot on
// the given date: staff-exclusive rows when staffID is set, resource rows
// otherwise. Inside a transaction the rows are locked (FOR UPDATE) so the
// availability count stays valid until the caller's insert commits.
func (r *Repository) ListActiveForSlot(ctx context.Context, resourceID int64, staffID *int64, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings()})

	if staffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *staffID})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": resourceID})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC NULLS FIRST")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForSlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForSlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetByMerchantWithFilter lists a merchant's reservations with optional
// resource/staff/period/status/customer filters.
func (r *Repository) GetByMerchantWithFilter(ctx context.Context, filter domain.MerchantReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"merchant_id": filter.MerchantID})

	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *filter.ResourceID})
	}
	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}
	if filter.CustomerPhone != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_phone": domain.NormalizePhone(*filter.CustomerPhone)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings()})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC NULLS LAST")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMerchantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMerchantWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus sets the reservation status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// Cancel moves the reservation to cancelled with a reason.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// CancelIfPendingPayment cancels the reservation only when it is still in
// pending_payment. Returns false without error when another writer (webhook,
// concurrent sweep) moved it first; this is what makes the expiration sweep
// idempotent.
func (r *Repository) CancelIfPendingPayment(ctx context.Context, id int64, reason string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPendingPayment}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfPendingPayment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfPendingPayment - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CancelIfPendingPayment - get rows affected: %v", ErrExecQuery, err)
	}
	return affected > 0, nil
}

// UpdateSchedule moves the reservation to a new date/time/staff combination.
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime, endTime *types.TimeString, staffID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("booking_date", date).
		Set("start_time", timeStringOrNil(startTime)).
		Set("end_time", timeStringOrNil(endTime)).
		Set("staff_id", staffID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// SetPaymentInfo records the active deposit attempt on the reservation and
// resets its status/deadline.
func (r *Repository) SetPaymentInfo(
	ctx context.Context,
	id int64,
	provider string,
	providerRef, qrCode, copyPaste *string,
	depositExpiresAt *time.Time,
	status domain.ReservationStatus,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_provider", provider).
		Set("payment_provider_ref", providerRef).
		Set("payment_qr_code", qrCode).
		Set("payment_copy_paste", copyPaste).
		Set("deposit_expires_at", depositExpiresAt).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentInfo - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentInfo - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentInfo - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ListExpiredPendingIDs returns reservations whose payment deadline elapsed
// while still pending_payment. Inside a transaction the rows are taken with
// FOR UPDATE SKIP LOCKED so overlapping sweeps divide the work instead of
// blocking on each other.
func (r *Repository) ListExpiredPendingIDs(ctx context.Context, now time.Time, limit uint64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id").
		From("reservations").
		Where(squirrel.Eq{"status": domain.StatusPendingPayment}).
		Where(squirrel.Lt{"deposit_expires_at": now}).
		OrderBy("deposit_expires_at ASC").
		Limit(limit)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPendingIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPendingIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListExpiredPendingIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPendingIDs - rows error: %v", ErrScanRow, err)
	}
	return ids, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row scanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var startTime, endTime sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.MerchantID,
		&res.ResourceID,
		&res.StaffID,
		&res.ServiceID,
		&res.BookingDate,
		&startTime,
		&endTime,
		&res.DurationMinutes,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.CustomerEmail,
		&res.TotalAmount,
		&res.DepositAmount,
		&res.Status,
		&res.PaymentProvider,
		&res.PaymentProviderRef,
		&res.PaymentQRCode,
		&res.PaymentCopyPaste,
		&res.DepositExpiresAt,
		&res.CustomerNotes,
		&res.InternalNotes,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.StartTime = nullTimeString(startTime)
	res.EndTime = nullTimeString(endTime)
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}
	return reservations, nil
}

// nullTimeString converts a nullable TIME column ("HH:MM" or "HH:MM:SS")
// into a *types.TimeString.
func nullTimeString(v sql.NullString) *types.TimeString {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	if len(s) > 5 {
		s = s[:5]
	}
	ts := types.TimeString(s)
	return &ts
}

func timeStringOrNil(t *types.TimeString) interface{} {
	if t == nil {
		return nil
	}
	return t.String()
}

func inactiveStatusStrings() []string {
	statuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
