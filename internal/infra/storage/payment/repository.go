package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/pkg/dbmetrics"
	"github.com/reservado/Reservado-BookingService/pkg/psqlbuilder"
)

// unique_violation; raised by the one-approved-per-reservation index.
const pqUniqueViolation = "23505"

// Repository is the payment attempts storage layer.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a payments repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var paymentColumns = []string{
	"id",
	"reservation_id",
	"amount",
	"status",
	"provider",
	"provider_ref",
	"qr_code",
	"copy_paste_code",
	"paid_at",
	"expires_at",
	"created_at",
	"updated_at",
}

// Create inserts a new payment attempt.
func (r *Repository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"reservation_id",
			"amount",
			"status",
			"provider",
			"provider_ref",
			"qr_code",
			"copy_paste_code",
			"expires_at",
		).
		Values(
			p.ReservationID,
			p.Amount,
			p.Status,
			p.Provider,
			p.ProviderRef,
			p.QRCode,
			p.CopyPasteCode,
			p.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetByID fetches a payment by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan payment: %v", ErrScanRow, err)
	}
	return p, nil
}

// GetByProviderRef fetches a payment by its provider reference. Used by
// webhook reconciliation; callers treat ErrPaymentNotFound as "not ours".
func (r *Repository) GetByProviderRef(ctx context.Context, provider, providerRef string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"provider": provider, "provider_ref": providerRef})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderRef - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderRef - scan payment: %v", ErrScanRow, err)
	}
	return p, nil
}

// ListByReservation returns all payment attempts for a reservation, newest
// first.
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}
	return payments, nil
}

// HasApproved reports whether the reservation already has an approved
// payment.
func (r *Repository) HasApproved(ctx context.Context, reservationID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("payments").
		Where(squirrel.Eq{"reservation_id": reservationID, "status": domain.PaymentApproved}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasApproved - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasApproved - scan count: %v", ErrScanRow, err)
	}
	return count > 0, nil
}

// MarkApprovedIfPending approves a pending payment, recording paid-at.
// Returns false when the payment already left pending (idempotent webhook
// replay). A violation of the one-approved-per-reservation index surfaces
// as ErrAlreadyApproved.
func (r *Repository) MarkApprovedIfPending(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentApproved).
		Set("paid_at", paidAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.PaymentPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: MarkApprovedIfPending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrAlreadyApproved
		}
		return false, fmt.Errorf("%w: MarkApprovedIfPending - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkApprovedIfPending - get rows affected: %v", ErrExecQuery, err)
	}
	return affected > 0, nil
}

// SetProviderData records the provider handle on a payment attempt once the
// gateway call succeeded.
func (r *Repository) SetProviderData(ctx context.Context, id int64, providerRef, qrCode, copyPaste string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("provider_ref", providerRef).
		Set("qr_code", qrCode).
		Set("copy_paste_code", copyPaste).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetProviderData - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetProviderData - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetProviderData - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// UpdateStatus sets the payment status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
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
		return ErrPaymentNotFound
	}
	return nil
}

// ExpirePendingForReservation marks all still-pending payment attempts of a
// reservation as expired. Returns the number of rows changed; zero is not an
// error (already reconciled or no attempts).
func (r *Repository) ExpirePendingForReservation(ctx context.Context, reservationID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"reservation_id": reservationID, "status": domain.PaymentPending}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpirePendingForReservation - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpirePendingForReservation - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpirePendingForReservation - get rows affected: %v", ErrExecQuery, err)
	}
	return affected, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row scanner) (*domain.Payment, error) {
	var p domain.Payment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.ReservationID,
		&p.Amount,
		&p.Status,
		&p.Provider,
		&p.ProviderRef,
		&p.QRCode,
		&p.CopyPasteCode,
		&p.PaidAt,
		&p.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
