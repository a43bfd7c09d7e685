package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/reservado/Reservado-BookingService/internal/domain"
	"github.com/reservado/Reservado-BookingService/pkg/dbmetrics"
	"github.com/reservado/Reservado-BookingService/pkg/psqlbuilder"
)

// Repository is the read side of the merchant catalog: service offerings,
// resources, merchant settings and staff blocks. The engine never writes
// these tables; merchant CRUD lives in another service.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a catalog repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceOffering fetches a merchant's service offering.
func (r *Repository) GetServiceOffering(ctx context.Context, merchantID, serviceID int64) (*domain.ServiceOffering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"name",
		"price",
		"duration_minutes",
		"buffer_before_minutes",
		"buffer_after_minutes",
		"deposit_fixed_amount",
		"deposit_percentage",
		"full_day_pricing",
		"created_at",
		"updated_at",
	).
		From("service_offerings").
		Where(squirrel.Eq{"id": serviceID, "merchant_id": merchantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceOffering - build select query: %v", ErrBuildQuery, err)
	}

	var offering domain.ServiceOffering
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&offering.ID,
		&offering.MerchantID,
		&offering.Name,
		&offering.Price,
		&offering.DurationMinutes,
		&offering.BufferBeforeMinutes,
		&offering.BufferAfterMinutes,
		&offering.DepositFixedAmount,
		&offering.DepositPercentage,
		&offering.FullDayPricing,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceOffering - scan offering: %v", ErrScanRow, err)
	}

	offering.CreatedAt = createdAt.Time
	offering.UpdatedAt = updatedAt.Time

	return &offering, nil
}

// GetResource fetches a merchant's resource.
func (r *Repository) GetResource(ctx context.Context, merchantID, resourceID int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"merchant_id",
		"name",
		"max_concurrent_bookings",
		"created_at",
		"updated_at",
	).
		From("resources").
		Where(squirrel.Eq{"id": resourceID, "merchant_id": merchantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - build select query: %v", ErrBuildQuery, err)
	}

	var resource domain.Resource
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&resource.ID,
		&resource.MerchantID,
		&resource.Name,
		&resource.MaxConcurrentBookings,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - scan resource: %v", ErrScanRow, err)
	}

	if resource.MaxConcurrentBookings <= 0 {
		resource.MaxConcurrentBookings = domain.DefaultMaxConcurrentBookings
	}

	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time

	return &resource, nil
}

// GetMerchantSettings fetches the merchant-level policies.
func (r *Repository) GetMerchantSettings(ctx context.Context, merchantID int64) (*domain.MerchantSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"merchant_id",
		"require_deposit",
		"deposit_percentage",
		"deposit_ttl_minutes",
		"cancellation_deadline_hours",
		"cancellation_refund_percentage",
		"min_booking_notice_minutes",
		"mercadopago_access_token",
		"created_at",
		"updated_at",
	).
		From("merchant_settings").
		Where(squirrel.Eq{"merchant_id": merchantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMerchantSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.MerchantSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.MerchantID,
		&settings.RequireDeposit,
		&settings.DepositPercentage,
		&settings.DepositTTLMinutes,
		&settings.CancellationDeadlineHours,
		&settings.CancellationRefundPercentage,
		&settings.MinBookingNoticeMinutes,
		&settings.MercadoPagoAccessToken,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMerchantSettings - scan settings: %v", ErrScanRow, err)
	}

	if settings.DepositTTLMinutes <= 0 {
		settings.DepositTTLMinutes = domain.DefaultDepositTTLMinutes
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// ListStaffBlocks returns the staff blocks intersecting [from, to).
func (r *Repository) ListStaffBlocks(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.StaffBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"starts_at",
		"ends_at",
		"reason",
		"created_at",
	).
		From("staff_blocks").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Lt{"starts_at": to}).
		Where(squirrel.Gt{"ends_at": from}).
		OrderBy("starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffBlocks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.StaffBlock, 0)
	for rows.Next() {
		var block domain.StaffBlock
		var createdAt sql.NullTime

		if err := rows.Scan(
			&block.ID,
			&block.StaffID,
			&block.StartsAt,
			&block.EndsAt,
			&block.Reason,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListStaffBlocks - scan row: %v", ErrScanRow, err)
		}

		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffBlocks - rows error: %v", ErrScanRow, err)
	}
	return blocks, nil
}
