package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/pkg/dbmetrics"
	"github.com/signcraft/scheduling-service/pkg/psqlbuilder"
)

var orderColumns = []string{
	"id",
	"booking_id",
	"quote_id",
	"base_subtotal",
	"urgent_fee_pct",
	"tax_rate",
	"total_subtotal",
	"tax_amount",
	"total_amount",
	"deposit_pct",
	"deposit_amount",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с финансовыми проекциями заказов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заказ для бронирования
// Вызывается в транзакции резервирования вместе со вставкой бронирования
func (r *Repository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("orders").
		Columns(
			"booking_id",
			"quote_id",
			"base_subtotal",
			"urgent_fee_pct",
			"tax_rate",
			"total_subtotal",
			"tax_amount",
			"total_amount",
			"deposit_pct",
			"deposit_amount",
		).
		Values(
			o.BookingID,
			o.QuoteID,
			o.BaseSubtotal,
			o.UrgentFeePct,
			o.TaxRate,
			o.TotalSubtotal,
			o.TaxAmount,
			o.TotalAmount,
			o.DepositPct,
			o.DepositAmount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByBookingID получает заказ по ID бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Order, error) {
	return r.getOne(ctx, squirrel.Eq{"booking_id": bookingID})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(where)

	// Внутри транзакции пересчёта заказ блокируется до проверки
	// наличия завершённых платежей
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %w", ErrBuildQuery, err)
	}

	var o domain.Order
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&o.ID,
		&o.BookingID,
		&o.QuoteID,
		&o.BaseSubtotal,
		&o.UrgentFeePct,
		&o.TaxRate,
		&o.TotalSubtotal,
		&o.TaxAmount,
		&o.TotalAmount,
		&o.DepositPct,
		&o.DepositAmount,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan order: %w", ErrScanRow, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}

// UpdateTotals записывает пересчитанные суммы заказа
func (r *Repository) UpdateTotals(ctx context.Context, o *domain.Order) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("urgent_fee_pct", o.UrgentFeePct).
		Set("total_subtotal", o.TotalSubtotal).
		Set("tax_amount", o.TaxAmount).
		Set("total_amount", o.TotalAmount).
		Set("deposit_pct", o.DepositPct).
		Set("deposit_amount", o.DepositAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTotals - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateTotals - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTotals - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
