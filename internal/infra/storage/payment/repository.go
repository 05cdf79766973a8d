package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/pkg/dbmetrics"
	"github.com/signcraft/scheduling-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с платежами по заказам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает платеж по заказу
func (r *Repository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("order_id", "amount", "status").
		Values(p.OrderID, p.Amount, p.Status).
		Suffix("RETURNING id, recorded_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var recordedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &recordedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	p.RecordedAt = recordedAt.Time

	return p, nil
}

// ListByOrderID получает все платежи заказа
func (r *Repository) ListByOrderID(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "order_id", "amount", "status", "recorded_at").
		From("payments").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("recorded_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByOrderID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOrderID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)

	for rows.Next() {
		var p domain.Payment
		var recordedAt sql.NullTime

		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Status, &recordedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByOrderID - scan row: %w", ErrScanRow, err)
		}

		p.RecordedAt = recordedAt.Time
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByOrderID - rows error: %w", ErrScanRow, err)
	}

	return payments, nil
}

// SumCompletedByOrderID возвращает сумму завершённых платежей заказа
func (r *Repository) SumCompletedByOrderID(ctx context.Context, orderID int64) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(amount), 0)").
		From("payments").
		Where(squirrel.Eq{"order_id": orderID, "status": domain.PaymentCompleted}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumCompletedByOrderID - build select query: %w", ErrBuildQuery, err)
	}

	var sum float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumCompletedByOrderID - scan sum: %w", ErrScanRow, err)
	}

	return sum, nil
}

// HasCompletedByOrderID возвращает true, если по заказу есть хотя бы один
// завершённый платеж. Используется для fail-closed блокировки пересчёта.
func (r *Repository) HasCompletedByOrderID(ctx context.Context, orderID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(1)").
		From("payments").
		Where(squirrel.Eq{"order_id": orderID, "status": domain.PaymentCompleted}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasCompletedByOrderID - build select query: %w", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasCompletedByOrderID - scan count: %w", ErrScanRow, err)
	}

	return count > 0, nil
}
