package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/pkg/dbmetrics"
	"github.com/signcraft/scheduling-service/pkg/psqlbuilder"
)

// pqUniqueViolation код ошибки PostgreSQL при нарушении уникальности
const pqUniqueViolation = "23505"

var policyColumns = []string{
	"id",
	"shop_id",
	"working_days",
	"start_hour",
	"end_hour",
	"slot_duration_minutes",
	"regular_slots_per_day",
	"emergency_slots_per_day",
	"urgent_fee_pct",
	"deposit_pct",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий календарной политики и blackout-дат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPolicyByShop получает активную календарную политику магазина
func (r *Repository) GetPolicyByShop(ctx context.Context, shopID int64) (*domain.CalendarPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("calendar_policies").
		Where(squirrel.Eq{"shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicyByShop - build select query: %w", ErrBuildQuery, err)
	}

	var policy domain.CalendarPolicy
	var workingDays string
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&policy.ShopID,
		&workingDays,
		&policy.StartHour,
		&policy.EndHour,
		&policy.SlotDurationMinutes,
		&policy.RegularSlotsPerDay,
		&policy.EmergencySlotsPerDay,
		&policy.UrgentFeePct,
		&policy.DepositPct,
		&policy.Version,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicyByShop - scan policy: %w", ErrScanRow, err)
	}

	policy.WorkingDays, err = parseWorkingDays(workingDays)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicyByShop - parse working days: %w", ErrScanRow, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}

// ReplacePolicy заменяет политику магазина целиком одним UPSERT.
// Валидация выполняется до вызова; частичных записей не бывает -
// либо вся новая политика, либо прежняя остаётся нетронутой.
// Версия инкрементируется при каждой замене.
func (r *Repository) ReplacePolicy(ctx context.Context, policy *domain.CalendarPolicy) (*domain.CalendarPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("calendar_policies").
		Columns(
			"shop_id",
			"working_days",
			"start_hour",
			"end_hour",
			"slot_duration_minutes",
			"regular_slots_per_day",
			"emergency_slots_per_day",
			"urgent_fee_pct",
			"deposit_pct",
		).
		Values(
			policy.ShopID,
			formatWorkingDays(policy.WorkingDays),
			policy.StartHour,
			policy.EndHour,
			policy.SlotDurationMinutes,
			policy.RegularSlotsPerDay,
			policy.EmergencySlotsPerDay,
			policy.UrgentFeePct,
			policy.DepositPct,
		).
		Suffix(`ON CONFLICT (shop_id) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			start_hour = EXCLUDED.start_hour,
			end_hour = EXCLUDED.end_hour,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			regular_slots_per_day = EXCLUDED.regular_slots_per_day,
			emergency_slots_per_day = EXCLUDED.emergency_slots_per_day,
			urgent_fee_pct = EXCLUDED.urgent_fee_pct,
			deposit_pct = EXCLUDED.deposit_pct,
			version = calendar_policies.version + 1,
			updated_at = NOW()
		RETURNING id, version, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReplacePolicy - build upsert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&policy.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: ReplacePolicy - execute upsert: %w", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// ListBlackoutDates получает blackout-даты магазина, опционально за период
func (r *Repository) ListBlackoutDates(ctx context.Context, filter domain.BlackoutDatesFilter) ([]*domain.BlackoutDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"shop_id",
		"date",
		"reason",
		"created_at",
	).
		From("blackout_dates").
		Where(squirrel.Eq{"shop_id": filter.ShopID}).
		OrderBy("date ASC")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": *filter.EndDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlackoutDates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlackoutDates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]*domain.BlackoutDate, 0)

	for rows.Next() {
		var blackout domain.BlackoutDate
		var createdAt sql.NullTime

		if err := rows.Scan(
			&blackout.ID,
			&blackout.ShopID,
			&blackout.Date,
			&blackout.Reason,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListBlackoutDates - scan row: %w", ErrScanRow, err)
		}

		blackout.CreatedAt = createdAt.Time
		blackouts = append(blackouts, &blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlackoutDates - rows error: %w", ErrScanRow, err)
	}

	return blackouts, nil
}

// AddBlackoutDate добавляет blackout-дату
// Дубликат по (shop_id, date) возвращает ErrBlackoutExists
func (r *Repository) AddBlackoutDate(ctx context.Context, blackout *domain.BlackoutDate) (*domain.BlackoutDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackout_dates").
		Columns("shop_id", "date", "reason").
		Values(blackout.ShopID, blackout.Date, blackout.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddBlackoutDate - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blackout.ID, &createdAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrBlackoutExists
		}
		return nil, fmt.Errorf("%w: AddBlackoutDate - execute insert: %w", ErrExecQuery, err)
	}

	blackout.CreatedAt = createdAt.Time

	return blackout, nil
}

// RemoveBlackoutDate удаляет blackout-дату магазина по ID
func (r *Repository) RemoveBlackoutDate(ctx context.Context, shopID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blackout_dates").
		Where(squirrel.Eq{"id": id, "shop_id": shopID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveBlackoutDate - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveBlackoutDate - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveBlackoutDate - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}

// formatWorkingDays сериализует дни недели в CSV-строку ("1,2,3,4,5")
func formatWorkingDays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

// parseWorkingDays разбирает CSV-строку дней недели
func parseWorkingDays(s string) ([]time.Weekday, error) {
	if s == "" {
		return []time.Weekday{}, nil
	}

	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
