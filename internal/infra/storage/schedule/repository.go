package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/dbmetrics"
	"github.com/termini-mk/AvailabilityService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с расписанием (еженедельные правила,
// перерывы и особые даты бизнеса и сотрудников)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetScheduleSet загружает снапшот расписания одной области: правила с перерывами
// и особые даты. employeeID == nil — область бизнеса, иначе область сотрудника.
// Особые даты опционально ограничиваются периодом [from, to].
func (r *Repository) GetScheduleSet(ctx context.Context, businessID int64, employeeID *int64, from, to *time.Time) (*domain.ScheduleSet, error) {
	rules, err := r.GetWeeklyRules(ctx, businessID, employeeID)
	if err != nil {
		return nil, err
	}

	specialDates, err := r.GetSpecialDates(ctx, businessID, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.ScheduleSet{Rules: rules, SpecialDates: specialDates}, nil
}

// GetWeeklyRules получает еженедельные правила области вместе с перерывами.
// employeeID == nil возвращает правила уровня бизнеса (employee_id IS NULL).
func (r *Repository) GetWeeklyRules(ctx context.Context, businessID int64, employeeID *int64) ([]*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"business_id",
		"employee_id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_available",
		"created_at",
		"updated_at",
	).
		From("weekly_rules").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC, start_time ASC")

	if employeeID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": *employeeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules, err := r.scanRules(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachBreaks(ctx, rules); err != nil {
		return nil, err
	}

	return rules, nil
}

// HasEmployeeOverrides проверяет, кастомизировал ли сотрудник расписание
// (хотя бы одно правило или особая дата)
func (r *Repository) HasEmployeeOverrides(ctx context.Context, businessID, employeeID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("weekly_rules").
		Where(squirrel.Eq{"business_id": businessID, "employee_id": employeeID}).
		Prefix("SELECT EXISTS(").
		Suffix(") OR EXISTS(SELECT 1 FROM special_dates WHERE business_id = ? AND employee_id = ?)", businessID, employeeID).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasEmployeeOverrides - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasEmployeeOverrides - scan result: %v", ErrScanRow, err)
	}

	return exists, nil
}

// ReplaceWeeklyRules атомарно заменяет все правила области новым набором.
// Вызывать внутри транзакции: удаление и вставка должны быть неделимы.
// Перерывы правил вставляются вместе с правилами (rule_breaks каскадно
// удаляются по внешнему ключу).
func (r *Repository) ReplaceWeeklyRules(ctx context.Context, businessID int64, employeeID *int64, rules []*domain.WeeklyRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("weekly_rules").
		Where(squirrel.Eq{"business_id": businessID})

	if employeeID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"employee_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"employee_id": *employeeID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyRules - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyRules - execute delete: %v", ErrExecQuery, err)
	}

	for _, rule := range rules {
		if err := r.insertRule(ctx, executor, businessID, employeeID, rule); err != nil {
			return err
		}
	}

	return nil
}

// insertRule вставляет одно правило вместе с его перерывами
func (r *Repository) insertRule(ctx context.Context, executor DBExecutor, businessID int64, employeeID *int64, rule *domain.WeeklyRule) error {
	query, args, err := psqlbuilder.Insert("weekly_rules").
		Columns(
			"business_id",
			"employee_id",
			"day_of_week",
			"start_time",
			"end_time",
			"is_available",
		).
		Values(
			businessID,
			employeeID,
			rule.DayOfWeek,
			rule.StartTime,
			rule.EndTime,
			rule.IsAvailable,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: insertRule - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID); err != nil {
		return fmt.Errorf("%w: insertRule - execute insert: %v", ErrExecQuery, err)
	}

	rule.BusinessID = businessID
	rule.EmployeeID = employeeID

	if len(rule.Breaks) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("rule_breaks").
		Columns("rule_id", "start_time", "end_time")

	for _, b := range rule.Breaks {
		insertBuilder = insertBuilder.Values(rule.ID, b.StartTime, b.EndTime)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertRule - build breaks insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertRule - execute breaks insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetSpecialDates получает особые даты области, опционально за период [from, to].
// employeeID == nil возвращает особые даты уровня бизнеса.
func (r *Repository) GetSpecialDates(ctx context.Context, businessID int64, employeeID *int64, from, to *time.Time) ([]*domain.SpecialDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"business_id",
		"employee_id",
		"date",
		"is_available",
		"start_time",
		"end_time",
		"reason",
		"created_at",
		"updated_at",
	).
		From("special_dates").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("date ASC")

	if employeeID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": *employeeID})
	}

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": *to})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	specialDates := make([]*domain.SpecialDate, 0)

	for rows.Next() {
		var sd domain.SpecialDate
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&sd.ID,
			&sd.BusinessID,
			&sd.EmployeeID,
			&sd.Date,
			&sd.IsAvailable,
			&sd.StartTime,
			&sd.EndTime,
			&sd.Reason,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetSpecialDates - scan row: %v", ErrScanRow, err)
		}

		sd.CreatedAt = createdAt.Time
		sd.UpdatedAt = updatedAt.Time

		specialDates = append(specialDates, &sd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - rows error: %v", ErrScanRow, err)
	}

	return specialDates, nil
}

// CreateSpecialDate создает особую дату.
// ON CONFLICT по (business_id, employee_id, date) перезаписывает существующую:
// повторная установка особой даты на тот же день — это обновление, не ошибка.
func (r *Repository) CreateSpecialDate(ctx context.Context, sd *domain.SpecialDate) (*domain.SpecialDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("special_dates").
		Columns(
			"business_id",
			"employee_id",
			"date",
			"is_available",
			"start_time",
			"end_time",
			"reason",
		).
		Values(
			sd.BusinessID,
			sd.EmployeeID,
			sd.Date,
			sd.IsAvailable,
			sd.StartTime,
			sd.EndTime,
			sd.Reason,
		).
		Suffix(`ON CONFLICT (business_id, employee_id, date) DO UPDATE SET
			is_available = EXCLUDED.is_available,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			reason = EXCLUDED.reason,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateSpecialDate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sd.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateSpecialDate - execute insert: %v", ErrExecQuery, err)
	}

	sd.CreatedAt = createdAt.Time
	sd.UpdatedAt = updatedAt.Time

	return sd, nil
}

// DeleteSpecialDate удаляет особую дату бизнеса по ID
func (r *Repository) DeleteSpecialDate(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("special_dates").
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteSpecialDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteSpecialDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteSpecialDate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSpecialDateNotFound
	}

	return nil
}

// scanRules сканирует результаты запроса в слайс правил (без перерывов)
func (r *Repository) scanRules(rows *sql.Rows) ([]*domain.WeeklyRule, error) {
	rules := make([]*domain.WeeklyRule, 0)

	for rows.Next() {
		var rule domain.WeeklyRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.BusinessID,
			&rule.EmployeeID,
			&rule.DayOfWeek,
			&rule.StartTime,
			&rule.EndTime,
			&rule.IsAvailable,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// attachBreaks одним запросом загружает перерывы всех правил и раскладывает по правилам
func (r *Repository) attachBreaks(ctx context.Context, rules []*domain.WeeklyRule) error {
	if len(rules) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ruleIDs := make([]int64, 0, len(rules))
	byID := make(map[int64]*domain.WeeklyRule, len(rules))
	for _, rule := range rules {
		ruleIDs = append(ruleIDs, rule.ID)
		byID[rule.ID] = rule
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"rule_id",
		"start_time",
		"end_time",
	).
		From("rule_breaks").
		Where(squirrel.Eq{"rule_id": ruleIDs}).
		OrderBy("rule_id ASC, start_time ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Break

		if err := rows.Scan(&b.ID, &b.RuleID, &b.StartTime, &b.EndTime); err != nil {
			return fmt.Errorf("%w: attachBreaks - scan row: %v", ErrScanRow, err)
		}

		if rule, ok := byID[b.RuleID]; ok {
			rule.Breaks = append(rule.Breaks, b)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachBreaks - rows error: %v", ErrScanRow, err)
	}

	return nil
}
