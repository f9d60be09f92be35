package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/importlog"
	qb "github.com/MrSpee/tennis-team-sub004/internal/platform/querybuilder"
)

// ImportAttemptRepository keeps the audit trail of result imports. Rows are
// unique per (matchday, calendar day); repeating an import on the same day
// updates that day's row instead of inflating the lifetime count.
type ImportAttemptRepository struct {
	db *sqlx.DB
}

func NewImportAttemptRepository(db *sqlx.DB) *ImportAttemptRepository {
	return &ImportAttemptRepository{db: db}
}

const importAttemptUpsertSuffix = `ON CONFLICT (matchday_id, attempt_date) DO UPDATE SET
	success = EXCLUDED.success,
	error_code = EXCLUDED.error_code,
	error_message = EXCLUDED.error_message,
	updated_at = NOW()`

func (r *ImportAttemptRepository) Record(ctx context.Context, item importlog.Attempt) error {
	insertModel := importAttemptInsertModel{
		MatchdayID:   item.MatchdayID,
		AttemptDate:  importlog.Day(item.AttemptDate),
		Success:      item.Success,
		ErrorCode:    item.ErrorCode,
		ErrorMessage: item.ErrorMessage,
	}

	query, args, err := qb.InsertModel("import_attempts", insertModel, importAttemptUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build record import attempt query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record import attempt: %w", err)
	}
	return nil
}

// buildCountAttemptsQuery counts budget-consuming attempts per matchday.
// Unpublished-report rows are excluded; they pace retries but must not push
// a fixture toward the stale cutoff.
func buildCountAttemptsQuery(matchdayIDs []string) (string, []any, error) {
	values := make([]any, 0, len(matchdayIDs))
	for _, id := range matchdayIDs {
		values = append(values, id)
	}

	return qb.Select("matchday_id", "COUNT(*) AS attempt_count").
		From("import_attempts").
		Where(
			qb.In("matchday_id", values),
			qb.Expr("error_code <> ?", importlog.ErrorCodeNoResult),
		).
		GroupBy("matchday_id").
		ToSQL()
}

func (r *ImportAttemptRepository) CountByMatchday(ctx context.Context, matchdayIDs []string) (map[string]int, error) {
	if len(matchdayIDs) == 0 {
		return map[string]int{}, nil
	}

	query, args, err := buildCountAttemptsQuery(matchdayIDs)
	if err != nil {
		return nil, fmt.Errorf("build count import attempts query: %w", err)
	}

	var rows []attemptCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count import attempts: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.MatchdayID] = row.Count
	}
	return out, nil
}

func (r *ImportAttemptRepository) AttemptedOn(ctx context.Context, matchdayIDs []string, day time.Time) (map[string]bool, error) {
	if len(matchdayIDs) == 0 {
		return map[string]bool{}, nil
	}

	values := make([]any, 0, len(matchdayIDs))
	for _, id := range matchdayIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("matchday_id").
		From("import_attempts").
		Where(
			qb.In("matchday_id", values),
			qb.Eq("attempt_date", importlog.Day(day)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select attempted matchdays query: %w", err)
	}

	var rows []attemptCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select attempted matchdays: %w", err)
	}

	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		out[row.MatchdayID] = true
	}
	return out, nil
}
