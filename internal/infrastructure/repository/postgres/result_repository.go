package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/meeting"
	qb "github.com/MrSpee/tennis-team-sub004/internal/platform/querybuilder"
)

type MatchResultRepository struct {
	db *sqlx.DB
}

func NewMatchResultRepository(db *sqlx.DB) *MatchResultRepository {
	return &MatchResultRepository{db: db}
}

func (r *MatchResultRepository) ListByMatchday(ctx context.Context, matchdayID string) ([]meeting.Result, error) {
	query, args, err := qb.Select("*").From("match_results").
		Where(
			qb.Eq("matchday_id", matchdayID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("discipline", "match_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match results query: %w", err)
	}

	var rows []matchResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match results: %w", err)
	}

	out := make([]meeting.Result, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("map match result %d: %w", row.ID, err)
		}
		out = append(out, item)
	}

	return out, nil
}

// ReplaceByMatchday swaps the full box score of one matchday inside a single
// transaction. The source publishes reports wholesale, so merging row by row
// could only keep rows the portal no longer shows.
func (r *MatchResultRepository) ReplaceByMatchday(ctx context.Context, matchdayID string, rows []meeting.Result) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace match results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("match_results").
		Where(qb.Eq("matchday_id", matchdayID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear match results query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("clear match results: %w", err)
	}

	for _, item := range rows {
		insertModel, err := newMatchResultInsertModel(item)
		if err != nil {
			return fmt.Errorf("build match result row: %w", err)
		}

		query, args, err := qb.InsertModel("match_results", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert match result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert match result %s/%d: %w", item.Discipline, item.MatchNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace match results: %w", err)
	}
	return nil
}
