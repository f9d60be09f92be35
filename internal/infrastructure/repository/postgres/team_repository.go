package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/team"
	qb "github.com/MrSpee/tennis-team-sub004/internal/platform/querybuilder"
)

// TeamRepository reads the canonical team directory owned by the main
// application and writes back per-season group linkage. Teams themselves are
// never created or mutated here.
type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("club_name", "team_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:         row.PublicID,
			ClubName:   row.ClubName,
			TeamName:   row.TeamName,
			Category:   row.Category,
			Region:     row.Region,
			ClubNumber: row.ClubNumber,
		})
	}

	return out, nil
}

func (r *TeamRepository) CategoriesByID(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Select("public_id", "category").From("teams").
		Where(
			qb.In("public_id", values),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team categories query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team categories: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.PublicID] = row.Category
	}
	return out, nil
}

const teamSeasonUpsertSuffix = `ON CONFLICT (team_public_id, season, league, group_id) WHERE deleted_at IS NULL
DO UPDATE SET
	category = EXCLUDED.category,
	year = EXCLUDED.year,
	updated_at = NOW()`

func (r *TeamRepository) UpsertSeasonLinks(ctx context.Context, items []team.SeasonLink) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert team seasons: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := teamSeasonInsertModel{
			TeamID:   item.TeamID,
			Season:   item.Season,
			League:   item.League,
			GroupID:  item.GroupID,
			Category: item.Category,
			Year:     item.Year,
		}

		query, args, err := qb.InsertModel("team_seasons", insertModel, teamSeasonUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert team season query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team season %s/%s: %w", item.TeamID, item.GroupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert team seasons: %w", err)
	}
	return nil
}
