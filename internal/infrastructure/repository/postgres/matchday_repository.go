package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/matchday"
	qb "github.com/MrSpee/tennis-team-sub004/internal/platform/querybuilder"
)

type MatchdayRepository struct {
	db *sqlx.DB
}

func NewMatchdayRepository(db *sqlx.DB) *MatchdayRepository {
	return &MatchdayRepository{db: db}
}

// matchdayUpsertSuffix keeps a re-scrape idempotent. Portal fields are
// overwritten wholesale, but a stored meeting link or result never degrades
// back to empty just because the source row stopped carrying it.
const matchdayUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	group_id = EXCLUDED.group_id,
	match_number = EXCLUDED.match_number,
	home_team = EXCLUDED.home_team,
	away_team = EXCLUDED.away_team,
	home_team_public_id = EXCLUDED.home_team_public_id,
	away_team_public_id = EXCLUDED.away_team_public_id,
	match_date = EXCLUDED.match_date,
	start_time = EXCLUDED.start_time,
	venue = EXCLUDED.venue,
	court_start = EXCLUDED.court_start,
	court_end = EXCLUDED.court_end,
	status = CASE WHEN EXCLUDED.status = 'COMPLETED' THEN EXCLUDED.status ELSE matchdays.status END,
	match_points = CASE WHEN EXCLUDED.match_points <> '' THEN EXCLUDED.match_points ELSE matchdays.match_points END,
	set_score = CASE WHEN EXCLUDED.set_score <> '' THEN EXCLUDED.set_score ELSE matchdays.set_score END,
	game_score = CASE WHEN EXCLUDED.game_score <> '' THEN EXCLUDED.game_score ELSE matchdays.game_score END,
	meeting_id = CASE WHEN EXCLUDED.meeting_id <> '' THEN EXCLUDED.meeting_id ELSE matchdays.meeting_id END,
	meeting_report_url = CASE WHEN EXCLUDED.meeting_report_url <> '' THEN EXCLUDED.meeting_report_url ELSE matchdays.meeting_report_url END,
	season = EXCLUDED.season,
	year = EXCLUDED.year,
	notes = EXCLUDED.notes,
	updated_at = NOW()`

func (r *MatchdayRepository) UpsertMatchdays(ctx context.Context, items []matchday.Matchday) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matchdays: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := matchdayInsertModel{
			ID:               item.ID,
			GroupID:          item.GroupID,
			MatchNumber:      item.MatchNumber,
			HomeTeam:         item.HomeTeam,
			AwayTeam:         item.AwayTeam,
			HomeTeamID:       item.HomeTeamID,
			AwayTeamID:       item.AwayTeamID,
			MatchDate:        item.MatchDate.UTC(),
			StartTime:        item.StartTime,
			Venue:            item.Venue,
			CourtStart:       item.CourtStart,
			CourtEnd:         item.CourtEnd,
			Status:           matchday.NormalizeStatus(item.Status),
			MatchPoints:      item.MatchPoints,
			SetScore:         item.SetScore,
			GameScore:        item.GameScore,
			MeetingID:        item.MeetingID,
			MeetingReportURL: item.MeetingReportURL,
			Season:           item.Season,
			Year:             item.Year,
			Notes:            item.Notes,
		}

		query, args, err := qb.InsertModel("matchdays", insertModel, matchdayUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert matchday query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert matchday %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matchdays: %w", err)
	}
	return nil
}

func (r *MatchdayRepository) GetByID(ctx context.Context, id string) (matchday.Matchday, bool, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return matchday.Matchday{}, false, fmt.Errorf("build get matchday by id query: %w", err)
	}

	var row matchdayTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchday.Matchday{}, false, nil
		}
		return matchday.Matchday{}, false, fmt.Errorf("get matchday by id: %w", err)
	}

	return row.toDomain(), true, nil
}

// GetByMeetingID finds the fixture a portal meeting id was linked to.
func (r *MatchdayRepository) GetByMeetingID(ctx context.Context, meetingID string) (matchday.Matchday, bool, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(
			qb.Eq("meeting_id", meetingID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return matchday.Matchday{}, false, fmt.Errorf("build get matchday by meeting id query: %w", err)
	}

	var row matchdayTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchday.Matchday{}, false, nil
		}
		return matchday.Matchday{}, false, fmt.Errorf("get matchday by meeting id: %w", err)
	}

	return row.toDomain(), true, nil
}

// ListMissingMeetingID returns past fixtures that never got a meeting link
// attached, oldest first so long-standing gaps heal before fresh ones.
func (r *MatchdayRepository) ListMissingMeetingID(ctx context.Context, before time.Time, limit int) ([]matchday.Matchday, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(
			qb.Eq("meeting_id", ""),
			qb.Expr("match_date < ?", before.UTC()),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_date", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matchdays missing meeting id query: %w", err)
	}

	return r.selectMatchdays(ctx, query, args)
}

// ListMissingResults returns past fixtures that carry a meeting link but no
// final score yet.
func (r *MatchdayRepository) ListMissingResults(ctx context.Context, before time.Time, limit int) ([]matchday.Matchday, error) {
	query, args, err := qb.Select("*").From("matchdays").
		Where(
			qb.Expr("meeting_id <> ''"),
			qb.Eq("match_points", ""),
			qb.Expr("match_date < ?", before.UTC()),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_date", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matchdays missing results query: %w", err)
	}

	return r.selectMatchdays(ctx, query, args)
}

func (r *MatchdayRepository) selectMatchdays(ctx context.Context, query string, args []any) ([]matchday.Matchday, error) {
	var rows []matchdayTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matchdays: %w", err)
	}

	out := make([]matchday.Matchday, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchdayRepository) UpdateResult(ctx context.Context, id, matchPoints, setScore, gameScore, status string) error {
	query, args, err := qb.Update("matchdays").
		Set("match_points", matchPoints).
		Set("set_score", setScore).
		Set("game_score", gameScore).
		Set("status", matchday.NormalizeStatus(status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update matchday result query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update matchday result: %w", err)
	}
	return nil
}

func (r *MatchdayRepository) UpdateMeetingLink(ctx context.Context, id, meetingID, reportURL string) error {
	query, args, err := qb.Update("matchdays").
		Set("meeting_id", meetingID).
		Set("meeting_report_url", reportURL).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update matchday meeting link query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update matchday meeting link: %w", err)
	}
	return nil
}
