package postgres

import (
	"time"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/matchday"
)

type matchdayTableModel struct {
	ID               string     `db:"id"`
	GroupID          string     `db:"group_id"`
	MatchNumber      int        `db:"match_number"`
	HomeTeam         string     `db:"home_team"`
	AwayTeam         string     `db:"away_team"`
	HomeTeamID       string     `db:"home_team_public_id"`
	AwayTeamID       string     `db:"away_team_public_id"`
	MatchDate        time.Time  `db:"match_date"`
	StartTime        string     `db:"start_time"`
	Venue            string     `db:"venue"`
	CourtStart       int        `db:"court_start"`
	CourtEnd         int        `db:"court_end"`
	Status           string     `db:"status"`
	MatchPoints      string     `db:"match_points"`
	SetScore         string     `db:"set_score"`
	GameScore        string     `db:"game_score"`
	MeetingID        string     `db:"meeting_id"`
	MeetingReportURL string     `db:"meeting_report_url"`
	Season           string     `db:"season"`
	Year             string     `db:"year"`
	Notes            string     `db:"notes"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type matchdayInsertModel struct {
	ID               string    `db:"id"`
	GroupID          string    `db:"group_id"`
	MatchNumber      int       `db:"match_number"`
	HomeTeam         string    `db:"home_team"`
	AwayTeam         string    `db:"away_team"`
	HomeTeamID       string    `db:"home_team_public_id"`
	AwayTeamID       string    `db:"away_team_public_id"`
	MatchDate        time.Time `db:"match_date"`
	StartTime        string    `db:"start_time"`
	Venue            string    `db:"venue"`
	CourtStart       int       `db:"court_start"`
	CourtEnd         int       `db:"court_end"`
	Status           string    `db:"status"`
	MatchPoints      string    `db:"match_points"`
	SetScore         string    `db:"set_score"`
	GameScore        string    `db:"game_score"`
	MeetingID        string    `db:"meeting_id"`
	MeetingReportURL string    `db:"meeting_report_url"`
	Season           string    `db:"season"`
	Year             string    `db:"year"`
	Notes            string    `db:"notes"`
}

func (row matchdayTableModel) toDomain() matchday.Matchday {
	return matchday.Matchday{
		ID:               row.ID,
		GroupID:          row.GroupID,
		MatchNumber:      row.MatchNumber,
		HomeTeam:         row.HomeTeam,
		AwayTeam:         row.AwayTeam,
		HomeTeamID:       row.HomeTeamID,
		AwayTeamID:       row.AwayTeamID,
		MatchDate:        row.MatchDate,
		StartTime:        row.StartTime,
		Venue:            row.Venue,
		CourtStart:       row.CourtStart,
		CourtEnd:         row.CourtEnd,
		Status:           row.Status,
		MatchPoints:      row.MatchPoints,
		SetScore:         row.SetScore,
		GameScore:        row.GameScore,
		MeetingID:        row.MeetingID,
		MeetingReportURL: row.MeetingReportURL,
		Season:           row.Season,
		Year:             row.Year,
		Notes:            row.Notes,
	}
}
