package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/meeting"
)

type matchResultTableModel struct {
	ID            int64      `db:"id"`
	MatchdayID    string     `db:"matchday_id"`
	MatchNumber   int        `db:"match_number"`
	Discipline    string     `db:"discipline"`
	HomePlayers   []byte     `db:"home_players"`
	AwayPlayers   []byte     `db:"away_players"`
	HomePlayerIDs []byte     `db:"home_player_ids"`
	AwayPlayerIDs []byte     `db:"away_player_ids"`
	SetScores     []byte     `db:"set_scores"`
	MatchPoints   string     `db:"match_points"`
	Sets          string     `db:"sets"`
	Games         string     `db:"games"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type matchResultInsertModel struct {
	MatchdayID    string `db:"matchday_id"`
	MatchNumber   int    `db:"match_number"`
	Discipline    string `db:"discipline"`
	HomePlayers   []byte `db:"home_players"`
	AwayPlayers   []byte `db:"away_players"`
	HomePlayerIDs []byte `db:"home_player_ids"`
	AwayPlayerIDs []byte `db:"away_player_ids"`
	SetScores     []byte `db:"set_scores"`
	MatchPoints   string `db:"match_points"`
	Sets          string `db:"sets"`
	Games         string `db:"games"`
}

type setScoreJSON struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func (row matchResultTableModel) toDomain() (meeting.Result, error) {
	out := meeting.Result{
		MatchdayID:  row.MatchdayID,
		MatchNumber: row.MatchNumber,
		Discipline:  row.Discipline,
		MatchPoints: row.MatchPoints,
		Sets:        row.Sets,
		Games:       row.Games,
	}

	if err := unmarshalJSONColumn(row.HomePlayers, &out.HomePlayers); err != nil {
		return meeting.Result{}, fmt.Errorf("decode home players: %w", err)
	}
	if err := unmarshalJSONColumn(row.AwayPlayers, &out.AwayPlayers); err != nil {
		return meeting.Result{}, fmt.Errorf("decode away players: %w", err)
	}
	if err := unmarshalJSONColumn(row.HomePlayerIDs, &out.HomePlayerIDs); err != nil {
		return meeting.Result{}, fmt.Errorf("decode home player ids: %w", err)
	}
	if err := unmarshalJSONColumn(row.AwayPlayerIDs, &out.AwayPlayerIDs); err != nil {
		return meeting.Result{}, fmt.Errorf("decode away player ids: %w", err)
	}

	var sets []setScoreJSON
	if err := unmarshalJSONColumn(row.SetScores, &sets); err != nil {
		return meeting.Result{}, fmt.Errorf("decode set scores: %w", err)
	}
	for _, s := range sets {
		out.SetScores = append(out.SetScores, meeting.SetScore{Home: s.Home, Away: s.Away})
	}

	return out, nil
}

func newMatchResultInsertModel(item meeting.Result) (matchResultInsertModel, error) {
	homePlayers, err := sonic.Marshal(emptyIfNil(item.HomePlayers))
	if err != nil {
		return matchResultInsertModel{}, fmt.Errorf("encode home players: %w", err)
	}
	awayPlayers, err := sonic.Marshal(emptyIfNil(item.AwayPlayers))
	if err != nil {
		return matchResultInsertModel{}, fmt.Errorf("encode away players: %w", err)
	}
	homeIDs, err := sonic.Marshal(emptyIfNil(item.HomePlayerIDs))
	if err != nil {
		return matchResultInsertModel{}, fmt.Errorf("encode home player ids: %w", err)
	}
	awayIDs, err := sonic.Marshal(emptyIfNil(item.AwayPlayerIDs))
	if err != nil {
		return matchResultInsertModel{}, fmt.Errorf("encode away player ids: %w", err)
	}

	sets := make([]setScoreJSON, 0, len(item.SetScores))
	for _, s := range item.SetScores {
		sets = append(sets, setScoreJSON{Home: s.Home, Away: s.Away})
	}
	setScores, err := sonic.Marshal(sets)
	if err != nil {
		return matchResultInsertModel{}, fmt.Errorf("encode set scores: %w", err)
	}

	return matchResultInsertModel{
		MatchdayID:    item.MatchdayID,
		MatchNumber:   item.MatchNumber,
		Discipline:    item.Discipline,
		HomePlayers:   homePlayers,
		AwayPlayers:   awayPlayers,
		HomePlayerIDs: homeIDs,
		AwayPlayerIDs: awayIDs,
		SetScores:     setScores,
		MatchPoints:   item.MatchPoints,
		Sets:          item.Sets,
		Games:         item.Games,
	}, nil
}

func unmarshalJSONColumn(raw []byte, target any) error {
	if len(raw) == 0 {
		return nil
	}
	return sonic.Unmarshal(raw, target)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
