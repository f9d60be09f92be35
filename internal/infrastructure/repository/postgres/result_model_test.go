package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/meeting"
)

func TestMatchResultModelRoundTrip(t *testing.T) {
	item := meeting.Result{
		MatchdayID:    "md-1",
		MatchNumber:   2,
		Discipline:    "Doppel",
		HomePlayers:   []string{"Hans Müller", "Peter Schmidt"},
		AwayPlayers:   []string{"Jan Weber", "Tim Braun"},
		HomePlayerIDs: []string{"p1", "p2"},
		AwayPlayerIDs: []string{"", ""},
		SetScores:     []meeting.SetScore{{Home: 6, Away: 3}, {Home: 7, Away: 5}},
		MatchPoints:   "1:0",
		Sets:          "2:0",
		Games:         "13:8",
	}

	row, err := newMatchResultInsertModel(item)
	require.NoError(t, err)

	decoded, err := matchResultTableModel{
		MatchdayID:    row.MatchdayID,
		MatchNumber:   row.MatchNumber,
		Discipline:    row.Discipline,
		HomePlayers:   row.HomePlayers,
		AwayPlayers:   row.AwayPlayers,
		HomePlayerIDs: row.HomePlayerIDs,
		AwayPlayerIDs: row.AwayPlayerIDs,
		SetScores:     row.SetScores,
		MatchPoints:   row.MatchPoints,
		Sets:          row.Sets,
		Games:         row.Games,
	}.toDomain()
	require.NoError(t, err)
	require.Equal(t, item, decoded)
}

func TestMatchResultModelToleratesEmptyColumns(t *testing.T) {
	decoded, err := matchResultTableModel{
		MatchdayID:  "md-2",
		MatchNumber: 1,
		Discipline:  "Einzel",
	}.toDomain()
	require.NoError(t, err)

	require.Empty(t, decoded.HomePlayers)
	require.Empty(t, decoded.AwayPlayers)
	require.Empty(t, decoded.SetScores)
	require.Equal(t, "md-2", decoded.MatchdayID)
}

func TestNewMatchResultInsertModelEncodesNilSlices(t *testing.T) {
	row, err := newMatchResultInsertModel(meeting.Result{MatchdayID: "md-3"})
	require.NoError(t, err)

	require.Equal(t, "[]", string(row.HomePlayers))
	require.Equal(t, "[]", string(row.AwayPlayerIDs))
	require.Equal(t, "[]", string(row.SetScores))
}
