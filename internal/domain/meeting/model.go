package meeting

import "strings"

const (
	DisciplineSingles = "SINGLES"
	DisciplineDoubles = "DOUBLES"
)

// Report is the parsed box score of one played fixture. It is an ephemeral
// parse result; persisting it translates every MatchLine 1:1 into Result rows.
type Report struct {
	Meta    Meta
	Singles []MatchLine
	Doubles []MatchLine
}

// Meta carries the header block of a meeting report page.
type Meta struct {
	HomeTeam   string
	AwayTeam   string
	FinalScore string
	DateLabel  string
	Referee    string
}

// MatchLine is one singles or doubles rubber inside a report.
type MatchLine struct {
	MatchNumber int
	HomePlayers []string
	AwayPlayers []string
	SetScores   []SetScore
	MatchPoints string
	Sets        string
	Games       string
}

type SetScore struct {
	Home int
	Away int
}

// Result is the persisted form of one MatchLine, keyed by
// (MatchdayID, MatchNumber, Discipline). A re-import replaces all rows of
// the matchday; box scores are published once upstream and never patched.
type Result struct {
	MatchdayID    string
	MatchNumber   int
	Discipline    string
	HomePlayers   []string
	AwayPlayers   []string
	HomePlayerIDs []string
	AwayPlayerIDs []string
	SetScores     []SetScore
	MatchPoints   string
	Sets          string
	Games         string
}

// IsEmpty reports whether the parsed report carries no rubbers at all,
// meaning the fixture has not been played or published yet.
func (r Report) IsEmpty() bool {
	return len(r.Singles) == 0 && len(r.Doubles) == 0
}

// Totals sums up rubbers for operator-facing summaries.
func (r Report) Totals() (singles, doubles int) {
	return len(r.Singles), len(r.Doubles)
}

// PlaceholderPlayer reports whether a scraped player cell is one of the
// federation's stand-in labels that must never be treated as a real player.
func PlaceholderPlayer(name string) bool {
	folded := strings.ToLower(strings.TrimSpace(name))
	if folded == "" {
		return true
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

var placeholderMarkers = []string{
	"unbekannt",
	"wird nachgenannt",
	"nicht angetreten",
	"nicht aufgestellt",
	"kein spieler",
	"w.o.",
	"walkover",
}
