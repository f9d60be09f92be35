package standing

// Row is one standings-table line for a group. Standings are recomputed
// wholesale on every scrape; rows are never merged incrementally.
type Row struct {
	Rank        int
	Team        string
	TeamID      string
	Played      int
	Wins        int
	Draws       int
	Losses      int
	TablePoints string
	MatchPoints string
	Sets        string
	Games       string
}
