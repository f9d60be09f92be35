package team

import "strings"

// Team is the canonical club team owned by the shared datastore. The
// pipeline only reads teams to build its lookup directory and writes back
// season linkage; it never creates teams.
type Team struct {
	ID         string
	ClubName   string
	TeamName   string
	Category   string
	Region     string
	ClubNumber string
}

// Label is the display form used for fuzzy comparison against scraped names.
func (t Team) Label() string {
	label := strings.TrimSpace(t.ClubName)
	if suffix := strings.TrimSpace(t.TeamName); suffix != "" {
		label += " " + suffix
	}
	return label
}

// SeasonLink associates a canonical team with a scraped group for one season.
// Conflict key is (TeamID, Season, League, GroupID); values are overwritten
// wholesale because the source always supplies a complete record.
type SeasonLink struct {
	TeamID   string
	Season   string
	League   string
	GroupID  string
	Category string
	Year     string
}
