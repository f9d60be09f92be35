package matchday

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
)

// Matchday is one scheduled contest between two teams within a group.
type Matchday struct {
	ID               string
	GroupID          string
	MatchNumber      int
	HomeTeam         string
	AwayTeam         string
	HomeTeamID       string
	AwayTeamID       string
	MatchDate        time.Time
	StartTime        string
	Venue            string
	CourtStart       int
	CourtEnd         int
	Status           string
	MatchPoints      string
	SetScore         string
	GameScore        string
	MeetingID        string
	MeetingReportURL string
	Season           string
	Year             string
	Notes            string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsCompletedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, "FINISHED", "GESPIELT":
		return true
	default:
		return false
	}
}

// Fingerprint derives the stable matchday identifier from the scrape-visible
// identity of a fixture. The same group, date, pairing and match number must
// always map to the same id, so persisting a re-scrape is a pure upsert.
func Fingerprint(groupID, dateISO, homeTeam, awayTeam string, matchNumber int) string {
	seed := strings.Join([]string{
		fingerprintToken(groupID),
		fingerprintToken(dateISO),
		fingerprintToken(homeTeam),
		fingerprintToken(awayTeam),
		strconv.Itoa(matchNumber),
	}, "|")

	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:24]
}

func fingerprintToken(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(value))), " ")
}

// HasResult reports whether a scraped or stored row carries a final score.
func (m Matchday) HasResult() bool {
	return strings.TrimSpace(m.MatchPoints) != "" || strings.TrimSpace(m.SetScore) != ""
}
