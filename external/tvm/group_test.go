package tvm

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/group"
)

const groupPageHTML = `
<html><body>
<h1>2. Bezirksliga Herren 30 (Winter 2025/2026)</h1>
<table>
 <tr><th>Rang</th><th>Mannschaft</th><th>Begegnungen</th><th>Tabellenpunkte</th><th>Matchpunkte</th></tr>
 <tr><td>1.</td><td>TC Rot-Weiss Köln II</td><td>3</td><td>6:0</td><td>15:3</td></tr>
 <tr><td>2.</td><td>TG Leverkusen</td><td>3</td><td>4:2</td><td>12:6</td></tr>
</table>
<table>
 <tr><th>Nr.</th><th>Datum</th><th>Heimmannschaft</th><th>Gastmannschaft</th><th>Matchpunkte</th><th>Bericht</th></tr>
 <tr><td>1</td><td>12.11.2025 18:30</td><td>TC Rot-Weiss Köln II</td><td>TG Leverkusen</td>
     <td>5:1</td><td><a href="meetingReport?meeting=9001">Spielbericht</a></td></tr>
 <tr><td>2</td><td></td><td>TG Leverkusen</td><td>THC Bonn</td><td>-</td><td></td></tr>
 <tr><td>3</td><td>07.12.2025</td><td>THC Bonn</td><td>TC Rot-Weiss Köln II</td><td></td><td></td></tr>
</table>
</body></html>`

func TestClassifyTable(t *testing.T) {
	t.Parallel()

	if kind := classifyTable([]string{"rang", "mannschaft", "begegnungen"}); kind != tableStandings {
		t.Fatalf("expected standings table, got %d", kind)
	}
	if kind := classifyTable([]string{"nr.", "datum", "heimmannschaft", "gastmannschaft"}); kind != tableMatchPlan {
		t.Fatalf("expected match plan table, got %d", kind)
	}
	if kind := classifyTable([]string{"name", "lk"}); kind != tableUnknown {
		t.Fatalf("expected unknown table, got %d", kind)
	}
}

func TestParseGroupPageTables(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(groupPageHTML))
	if err != nil {
		t.Fatalf("parse fixture html: %v", err)
	}

	page := parseGroupPage(doc, group.Group{ID: "47", URL: "https://tvm.example/group?group=047"})

	if len(page.Standings) != 2 {
		t.Fatalf("expected 2 standings rows, got %d", len(page.Standings))
	}
	if page.Standings[0].Rank != 1 || page.Standings[0].Team != "TC Rot-Weiss Köln II" {
		t.Fatalf("unexpected first standings row: %+v", page.Standings[0])
	}
	if page.Standings[0].MatchPoints != "15:3" {
		t.Fatalf("expected match points 15:3, got %q", page.Standings[0].MatchPoints)
	}

	if len(page.Matches) != 3 {
		t.Fatalf("expected 3 match rows, got %d", len(page.Matches))
	}

	first := page.Matches[0]
	if first.MatchNumber != 1 || first.StartTime != "18:30" {
		t.Fatalf("unexpected first match row: %+v", first)
	}
	if first.Score != "5:1" || !first.Played() {
		t.Fatalf("expected played 5:1, got %q", first.Score)
	}
	if first.MeetingID != "9001" {
		t.Fatalf("expected meeting id 9001, got %q", first.MeetingID)
	}
	if first.ReportURL == "" || !strings.Contains(first.ReportURL, "meeting=9001") {
		t.Fatalf("expected absolute report url, got %q", first.ReportURL)
	}

	// The empty date cell inherits the date of the row above.
	second := page.Matches[1]
	if !second.Date.Equal(first.Date) {
		t.Fatalf("expected inherited date %s, got %s", first.Date, second.Date)
	}
	if second.Score != "" || second.Played() {
		t.Fatalf("expected unplayed row, got score %q", second.Score)
	}
	if second.MeetingID != "" {
		t.Fatalf("expected no meeting id, got %q", second.MeetingID)
	}

	third := page.Matches[2]
	if third.StartTime != "" {
		t.Fatalf("expected date-only row to reset the clock, got %q", third.StartTime)
	}
}
