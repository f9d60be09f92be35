package tvm

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const leaguePageHTML = `
<html><body>
<h1>2. Bezirksliga Herren 30 (Winter 2025/2026)</h1>
<ul>
 <li><a href="groupPage?group=047">Gruppe 047</a></li>
 <li><a href="groupPage?group=048">Gruppe 048</a></li>
 <li><a href="groupPage?group=047">Gruppe 047</a></li>
 <li><a href="impressum">Impressum</a></li>
</ul>
</body></html>`

func TestParseLeagueGroups(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(leaguePageHTML))
	if err != nil {
		t.Fatalf("parse fixture html: %v", err)
	}

	groups := parseLeagueGroups(doc, "https://tvm.example/league?championship=TVM+Winter", "winter-2025")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups after dedup, got %d", len(groups))
	}

	first := groups[0]
	if first.ID != "47" {
		t.Fatalf("expected normalized group id 47, got %q", first.ID)
	}
	if first.League != "2. Bezirksliga Herren 30" {
		t.Fatalf("unexpected league name %q", first.League)
	}
	if first.Category != "Herren 30" {
		t.Fatalf("unexpected category %q", first.Category)
	}
	if first.Year != "2025/2026" {
		t.Fatalf("unexpected year %q", first.Year)
	}
	if first.Season != "winter-2025" {
		t.Fatalf("unexpected season %q", first.Season)
	}
	if !strings.HasPrefix(first.URL, "https://tvm.example/") {
		t.Fatalf("expected absolute group url, got %q", first.URL)
	}
}

func TestParseLeagueHeading_NoSeasonSuffix(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><h2>1. Verbandsliga Damen 40</h2></body></html>`))
	if err != nil {
		t.Fatalf("parse fixture html: %v", err)
	}

	league, category, year := parseLeagueHeading(doc)
	if league != "1. Verbandsliga Damen 40" || category != "Damen 40" || year != "" {
		t.Fatalf("unexpected heading parse: league=%q category=%q year=%q", league, category, year)
	}
}
