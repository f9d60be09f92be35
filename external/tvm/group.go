package tvm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/group"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/standing"
	"github.com/MrSpee/tennis-team-sub004/internal/usecase"
)

// FetchGroup scrapes one group page. Tables are classified by their header
// row because the portal renders standings and match plan with the same
// markup and no distinguishing ids.
func (c *Client) FetchGroup(ctx context.Context, g group.Group) (usecase.ScrapedGroupPage, error) {
	doc, err := c.fetchDocument(ctx, g.URL)
	if err != nil {
		return usecase.ScrapedGroupPage{}, fmt.Errorf("fetch group %s: %w", g.ID, err)
	}

	page := parseGroupPage(doc, g)

	c.logger.InfoContext(ctx, "scraped group page",
		"group_id", g.ID,
		"standings", len(page.Standings),
		"matches", len(page.Matches),
	)
	return page, nil
}

func parseGroupPage(doc *goquery.Document, g group.Group) usecase.ScrapedGroupPage {
	page := usecase.ScrapedGroupPage{Group: g}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headers := tableHeaders(table)
		switch classifyTable(headers) {
		case tableStandings:
			page.Standings = append(page.Standings, parseStandingsTable(table, headers)...)
		case tableMatchPlan:
			page.Matches = append(page.Matches, parseMatchTable(table, headers, g.URL)...)
		}
	})
	return page
}

type tableKind int

const (
	tableUnknown tableKind = iota
	tableStandings
	tableMatchPlan
)

func classifyTable(headers []string) tableKind {
	joined := strings.ToLower(strings.Join(headers, " "))
	switch {
	case strings.Contains(joined, "rang") && strings.Contains(joined, "mannschaft"):
		return tableStandings
	case strings.Contains(joined, "datum") && (strings.Contains(joined, "heim") || strings.Contains(joined, "gast")):
		return tableMatchPlan
	default:
		return tableUnknown
	}
}

func tableHeaders(table *goquery.Selection) []string {
	headerRow := table.Find("tr").First()
	cells := headerRow.Find("th")
	if cells.Length() == 0 {
		cells = headerRow.Find("td")
	}

	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.ToLower(cleanText(cell.Text())))
	})
	return out
}

// headerIndex finds the first column whose header contains any of the given
// fragments, -1 when none match.
func headerIndex(headers []string, fragments ...string) int {
	for i, header := range headers {
		for _, fragment := range fragments {
			if strings.Contains(header, fragment) {
				return i
			}
		}
	}
	return -1
}

func parseStandingsTable(table *goquery.Selection, headers []string) []standing.Row {
	rankCol := headerIndex(headers, "rang")
	teamCol := headerIndex(headers, "mannschaft")
	playedCol := headerIndex(headers, "begegn", "spiele")
	tablePtsCol := headerIndex(headers, "tabellenpunkte", "punkte")
	matchPtsCol := headerIndex(headers, "matchpunkte", "match")
	setsCol := headerIndex(headers, "sätze", "saetze")
	gamesCol := headerIndex(headers, "spiele", "games")
	if rankCol < 0 || teamCol < 0 {
		return nil
	}

	rows := make([]standing.Row, 0, 8)
	table.Find("tr").Each(func(rowIdx int, tr *goquery.Selection) {
		if rowIdx == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() <= teamCol {
			return
		}

		rank, err := strconv.Atoi(firstDigits(cleanText(cells.Eq(rankCol).Text())))
		if err != nil {
			return
		}
		teamLabel := cleanText(cells.Eq(teamCol).Text())
		if teamLabel == "" {
			return
		}

		row := standing.Row{
			Rank: rank,
			Team: teamLabel,
		}
		row.Played = cellInt(cells, playedCol)
		row.TablePoints = cellScoreText(cells, tablePtsCol)
		row.MatchPoints = cellScoreText(cells, matchPtsCol)
		row.Sets = cellScoreText(cells, setsCol)
		row.Games = cellScoreText(cells, gamesCol)
		rows = append(rows, row)
	})
	return rows
}

func parseMatchTable(table *goquery.Selection, headers []string, pageURL string) []usecase.ScrapedMatch {
	numberCol := headerIndex(headers, "nr")
	dateCol := headerIndex(headers, "datum", "termin")
	homeCol := headerIndex(headers, "heim")
	awayCol := headerIndex(headers, "gast")
	venueCol := headerIndex(headers, "anlage", "ort")
	courtCol := headerIndex(headers, "platz", "plätze")
	scoreCol := headerIndex(headers, "matchpunkte", "ergebnis")
	setsCol := headerIndex(headers, "sätze", "saetze")
	gamesCol := headerIndex(headers, "spiele")
	if dateCol < 0 || homeCol < 0 || awayCol < 0 {
		return nil
	}

	rows := make([]usecase.ScrapedMatch, 0, 16)
	lastDate := time.Time{}
	lastClock := ""
	table.Find("tr").Each(func(rowIdx int, tr *goquery.Selection) {
		if rowIdx == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() <= homeCol || cells.Length() <= awayCol {
			return
		}

		row := usecase.ScrapedMatch{
			HomeTeam: cleanText(cells.Eq(homeCol).Text()),
			AwayTeam: cleanText(cells.Eq(awayCol).Text()),
		}
		if row.HomeTeam == "" || row.AwayTeam == "" {
			return
		}

		// The portal leaves the date cell empty when it repeats the row above.
		if parsed, clock, err := parseDateTime(cellText(cells, dateCol)); err == nil {
			lastDate, lastClock = parsed, clock
		}
		if lastDate.IsZero() {
			return
		}
		row.Date = lastDate
		row.StartTime = lastClock

		if numberCol >= 0 {
			row.MatchNumber, _ = strconv.Atoi(firstDigits(cellText(cells, numberCol)))
		}
		row.Venue = cellText(cells, venueCol)
		if start, end, ok := parseCourtRange(cellText(cells, courtCol)); ok {
			row.CourtStart, row.CourtEnd = start, end
		}
		row.Score = cellScoreText(cells, scoreCol)
		row.Sets = cellScoreText(cells, setsCol)
		row.Games = cellScoreText(cells, gamesCol)

		tr.Find("a").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
			href, _ := anchor.Attr("href")
			if id := firstDigits(queryParam(href, "meeting")); id != "" {
				row.MeetingID = id
				row.ReportURL = resolveHref(pageURL, href)
				return false
			}
			return true
		})

		rows = append(rows, row)
	})
	return rows
}

func cellText(cells *goquery.Selection, col int) string {
	if col < 0 || col >= cells.Length() {
		return ""
	}
	return cleanText(cells.Eq(col).Text())
}

func cellInt(cells *goquery.Selection, col int) int {
	v, _ := strconv.Atoi(firstDigits(cellText(cells, col)))
	return v
}

// cellScoreText keeps only well-formed "H:A" values; placeholder dashes and
// empty cells come back as "".
func cellScoreText(cells *goquery.Selection, col int) string {
	raw := cellText(cells, col)
	if home, away, ok := parseScore(raw); ok {
		return fmt.Sprintf("%d:%d", home, away)
	}
	return ""
}
