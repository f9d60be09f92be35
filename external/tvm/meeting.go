package tvm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/meeting"
)

// Cell counts of a box-score data row. Singles rows carry one player per
// side, doubles rows two; everything else in a report table is a section
// header, a filler or a footer and is skipped.
const (
	singlesRowCells = 10
	doublesRowCells = 12
	maxSetsPerMatch = 5
)

// FetchMeetingReport scrapes one meeting report (Spielbericht) page. An
// unplayed or unpublished meeting yields an empty report, not an error.
func (c *Client) FetchMeetingReport(ctx context.Context, reportURL string) (meeting.Report, error) {
	doc, err := c.fetchDocument(ctx, reportURL)
	if err != nil {
		return meeting.Report{}, fmt.Errorf("fetch meeting report: %w", err)
	}

	report := parseMeetingReport(doc)

	singles, doubles := report.Totals()
	c.logger.InfoContext(ctx, "scraped meeting report",
		"url", reportURL,
		"singles", singles,
		"doubles", doubles,
	)
	return report, nil
}

func parseMeetingReport(doc *goquery.Document) meeting.Report {
	report := meeting.Report{Meta: parseReportMeta(doc)}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		section := meeting.DisciplineSingles
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			rowText := strings.ToLower(cleanText(tr.Text()))
			switch {
			case strings.HasPrefix(rowText, "einzel"):
				section = meeting.DisciplineSingles
				return
			case strings.HasPrefix(rowText, "doppel"):
				section = meeting.DisciplineDoubles
				return
			}

			cells := tr.Find("td")
			switch cells.Length() {
			case singlesRowCells:
				if section != meeting.DisciplineSingles {
					return
				}
				if line, ok := parseMatchLine(cells, 1); ok {
					report.Singles = append(report.Singles, line)
				}
			case doublesRowCells:
				if section != meeting.DisciplineDoubles {
					return
				}
				if line, ok := parseMatchLine(cells, 2); ok {
					report.Doubles = append(report.Doubles, line)
				}
			}
		})
	})

	return report
}

// parseMatchLine decodes one rubber row. Layout per side is playersPerSide
// name cells, then five set cells, then the sets and games totals. Rows where
// every player cell is a placeholder label are dropped entirely.
func parseMatchLine(cells *goquery.Selection, playersPerSide int) (meeting.MatchLine, bool) {
	line := meeting.MatchLine{}
	line.MatchNumber, _ = strconv.Atoi(firstDigits(cellText(cells, 0)))

	col := 1
	for i := 0; i < playersPerSide; i++ {
		line.HomePlayers = append(line.HomePlayers, cellText(cells, col))
		col++
	}
	for i := 0; i < playersPerSide; i++ {
		line.AwayPlayers = append(line.AwayPlayers, cellText(cells, col))
		col++
	}

	if allPlaceholders(line.HomePlayers) && allPlaceholders(line.AwayPlayers) {
		return meeting.MatchLine{}, false
	}

	homeSets, awaySets := 0, 0
	homeGames, awayGames := 0, 0
	for i := 0; i < maxSetsPerMatch; i++ {
		home, away, ok := parseScore(cellText(cells, col))
		col++
		if !ok {
			continue
		}
		line.SetScores = append(line.SetScores, meeting.SetScore{Home: home, Away: away})
		homeGames += home
		awayGames += away
		switch {
		case home > away:
			homeSets++
		case away > home:
			awaySets++
		}
	}
	if len(line.SetScores) == 0 {
		return meeting.MatchLine{}, false
	}

	line.Sets = cellScoreText(cells, col)
	line.Games = cellScoreText(cells, col+1)
	if line.Sets == "" {
		line.Sets = fmt.Sprintf("%d:%d", homeSets, awaySets)
	}
	if line.Games == "" {
		line.Games = fmt.Sprintf("%d:%d", homeGames, awayGames)
	}
	if homeSets > awaySets {
		line.MatchPoints = "1:0"
	} else if awaySets > homeSets {
		line.MatchPoints = "0:1"
	} else {
		line.MatchPoints = "0:0"
	}

	return line, true
}

func allPlaceholders(names []string) bool {
	for _, name := range names {
		if !meeting.PlaceholderPlayer(name) {
			return false
		}
	}
	return true
}

// parseReportMeta pulls the header block: team labels and final score from
// the page heading, the date label and referee from the info rows below it.
func parseReportMeta(doc *goquery.Document) meeting.Meta {
	meta := meeting.Meta{}

	heading := cleanText(doc.Find("h1").First().Text())
	if heading == "" {
		heading = cleanText(doc.Find("h2").First().Text())
	}
	if idx := strings.Index(heading, " - "); idx > 0 {
		meta.HomeTeam = cleanText(heading[:idx])
		rest := cleanText(heading[idx+3:])
		if fields := strings.Fields(rest); len(fields) > 0 {
			if _, _, ok := parseScore(fields[len(fields)-1]); ok {
				meta.FinalScore = fields[len(fields)-1]
				rest = cleanText(strings.Join(fields[:len(fields)-1], " "))
			}
		}
		meta.AwayTeam = rest
	}

	doc.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		label := strings.ToLower(cleanText(tr.Find("td").First().Text()))
		switch {
		case strings.Contains(label, "datum"):
			meta.DateLabel = cleanText(tr.Find("td").Eq(1).Text())
		case strings.Contains(label, "oberschiedsrichter"):
			meta.Referee = cleanText(tr.Find("td").Eq(1).Text())
		}
		return meta.DateLabel == "" || meta.Referee == ""
	})

	return meta
}
