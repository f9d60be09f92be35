package tvm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/meeting"
	"github.com/MrSpee/tennis-team-sub004/internal/usecase"
)

// rosterPoolSize bounds the team-portrait fan-out. The portal tolerates a
// handful of parallel readers; the per-client throttle still spaces the
// actual requests.
const rosterPoolSize = 5

// FetchClubRosters scrapes the club page for team-portrait links and fans
// out over them with a bounded worker pool. A failed team page is logged and
// skipped; the remaining rosters still come back.
func (c *Client) FetchClubRosters(ctx context.Context, clubURL string) ([]usecase.ScrapedRoster, error) {
	doc, err := c.fetchDocument(ctx, clubURL)
	if err != nil {
		return nil, fmt.Errorf("fetch club page: %w", err)
	}

	type teamLink struct {
		name string
		url  string
	}
	seen := make(map[string]bool, 16)
	links := make([]teamLink, 0, 16)
	doc.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		if firstDigits(queryParam(href, "teamPortrait")) == "" && queryParam(href, "team") == "" {
			return
		}
		resolved := resolveHref(clubURL, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, teamLink{name: cleanText(anchor.Text()), url: resolved})
	})
	if len(links) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(rosterPoolSize)
	if err != nil {
		return nil, fmt.Errorf("create roster pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		rosters = make([]usecase.ScrapedRoster, 0, len(links))
	)
	for _, link := range links {
		link := link
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			roster, fetchErr := c.fetchTeamRoster(ctx, link.name, link.url)
			if fetchErr != nil {
				c.logger.WarnContext(ctx, "skip team roster", "team", link.name, "error", fetchErr)
				return
			}
			mu.Lock()
			rosters = append(rosters, roster)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			c.logger.WarnContext(ctx, "submit roster fetch", "team", link.name, "error", submitErr)
		}
	}
	wg.Wait()

	sort.SliceStable(rosters, func(i, j int) bool { return rosters[i].TeamName < rosters[j].TeamName })

	c.logger.InfoContext(ctx, "scraped club rosters", "teams", len(rosters))
	return rosters, nil
}

func (c *Client) fetchTeamRoster(ctx context.Context, teamName, teamURL string) (usecase.ScrapedRoster, error) {
	doc, err := c.fetchDocument(ctx, teamURL)
	if err != nil {
		return usecase.ScrapedRoster{}, err
	}

	roster := usecase.ScrapedRoster{TeamName: teamName}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headers := tableHeaders(table)
		nameCol := headerIndex(headers, "name")
		lkCol := headerIndex(headers, "lk")
		idCol := headerIndex(headers, "id-nr", "id")
		if nameCol < 0 || lkCol < 0 {
			return
		}

		table.Find("tr").Each(func(rowIdx int, tr *goquery.Selection) {
			if rowIdx == 0 {
				return
			}
			cells := tr.Find("td")
			name := cellText(cells, nameCol)
			if name == "" || meeting.PlaceholderPlayer(name) {
				return
			}
			roster.Players = append(roster.Players, usecase.ScrapedRosterPlayer{
				Name:  normalizeRosterName(name),
				LK:    cellText(cells, lkCol),
				TVMID: firstDigits(cellText(cells, idCol)),
			})
		})
	})

	if teamName == "" {
		roster.TeamName = cleanText(doc.Find("h1").First().Text())
	}
	return roster, nil
}

// normalizeRosterName turns the portal's "Lastname, Firstname" roster format
// into "Firstname Lastname" so roster names line up with report names.
func normalizeRosterName(raw string) string {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return cleanText(raw)
	}
	return cleanText(parts[1] + " " + parts[0])
}
