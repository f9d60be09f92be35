package tvm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/group"
)

// ErrNoGroups marks a league page that yielded no group links, usually a
// season that has not been drawn yet or a changed portal layout.
var ErrNoGroups = crerr.New("no groups found on league page")

// DiscoverGroups scrapes the league overview page and returns every group
// behind a "Gruppe N" anchor. Group ids come from the anchor's query string
// and are normalized so "047" and "47" address the same group.
func (c *Client) DiscoverGroups(ctx context.Context, leagueURL, season string) ([]group.Group, error) {
	doc, err := c.fetchDocument(ctx, leagueURL)
	if err != nil {
		return nil, fmt.Errorf("fetch league page: %w", err)
	}

	groups := parseLeagueGroups(doc, leagueURL, season)
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: url=%s", ErrNoGroups, leagueURL)
	}

	c.logger.InfoContext(ctx, "discovered league groups",
		"league", groups[0].League,
		"category", groups[0].Category,
		"groups", len(groups),
	)
	return groups, nil
}

func parseLeagueGroups(doc *goquery.Document, leagueURL, season string) []group.Group {
	league, category, year := parseLeagueHeading(doc)

	seen := make(map[string]bool, 16)
	groups := make([]group.Group, 0, 16)
	doc.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		label := cleanText(anchor.Text())
		if !strings.HasPrefix(strings.ToLower(label), "gruppe") {
			return
		}
		href, _ := anchor.Attr("href")
		id := group.NormalizeID(queryParam(href, "group"))
		if id == "" {
			id = group.NormalizeID(firstDigits(label))
		}
		if id == "" || seen[id] {
			return
		}
		seen[id] = true

		groups = append(groups, group.Group{
			ID:       id,
			Name:     label,
			League:   league,
			Category: category,
			Season:   season,
			Year:     year,
			URL:      resolveHref(leagueURL, href),
		})
	})
	return groups
}

// parseLeagueHeading pulls league name, age category and season year from the
// page heading, e.g. "2. Bezirksliga Herren 30 (Winter 2025/2026)".
func parseLeagueHeading(doc *goquery.Document) (league, category, year string) {
	heading := cleanText(doc.Find("h1").First().Text())
	if heading == "" {
		heading = cleanText(doc.Find("h2").First().Text())
	}
	if heading == "" {
		return "", "", ""
	}

	if open := strings.Index(heading, "("); open >= 0 {
		if close := strings.Index(heading[open:], ")"); close > 0 {
			year = extractSeasonYear(heading[open+1 : open+close])
		}
		heading = cleanText(heading[:open])
	}

	league = heading
	category = extractCategory(heading)
	return league, category, year
}

// extractCategory finds the age-class token ("Herren 30", "Damen 50",
// "Junioren U18") inside a league heading.
func extractCategory(heading string) string {
	fields := strings.Fields(heading)
	for i, field := range fields {
		switch strings.ToLower(field) {
		case "herren", "damen", "junioren", "juniorinnen", "knaben", "mädchen":
			if i+1 < len(fields) && firstDigits(fields[i+1]) != "" {
				return field + " " + fields[i+1]
			}
			return field
		}
	}
	return ""
}

func extractSeasonYear(raw string) string {
	raw = cleanText(raw)
	for _, field := range strings.Fields(raw) {
		if digits := firstDigits(field); len(digits) == 4 {
			return field
		}
	}
	return raw
}
