package tvm

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateTimeRegex = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})(?:\s+(\d{1,2}):(\d{2}))?`)
	scoreRegex    = regexp.MustCompile(`^\s*(\d+)\s*:\s*(\d+)\s*$`)
	courtRegex    = regexp.MustCompile(`^\s*(\d+)(?:\s*\+\s*(\d+))?\s*$`)
	digitsRegex   = regexp.MustCompile(`\d+`)
)

// parseDateTime decodes the portal's "dd.mm.yyyy" or "dd.mm.yyyy hh:mm"
// labels. A date without a time defaults to midnight; the clock part is
// returned separately because fixtures keep it as display text.
func parseDateTime(raw string) (time.Time, string, error) {
	m := dateTimeRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return time.Time{}, "", fmt.Errorf("unrecognized date label %q", raw)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	hour, minute := 0, 0
	clock := ""
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		clock = fmt.Sprintf("%02d:%02d", hour, minute)
	}

	parsed := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if parsed.Day() != day || int(parsed.Month()) != month {
		return time.Time{}, "", fmt.Errorf("invalid calendar date %q", raw)
	}
	return parsed, clock, nil
}

// parseScore decodes "H:A" pairs (match points, sets, games alike).
func parseScore(raw string) (home, away int, ok bool) {
	m := scoreRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	home, _ = strconv.Atoi(m[1])
	away, _ = strconv.Atoi(m[2])
	return home, away, true
}

// parseCourtRange decodes court assignments like "3" or "3+4".
func parseCourtRange(raw string) (start, end int, ok bool) {
	m := courtRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	start, _ = strconv.Atoi(m[1])
	end = start
	if m[2] != "" {
		end, _ = strconv.Atoi(m[2])
	}
	if end < start {
		start, end = end, start
	}
	return start, end, true
}

// cleanText collapses runs of whitespace, including non-breaking spaces the
// portal sprinkles into table cells.
func cleanText(raw string) string {
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	return strings.Join(strings.Fields(raw), " ")
}

func firstDigits(raw string) string {
	return digitsRegex.FindString(raw)
}

// queryParam extracts a single query parameter from a portal href. Hrefs are
// frequently relative, so parsing falls back to the raw query string.
func queryParam(href, key string) string {
	parsed, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return parsed.Query().Get(key)
}

// resolveHref joins a possibly relative portal href against its page URL.
func resolveHref(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// splitTeamLabel separates a portal team label into club name and team
// suffix, e.g. "TC Rot-Weiss Köln II" into "TC Rot-Weiss Köln" and "II".
func splitTeamLabel(label string) (clubName, teamSuffix string) {
	label = cleanText(label)
	if label == "" {
		return "", ""
	}

	fields := strings.Fields(label)
	if len(fields) < 2 {
		return label, ""
	}

	last := fields[len(fields)-1]
	if isTeamSuffix(last) {
		return strings.Join(fields[:len(fields)-1], " "), last
	}
	return label, ""
}

func isTeamSuffix(token string) bool {
	switch strings.ToUpper(token) {
	case "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X":
		return true
	}
	if _, err := strconv.Atoi(token); err == nil && len(token) <= 2 {
		return true
	}
	return false
}
