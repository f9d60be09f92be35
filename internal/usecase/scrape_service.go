package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/group"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/matchday"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/standing"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/team"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/logging"
	"github.com/MrSpee/tennis-team-sub004/internal/resolve"
)

// ScrapedGroupPage is what the portal scraper hands back for one group: the
// current table plus every match-plan row, played or not.
type ScrapedGroupPage struct {
	Group     group.Group
	Standings []standing.Row
	Matches   []ScrapedMatch
}

// ScrapedMatch is one match-plan row as scraped. Score stays empty while the
// fixture is unplayed; MeetingID and ReportURL stay empty until the portal
// publishes the box-score link.
type ScrapedMatch struct {
	MatchNumber int
	Date        time.Time
	StartTime   string
	HomeTeam    string
	AwayTeam    string
	Venue       string
	CourtStart  int
	CourtEnd    int
	Score       string
	Sets        string
	Games       string
	MeetingID   string
	ReportURL   string
}

// Played reports whether the scraper saw a final score on the row.
func (m ScrapedMatch) Played() bool {
	return strings.TrimSpace(m.Score) != ""
}

// ScrapedRoster is one team's squad list from a club page.
type ScrapedRoster struct {
	TeamName string
	Players  []ScrapedRosterPlayer
}

type ScrapedRosterPlayer struct {
	Name  string
	LK    string
	TVMID string
}

type groupScraper interface {
	DiscoverGroups(ctx context.Context, leagueURL, season string) ([]group.Group, error)
	FetchGroup(ctx context.Context, g group.Group) (ScrapedGroupPage, error)
}

type matchdayWriter interface {
	UpsertMatchdays(ctx context.Context, items []matchday.Matchday) error
}

type seasonLinkWriter interface {
	UpsertSeasonLinks(ctx context.Context, items []team.SeasonLink) error
}

// ScrapeService walks a league from its overview page down to every group's
// match plan and syncs resolved fixtures into storage. Groups are processed
// sequentially; one broken group never aborts the others.
type ScrapeService struct {
	scraper      groupScraper
	teamRepo     team.Repository
	matchdays    matchdayWriter
	seasonLinks  seasonLinkWriter
	resolverCfg  resolve.TeamResolverConfig
	applyDefault bool
	logger       *logging.Logger
}

type ScrapeServiceConfig struct {
	Resolver     resolve.TeamResolverConfig
	ApplyDefault bool
	Logger       *logging.Logger
}

func NewScrapeService(
	scraper groupScraper,
	teamRepo team.Repository,
	matchdays matchdayWriter,
	seasonLinks seasonLinkWriter,
	cfg ScrapeServiceConfig,
) *ScrapeService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &ScrapeService{
		scraper:      scraper,
		teamRepo:     teamRepo,
		matchdays:    matchdays,
		seasonLinks:  seasonLinks,
		resolverCfg:  cfg.Resolver,
		applyDefault: cfg.ApplyDefault,
		logger:       logger,
	}
}

// ScrapeParams selects what to scrape. Apply=nil falls back to the service
// default; Apply=false runs the full pipeline but skips every write.
type ScrapeParams struct {
	LeagueURL   string
	Season      string
	GroupFilter []string
	Apply       *bool
}

// GroupResult is the per-group outcome inside a scrape summary.
type GroupResult struct {
	GroupID     string
	Matchdays   int
	Played      int
	SeasonLinks int
	Unmapped    []string
	Err         string
}

// ScrapeSummary is the run-level outcome. UnmappedTeams aggregates every
// label no group could resolve, deduplicated across groups, so one list
// feeds the override map maintenance.
type ScrapeSummary struct {
	DryRun        bool
	GroupsTotal   int
	GroupsSynced  int
	GroupsFailed  int
	Matchdays     int
	SeasonLinks   int
	UnmappedTeams []string
	Groups        []GroupResult
}

func (s *ScrapeService) Run(ctx context.Context, params ScrapeParams) (ScrapeSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.Run")
	defer span.End()

	params.LeagueURL = strings.TrimSpace(params.LeagueURL)
	params.Season = strings.TrimSpace(params.Season)
	if params.LeagueURL == "" {
		return ScrapeSummary{}, fmt.Errorf("%w: league url is required", ErrInvalidInput)
	}
	if params.Season == "" {
		return ScrapeSummary{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	apply := s.applyDefault
	if params.Apply != nil {
		apply = *params.Apply
	}

	groups, err := s.scraper.DiscoverGroups(ctx, params.LeagueURL, params.Season)
	if err != nil {
		return ScrapeSummary{}, fmt.Errorf("discover groups: %w", err)
	}
	groups = filterGroups(groups, params.GroupFilter)
	if len(groups) == 0 {
		return ScrapeSummary{}, fmt.Errorf("%w: no groups left after filter", ErrNotFound)
	}

	canonical, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return ScrapeSummary{}, fmt.Errorf("load canonical teams: %w", err)
	}
	resolver := resolve.NewTeamResolver(canonical, s.resolverCfg)

	summary := ScrapeSummary{DryRun: !apply, GroupsTotal: len(groups)}
	unmappedSet := make(map[string]bool, 4)
	for _, g := range groups {
		result := s.syncGroup(ctx, resolver, g, apply)
		summary.Groups = append(summary.Groups, result)
		for _, label := range result.Unmapped {
			unmappedSet[label] = true
		}
		if result.Err != "" {
			summary.GroupsFailed++
			continue
		}
		summary.GroupsSynced++
		summary.Matchdays += result.Matchdays
		summary.SeasonLinks += result.SeasonLinks
	}
	for label := range unmappedSet {
		summary.UnmappedTeams = append(summary.UnmappedTeams, label)
	}
	sort.Strings(summary.UnmappedTeams)

	s.logger.InfoContext(ctx, "scrape run finished",
		"dry_run", summary.DryRun,
		"groups_total", summary.GroupsTotal,
		"groups_synced", summary.GroupsSynced,
		"groups_failed", summary.GroupsFailed,
		"matchdays", summary.Matchdays,
	)
	return summary, nil
}

// syncGroup scrapes and syncs one group. Every failure is captured in the
// result instead of returned, so the caller can keep iterating.
func (s *ScrapeService) syncGroup(ctx context.Context, resolver *resolve.TeamResolver, g group.Group, apply bool) GroupResult {
	result := GroupResult{GroupID: g.ID}

	page, err := s.scraper.FetchGroup(ctx, g)
	if err != nil {
		result.Err = err.Error()
		s.logger.WarnContext(ctx, "group scrape failed", "group_id", g.ID, "error", err)
		return result
	}

	rows, links, unmapped := s.resolvePage(ctx, resolver, page)
	result.Unmapped = unmapped
	if len(unmapped) > 0 {
		result.Err = fmt.Sprintf("%v: %s", ErrUnresolvedTeams, strings.Join(unmapped, ", "))
		s.logger.WarnContext(ctx, "group has unresolved team labels",
			"group_id", g.ID,
			"unmapped", unmapped,
		)
		return result
	}

	if err := s.validateCategories(ctx, g, links); err != nil {
		result.Err = err.Error()
		s.logger.WarnContext(ctx, "group category validation failed", "group_id", g.ID, "error", err)
		return result
	}

	result.Matchdays = len(rows)
	result.SeasonLinks = len(links)
	for _, row := range rows {
		if matchday.IsCompletedStatus(row.Status) {
			result.Played++
		}
	}

	if !apply {
		return result
	}
	if err := s.matchdays.UpsertMatchdays(ctx, rows); err != nil {
		result.Err = fmt.Sprintf("upsert matchdays: %v", err)
		return result
	}
	if err := s.seasonLinks.UpsertSeasonLinks(ctx, links); err != nil {
		result.Err = fmt.Sprintf("upsert season links: %v", err)
		return result
	}
	return result
}

// resolvePage maps every match row's team labels to canonical ids and builds
// the matchday and season-link rows. Unresolvable labels are collected once
// each; the group is synced all-or-nothing.
func (s *ScrapeService) resolvePage(ctx context.Context, resolver *resolve.TeamResolver, page ScrapedGroupPage) ([]matchday.Matchday, []team.SeasonLink, []string) {
	g := page.Group

	teamIDByLabel := make(map[string]string, 8)
	unmappedSet := make(map[string]bool, 4)
	resolveLabel := func(label string) string {
		label = strings.TrimSpace(label)
		if label == "" {
			return ""
		}
		if id, ok := teamIDByLabel[label]; ok {
			return id
		}
		match, ok := resolver.Resolve(label, g.Category)
		if !ok {
			unmappedSet[label] = true
			return ""
		}
		if match.CategoryMismatch {
			s.logger.WarnContext(ctx, "team resolved across categories",
				"group_id", g.ID,
				"label", label,
				"team_id", match.TeamID,
				"score", match.Score,
			)
		}
		teamIDByLabel[label] = match.TeamID
		return match.TeamID
	}

	rows := make([]matchday.Matchday, 0, len(page.Matches))
	for _, m := range page.Matches {
		homeID := resolveLabel(m.HomeTeam)
		awayID := resolveLabel(m.AwayTeam)
		if homeID == "" || awayID == "" {
			continue
		}

		status := matchday.StatusScheduled
		if m.Played() {
			status = matchday.StatusCompleted
		}
		dateISO := m.Date.Format("2006-01-02")
		rows = append(rows, matchday.Matchday{
			ID:          matchday.Fingerprint(g.ID, dateISO, m.HomeTeam, m.AwayTeam, m.MatchNumber),
			GroupID:     g.ID,
			MatchNumber: m.MatchNumber,
			HomeTeam:    m.HomeTeam,
			AwayTeam:    m.AwayTeam,
			HomeTeamID:  homeID,
			AwayTeamID:  awayID,
			MatchDate:   m.Date,
			StartTime:   m.StartTime,
			Venue:       m.Venue,
			CourtStart:  m.CourtStart,
			CourtEnd:    m.CourtEnd,
			Status:      status,
			MatchPoints: m.Score,
			SetScore:    m.Sets,
			GameScore:   m.Games,
			MeetingID:   m.MeetingID,
			MeetingReportURL: m.ReportURL,
			Season:      g.Season,
			Year:        g.Year,
		})
	}

	// Standings contribute labels too so a team without fixtures still gets
	// its season link.
	for _, row := range page.Standings {
		resolveLabel(row.Team)
	}

	links := make([]team.SeasonLink, 0, len(teamIDByLabel))
	seen := make(map[string]bool, len(teamIDByLabel))
	for _, id := range teamIDByLabel {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, team.SeasonLink{
			TeamID:   id,
			Season:   g.Season,
			League:   g.League,
			GroupID:  g.ID,
			Category: g.Category,
			Year:     g.Year,
		})
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].TeamID < links[j].TeamID })

	unmapped := make([]string, 0, len(unmappedSet))
	for label := range unmappedSet {
		unmapped = append(unmapped, label)
	}
	sort.Strings(unmapped)

	return rows, links, unmapped
}

// validateCategories refuses to link teams whose canonical category differs
// from the group's. The resolver already penalizes these; a conflicting link
// that still slipped through must not reach storage.
func (s *ScrapeService) validateCategories(ctx context.Context, g group.Group, links []team.SeasonLink) error {
	if strings.TrimSpace(g.Category) == "" || len(links) == 0 {
		return nil
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.TeamID)
	}
	categories, err := s.teamRepo.CategoriesByID(ctx, ids)
	if err != nil {
		return fmt.Errorf("load team categories: %w", err)
	}

	want := resolve.Normalize(g.Category)
	for _, link := range links {
		have := resolve.Normalize(categories[link.TeamID])
		if have != "" && have != want {
			return fmt.Errorf("%w: team %s is %q, group %s is %q",
				ErrCategoryMismatch, link.TeamID, categories[link.TeamID], g.ID, g.Category)
		}
	}
	return nil
}

func filterGroups(groups []group.Group, filter []string) []group.Group {
	if len(filter) == 0 {
		return groups
	}

	out := make([]group.Group, 0, len(groups))
	for _, g := range groups {
		if group.MatchesFilter(g.ID, filter) {
			out = append(out, g)
		}
	}
	return out
}
