package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/importlog"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/matchday"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/logging"
	"github.com/MrSpee/tennis-team-sub004/internal/resolve"
)

// Link-candidate scoring weights. A candidate has to clear the acceptance
// bar before its meeting link is written; the bar is reachable only through
// strong name similarity plus at least one corroborating signal.
const (
	scoreMeetingIDEqual   = 25
	scoreMatchNumberEqual = 12
	scoreMatchNumberClose = 4
	scoreMaxPerSide       = 10
	scoreSameDay          = 5
	penaltyFarDate        = 2
	penaltyNoMatchNumber  = 3

	DefaultLinkAcceptBar = 30
	DefaultBackfillLimit = 25
)

type meetingLinkWriter interface {
	UpdateMeetingLink(ctx context.Context, id, meetingID, reportURL string) error
}

type meetingImporter interface {
	Import(ctx context.Context, params MeetingImportParams) (MeetingImportSummary, error)
}

// ReconcileService heals data the nightly scrape could not complete in one
// pass. Phase A attaches missing meeting links to past fixtures; phase B
// imports box scores for fixtures that have a link but no result yet.
type ReconcileService struct {
	scraper      groupScraper
	matchdayRepo matchday.Repository
	linkWriter   meetingLinkWriter
	importer     meetingImporter
	attemptRepo  importlog.Repository
	logger       *logging.Logger

	leagueURL string
	season    string
	acceptBar int
	limit     int
	now       func() time.Time
}

type ReconcileServiceConfig struct {
	LeagueURL string
	Season    string
	AcceptBar int
	Limit     int
	Logger    *logging.Logger
	Now       func() time.Time
}

func NewReconcileService(
	scraper groupScraper,
	matchdayRepo matchday.Repository,
	linkWriter meetingLinkWriter,
	importer meetingImporter,
	attemptRepo importlog.Repository,
	cfg ReconcileServiceConfig,
) *ReconcileService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	acceptBar := cfg.AcceptBar
	if acceptBar <= 0 {
		acceptBar = DefaultLinkAcceptBar
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultBackfillLimit
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ReconcileService{
		scraper:      scraper,
		matchdayRepo: matchdayRepo,
		linkWriter:   linkWriter,
		importer:     importer,
		attemptRepo:  attemptRepo,
		logger:       logger,
		leagueURL:    strings.TrimSpace(cfg.LeagueURL),
		season:       strings.TrimSpace(cfg.Season),
		acceptBar:    acceptBar,
		limit:        limit,
		now:          now,
	}
}

// BackfillSummary is the outcome of one phase run.
type BackfillSummary struct {
	Total   int
	Success int
	Failed  int
	Skipped int
	Stale   int
	Errors  []string
}

// ReconcileSummary bundles both phases of a full run.
type ReconcileSummary struct {
	Links   BackfillSummary
	Results BackfillSummary
}

// RunAll executes both phases concurrently. The phases touch disjoint rows
// (no link vs. link but no result), and a panic in one phase is contained
// so the other still completes.
func (s *ReconcileService) RunAll(ctx context.Context) (ReconcileSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.RunAll")
	defer span.End()

	var (
		summary    ReconcileSummary
		linksErr   error
		resultsErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		summary.Links, linksErr = s.RunLinkBackfill(ctx)
	})
	wg.Go(func() {
		summary.Results, resultsErr = s.RunResultBackfill(ctx)
	})
	if recovered := wg.WaitAndRecover(); recovered != nil {
		return summary, fmt.Errorf("reconcile phase panicked: %v", recovered.Value)
	}

	if linksErr != nil {
		return summary, linksErr
	}
	return summary, resultsErr
}

// RunLinkBackfill is phase A: for every past fixture without a meeting link,
// re-scrape its group page and attach the best-scoring candidate row.
func (s *ReconcileService) RunLinkBackfill(ctx context.Context) (BackfillSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.RunLinkBackfill")
	defer span.End()

	summary := BackfillSummary{}
	items, err := s.matchdayRepo.ListMissingMeetingID(ctx, s.now(), s.limit)
	if err != nil {
		return summary, fmt.Errorf("list matchdays without meeting link: %w", err)
	}
	summary.Total = len(items)
	if len(items) == 0 {
		return summary, nil
	}

	pages, err := s.loadGroupPages(ctx, items)
	if err != nil {
		return summary, err
	}

	for _, item := range items {
		page, ok := pages[item.GroupID]
		if !ok {
			summary.Skipped++
			continue
		}

		candidate, score, found := bestLinkCandidate(item, page.Matches)
		if !found || score < s.acceptBar {
			summary.Skipped++
			s.logger.DebugContext(ctx, "no link candidate cleared the bar",
				"matchday_id", item.ID,
				"best_score", score,
			)
			continue
		}

		if err := s.linkWriter.UpdateMeetingLink(ctx, item.ID, candidate.MeetingID, candidate.ReportURL); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", item.ID, err))
			continue
		}
		summary.Success++
		s.logger.InfoContext(ctx, "meeting link backfilled",
			"matchday_id", item.ID,
			"meeting_id", candidate.MeetingID,
			"score", score,
		)
	}

	return summary, nil
}

// loadGroupPages fetches each referenced group page once per run. The portal
// is re-discovered instead of caching URLs because group addresses change
// between seasons.
func (s *ReconcileService) loadGroupPages(ctx context.Context, items []matchday.Matchday) (map[string]ScrapedGroupPage, error) {
	needed := make(map[string]bool, 4)
	for _, item := range items {
		needed[item.GroupID] = true
	}

	groups, err := s.scraper.DiscoverGroups(ctx, s.leagueURL, s.season)
	if err != nil {
		return nil, fmt.Errorf("discover groups: %w", err)
	}

	pages := make(map[string]ScrapedGroupPage, len(needed))
	for _, g := range groups {
		if !needed[g.ID] {
			continue
		}
		page, err := s.scraper.FetchGroup(ctx, g)
		if err != nil {
			s.logger.WarnContext(ctx, "skip group during link backfill", "group_id", g.ID, "error", err)
			continue
		}
		pages[g.ID] = page
	}
	return pages, nil
}

// bestLinkCandidate scores every scraped row that carries a meeting link
// against the stored fixture and returns the best one.
func bestLinkCandidate(item matchday.Matchday, rows []ScrapedMatch) (ScrapedMatch, int, bool) {
	best := ScrapedMatch{}
	bestScore := 0
	found := false
	for _, row := range rows {
		if strings.TrimSpace(row.MeetingID) == "" {
			continue
		}
		score := scoreLinkCandidate(item, row)
		if !found || score > bestScore {
			best = row
			bestScore = score
			found = true
		}
	}
	return best, bestScore, found
}

func scoreLinkCandidate(item matchday.Matchday, row ScrapedMatch) int {
	score := 0

	if item.MeetingID != "" && item.MeetingID == row.MeetingID {
		score += scoreMeetingIDEqual
	}

	switch {
	case item.MatchNumber == 0:
		// The stored fixture carries no number, so the signal is neutral.
	case row.MatchNumber == 0:
		score -= penaltyNoMatchNumber
	case row.MatchNumber == item.MatchNumber:
		score += scoreMatchNumberEqual
	case row.MatchNumber == item.MatchNumber-1 || row.MatchNumber == item.MatchNumber+1:
		score += scoreMatchNumberClose
	}

	score += pairSimilarity(item.HomeTeam, item.AwayTeam, row.HomeTeam, row.AwayTeam)

	if !item.MatchDate.IsZero() && !row.Date.IsZero() {
		sameDay := item.MatchDate.Format("2006-01-02") == row.Date.Format("2006-01-02")
		switch {
		case sameDay:
			score += scoreSameDay
		case absDuration(item.MatchDate.Sub(row.Date)) > 48*time.Hour:
			score -= penaltyFarDate
		}
	}

	return score
}

// pairSimilarity grants up to scoreMaxPerSide per side and tolerates swapped
// home/away labels by taking the better of both orientations.
func pairSimilarity(homeA, awayA, homeB, awayB string) int {
	straight := sideSimilarity(homeA, homeB) + sideSimilarity(awayA, awayB)
	swapped := sideSimilarity(homeA, awayB) + sideSimilarity(awayA, homeB)
	if swapped > straight {
		return swapped
	}
	return straight
}

func sideSimilarity(a, b string) int {
	similarity := resolve.DiceCoefficient(resolve.Normalize(a), resolve.Normalize(b))
	return int(similarity * float64(scoreMaxPerSide))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// RunResultBackfill is phase B: import box scores for fixtures that carry a
// meeting link but no result. The attempt budget keeps permanently broken
// fixtures from being retried forever; exhausted ones surface as stale.
func (s *ReconcileService) RunResultBackfill(ctx context.Context) (BackfillSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.RunResultBackfill")
	defer span.End()

	summary := BackfillSummary{}
	items, err := s.matchdayRepo.ListMissingResults(ctx, s.now(), s.limit)
	if err != nil {
		return summary, fmt.Errorf("list matchdays without result: %w", err)
	}
	summary.Total = len(items)
	if len(items) == 0 {
		return summary, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	attempts, err := s.attemptRepo.CountByMatchday(ctx, ids)
	if err != nil {
		return summary, fmt.Errorf("load attempt counts: %w", err)
	}
	attemptedToday, err := s.attemptRepo.AttemptedOn(ctx, ids, importlog.Day(s.now()))
	if err != nil {
		return summary, fmt.Errorf("load today's attempts: %w", err)
	}

	// The backfill exists to persist; a dry-run default configured for the
	// operator-facing routes must not leak into the scheduled path.
	apply := true

	for _, item := range items {
		count := attempts[item.ID]
		switch {
		case item.HasResult():
			// The score arrived between listing and processing.
			summary.Skipped++
			continue
		case count >= importlog.MaxAttempts:
			summary.Stale++
			s.logger.WarnContext(ctx, "matchday exhausted its import attempts",
				"matchday_id", item.ID,
				"attempts", count,
			)
			continue
		case attemptedToday[item.ID]:
			// At most one attempt per fixture per calendar day.
			summary.Skipped++
			continue
		}

		result, err := s.importer.Import(ctx, MeetingImportParams{MatchdayID: item.ID, Apply: &apply})
		switch {
		case err != nil:
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", item.ID, err))
		case result.Skipped:
			summary.Skipped++
		default:
			summary.Success++
		}
	}

	s.logger.InfoContext(ctx, "result backfill finished",
		"total", summary.Total,
		"success", summary.Success,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"stale", summary.Stale,
	)
	return summary, nil
}
