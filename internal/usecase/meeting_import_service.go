package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/importlog"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/matchday"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/meeting"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/player"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/logging"
	"github.com/MrSpee/tennis-team-sub004/internal/resolve"
)

type meetingReportFetcher interface {
	FetchMeetingReport(ctx context.Context, reportURL string) (meeting.Report, error)
}

type matchdayResultWriter interface {
	UpdateResult(ctx context.Context, id, matchPoints, setScore, gameScore, status string) error
}

// MeetingImportService pulls one meeting report and replaces the stored box
// score of its matchday. Replacement is wholesale: the portal publishes a
// report once and never patches it, so partial merges only preserve stale
// rows.
type MeetingImportService struct {
	fetcher      meetingReportFetcher
	matchdayRepo matchday.Repository
	resultRepo   meeting.ResultRepository
	resultWriter matchdayResultWriter
	playerRepo   player.Repository
	attemptRepo  importlog.Repository
	playerFloor  int
	applyDefault bool
	logger       *logging.Logger
	now          func() time.Time
}

type MeetingImportServiceConfig struct {
	PlayerFloor  int
	ApplyDefault bool
	Logger       *logging.Logger
	Now          func() time.Time
}

func NewMeetingImportService(
	fetcher meetingReportFetcher,
	matchdayRepo matchday.Repository,
	resultRepo meeting.ResultRepository,
	resultWriter matchdayResultWriter,
	playerRepo player.Repository,
	attemptRepo importlog.Repository,
	cfg MeetingImportServiceConfig,
) *MeetingImportService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &MeetingImportService{
		fetcher:      fetcher,
		matchdayRepo: matchdayRepo,
		resultRepo:   resultRepo,
		resultWriter: resultWriter,
		playerRepo:   playerRepo,
		attemptRepo:  attemptRepo,
		playerFloor:  cfg.PlayerFloor,
		applyDefault: cfg.ApplyDefault,
		logger:       logger,
		now:          now,
	}
}

// MeetingImportParams addresses one meeting either by the stored matchday id
// or by the portal's meeting identity. MeetingURL is accepted in the form the
// portal links it, with the id in the "meeting" query parameter.
type MeetingImportParams struct {
	MatchdayID string
	MeetingID  string
	MeetingURL string
	Apply      *bool
}

// PlayerPreview is one distinct scraped name with its resolution outcome, so
// an operator can vet a dry run before applying.
type PlayerPreview struct {
	Name     string
	PlayerID string
	Score    int
	Method   string
}

const (
	previewMethodCreated = "created"
	previewMethodUnknown = "unknown"
)

type MeetingImportSummary struct {
	MatchdayID      string
	MeetingID       string
	DryRun          bool
	Skipped         bool
	Meta            meeting.Meta
	Singles         int
	Doubles         int
	Results         []meeting.Result
	Players         []PlayerPreview
	ResolvedPlayers int
	CreatedPlayers  int
	UnknownPlayers  []string
	ReplacedRows    int
}

// Import fetches and persists the box score of one matchday. An empty report
// is a skip, not a failure; both outcomes land in the attempt log.
func (s *MeetingImportService) Import(ctx context.Context, params MeetingImportParams) (MeetingImportSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MeetingImportService.Import")
	defer span.End()

	apply := s.applyDefault
	if params.Apply != nil {
		apply = *params.Apply
	}

	item, err := s.lookupMatchday(ctx, params)
	if err != nil {
		return MeetingImportSummary{DryRun: !apply}, err
	}
	summary := MeetingImportSummary{MatchdayID: item.ID, MeetingID: item.MeetingID, DryRun: !apply}

	if strings.TrimSpace(item.MeetingReportURL) == "" {
		return summary, fmt.Errorf("%w: matchday %s has no meeting report link", ErrInvalidInput, item.ID)
	}

	report, err := s.fetcher.FetchMeetingReport(ctx, item.MeetingReportURL)
	if err != nil {
		s.recordAttempt(ctx, apply, item.ID, false, "fetch_failed", err.Error())
		return summary, fmt.Errorf("fetch meeting report: %w", err)
	}

	if report.IsEmpty() {
		summary.Skipped = true
		s.recordAttempt(ctx, apply, item.ID, false, importlog.ErrorCodeNoResult, "report carries no rubbers yet")
		s.logger.InfoContext(ctx, "meeting report not published yet", "matchday_id", item.ID)
		return summary, nil
	}

	results, stats, err := s.resolveReport(ctx, item.ID, report, apply)
	if err != nil {
		s.recordAttempt(ctx, apply, item.ID, false, "resolve_failed", err.Error())
		return summary, err
	}
	summary.Meta = report.Meta
	summary.Singles, summary.Doubles = report.Totals()
	summary.Results = results
	summary.Players = stats.previews
	summary.ResolvedPlayers = stats.resolved
	summary.CreatedPlayers = stats.created
	summary.UnknownPlayers = stats.unknown

	existing, err := s.resultRepo.ListByMatchday(ctx, item.ID)
	if err != nil {
		return summary, fmt.Errorf("load stored results: %w", err)
	}
	summary.ReplacedRows = len(existing)

	if !apply {
		return summary, nil
	}

	if err := s.resultRepo.ReplaceByMatchday(ctx, item.ID, results); err != nil {
		s.recordAttempt(ctx, apply, item.ID, false, "persist_failed", err.Error())
		return summary, fmt.Errorf("replace results: %w", err)
	}

	matchPoints := strings.TrimSpace(report.Meta.FinalScore)
	if matchPoints == "" {
		matchPoints = item.MatchPoints
	}
	sets, games := sumReportTotals(results)
	if err := s.resultWriter.UpdateResult(ctx, item.ID, matchPoints, sets, games, matchday.StatusCompleted); err != nil {
		s.recordAttempt(ctx, apply, item.ID, false, "persist_failed", err.Error())
		return summary, fmt.Errorf("update matchday result: %w", err)
	}

	s.recordAttempt(ctx, apply, item.ID, true, "", "")
	s.logger.InfoContext(ctx, "meeting report imported",
		"matchday_id", item.ID,
		"singles", summary.Singles,
		"doubles", summary.Doubles,
		"created_players", summary.CreatedPlayers,
	)
	return summary, nil
}

// lookupMatchday loads the fixture addressed by the params. A matchday id
// wins over the meeting identity when both are present.
func (s *MeetingImportService) lookupMatchday(ctx context.Context, params MeetingImportParams) (matchday.Matchday, error) {
	if id := strings.TrimSpace(params.MatchdayID); id != "" {
		item, found, err := s.matchdayRepo.GetByID(ctx, id)
		if err != nil {
			return matchday.Matchday{}, fmt.Errorf("load matchday %s: %w", id, err)
		}
		if !found {
			return matchday.Matchday{}, fmt.Errorf("%w: matchday %s", ErrNotFound, id)
		}
		return item, nil
	}

	meetingID := strings.TrimSpace(params.MeetingID)
	if meetingID == "" {
		meetingID = meetingIDFromURL(params.MeetingURL)
	}
	if meetingID == "" {
		return matchday.Matchday{}, fmt.Errorf("%w: a matchday id, meeting id or meeting url is required", ErrInvalidInput)
	}

	item, found, err := s.matchdayRepo.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return matchday.Matchday{}, fmt.Errorf("load matchday for meeting %s: %w", meetingID, err)
	}
	if !found {
		return matchday.Matchday{}, fmt.Errorf("%w: no matchday linked to meeting %s", ErrNotFound, meetingID)
	}
	return item, nil
}

// meetingIDFromURL pulls the meeting id out of a portal report link, which
// carries it in the "meeting" query parameter.
func meetingIDFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Query().Get("meeting"))
}

type resolveStats struct {
	resolved int
	created  int
	unknown  []string
	previews []PlayerPreview
}

// resolveReport maps every report line into a persistable result row.
// Placeholder labels resolve to no player; names that miss every canonical
// record get a fresh import-sourced player when applying, so the box score
// never references an id that does not exist.
func (s *MeetingImportService) resolveReport(ctx context.Context, matchdayID string, report meeting.Report, apply bool) ([]meeting.Result, resolveStats, error) {
	canonical, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, resolveStats{}, fmt.Errorf("load canonical players: %w", err)
	}
	resolver := resolve.NewPlayerResolver(canonical, s.playerFloor)

	stats := resolveStats{}
	created := make(map[string]string, 4)
	previewed := make(map[string]bool, 8)

	preview := func(name, key string, item PlayerPreview) {
		if previewed[key] {
			return
		}
		previewed[key] = true
		item.Name = name
		stats.previews = append(stats.previews, item)
	}

	resolveName := func(name string) (string, error) {
		name = strings.TrimSpace(name)
		if meeting.PlaceholderPlayer(name) {
			return "", nil
		}
		key := resolve.Normalize(name)
		if match, ok := resolver.Resolve(name, ""); ok {
			stats.resolved++
			preview(name, key, PlayerPreview{PlayerID: match.PlayerID, Score: match.Score, Method: match.Method})
			return match.PlayerID, nil
		}

		if id, ok := created[key]; ok {
			return id, nil
		}
		stats.unknown = append(stats.unknown, name)
		if !apply {
			preview(name, key, PlayerPreview{Method: previewMethodUnknown})
			return "", nil
		}
		id, err := s.playerRepo.Create(ctx, player.Player{
			Name:   name,
			Source: player.SourceImport,
		})
		if err != nil {
			return "", fmt.Errorf("create player %q: %w", name, err)
		}
		created[key] = id
		stats.created++
		preview(name, key, PlayerPreview{PlayerID: id, Method: previewMethodCreated})
		return id, nil
	}

	buildResults := func(lines []meeting.MatchLine, discipline string) ([]meeting.Result, error) {
		out := make([]meeting.Result, 0, len(lines))
		for _, line := range lines {
			row := meeting.Result{
				MatchdayID:  matchdayID,
				MatchNumber: line.MatchNumber,
				Discipline:  discipline,
				HomePlayers: line.HomePlayers,
				AwayPlayers: line.AwayPlayers,
				SetScores:   line.SetScores,
				MatchPoints: line.MatchPoints,
				Sets:        line.Sets,
				Games:       line.Games,
			}
			for _, name := range line.HomePlayers {
				id, err := resolveName(name)
				if err != nil {
					return nil, err
				}
				row.HomePlayerIDs = append(row.HomePlayerIDs, id)
			}
			for _, name := range line.AwayPlayers {
				id, err := resolveName(name)
				if err != nil {
					return nil, err
				}
				row.AwayPlayerIDs = append(row.AwayPlayerIDs, id)
			}
			out = append(out, row)
		}
		return out, nil
	}

	singles, err := buildResults(report.Singles, meeting.DisciplineSingles)
	if err != nil {
		return nil, stats, err
	}
	doubles, err := buildResults(report.Doubles, meeting.DisciplineDoubles)
	if err != nil {
		return nil, stats, err
	}

	return append(singles, doubles...), stats, nil
}

// recordAttempt writes the audit row; failures to do so are logged, never
// escalated, so bookkeeping cannot break an import.
func (s *MeetingImportService) recordAttempt(ctx context.Context, apply bool, matchdayID string, success bool, code, message string) {
	if !apply || s.attemptRepo == nil {
		return
	}
	err := s.attemptRepo.Record(ctx, importlog.Attempt{
		MatchdayID:   matchdayID,
		AttemptDate:  s.now(),
		Success:      success,
		ErrorCode:    code,
		ErrorMessage: message,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "record import attempt failed", "matchday_id", matchdayID, "error", err)
	}
}

func sumReportTotals(results []meeting.Result) (sets string, games string) {
	homeSets, awaySets := 0, 0
	homeGames, awayGames := 0, 0
	for _, row := range results {
		if h, a, ok := splitScorePair(row.Sets); ok {
			homeSets += h
			awaySets += a
		}
		if h, a, ok := splitScorePair(row.Games); ok {
			homeGames += h
			awayGames += a
		}
	}
	return fmt.Sprintf("%d:%d", homeSets, awaySets), fmt.Sprintf("%d:%d", homeGames, awayGames)
}

func splitScorePair(raw string) (home, away int, ok bool) {
	left, right, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(left+" "+right, "%d %d", &home, &away); err != nil {
		return 0, 0, false
	}
	return home, away, true
}
