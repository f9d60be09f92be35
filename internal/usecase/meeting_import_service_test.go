package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/importlog"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/matchday"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/meeting"
	"github.com/MrSpee/tennis-team-sub004/internal/domain/player"
)

type stubReportFetcher struct {
	report meeting.Report
	err    error
}

func (s *stubReportFetcher) FetchMeetingReport(_ context.Context, _ string) (meeting.Report, error) {
	return s.report, s.err
}

type stubMatchdayRepo struct {
	items          map[string]matchday.Matchday
	missingLinks   []matchday.Matchday
	missingResults []matchday.Matchday
}

func (s *stubMatchdayRepo) GetByID(_ context.Context, id string) (matchday.Matchday, bool, error) {
	item, ok := s.items[id]
	return item, ok, nil
}

func (s *stubMatchdayRepo) GetByMeetingID(_ context.Context, meetingID string) (matchday.Matchday, bool, error) {
	for _, item := range s.items {
		if item.MeetingID == meetingID {
			return item, true, nil
		}
	}
	return matchday.Matchday{}, false, nil
}

func (s *stubMatchdayRepo) ListMissingMeetingID(_ context.Context, _ time.Time, _ int) ([]matchday.Matchday, error) {
	return s.missingLinks, nil
}

func (s *stubMatchdayRepo) ListMissingResults(_ context.Context, _ time.Time, _ int) ([]matchday.Matchday, error) {
	return s.missingResults, nil
}

type stubResultRepo struct {
	replaced map[string][]meeting.Result
	err      error
}

func (s *stubResultRepo) ListByMatchday(_ context.Context, id string) ([]meeting.Result, error) {
	return s.replaced[id], nil
}

func (s *stubResultRepo) ReplaceByMatchday(_ context.Context, id string, rows []meeting.Result) error {
	if s.err != nil {
		return s.err
	}
	if s.replaced == nil {
		s.replaced = make(map[string][]meeting.Result)
	}
	s.replaced[id] = rows
	return nil
}

type stubResultWriter struct {
	updates []string
}

func (s *stubResultWriter) UpdateResult(_ context.Context, id, matchPoints, setScore, gameScore, status string) error {
	s.updates = append(s.updates, fmt.Sprintf("%s|%s|%s|%s|%s", id, matchPoints, setScore, gameScore, status))
	return nil
}

type stubPlayerRepo struct {
	players []player.Player
	created []player.Player
	lk      map[string]string
}

func (s *stubPlayerRepo) ListAll(_ context.Context) ([]player.Player, error) {
	return s.players, nil
}

func (s *stubPlayerRepo) Create(_ context.Context, item player.Player) (string, error) {
	id := fmt.Sprintf("p-new-%d", len(s.created)+1)
	item.ID = id
	s.created = append(s.created, item)
	return id, nil
}

func (s *stubPlayerRepo) UpdateLK(_ context.Context, id, currentLK string) error {
	if s.lk == nil {
		s.lk = make(map[string]string)
	}
	s.lk[id] = currentLK
	return nil
}

type stubAttemptRepo struct {
	recorded  []importlog.Attempt
	counts    map[string]int
	attempted map[string]bool
}

func (s *stubAttemptRepo) Record(_ context.Context, item importlog.Attempt) error {
	s.recorded = append(s.recorded, item)
	return nil
}

func (s *stubAttemptRepo) CountByMatchday(_ context.Context, _ []string) (map[string]int, error) {
	return s.counts, nil
}

func (s *stubAttemptRepo) AttemptedOn(_ context.Context, _ []string, _ time.Time) (map[string]bool, error) {
	return s.attempted, nil
}

func playedReport() meeting.Report {
	return meeting.Report{
		Meta: meeting.Meta{HomeTeam: "TC Rot-Weiss Köln II", AwayTeam: "TG Leverkusen", FinalScore: "2:0"},
		Singles: []meeting.MatchLine{
			{
				MatchNumber: 1,
				HomePlayers: []string{"Hans Müller"},
				AwayPlayers: []string{"Neuer Spieler"},
				SetScores:   []meeting.SetScore{{Home: 6, Away: 3}, {Home: 6, Away: 4}},
				MatchPoints: "1:0",
				Sets:        "2:0",
				Games:       "12:7",
			},
		},
		Doubles: []meeting.MatchLine{
			{
				MatchNumber: 1,
				HomePlayers: []string{"Hans Müller", "Jan Koch"},
				AwayPlayers: []string{"wird nachgenannt", "w.o."},
				SetScores:   []meeting.SetScore{{Home: 6, Away: 0}, {Home: 6, Away: 1}},
				MatchPoints: "1:0",
				Sets:        "2:0",
				Games:       "12:1",
			},
		},
	}
}

func newImportService(fetcher *stubReportFetcher, players *stubPlayerRepo, results *stubResultRepo, attempts *stubAttemptRepo) (*MeetingImportService, *stubResultWriter) {
	matchdays := &stubMatchdayRepo{items: map[string]matchday.Matchday{
		"m1": {ID: "m1", MeetingID: "9001", MeetingReportURL: "https://tvm.example/report?meeting=9001"},
	}}
	writer := &stubResultWriter{}
	svc := NewMeetingImportService(fetcher, matchdays, results, writer, players, attempts, MeetingImportServiceConfig{
		ApplyDefault: true,
	})
	return svc, writer
}

func TestMeetingImport_ReplacesResultsAndCreatesPlayers(t *testing.T) {
	t.Parallel()

	fetcher := &stubReportFetcher{report: playedReport()}
	players := &stubPlayerRepo{players: []player.Player{
		{ID: "p-mueller", Name: "Hans Müller"},
		{ID: "p-koch", Name: "Jan Koch"},
	}}
	results := &stubResultRepo{}
	attempts := &stubAttemptRepo{}
	svc, writer := newImportService(fetcher, players, results, attempts)

	summary, err := svc.Import(context.Background(), MeetingImportParams{MatchdayID: "m1"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if summary.Singles != 1 || summary.Doubles != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.CreatedPlayers != 1 || len(players.created) != 1 {
		t.Fatalf("expected one created player, got %+v", summary)
	}
	if players.created[0].Name != "Neuer Spieler" || players.created[0].Source != player.SourceImport {
		t.Fatalf("unexpected created player: %+v", players.created[0])
	}

	rows := results.replaced["m1"]
	if len(rows) != 2 {
		t.Fatalf("expected 2 result rows, got %d", len(rows))
	}
	single := rows[0]
	if single.Discipline != meeting.DisciplineSingles || single.HomePlayerIDs[0] != "p-mueller" {
		t.Fatalf("unexpected singles row: %+v", single)
	}
	if single.AwayPlayerIDs[0] != "p-new-1" {
		t.Fatalf("expected created player id, got %+v", single.AwayPlayerIDs)
	}

	// Placeholder opponents resolve to no player id but keep their slots.
	double := rows[1]
	if double.AwayPlayerIDs[0] != "" || double.AwayPlayerIDs[1] != "" {
		t.Fatalf("expected empty ids for placeholders, got %+v", double.AwayPlayerIDs)
	}

	if len(writer.updates) != 1 || writer.updates[0] != "m1|2:0|4:0|24:8|COMPLETED" {
		t.Fatalf("unexpected matchday update: %+v", writer.updates)
	}

	if len(attempts.recorded) != 1 || !attempts.recorded[0].Success {
		t.Fatalf("expected one successful attempt, got %+v", attempts.recorded)
	}
}

func TestMeetingImport_AddressableByMeetingIdentity(t *testing.T) {
	t.Parallel()

	fetcher := &stubReportFetcher{report: playedReport()}
	players := &stubPlayerRepo{players: []player.Player{
		{ID: "p-mueller", Name: "Hans Müller"},
		{ID: "p-koch", Name: "Jan Koch"},
	}}

	svc, _ := newImportService(fetcher, players, &stubResultRepo{}, &stubAttemptRepo{})
	summary, err := svc.Import(context.Background(), MeetingImportParams{MeetingID: "9001"})
	if err != nil {
		t.Fatalf("import by meeting id: %v", err)
	}
	if summary.MatchdayID != "m1" || summary.MeetingID != "9001" {
		t.Fatalf("unexpected summary identity: %+v", summary)
	}

	svc, _ = newImportService(fetcher, players, &stubResultRepo{}, &stubAttemptRepo{})
	summary, err = svc.Import(context.Background(), MeetingImportParams{MeetingURL: "https://tvm.example/report?meeting=9001"})
	if err != nil {
		t.Fatalf("import by meeting url: %v", err)
	}
	if summary.MatchdayID != "m1" {
		t.Fatalf("unexpected summary identity: %+v", summary)
	}

	if _, err := svc.Import(context.Background(), MeetingImportParams{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input without any identity, got %v", err)
	}
	if _, err := svc.Import(context.Background(), MeetingImportParams{MeetingID: "404404"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unlinked meeting, got %v", err)
	}
}

func TestMeetingImport_SummaryCarriesReportDetails(t *testing.T) {
	t.Parallel()

	fetcher := &stubReportFetcher{report: playedReport()}
	players := &stubPlayerRepo{players: []player.Player{
		{ID: "p-mueller", Name: "Hans Müller"},
		{ID: "p-koch", Name: "Jan Koch"},
	}}
	results := &stubResultRepo{replaced: map[string][]meeting.Result{
		"m1": {{MatchdayID: "m1", MatchNumber: 1, Discipline: meeting.DisciplineSingles}},
	}}
	svc, _ := newImportService(fetcher, players, results, &stubAttemptRepo{})

	summary, err := svc.Import(context.Background(), MeetingImportParams{MatchdayID: "m1", Apply: boolPtr(false)})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if summary.Meta.FinalScore != "2:0" || summary.Meta.HomeTeam != "TC Rot-Weiss Köln II" {
		t.Fatalf("unexpected meta: %+v", summary.Meta)
	}
	if len(summary.Results) != 2 || summary.Results[0].Discipline != meeting.DisciplineSingles {
		t.Fatalf("expected per-rubber lines, got %+v", summary.Results)
	}
	if summary.ReplacedRows != 1 {
		t.Fatalf("expected one stored row to be replaced, got %d", summary.ReplacedRows)
	}

	previews := make(map[string]PlayerPreview, len(summary.Players))
	for _, p := range summary.Players {
		previews[p.Name] = p
	}
	resolved, ok := previews["Hans Müller"]
	if !ok || resolved.PlayerID != "p-mueller" || resolved.Score != 100 {
		t.Fatalf("expected resolved preview with confidence, got %+v", summary.Players)
	}
	unknown, ok := previews["Neuer Spieler"]
	if !ok || unknown.Method != previewMethodUnknown || unknown.PlayerID != "" {
		t.Fatalf("expected unknown preview, got %+v", summary.Players)
	}
}

func TestMeetingImport_EmptyReportIsSkipNotError(t *testing.T) {
	t.Parallel()

	fetcher := &stubReportFetcher{report: meeting.Report{}}
	players := &stubPlayerRepo{}
	results := &stubResultRepo{}
	attempts := &stubAttemptRepo{}
	svc, writer := newImportService(fetcher, players, results, attempts)

	summary, err := svc.Import(context.Background(), MeetingImportParams{MatchdayID: "m1"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !summary.Skipped {
		t.Fatal("expected skip for empty report")
	}
	if len(results.replaced) != 0 || len(writer.updates) != 0 {
		t.Fatal("empty report must not write results")
	}
	if len(attempts.recorded) != 1 || attempts.recorded[0].Success || attempts.recorded[0].ErrorCode != "no_result" {
		t.Fatalf("expected unsuccessful no_result attempt, got %+v", attempts.recorded)
	}
}

func TestMeetingImport_FetchFailureRecordsAttempt(t *testing.T) {
	t.Parallel()

	fetcher := &stubReportFetcher{err: errors.New("portal status=503")}
	players := &stubPlayerRepo{}
	results := &stubResultRepo{}
	attempts := &stubAttemptRepo{}
	svc, _ := newImportService(fetcher, players, results, attempts)

	if _, err := svc.Import(context.Background(), MeetingImportParams{MatchdayID: "m1"}); err == nil {
		t.Fatal("expected fetch error")
	}
	if len(attempts.recorded) != 1 || attempts.recorded[0].ErrorCode != "fetch_failed" {
		t.Fatalf("expected fetch_failed attempt, got %+v", attempts.recorded)
	}
}

func TestMeetingImport_DryRunPreviewsWithoutWriting(t *testing.T) {
	t.Parallel()

	fetcher := &stubReportFetcher{report: playedReport()}
	players := &stubPlayerRepo{players: []player.Player{
		{ID: "p-mueller", Name: "Hans Müller"},
		{ID: "p-koch", Name: "Jan Koch"},
	}}
	results := &stubResultRepo{}
	attempts := &stubAttemptRepo{}
	svc, writer := newImportService(fetcher, players, results, attempts)

	summary, err := svc.Import(context.Background(), MeetingImportParams{MatchdayID: "m1", Apply: boolPtr(false)})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if !summary.DryRun {
		t.Fatal("expected dry run")
	}
	if len(summary.UnknownPlayers) != 1 || summary.UnknownPlayers[0] != "Neuer Spieler" {
		t.Fatalf("expected unknown player preview, got %+v", summary.UnknownPlayers)
	}
	if summary.CreatedPlayers != 0 || len(players.created) != 0 {
		t.Fatal("dry run must not create players")
	}
	if len(results.replaced) != 0 || len(writer.updates) != 0 || len(attempts.recorded) != 0 {
		t.Fatal("dry run must not write")
	}
}
