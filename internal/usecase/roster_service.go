package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSpee/tennis-team-sub004/internal/domain/player"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/logging"
	"github.com/MrSpee/tennis-team-sub004/internal/resolve"
)

type clubRosterFetcher interface {
	FetchClubRosters(ctx context.Context, clubURL string) ([]ScrapedRoster, error)
}

// RosterService syncs club squad lists into the canonical player set: known
// players get their performance class (LK) refreshed, unknown squad members
// are created as import-sourced records carrying their federation id.
type RosterService struct {
	fetcher      clubRosterFetcher
	playerRepo   player.Repository
	playerFloor  int
	applyDefault bool
	logger       *logging.Logger
}

type RosterServiceConfig struct {
	PlayerFloor  int
	ApplyDefault bool
	Logger       *logging.Logger
}

func NewRosterService(fetcher clubRosterFetcher, playerRepo player.Repository, cfg RosterServiceConfig) *RosterService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		fetcher:      fetcher,
		playerRepo:   playerRepo,
		playerFloor:  cfg.PlayerFloor,
		applyDefault: cfg.ApplyDefault,
		logger:       logger,
	}
}

type RosterSyncParams struct {
	ClubURL string
	Apply   *bool
}

type RosterSyncSummary struct {
	DryRun     bool
	Teams      int
	Players    int
	LKUpdated  int
	Created    int
	Unresolved []string
}

func (s *RosterService) Sync(ctx context.Context, params RosterSyncParams) (RosterSyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Sync")
	defer span.End()

	params.ClubURL = strings.TrimSpace(params.ClubURL)
	if params.ClubURL == "" {
		return RosterSyncSummary{}, fmt.Errorf("%w: club url is required", ErrInvalidInput)
	}

	apply := s.applyDefault
	if params.Apply != nil {
		apply = *params.Apply
	}
	summary := RosterSyncSummary{DryRun: !apply}

	rosters, err := s.fetcher.FetchClubRosters(ctx, params.ClubURL)
	if err != nil {
		return summary, fmt.Errorf("fetch club rosters: %w", err)
	}
	summary.Teams = len(rosters)

	canonical, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("load canonical players: %w", err)
	}
	resolver := resolve.NewPlayerResolver(canonical, s.playerFloor)

	currentLK := make(map[string]string, len(canonical))
	for _, item := range canonical {
		currentLK[item.ID] = strings.TrimSpace(item.CurrentLK)
	}

	// Players appearing in several squads of the same club must be created
	// once, not once per roster.
	created := make(map[string]string, 4)

	for _, roster := range rosters {
		for _, squadRow := range roster.Players {
			summary.Players++
			name := strings.TrimSpace(squadRow.Name)
			lk := strings.TrimSpace(squadRow.LK)

			match, ok := resolver.Resolve(name, squadRow.TVMID)
			if !ok {
				key := resolve.Normalize(name) + "|" + strings.TrimSpace(squadRow.TVMID)
				if _, dup := created[key]; dup {
					continue
				}
				summary.Unresolved = append(summary.Unresolved, name)
				if !apply {
					continue
				}
				id, createErr := s.playerRepo.Create(ctx, player.Player{
					Name:      name,
					CurrentLK: lk,
					TVMID:     squadRow.TVMID,
					Source:    player.SourceImport,
				})
				if createErr != nil {
					return summary, fmt.Errorf("create player %q: %w", name, createErr)
				}
				created[key] = id
				currentLK[id] = lk
				summary.Created++
				continue
			}

			if lk == "" || currentLK[match.PlayerID] == lk {
				continue
			}
			summary.LKUpdated++
			if !apply {
				continue
			}
			if err := s.playerRepo.UpdateLK(ctx, match.PlayerID, lk); err != nil {
				return summary, fmt.Errorf("update lk for %q: %w", name, err)
			}
			currentLK[match.PlayerID] = lk
		}
	}

	s.logger.InfoContext(ctx, "club roster sync finished",
		"dry_run", summary.DryRun,
		"teams", summary.Teams,
		"players", summary.Players,
		"lk_updated", summary.LKUpdated,
		"created", summary.Created,
	)
	return summary, nil
}
