package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/MrSpee/tennis-team-sub004/internal/platform/logging"
	"github.com/MrSpee/tennis-team-sub004/internal/usecase"
)

type Handler struct {
	scrapeService        *usecase.ScrapeService
	meetingImportService *usecase.MeetingImportService
	rosterService        *usecase.RosterService
	reconcileService     *usecase.ReconcileService
	leagueURL            string
	season               string
	logger               *logging.Logger
	validator            *validator.Validate
}

// HandlerConfig carries the portal defaults applied when a request does not
// override them.
type HandlerConfig struct {
	LeagueURL string
	Season    string
	Logger    *logging.Logger
}

func NewHandler(
	scrapeService *usecase.ScrapeService,
	meetingImportService *usecase.MeetingImportService,
	rosterService *usecase.RosterService,
	reconcileService *usecase.ReconcileService,
	cfg HandlerConfig,
) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scrapeService:        scrapeService,
		meetingImportService: meetingImportService,
		rosterService:        rosterService,
		reconcileService:     reconcileService,
		leagueURL:            cfg.LeagueURL,
		season:               cfg.Season,
		logger:               logger,
		validator:            validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type scrapeRequest struct {
	LeagueURL string   `json:"league_url" validate:"omitempty,url"`
	Season    string   `json:"season"`
	Groups    []string `json:"groups"`
	Apply     *bool    `json:"apply"`
}

func (h *Handler) RunScrape(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScrape")
	defer span.End()

	if h.scrapeService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scrape service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req scrapeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.LeagueURL == "" {
		req.LeagueURL = h.leagueURL
	}
	if req.Season == "" {
		req.Season = h.season
	}

	summary, err := h.scrapeService.Run(ctx, usecase.ScrapeParams{
		LeagueURL:   req.LeagueURL,
		Season:      req.Season,
		GroupFilter: req.Groups,
		Apply:       req.Apply,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "scrape run failed", "league_url", req.LeagueURL, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// meetingImportRequest addresses the meeting by matchday id, portal meeting
// id, or the report URL; the service requires at least one of the three.
type meetingImportRequest struct {
	MatchdayID string `json:"matchday_id"`
	MeetingID  string `json:"meeting_id"`
	MeetingURL string `json:"meeting_url" validate:"omitempty,url"`
	Apply      *bool  `json:"apply"`
}

func (h *Handler) RunMeetingImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMeetingImport")
	defer span.End()

	if h.meetingImportService == nil {
		writeError(ctx, w, fmt.Errorf("%w: meeting import service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req meetingImportRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.meetingImportService.Import(ctx, usecase.MeetingImportParams{
		MatchdayID: req.MatchdayID,
		MeetingID:  req.MeetingID,
		MeetingURL: req.MeetingURL,
		Apply:      req.Apply,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "meeting import failed",
			"matchday_id", req.MatchdayID,
			"meeting_id", req.MeetingID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

type rosterSyncRequest struct {
	ClubURL string `json:"club_url" validate:"required,url"`
	Apply   *bool  `json:"apply"`
}

func (h *Handler) RunRosterSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRosterSync")
	defer span.End()

	if h.rosterService == nil {
		writeError(ctx, w, fmt.Errorf("%w: roster service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req rosterSyncRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.rosterService.Sync(ctx, usecase.RosterSyncParams{
		ClubURL: req.ClubURL,
		Apply:   req.Apply,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "roster sync failed", "club_url", req.ClubURL, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// decodeRequest reads the JSON body into target and validates it. An empty
// body is allowed so job routes can be triggered without a payload.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	if err := h.validator.StructCtx(ctx, target); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
