package httpapi

import (
	"fmt"
	"net/http"

	"github.com/MrSpee/tennis-team-sub004/internal/usecase"
)

func (h *Handler) RunLinkBackfill(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLinkBackfill")
	defer span.End()

	if h.reconcileService == nil {
		writeError(ctx, w, fmt.Errorf("%w: reconcile service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.reconcileService.RunLinkBackfill(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "link backfill failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunResultBackfill(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResultBackfill")
	defer span.End()

	if h.reconcileService == nil {
		writeError(ctx, w, fmt.Errorf("%w: reconcile service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.reconcileService.RunResultBackfill(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "result backfill failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunReconcile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconcile")
	defer span.End()

	if h.reconcileService == nil {
		writeError(ctx, w, fmt.Errorf("%w: reconcile service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.reconcileService.RunAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reconcile run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
