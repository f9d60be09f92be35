package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/scrape", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScrape)))
	mux.Handle("POST /v1/internal/jobs/meeting-import", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunMeetingImport)))
	mux.Handle("POST /v1/internal/jobs/roster-sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRosterSync)))
	mux.Handle("POST /v1/internal/jobs/link-backfill", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLinkBackfill)))
	mux.Handle("POST /v1/internal/jobs/result-backfill", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResultBackfill)))
	mux.Handle("POST /v1/internal/jobs/reconcile", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReconcile)))
}
