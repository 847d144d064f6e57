package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/health/system", handler.SystemHealth)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("POST /v1/points/calculate", handler.CalculatePoints)
	mux.HandleFunc("GET /v1/rankings/default", handler.GetDefaultRankings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedTradeRoutes(mux, handler, verifier)
	registerAuthorizedRankingRoutes(mux, handler, verifier)
	registerAuthorizedMappingRoutes(mux, handler, verifier)
	registerAuthorizedProfileRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync/players", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPlayerSync)))
	mux.Handle("POST /v1/internal/sync/stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunStatsSync)))
	mux.Handle("POST /v1/internal/sync/mappings/rebuild", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunMappingRebuild)))
	mux.Handle("GET /v1/internal/sync/runs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListSyncRuns)))
}

func registerAuthorizedTradeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/trades/analyze", RequireAuth(verifier, http.HandlerFunc(handler.AnalyzeTrade)))
}

func registerAuthorizedRankingRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/rankings/sets", RequireAuth(verifier, http.HandlerFunc(handler.CreateRankingSet)))
	mux.Handle("GET /v1/rankings/sets", RequireAuth(verifier, http.HandlerFunc(handler.ListRankingSets)))
	mux.Handle("PATCH /v1/rankings/sets/{setID}", RequireAuth(verifier, http.HandlerFunc(handler.RenameRankingSet)))
	mux.Handle("DELETE /v1/rankings/sets/{setID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteRankingSet)))
	mux.Handle("GET /v1/rankings/sets/{setID}/entries", RequireAuth(verifier, http.HandlerFunc(handler.ListRankingEntries)))
	mux.Handle("PUT /v1/rankings/sets/{setID}/order", RequireAuth(verifier, http.HandlerFunc(handler.ReorderRankings)))
}

func registerAuthorizedMappingRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/mappings/pending", RequireAuth(verifier, http.HandlerFunc(handler.ListPendingMappings)))
	mux.Handle("POST /v1/mappings/{entryID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptMapping)))
	mux.Handle("POST /v1/mappings/{entryID}/custom", RequireAuth(verifier, http.HandlerFunc(handler.AcceptCustomMapping)))
	mux.Handle("POST /v1/mappings/{entryID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectMapping)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/profile", RequireAuth(verifier, http.HandlerFunc(handler.GetProfile)))
	mux.Handle("PUT /v1/profile", RequireAuth(verifier, http.HandlerFunc(handler.UpdateProfile)))
	mux.Handle("PUT /v1/profile/avatar", RequireAuth(verifier, http.HandlerFunc(handler.UpdateAvatar)))
}
