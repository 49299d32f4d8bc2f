package handlers

import (
	"net/http"

	"github.com/CreativeDragon1/Earn2Die/internal/middleware"
)

type Router struct {
	Auth        *middleware.Authenticator
	RateLimiter *middleware.RateLimiter

	Players   *PlayerHandler
	Towns     *TownHandler
	Wars      *WarHandler
	Trade     *TradeHandler
	Legal     *LegalHandler
	Espionage *EspionageHandler
}

// Build assembles the HTTP mux. Read endpoints for wars, trade and the
// court docket are public; everything that writes, and all town data,
// requires an authenticated player.
func (rt *Router) Build() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authenticate runs first so the per-player window applies on top of
	// the per-IP one.
	authed := func(h http.HandlerFunc) http.Handler {
		return rt.Auth.Authenticate(rt.RateLimiter.Limit(h))
	}
	public := func(h http.HandlerFunc) http.Handler {
		return rt.RateLimiter.Limit(h)
	}

	// Profile sync runs on a verified token alone so new players can
	// register before a player record exists.
	mux.Handle("POST /api/auth/profile", rt.Auth.AuthenticateToken(rt.RateLimiter.Limit(http.HandlerFunc(rt.Players.SyncProfile))))
	mux.Handle("GET /api/auth/me", authed(rt.Players.Me))

	mux.Handle("GET /api/players", authed(rt.Players.List))
	mux.Handle("GET /api/players/stats/overview", public(rt.Players.Stats))
	mux.Handle("GET /api/players/{id}", authed(rt.Players.Get))
	mux.Handle("PUT /api/players/{id}/role", authed(rt.Players.UpdateRole))

	mux.Handle("GET /api/towns", authed(rt.Towns.List))
	mux.Handle("GET /api/towns/{id}", authed(rt.Towns.Get))
	mux.Handle("POST /api/towns/apply", authed(rt.Towns.Apply))
	mux.Handle("PUT /api/towns/{id}/approve", authed(rt.Towns.Approve))
	mux.Handle("PUT /api/towns/{id}/reject", authed(rt.Towns.Reject))
	mux.Handle("POST /api/towns/{id}/members", authed(rt.Towns.AddMember))
	mux.Handle("PUT /api/towns/{id}", authed(rt.Towns.Update))
	mux.Handle("DELETE /api/towns/{id}", authed(rt.Towns.Delete))

	mux.Handle("GET /api/wars", public(rt.Wars.List))
	mux.Handle("GET /api/wars/{id}", public(rt.Wars.Get))
	mux.Handle("POST /api/wars/declare", authed(rt.Wars.Declare))
	mux.Handle("PUT /api/wars/{id}/status", authed(rt.Wars.UpdateStatus))
	mux.Handle("POST /api/wars/{id}/battles", authed(rt.Wars.AddBattle))

	mux.Handle("GET /api/trade/listings", public(rt.Trade.List))
	mux.Handle("GET /api/trade/listings/{id}", public(rt.Trade.Get))
	mux.Handle("POST /api/trade/listings", authed(rt.Trade.Create))
	mux.Handle("POST /api/trade/listings/{id}/buy", authed(rt.Trade.Buy))
	mux.Handle("PUT /api/trade/listings/{id}/cancel", authed(rt.Trade.Cancel))

	mux.Handle("GET /api/legal/cases", public(rt.Legal.List))
	mux.Handle("GET /api/legal/cases/{id}", public(rt.Legal.Get))
	mux.Handle("POST /api/legal/cases", authed(rt.Legal.File))
	mux.Handle("PUT /api/legal/cases/{id}/assign", authed(rt.Legal.AssignJudge))
	mux.Handle("PUT /api/legal/cases/{id}/status", authed(rt.Legal.UpdateStatus))
	mux.Handle("POST /api/legal/cases/{id}/verdict", authed(rt.Legal.IssueVerdict))
	mux.Handle("POST /api/legal/cases/{id}/comments", authed(rt.Legal.AddComment))

	mux.Handle("GET /api/espionage/reports", authed(rt.Espionage.List))
	mux.Handle("GET /api/espionage/reports/{id}", authed(rt.Espionage.Get))
	mux.Handle("POST /api/espionage/reports", authed(rt.Espionage.Create))
	mux.Handle("PUT /api/espionage/reports/{id}/status", authed(rt.Espionage.UpdateStatus))

	return mux
}
