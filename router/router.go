// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/store"
)

func NewRouter(st *store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	loc, err := cfg.Location()
	if err != nil {
		slog.Warn("falling back to local timezone", "timezone", cfg.Timezone, "error", err)
		loc = time.Local
	}

	// One ballot service shares the store with every handler
	svc := ballot.NewService(st, loc, slog.Default())

	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc, st, cfg)
	masterlistHandler := handlers.NewMasterlistHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (requires signed identity headers to submit)
	mux.HandleFunc("GET /elections/{id}/ballot", middleware.WithLogging(votingHandler.GetBallot))
	mux.HandleFunc("POST /elections/{id}/ballots", middleware.WithLogging(votingHandler.SubmitBallot))

	// Results (public, recomputed on each request)
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /elections/{id}/turnout", middleware.WithLogging(resultsHandler.GetTurnout))

	// Masterlist management (officers, requires X-Officer-Key)
	mux.HandleFunc("GET /elections/{id}/voters", middleware.WithLogging(masterlistHandler.List))
	mux.HandleFunc("POST /elections/{id}/voters", middleware.WithLogging(masterlistHandler.Add))
	mux.HandleFunc("DELETE /elections/{id}/voters", middleware.WithLogging(masterlistHandler.Clear))
	mux.HandleFunc("DELETE /elections/{id}/voters/{voterId}", middleware.WithLogging(masterlistHandler.Remove))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
