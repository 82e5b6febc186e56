// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

type ResultsHandler struct {
	svc   *ballot.Service
	store *store.Store
	cfg   cliparse.Config
}

func NewResultsHandler(svc *ballot.Service, st *store.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: svc, store: st, cfg: cfg}
}

// GetResults handles GET /elections/{id}/results
// Results are recomputed on every request.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	tally, err := h.svc.GetElectionResults(r.Context(), electionID)
	if err != nil {
		writeBallotError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionResultsResponse{
		Results:     tally.Positions,
		TotalVoters: tally.TotalVotersWhoVoted,
	})
}

// GetTurnout handles GET /elections/{id}/turnout
func (h *ResultsHandler) GetTurnout(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	ctx := r.Context()

	if _, err := h.store.GetElection(ctx, electionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
			return
		}
		slog.Error("failed to load election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return
	}

	total, voted, err := h.store.CountVoters(ctx, electionID)
	if err != nil {
		slog.Error("failed to count voters", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return
	}

	masterlist, err := h.store.HasMasterlist(ctx, electionID)
	if err != nil {
		slog.Error("failed to check masterlist", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TurnoutResponse{
		TotalVoters: total,
		Voted:       voted,
		NotVoted:    total - voted,
		Masterlist:  masterlist,
	})
}
