// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type VotingHandler struct {
	svc *ballot.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *ballot.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// GetBallot handles GET /elections/{id}/ballot
func (h *VotingHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	sheet, err := h.svc.BallotSheet(r.Context(), electionID)
	if err != nil {
		writeBallotError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotSheetResponse{
		Election:   sheet.Election.Summary(),
		VotingOpen: sheet.VotingOpen,
		Positions:  sheet.Positions,
	})
}

// SubmitBallot handles POST /elections/{id}/ballots
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	identity, err := auth.IdentityFromRequest(r, h.cfg.IdentitySecret)
	if errors.Is(err, auth.ErrMissingIdentity) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "You must be logged in to vote.")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid identity signature.")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	receipt, err := h.svc.SubmitBallot(r.Context(),
		ballot.Caller{UserID: identity.UserID, Email: identity.Email},
		electionID, req.StudentID, req.Selections)
	if err != nil {
		writeBallotError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		Success: true,
		VoteID:  receipt.VoteID,
		Message: "Vote submitted successfully",
	})
}
