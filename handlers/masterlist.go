// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// MasterlistHandler lets election officers manage who may vote.
// Every route requires the X-Officer-Key header.
type MasterlistHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewMasterlistHandler(st *store.Store, cfg cliparse.Config) *MasterlistHandler {
	return &MasterlistHandler{store: st, cfg: cfg}
}

// authorize validates the officer key and loads the election. It writes the
// error response itself and reports whether the caller may continue.
func (h *MasterlistHandler) authorize(w http.ResponseWriter, r *http.Request, write bool) (models.Election, bool) {
	electionID := r.PathValue("id")

	officerKey := r.Header.Get(auth.HeaderOfficer)
	if officerKey == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Officer-Key header required")
		return models.Election{}, false
	}
	if err := auth.ValidateOfficerKey(electionID, officerKey, h.cfg.OfficerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid officer key")
		return models.Election{}, false
	}

	election, err := h.store.GetElection(r.Context(), electionID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return models.Election{}, false
	}
	if err != nil {
		slog.Error("failed to load election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return models.Election{}, false
	}

	if write && election.IsArchived {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot modify the masterlist of an archived election")
		return models.Election{}, false
	}

	return election, true
}

// List handles GET /elections/{id}/voters
func (h *MasterlistHandler) List(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r, false)
	if !ok {
		return
	}

	voters, err := h.store.ListVoters(r.Context(), election.ID)
	if err != nil {
		slog.Error("failed to list voters", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return
	}

	voted := 0
	for _, v := range voters {
		if v.IsVoted {
			voted++
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.MasterlistResponse{
		Voters:   voters,
		Total:    len(voters),
		Voted:    voted,
		NotVoted: len(voters) - voted,
	})
}

// Add handles POST /elections/{id}/voters
// student_ids is raw pasted text; duplicates and existing ids are skipped.
func (h *MasterlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r, true)
	if !ok {
		return
	}

	var req models.AddVotersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	fields := strings.Fields(req.StudentIDs)
	if len(fields) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No student IDs provided")
		return
	}

	seen := make(map[string]bool, len(fields))
	unique := make([]string, 0, len(fields))
	for _, id := range fields {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	added, err := h.store.AddMasterlistVoters(r.Context(), election.ID, unique)
	if err != nil {
		slog.Error("failed to add voters", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return
	}

	slog.Info("masterlist updated", "election_id", election.ID, "added", added)

	middleware.JSONResponse(w, http.StatusOK, models.AddVotersResponse{
		Added:   added,
		Skipped: len(fields) - added,
	})
}

// Remove handles DELETE /elections/{id}/voters/{voterId}
func (h *MasterlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r, true)
	if !ok {
		return
	}
	voterID := r.PathValue("voterId")

	err := h.store.RemoveVoter(r.Context(), election.ID, voterID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot remove a voter who has already voted")
		return
	case err != nil:
		slog.Error("failed to remove voter", "error", err, "voter_id", voterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /elections/{id}/voters
func (h *MasterlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r, true)
	if !ok {
		return
	}

	removed, err := h.store.ClearMasterlist(r.Context(), election.ID)
	if err != nil {
		slog.Error("failed to clear masterlist", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgDatabase)
		return
	}

	slog.Info("masterlist cleared", "election_id", election.ID, "removed", removed)

	middleware.JSONResponse(w, http.StatusOK, models.ClearMasterlistResponse{Removed: removed})
}
