// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestGetBallot(t *testing.T) {
	e := setupTestElection(t)
	h := NewVotingHandler(e.svc, e.cfg)

	req := withPath(testutil.MakeRequest("GET", "/elections/"+e.id+"/ballot", nil, nil), map[string]string{"id": e.id})
	w := httptest.NewRecorder()
	h.GetBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.BallotSheetResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Election.ID != e.id || resp.Election.Name != "SSC General Election" {
		t.Errorf("unexpected election %+v", resp.Election)
	}
	if !resp.VotingOpen {
		t.Error("expected voting_open true")
	}
	if len(resp.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(resp.Positions))
	}
	if resp.Positions[0].Title != "President" || resp.Positions[0].MaxVotes != 1 {
		t.Errorf("unexpected first position %+v", resp.Positions[0])
	}
	for _, c := range resp.Positions[0].Candidates {
		if c.CandidateID == e.carol {
			t.Error("pending candidate must not be on the ballot")
		}
	}
}

func TestGetBallot_NotFound(t *testing.T) {
	e := setupTestElection(t)
	h := NewVotingHandler(e.svc, e.cfg)

	req := withPath(testutil.MakeRequest("GET", "/elections/missing/ballot", nil, nil), map[string]string{"id": "missing"})
	w := httptest.NewRecorder()
	h.GetBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitBallot_Success(t *testing.T) {
	e := setupTestElection(t)

	w := e.submit(t, "20-1-00001", map[string][]string{
		e.president: {e.alice},
		e.senator:   {e.dan, e.eve},
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SubmitBallotResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Success || resp.VoteID == "" {
		t.Errorf("unexpected response %+v", resp)
	}

	v, err := e.st.FindVoter(context.Background(), e.id, "20-1-00001")
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsVoted {
		t.Error("expected voter to be marked")
	}
	if v.Email != "20-1-00001@students.example.edu" {
		t.Errorf("expected caller email on voter, got %q", v.Email)
	}
}

func TestSubmitBallot_Errors(t *testing.T) {
	e := setupTestElection(t)
	testutil.SeedMasterlist(t, e.st, e.id, "20-1-01457", "20-1-01459")

	// 20-1-01459 has already voted
	if w := e.submit(t, "20-1-01459", map[string][]string{e.president: {e.bob}}); w.Code != http.StatusCreated {
		t.Fatalf("setup vote failed: %d %s", w.Code, w.Body.String())
	}

	tests := []struct {
		name       string
		studentID  string
		selections map[string][]string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "blank student id",
			studentID:  "  ",
			selections: map[string][]string{e.president: {e.alice}},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Student ID is required.",
		},
		{
			name:       "not in masterlist",
			studentID:  "20-1-01458",
			selections: map[string][]string{e.president: {e.alice}},
			wantStatus: http.StatusForbidden,
			wantMsg:    "Your student ID is not in the voter masterlist for this election.",
		},
		{
			name:       "already voted",
			studentID:  "20-1-01459",
			selections: map[string][]string{e.president: {e.alice}},
			wantStatus: http.StatusConflict,
			wantMsg:    "This student ID has already voted in this election.",
		},
		{
			name:       "too many selections",
			studentID:  "20-1-01457",
			selections: map[string][]string{e.president: {e.alice, e.bob}},
			wantStatus: http.StatusBadRequest,
			wantMsg:    `You selected 2 candidates for "President" but the maximum is 1.`,
		},
		{
			name:       "no selections",
			studentID:  "20-1-01457",
			selections: map[string][]string{},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "You must select at least one candidate.",
		},
		{
			name:       "pending candidate",
			studentID:  "20-1-01457",
			selections: map[string][]string{e.president: {e.carol}},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "You can only vote for approved candidates.",
		},
		{
			name:       "unknown candidate",
			studentID:  "20-1-01457",
			selections: map[string][]string{e.president: {"nope"}},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid candidate selection.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.submit(t, tt.studentID, tt.selections)
			testutil.AssertStatus(t, w, tt.wantStatus)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMsg)
			}
		})
	}

	// The rejected masterlist student can still vote afterwards
	if w := e.submit(t, "20-1-01457", map[string][]string{e.president: {e.alice}}); w.Code != http.StatusCreated {
		t.Errorf("expected later valid ballot to succeed, got %d %s", w.Code, w.Body.String())
	}
}

func TestSubmitBallot_ElectionState(t *testing.T) {
	e := setupTestElection(t)
	ctx := context.Background()

	future := testutil.CreateTestElectionWindow(t, e.st, "Future", testutil.Today(3), testutil.Today(6))
	archived := testutil.CreateTestElection(t, e.st, "Archived")
	if err := e.st.SetArchived(ctx, archived, true); err != nil {
		t.Fatal(err)
	}

	h := NewVotingHandler(e.svc, e.cfg)
	headers := testutil.IdentityHeaders(e.cfg, "u1", "u1@students.example.edu")

	tests := []struct {
		name       string
		electionID string
		wantStatus int
	}{
		{"unknown", "missing", http.StatusNotFound},
		{"not open yet", future, http.StatusForbidden},
		{"archived", archived, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections/"+tt.electionID+"/ballots",
				models.SubmitBallotRequest{StudentID: "20-1-00001", Selections: map[string][]string{"p": {"c"}}},
				headers)
			req.SetPathValue("id", tt.electionID)
			w := httptest.NewRecorder()

			h.SubmitBallot(w, req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestSubmitBallot_Identity(t *testing.T) {
	e := setupTestElection(t)
	h := NewVotingHandler(e.svc, e.cfg)
	body := models.SubmitBallotRequest{StudentID: "20-1-00001", Selections: map[string][]string{e.president: {e.alice}}}

	good := testutil.IdentityHeaders(e.cfg, "u1", "u1@students.example.edu")
	tampered := testutil.IdentityHeaders(e.cfg, "u1", "u1@students.example.edu")
	tampered[auth.HeaderUserEmail] = "someone-else@students.example.edu"
	noEmail := testutil.IdentityHeaders(e.cfg, "u1", "")

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"missing identity", nil, http.StatusUnauthorized},
		{"tampered email", tampered, http.StatusUnauthorized},
		{"missing email", noEmail, http.StatusBadRequest},
		{"valid", good, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections/"+e.id+"/ballots", body, tt.headers)
			req.SetPathValue("id", e.id)
			w := httptest.NewRecorder()

			h.SubmitBallot(w, req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestSubmitBallot_InvalidJSON(t *testing.T) {
	e := setupTestElection(t)
	h := NewVotingHandler(e.svc, e.cfg)

	req := httptest.NewRequest("POST", "/elections/"+e.id+"/ballots", nil)
	for k, v := range testutil.IdentityHeaders(e.cfg, "u1", "u1@students.example.edu") {
		req.Header.Set(k, v)
	}
	req.SetPathValue("id", e.id)
	w := httptest.NewRecorder()

	h.SubmitBallot(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
