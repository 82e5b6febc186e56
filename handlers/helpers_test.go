// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
	"github.com/danielhkuo/ballotbox/testutil"
)

// testElection is an open election with two positions:
//
//	President (max 1): Alice, Bob, Carol (pending)
//	Senator   (max 2): Dan, Eve
type testElection struct {
	st        *store.Store
	cfg       cliparse.Config
	svc       *ballot.Service
	id        string
	president string
	senator   string
	alice     string
	bob       string
	carol     string
	dan       string
	eve       string
}

func setupTestElection(t *testing.T) testElection {
	t.Helper()

	st := testutil.SetupTestStore(t)
	e := testElection{
		st:  st,
		cfg: testutil.GetTestConfig(),
		svc: ballot.NewService(st, time.Local, nil),
	}
	e.id = testutil.CreateTestElection(t, st, "SSC General Election")
	e.president = testutil.AddTestPosition(t, st, e.id, "President", 1)
	e.senator = testutil.AddTestPosition(t, st, e.id, "Senator", 2)
	e.alice = testutil.AddTestCandidate(t, st, e.id, e.president, "Alice Reyes", models.StatusApproved)
	e.bob = testutil.AddTestCandidate(t, st, e.id, e.president, "Bob Santos", models.StatusApproved)
	e.carol = testutil.AddTestCandidate(t, st, e.id, e.president, "Carol Cruz", models.StatusPending)
	e.dan = testutil.AddTestCandidate(t, st, e.id, e.senator, "Dan Lim", models.StatusApproved)
	e.eve = testutil.AddTestCandidate(t, st, e.id, e.senator, "Eve Tan", models.StatusApproved)

	return e
}

// submit posts a ballot as the given student through VotingHandler
func (e testElection) submit(t *testing.T, studentID string, selections map[string][]string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewVotingHandler(e.svc, e.cfg)
	req := testutil.MakeRequest("POST", "/elections/"+e.id+"/ballots",
		models.SubmitBallotRequest{StudentID: studentID, Selections: selections},
		testutil.IdentityHeaders(e.cfg, "user-"+studentID, studentID+"@students.example.edu"))
	req.SetPathValue("id", e.id)
	w := httptest.NewRecorder()

	h.SubmitBallot(w, req)
	return w
}

func withPath(req *http.Request, values map[string]string) *http.Request {
	for k, v := range values {
		req.SetPathValue(k, v)
	}
	return req
}
