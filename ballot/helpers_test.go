// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
	"github.com/danielhkuo/ballotbox/testutil"
)

// election is a small ballot used across the tests:
//
//	President (max 1): Alice, Bob, Carol (pending)
//	Senator   (max 2): Dan, Eve, Fay
type election struct {
	st        *store.Store
	id        string
	president string
	senator   string
	alice     string
	bob       string
	carol     string
	dan       string
	eve       string
	fay       string
}

func setupElection(t *testing.T) election {
	t.Helper()

	st := testutil.SetupTestStore(t)
	e := election{st: st}
	e.id = testutil.CreateTestElection(t, st, "SSC General Election")

	e.president = testutil.AddTestPosition(t, st, e.id, "President", 1)
	e.senator = testutil.AddTestPosition(t, st, e.id, "Senator", 2)

	e.alice = testutil.AddTestCandidate(t, st, e.id, e.president, "Alice Reyes", models.StatusApproved)
	e.bob = testutil.AddTestCandidate(t, st, e.id, e.president, "Bob Santos", models.StatusApproved)
	e.carol = testutil.AddTestCandidate(t, st, e.id, e.president, "Carol Cruz", models.StatusPending)

	e.dan = testutil.AddTestCandidate(t, st, e.id, e.senator, "Dan Lim", models.StatusApproved)
	e.eve = testutil.AddTestCandidate(t, st, e.id, e.senator, "Eve Tan", models.StatusApproved)
	e.fay = testutil.AddTestCandidate(t, st, e.id, e.senator, "Fay Go", models.StatusApproved)

	return e
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(st ballot.Store) *ballot.Service {
	return ballot.NewService(st, time.Local, quietLogger())
}

func caller(n string) ballot.Caller {
	return ballot.Caller{UserID: "user-" + n, Email: n + "@students.example.edu"}
}

func mustVoter(t *testing.T, st *store.Store, electionID, studentID string) models.Voter {
	t.Helper()
	v, err := st.FindVoter(context.Background(), electionID, studentID)
	if err != nil {
		t.Fatalf("FindVoter(%s) failed: %v", studentID, err)
	}
	return v
}

func voteCount(t *testing.T, st *store.Store, electionID string) int {
	t.Helper()
	n, err := st.CountVotes(context.Background(), electionID)
	if err != nil {
		t.Fatalf("CountVotes failed: %v", err)
	}
	return n
}

var errInjected = errors.New("injected failure")

// faultyStore fails selected writes to exercise the recorder's failure paths
type faultyStore struct {
	*store.Store
	failVote       bool
	failSelections bool
	failMark       bool
}

func (f *faultyStore) InsertVote(ctx context.Context, voterID string) (string, error) {
	if f.failVote {
		return "", errInjected
	}
	return f.Store.InsertVote(ctx, voterID)
}

func (f *faultyStore) InsertSelections(ctx context.Context, voteID string, selections []models.VoteSelection) error {
	if f.failSelections {
		return errInjected
	}
	return f.Store.InsertSelections(ctx, voteID, selections)
}

func (f *faultyStore) MarkVoted(ctx context.Context, voterID string) (bool, error) {
	if f.failMark {
		return false, errInjected
	}
	return f.Store.MarkVoted(ctx, voterID)
}

// interleavingStore runs beforeSelections once, right after the vote header
// is inserted and before the selections are written. Tests use it to place a
// competing attempt between the two writes.
type interleavingStore struct {
	faultyStore
	beforeSelections func()
}

func (s *interleavingStore) InsertSelections(ctx context.Context, voteID string, selections []models.VoteSelection) error {
	if hook := s.beforeSelections; hook != nil {
		s.beforeSelections = nil
		hook()
	}
	return s.faultyStore.InsertSelections(ctx, voteID, selections)
}
