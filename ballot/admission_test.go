// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestAdmit_ElectionState(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	open := testutil.CreateTestElection(t, st, "Open")
	future := testutil.CreateTestElectionWindow(t, st, "Future", testutil.Today(2), testutil.Today(5))
	past := testutil.CreateTestElectionWindow(t, st, "Past", testutil.Today(-5), testutil.Today(-2))
	endsToday := testutil.CreateTestElectionWindow(t, st, "Ends today", testutil.Today(-3), testutil.Today(0))
	startsToday := testutil.CreateTestElectionWindow(t, st, "Starts today", testutil.Today(0), testutil.Today(3))
	archived := testutil.CreateTestElection(t, st, "Archived")
	if err := st.SetArchived(ctx, archived, true); err != nil {
		t.Fatal(err)
	}

	ledger := &ballot.Ledger{Store: st, Location: time.Local, Logger: quietLogger()}

	tests := []struct {
		name       string
		electionID string
		wantErr    error
	}{
		{"open", open, nil},
		{"unknown election", "does-not-exist", ballot.ErrElectionNotFound},
		{"not started", future, ballot.ErrElectionNotOpen},
		{"already ended", past, ballot.ErrElectionNotOpen},
		{"end day inclusive", endsToday, nil},
		{"start day inclusive", startsToday, nil},
		{"archived", archived, ballot.ErrElectionArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Admit(ctx, tt.electionID, "20-1-00001", caller("a"))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Admit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAdmit_Clock(t *testing.T) {
	st := testutil.SetupTestStore(t)
	id := testutil.CreateTestElectionWindow(t, st, "Fixed", "2026-03-10", "2026-03-12")

	loc := time.FixedZone("PHT", 8*60*60)
	ledger := &ballot.Ledger{Store: st, Location: loc, Logger: quietLogger()}

	// 17:00 UTC on the 12th is already the 13th in UTC+8
	ledger.Now = func() time.Time { return time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC) }
	if _, err := ledger.Admit(context.Background(), id, "20-1-00001", caller("a")); !errors.Is(err, ballot.ErrElectionNotOpen) {
		t.Errorf("expected ErrElectionNotOpen after the last day, got %v", err)
	}

	ledger.Now = func() time.Time { return time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC) }
	if _, err := ledger.Admit(context.Background(), id, "20-1-00001", caller("a")); err != nil {
		t.Errorf("expected admission on the last day, got %v", err)
	}
}

func TestAdmit_InputChecks(t *testing.T) {
	st := testutil.SetupTestStore(t)
	id := testutil.CreateTestElection(t, st, "Open")
	ledger := &ballot.Ledger{Store: st, Logger: quietLogger()}
	ctx := context.Background()

	if _, err := ledger.Admit(ctx, id, "   ", caller("a")); !errors.Is(err, ballot.ErrStudentIDRequired) {
		t.Errorf("expected ErrStudentIDRequired, got %v", err)
	}
	if _, err := ledger.Admit(ctx, id, "20-1-00001", ballot.Caller{UserID: "u1"}); !errors.Is(err, ballot.ErrMissingEmail) {
		t.Errorf("expected ErrMissingEmail, got %v", err)
	}

	h, err := ledger.Admit(ctx, id, "  20-1-00001\t", caller("a"))
	if err != nil {
		t.Fatal(err)
	}
	if h.StudentID != "20-1-00001" {
		t.Errorf("expected trimmed student id, got %q", h.StudentID)
	}
}

func TestAdmit_Masterlist(t *testing.T) {
	st := testutil.SetupTestStore(t)
	id := testutil.CreateTestElection(t, st, "Masterlist")
	testutil.SeedMasterlist(t, st, id, "20-1-01457", "20-1-01460")
	ledger := &ballot.Ledger{Store: st, Logger: quietLogger()}
	ctx := context.Background()

	t.Run("listed student is admitted", func(t *testing.T) {
		h, err := ledger.Admit(ctx, id, "20-1-01457", caller("juan"))
		if err != nil {
			t.Fatal(err)
		}
		if !h.Masterlist {
			t.Error("expected masterlist handle")
		}

		v := mustVoter(t, st, id, "20-1-01457")
		if v.ID != h.VoterID {
			t.Errorf("handle bound to %s, want %s", h.VoterID, v.ID)
		}
		if v.Email != "juan@students.example.edu" {
			t.Errorf("expected caller email attached, got %q", v.Email)
		}
		if v.IsVoted {
			t.Error("admission must not mark the voter")
		}
	})

	t.Run("email is overwritten by the latest caller", func(t *testing.T) {
		if _, err := ledger.Admit(ctx, id, "20-1-01457", caller("maria")); err != nil {
			t.Fatal(err)
		}
		if v := mustVoter(t, st, id, "20-1-01457"); v.Email != "maria@students.example.edu" {
			t.Errorf("expected overwritten email, got %q", v.Email)
		}
	})

	t.Run("unlisted student is rejected", func(t *testing.T) {
		_, err := ledger.Admit(ctx, id, "20-1-01458", caller("x"))
		if !errors.Is(err, ballot.ErrNotInMasterlist) {
			t.Errorf("expected ErrNotInMasterlist, got %v", err)
		}
		if _, err := st.FindVoter(ctx, id, "20-1-01458"); err == nil {
			t.Error("rejected student must not get a voter row")
		}
	})

	t.Run("voted student is rejected", func(t *testing.T) {
		v := mustVoter(t, st, id, "20-1-01460")
		if _, err := st.MarkVoted(ctx, v.ID); err != nil {
			t.Fatal(err)
		}
		_, err := ledger.Admit(ctx, id, "20-1-01460", caller("y"))
		if !errors.Is(err, ballot.ErrAlreadyVoted) {
			t.Errorf("expected ErrAlreadyVoted, got %v", err)
		}
	})
}

func TestAdmit_OpenModeIsIdempotent(t *testing.T) {
	st := testutil.SetupTestStore(t)
	id := testutil.CreateTestElection(t, st, "Open")
	ledger := &ballot.Ledger{Store: st, Logger: quietLogger()}
	ctx := context.Background()

	first, err := ledger.Admit(ctx, id, "21-2-00001", caller("a"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := ledger.Admit(ctx, id, "21-2-00001", caller("a"))
	if err != nil {
		t.Fatal(err)
	}
	if first.VoterID != second.VoterID {
		t.Errorf("expected the same voter row, got %s and %s", first.VoterID, second.VoterID)
	}
	if first.Masterlist {
		t.Error("open-mode handle should not be flagged masterlist")
	}

	total, _, err := st.CountVoters(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected 1 voter row, got %d", total)
	}

	v := mustVoter(t, st, id, "21-2-00001")
	if v.Source != models.SourceOpen {
		t.Errorf("expected source %q, got %q", models.SourceOpen, v.Source)
	}

	// Self-registration never switches the election to masterlist mode
	hasMasterlist, err := st.HasMasterlist(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if hasMasterlist {
		t.Error("open-mode voters must not count as a masterlist")
	}
	if _, err := ledger.Admit(ctx, id, "21-2-00002", caller("b")); err != nil {
		t.Errorf("second open-mode student should be admitted, got %v", err)
	}
}

func TestAdmit_MasterlistAddedAfterSelfRegistration(t *testing.T) {
	st := testutil.SetupTestStore(t)
	id := testutil.CreateTestElection(t, st, "Late masterlist")
	ledger := &ballot.Ledger{Store: st, Logger: quietLogger()}
	ctx := context.Background()

	// Both students register in open mode without finishing a ballot
	for _, studentID := range []string{"20-1-01457", "20-1-01500"} {
		if _, err := ledger.Admit(ctx, id, studentID, caller(studentID)); err != nil {
			t.Fatal(err)
		}
	}

	added, err := st.AddMasterlistVoters(ctx, id, []string{"20-1-01457"})
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Errorf("self-registered student should be moved onto the masterlist, got %d added", added)
	}

	hasMasterlist, err := st.HasMasterlist(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !hasMasterlist {
		t.Fatal("expected the election to be in masterlist mode")
	}

	tests := []struct {
		studentID string
		wantErr   error
	}{
		{"20-1-01457", nil},
		{"20-1-01458", ballot.ErrNotInMasterlist},
		{"20-1-01500", ballot.ErrNotInMasterlist},
	}
	for _, tt := range tests {
		h, err := ledger.Admit(ctx, id, tt.studentID, caller("late"))
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Admit(%s) error = %v, want %v", tt.studentID, err, tt.wantErr)
			continue
		}
		if err == nil && !h.Masterlist {
			t.Errorf("Admit(%s) should return a masterlist handle", tt.studentID)
		}
	}
}
