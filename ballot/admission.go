// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// AdmissionStore is the persistence the Ledger needs.
type AdmissionStore interface {
	GetElection(ctx context.Context, electionID string) (models.Election, error)
	HasMasterlist(ctx context.Context, electionID string) (bool, error)
	FindVoter(ctx context.Context, electionID, studentID string) (models.Voter, error)
	CreateVoter(ctx context.Context, electionID, studentID, email, source string) (models.Voter, error)
	AttachEmail(ctx context.Context, voterID, email string) error
}

// Caller is the authenticated identity attached to a voter record. It never
// decides eligibility; the student id does.
type Caller struct {
	UserID string
	Email  string
}

// VoterHandle binds a ballot attempt to one voter record.
type VoterHandle struct {
	VoterID    string
	ElectionID string
	StudentID  string
	Masterlist bool
}

// Ledger decides whether a student may cast a ballot in an election.
type Ledger struct {
	Store    AdmissionStore
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
}

// Admit returns a handle for the student's voter record, creating one in open
// elections. Writes made here (email attach, open-mode insert) are safe to
// repeat if a later stage fails; is_voted is never touched.
func (l *Ledger) Admit(ctx context.Context, electionID, studentID string, caller Caller) (VoterHandle, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return VoterHandle{}, ErrStudentIDRequired
	}
	if caller.Email == "" {
		return VoterHandle{}, ErrMissingEmail
	}

	election, err := l.Store.GetElection(ctx, electionID)
	if errors.Is(err, store.ErrNotFound) {
		return VoterHandle{}, ErrElectionNotFound
	}
	if err != nil {
		return VoterHandle{}, fmt.Errorf("failed to load election: %w", err)
	}

	if election.IsArchived {
		return VoterHandle{}, ErrElectionArchived
	}
	if !election.VotingOpenOn(l.today()) {
		return VoterHandle{}, ErrElectionNotOpen
	}

	masterlist, err := l.Store.HasMasterlist(ctx, electionID)
	if err != nil {
		return VoterHandle{}, err
	}

	if masterlist {
		return l.admitFromMasterlist(ctx, electionID, studentID, caller)
	}
	return l.admitOpen(ctx, electionID, studentID, caller)
}

func (l *Ledger) admitFromMasterlist(ctx context.Context, electionID, studentID string, caller Caller) (VoterHandle, error) {
	voter, err := l.Store.FindVoter(ctx, electionID, studentID)
	if errors.Is(err, store.ErrNotFound) {
		return VoterHandle{}, ErrNotInMasterlist
	}
	if err != nil {
		return VoterHandle{}, fmt.Errorf("failed to look up voter: %w", err)
	}
	if voter.IsVoted {
		return VoterHandle{}, ErrAlreadyVoted
	}
	if voter.Source != models.SourceMasterlist {
		// Registered before the masterlist existed and never added to it
		return VoterHandle{}, ErrNotInMasterlist
	}

	if err := l.Store.AttachEmail(ctx, voter.ID, caller.Email); err != nil {
		// Non-fatal: the email is contact data only
		l.logger().Warn("failed to attach email to voter", "voter_id", voter.ID, "user_id", caller.UserID, "error", err)
	}

	return handleFor(voter, true), nil
}

func (l *Ledger) admitOpen(ctx context.Context, electionID, studentID string, caller Caller) (VoterHandle, error) {
	voter, err := l.Store.FindVoter(ctx, electionID, studentID)
	if err == nil {
		if voter.IsVoted {
			return VoterHandle{}, ErrAlreadyVoted
		}
		return handleFor(voter, false), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return VoterHandle{}, fmt.Errorf("failed to look up voter: %w", err)
	}

	voter, err = l.Store.CreateVoter(ctx, electionID, studentID, caller.Email, models.SourceOpen)
	if errors.Is(err, store.ErrConflict) {
		// A concurrent attempt registered the same student first
		voter, err = l.Store.FindVoter(ctx, electionID, studentID)
		if err != nil {
			return VoterHandle{}, fmt.Errorf("failed to look up voter: %w", err)
		}
		if voter.IsVoted {
			return VoterHandle{}, ErrAlreadyVoted
		}
		return handleFor(voter, false), nil
	}
	if err != nil {
		return VoterHandle{}, fmt.Errorf("failed to register voter: %w", err)
	}

	l.logger().Info("voter registered", "election_id", electionID, "voter_id", voter.ID, "user_id", caller.UserID)

	return handleFor(voter, false), nil
}

func (l *Ledger) today() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return models.DateString(now(), l.Location)
}

func (l *Ledger) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func handleFor(v models.Voter, masterlist bool) VoterHandle {
	return VoterHandle{
		VoterID:    v.ID,
		ElectionID: v.ElectionID,
		StudentID:  v.StudentID,
		Masterlist: masterlist,
	}
}
