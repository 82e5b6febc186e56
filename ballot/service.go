// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// Store is everything the ballot core reads and writes. *store.Store
// implements it.
type Store interface {
	AdmissionStore
	ValidationStore
	RecordStore
	TallyStore
}

// Service runs the write path (admit → validate → record) and exposes the
// independent read path (tally).
type Service struct {
	Ledger     *Ledger
	Validator  *Validator
	Recorder   *Recorder
	Aggregator *Aggregator
	Logger     *slog.Logger
}

// NewService wires every component to the same store. loc decides which
// calendar day "today" is for voting windows.
func NewService(st Store, loc *time.Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Ledger:     &Ledger{Store: st, Location: loc, Logger: logger},
		Validator:  &Validator{Store: st},
		Recorder:   &Recorder{Store: st, Logger: logger},
		Aggregator: &Aggregator{Store: st},
		Logger:     logger,
	}
}

// Receipt identifies a recorded ballot.
type Receipt struct {
	VoteID  string
	VoterID string
}

// SubmitBallot admits the student, validates the ballot and records it.
// Each stage can reject; use KindOf to tell voter mistakes from system
// failures.
//
// There is no idempotency token: if the response is lost the client cannot
// tell whether the ballot was recorded. A resubmission then fails with
// ErrAlreadyVoted rather than creating a second vote.
func (s *Service) SubmitBallot(ctx context.Context, caller Caller, electionID, studentID string, selections map[string][]string) (Receipt, error) {
	voter, err := s.Ledger.Admit(ctx, electionID, studentID, caller)
	if err != nil {
		s.logReject("admission", electionID, err)
		return Receipt{}, err
	}

	validated, err := s.Validator.Validate(ctx, electionID, selections)
	if err != nil {
		s.logReject("validation", electionID, err)
		return Receipt{}, err
	}

	voteID, err := s.Recorder.Record(ctx, voter, validated)
	if err != nil {
		s.logReject("recording", electionID, err)
		return Receipt{}, err
	}

	s.Logger.Info("ballot recorded",
		"election_id", electionID,
		"voter_id", voter.VoterID,
		"user_id", caller.UserID,
		"masterlist", voter.Masterlist,
		"vote_id", voteID,
		"selections", len(validated.Selections),
	)

	return Receipt{VoteID: voteID, VoterID: voter.VoterID}, nil
}

// GetElectionResults recomputes the tally of an election.
func (s *Service) GetElectionResults(ctx context.Context, electionID string) (Tally, error) {
	return s.Aggregator.Tally(ctx, electionID)
}

// Sheet is what a voter sees before voting: the election, whether voting is
// open today, and each position with its approved candidates.
type Sheet struct {
	Election   models.Election
	VotingOpen bool
	Positions  []models.BallotPosition
}

// BallotSheet builds the ballot form for an election.
func (s *Service) BallotSheet(ctx context.Context, electionID string) (Sheet, error) {
	st := s.Aggregator.Store

	election, err := st.GetElection(ctx, electionID)
	if errors.Is(err, store.ErrNotFound) {
		return Sheet{}, ErrElectionNotFound
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("failed to load election: %w", err)
	}

	positions, err := st.ListPositions(ctx, electionID)
	if err != nil {
		return Sheet{}, err
	}
	candidates, err := st.ListApprovedCandidates(ctx, electionID)
	if err != nil {
		return Sheet{}, err
	}

	byPosition := make(map[string][]models.BallotChoice)
	for _, c := range candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], models.BallotChoice{
			CandidateID: c.ID,
			FullName:    c.FullName,
			Partylist:   c.Partylist,
		})
	}

	sheet := Sheet{
		Election:   election,
		VotingOpen: !election.IsArchived && election.VotingOpenOn(s.Ledger.today()),
		Positions:  make([]models.BallotPosition, 0, len(positions)),
	}
	for _, p := range positions {
		choices := byPosition[p.ID]
		if choices == nil {
			choices = []models.BallotChoice{}
		}
		sheet.Positions = append(sheet.Positions, models.BallotPosition{
			PositionID: p.ID,
			Title:      p.Title,
			MaxVotes:   p.MaxVotes,
			Candidates: choices,
		})
	}

	return sheet, nil
}

func (s *Service) logReject(stage, electionID string, err error) {
	kind := KindOf(err)
	if kind == KindSystem || kind == KindRecording {
		s.Logger.Error("ballot submission failed", "stage", stage, "election_id", electionID, "error", err)
		return
	}
	s.Logger.Info("ballot rejected", "stage", stage, "kind", kind.String(), "election_id", electionID, "error", err)
}
