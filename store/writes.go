// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/models"
)

// The inserts below belong to the officer and candidacy workflows. They are
// used by fixtures and tests to set up the tables the ballot core reads.

// InsertElection validates and stores an election, generating an id when
// none is given.
func (s *Store) InsertElection(ctx context.Context, e models.Election) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO elections (election_id, name, election_type, start_date, end_date,
		                       candidacy_start_date, candidacy_end_date, is_archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Name, e.Type, models.DayOf(e.StartDate), models.DayOf(e.EndDate),
		nullable(models.DayOf(e.CandidacyStartDate)), nullable(models.DayOf(e.CandidacyEndDate)), e.IsArchived)
	if err != nil {
		return "", fmt.Errorf("failed to insert election: %w", mapError(err))
	}
	return e.ID, nil
}

// SetArchived toggles the archived flag of an election.
func (s *Store) SetArchived(ctx context.Context, electionID string, archived bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE elections SET is_archived = $1 WHERE election_id = $2
	`, archived, electionID)
	if err != nil {
		return fmt.Errorf("failed to archive election: %w", err)
	}
	return nil
}

func (s *Store) InsertPartylist(ctx context.Context, p models.Partylist) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO partylists (partylist_id, election_id, name, acronym)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.ElectionID, p.Name, p.Acronym)
	if err != nil {
		return "", fmt.Errorf("failed to insert partylist: %w", mapError(err))
	}
	return p.ID, nil
}

// InsertPosition stores a position; max_votes defaults to 1.
func (s *Store) InsertPosition(ctx context.Context, p models.Position, displayOrder int) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.MaxVotes <= 0 {
		p.MaxVotes = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO positions (position_id, election_id, title, max_votes, display_order)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.ElectionID, p.Title, p.MaxVotes, displayOrder)
	if err != nil {
		return "", fmt.Errorf("failed to insert position: %w", mapError(err))
	}
	return p.ID, nil
}

// InsertCandidate stores a candidate; an empty partylistID means independent.
func (s *Store) InsertCandidate(ctx context.Context, c models.Candidate, partylistID string) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ApprovalStatus == "" {
		c.ApprovalStatus = models.StatusPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (candidate_id, election_id, position_id, partylist_id,
		                        full_name, student_id, application_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.ElectionID, c.PositionID, nullable(partylistID), c.FullName, c.StudentID, c.ApprovalStatus)
	if err != nil {
		return "", fmt.Errorf("failed to insert candidate: %w", mapError(err))
	}
	return c.ID, nil
}

// SetCandidateStatus changes a candidate's approval status.
func (s *Store) SetCandidateStatus(ctx context.Context, candidateID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE candidates SET application_status = $1 WHERE candidate_id = $2
	`, status, candidateID)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
