// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/models"
)

// InsertVote creates the vote header for a voter. A voter that already owns
// a vote yields ErrConflict.
func (s *Store) InsertVote(ctx context.Context, voterID string) (string, error) {
	voteID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO votes (vote_id, voter_id) VALUES ($1, $2)
	`, voteID, voterID)
	if err != nil {
		return "", mapError(err)
	}
	return voteID, nil
}

// InsertSelections writes every selection of a vote in a single statement,
// so either all rows land or none do.
func (s *Store) InsertSelections(ctx context.Context, voteID string, selections []models.VoteSelection) error {
	if len(selections) == 0 {
		return nil
	}

	values := make([]string, len(selections))
	args := make([]any, 0, len(selections)*3)
	for i, sel := range selections {
		values[i] = fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, voteID, sel.CandidateID, sel.PositionID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote_selections (vote_id, candidate_id, position_id)
		VALUES `+strings.Join(values, ", "), args...)
	if err != nil {
		return fmt.Errorf("failed to insert selections: %w", err)
	}
	return nil
}

// DeleteVote removes a vote header and any selections that reference it.
func (s *Store) DeleteVote(ctx context.Context, voteID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote_selections WHERE vote_id = $1`, voteID); err != nil {
		return fmt.Errorf("failed to delete selections: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE vote_id = $1`, voteID); err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	return tx.Commit()
}

// CountVotesByCandidate counts selections per candidate across every vote
// whose voter belongs to the election.
func (s *Store) CountVotesByCandidate(ctx context.Context, electionID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT vs.candidate_id, COUNT(*)
		FROM vote_selections vs
		JOIN votes v ON v.vote_id = vs.vote_id
		JOIN voters vr ON vr.voter_id = v.voter_id
		WHERE vr.election_id = $1
		GROUP BY vs.candidate_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var candidateID string
		var count int
		if err := rows.Scan(&candidateID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[candidateID] = count
	}

	return counts, rows.Err()
}

// CountVotes returns how many vote headers exist for the voter records of an
// election.
func (s *Store) CountVotes(ctx context.Context, electionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM votes v
		JOIN voters vr ON vr.voter_id = v.voter_id
		WHERE vr.election_id = $1
	`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}
