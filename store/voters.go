// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/models"
)

// HasMasterlist reports whether officers seeded any voter for the election.
// Self-registered (open) voters do not count.
func (s *Store) HasMasterlist(ctx context.Context, electionID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM voters
			WHERE election_id = $1 AND source = $2
		)
	`, electionID, models.SourceMasterlist).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check masterlist: %w", err)
	}
	return exists, nil
}

// FindVoter returns ErrNotFound when no record exists for the student.
func (s *Store) FindVoter(ctx context.Context, electionID, studentID string) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT voter_id, election_id, student_id, email, is_voted, source
		FROM voters
		WHERE election_id = $1 AND student_id = $2
	`, electionID, studentID).Scan(&v.ID, &v.ElectionID, &v.StudentID, &v.Email, &v.IsVoted, &v.Source)
	if err != nil {
		return models.Voter{}, mapError(err)
	}
	return v, nil
}

// CreateVoter inserts an unvoted record. A concurrent insert for the same
// (election, student) pair yields ErrConflict.
func (s *Store) CreateVoter(ctx context.Context, electionID, studentID, email, source string) (models.Voter, error) {
	v := models.Voter{
		ID:         uuid.NewString(),
		ElectionID: electionID,
		StudentID:  studentID,
		Email:      email,
		Source:     source,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voters (voter_id, election_id, student_id, email, is_voted, source)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.ElectionID, v.StudentID, v.Email, false, v.Source)
	if err != nil {
		return models.Voter{}, mapError(err)
	}
	return v, nil
}

// AttachEmail overwrites the contact identity on a voter record.
func (s *Store) AttachEmail(ctx context.Context, voterID, email string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE voters SET email = $1 WHERE voter_id = $2
	`, email, voterID)
	if err != nil {
		return fmt.Errorf("failed to attach email: %w", err)
	}
	return nil
}

// MarkVoted flips is_voted from false to true. It reports false when the row
// was already marked (or is gone), which callers treat as a lost race.
func (s *Store) MarkVoted(ctx context.Context, voterID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE voters SET is_voted = TRUE
		WHERE voter_id = $1 AND is_voted = FALSE
	`, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to mark voter: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// CountVoters returns the number of voter records and how many have voted.
func (s *Store) CountVoters(ctx context.Context, electionID string) (total, voted int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_voted THEN 1 ELSE 0 END), 0)
		FROM voters
		WHERE election_id = $1
	`, electionID).Scan(&total, &voted)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return total, voted, nil
}

// CountVotedVoters counts voter records with is_voted = true.
func (s *Store) CountVotedVoters(ctx context.Context, electionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voters WHERE election_id = $1 AND is_voted = TRUE
	`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count voted voters: %w", err)
	}
	return count, nil
}

// ListVoters returns every voter record of the election ordered by student id.
func (s *Store) ListVoters(ctx context.Context, electionID string) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT voter_id, election_id, student_id, email, is_voted, source
		FROM voters
		WHERE election_id = $1
		ORDER BY student_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.ElectionID, &v.StudentID, &v.Email, &v.IsVoted, &v.Source); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}

	return voters, rows.Err()
}

// AddMasterlistVoters seeds student ids into the masterlist. A student who
// self-registered while the election was open is moved onto the masterlist
// and counted as added; ids already on the masterlist are skipped.
func (s *Store) AddMasterlistVoters(ctx context.Context, electionID string, studentIDs []string) (added int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, studentID := range studentIDs {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO voters (voter_id, election_id, student_id, email, is_voted, source)
			VALUES ($1, $2, $3, '', $4, $5)
			ON CONFLICT (election_id, student_id) DO UPDATE
			SET source = excluded.source
			WHERE voters.source <> excluded.source
		`, uuid.NewString(), electionID, studentID, false, models.SourceMasterlist)
		if err != nil {
			return 0, fmt.Errorf("failed to insert voter %s: %w", studentID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit masterlist: %w", err)
	}
	return added, nil
}

// RemoveVoter deletes a voter who has not voted. Voters that already voted
// yield ErrConflict; unknown voters yield ErrNotFound.
func (s *Store) RemoveVoter(ctx context.Context, electionID, voterID string) error {
	var isVoted, hasVote bool
	err := s.db.QueryRowContext(ctx, `
		SELECT v.is_voted, EXISTS(SELECT 1 FROM votes WHERE voter_id = v.voter_id)
		FROM voters v
		WHERE v.voter_id = $1 AND v.election_id = $2
	`, voterID, electionID).Scan(&isVoted, &hasVote)
	if err != nil {
		return mapError(err)
	}
	if isVoted || hasVote {
		return ErrConflict
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM voters
		WHERE voter_id = $1 AND election_id = $2 AND is_voted = FALSE
		  AND NOT EXISTS (SELECT 1 FROM votes WHERE votes.voter_id = voters.voter_id)
	`, voterID, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete voter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		// Voted between the check and the delete
		return ErrConflict
	}
	return nil
}

// ClearMasterlist removes every masterlist voter who has not voted and
// returns how many were removed. Voters who already voted are kept.
func (s *Store) ClearMasterlist(ctx context.Context, electionID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM voters
		WHERE election_id = $1 AND source = $2 AND is_voted = FALSE
		  AND NOT EXISTS (SELECT 1 FROM votes WHERE votes.voter_id = voters.voter_id)
	`, electionID, models.SourceMasterlist)
	if err != nil {
		return 0, fmt.Errorf("failed to clear masterlist: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
