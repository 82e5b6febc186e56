// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/ballotbox/models"
)

// Store is the privileged persistence capability. It bypasses any per-user
// access rules, so exactly one is built per process and handed to the
// components that need it.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetElection returns ErrNotFound when the election does not exist.
func (s *Store) GetElection(ctx context.Context, electionID string) (models.Election, error) {
	var e models.Election
	var candStart, candEnd sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT election_id, name, election_type, start_date, end_date,
		       candidacy_start_date, candidacy_end_date, is_archived
		FROM elections
		WHERE election_id = $1
	`, electionID).Scan(
		&e.ID, &e.Name, &e.Type, &e.StartDate, &e.EndDate,
		&candStart, &candEnd, &e.IsArchived,
	)
	if err != nil {
		return models.Election{}, mapError(err)
	}

	e.StartDate = models.DayOf(e.StartDate)
	e.EndDate = models.DayOf(e.EndDate)
	e.CandidacyStartDate = models.DayOf(candStart.String)
	e.CandidacyEndDate = models.DayOf(candEnd.String)

	return e, nil
}

// ListPositions returns the election's positions in display order.
func (s *Store) ListPositions(ctx context.Context, electionID string) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position_id, election_id, title, max_votes
		FROM positions
		WHERE election_id = $1
		ORDER BY display_order, created_at, position_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.ElectionID, &p.Title, &p.MaxVotes); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// ListApprovedCandidates returns approved candidates with their partylist,
// ordered by name then id.
func (s *Store) ListApprovedCandidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.candidate_id, c.election_id, c.position_id, c.full_name,
		       c.application_status, p.name, p.acronym
		FROM candidates c
		LEFT JOIN partylists p ON p.partylist_id = c.partylist_id
		WHERE c.election_id = $1 AND c.application_status = $2
		ORDER BY c.full_name, c.candidate_id
	`, electionID, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		var plName, plAcronym sql.NullString
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.PositionID, &c.FullName,
			&c.ApprovalStatus, &plName, &plAcronym); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if plName.Valid {
			c.Partylist = &models.PartylistInfo{Name: plName.String, Acronym: plAcronym.String}
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// CandidatesByIDs fetches the given candidates in one query. Unknown ids are
// simply absent from the result.
func (s *Store) CandidatesByIDs(ctx context.Context, ids []string) ([]models.Candidate, error) {
	if len(ids) == 0 {
		return []models.Candidate{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, election_id, position_id, full_name, application_status
		FROM candidates
		WHERE candidate_id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0, len(ids))
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.PositionID, &c.FullName, &c.ApprovalStatus); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}
