// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"fmt"
	"sort"

	"github.com/danielhkuo/ballotbox/models"
)

// ValidationStore is the persistence the Validator needs.
type ValidationStore interface {
	ListPositions(ctx context.Context, electionID string) ([]models.Position, error)
	CandidatesByIDs(ctx context.Context, ids []string) ([]models.Candidate, error)
}

// ValidatedBallot is a flattened list of (position, candidate) pairs that
// passed every check and is ready to be recorded.
type ValidatedBallot struct {
	ElectionID string
	Selections []models.VoteSelection
}

// Validator checks a proposed ballot. It never writes.
type Validator struct {
	Store ValidationStore
}

// Validate checks selections (position id -> candidate ids) against position
// capacity, candidate existence, candidate position and approval status.
// Omitting a position abstains from it, but the ballot as a whole must
// select at least one candidate.
func (v *Validator) Validate(ctx context.Context, electionID string, selections map[string][]string) (ValidatedBallot, error) {
	positions, err := v.Store.ListPositions(ctx, electionID)
	if err != nil {
		return ValidatedBallot{}, err
	}
	if len(positions) == 0 {
		return ValidatedBallot{}, ErrNoPositions
	}

	filed := normalize(selections)

	for _, position := range positions {
		if selected := len(filed.byPosition[position.ID]); selected > position.MaxVotes {
			return ValidatedBallot{}, &TooManySelectionsError{
				Position: position.Title,
				Selected: selected,
				Max:      position.MaxVotes,
			}
		}
	}

	distinct := filed.distinctCandidates()
	if len(distinct) == 0 {
		return ValidatedBallot{}, ErrNoSelections
	}

	candidates, err := v.Store.CandidatesByIDs(ctx, distinct)
	if err != nil {
		return ValidatedBallot{}, err
	}
	if len(candidates) != len(distinct) {
		return ValidatedBallot{}, ErrInvalidCandidate
	}

	byID := make(map[string]models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	var pairs []models.VoteSelection
	for _, positionID := range filed.order {
		for _, candidateID := range filed.byPosition[positionID] {
			c, ok := byID[candidateID]
			if !ok || c.ElectionID != electionID {
				return ValidatedBallot{}, ErrInvalidCandidate
			}
			if c.PositionID != positionID {
				return ValidatedBallot{}, fmt.Errorf("%w: %s", ErrPositionMismatch, c.FullName)
			}
			if c.ApprovalStatus != models.StatusApproved {
				return ValidatedBallot{}, ErrCandidateNotApproved
			}
			pairs = append(pairs, models.VoteSelection{PositionID: positionID, CandidateID: candidateID})
		}
	}

	return ValidatedBallot{ElectionID: electionID, Selections: pairs}, nil
}

type filedSelections struct {
	order      []string // position ids, sorted
	byPosition map[string][]string
}

// normalize treats each position's list as a set and drops empty positions.
func normalize(selections map[string][]string) filedSelections {
	f := filedSelections{byPosition: make(map[string][]string, len(selections))}
	for positionID, ids := range selections {
		seen := make(map[string]bool, len(ids))
		var unique []string
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			unique = append(unique, id)
		}
		if len(unique) == 0 {
			continue
		}
		f.byPosition[positionID] = unique
		f.order = append(f.order, positionID)
	}
	sort.Strings(f.order)
	return f
}

func (f filedSelections) distinctCandidates() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, positionID := range f.order {
		for _, id := range f.byPosition[positionID] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
