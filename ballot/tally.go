// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// TallyStore is the persistence the Aggregator needs.
type TallyStore interface {
	GetElection(ctx context.Context, electionID string) (models.Election, error)
	ListPositions(ctx context.Context, electionID string) ([]models.Position, error)
	ListApprovedCandidates(ctx context.Context, electionID string) ([]models.Candidate, error)
	CountVotesByCandidate(ctx context.Context, electionID string) (map[string]int, error)
	CountVotedVoters(ctx context.Context, electionID string) (int, error)
}

// Tally is the aggregate result of an election at the time it was computed.
type Tally struct {
	ElectionID          string
	Positions           []models.PositionResult
	TotalVotersWhoVoted int
}

// Aggregator computes tallies from persisted votes. Nothing is cached; every
// call reads current state.
type Aggregator struct {
	Store TallyStore
}

// Tally returns, per position in display order, the approved candidates
// sorted by vote count descending. Candidates with equal counts keep fetch
// order (name, then id).
//
// TotalVotersWhoVoted counts voter records marked as voted and is independent
// of the per-candidate counts.
func (a *Aggregator) Tally(ctx context.Context, electionID string) (Tally, error) {
	if _, err := a.Store.GetElection(ctx, electionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Tally{}, ErrElectionNotFound
		}
		return Tally{}, fmt.Errorf("failed to load election: %w", err)
	}

	var (
		positions  []models.Position
		candidates []models.Candidate
		counts     map[string]int
		voted      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		positions, err = a.Store.ListPositions(gctx, electionID)
		return err
	})
	g.Go(func() (err error) {
		candidates, err = a.Store.ListApprovedCandidates(gctx, electionID)
		return err
	})
	g.Go(func() (err error) {
		counts, err = a.Store.CountVotesByCandidate(gctx, electionID)
		return err
	})
	g.Go(func() (err error) {
		voted, err = a.Store.CountVotedVoters(gctx, electionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Tally{}, fmt.Errorf("failed to compute tally: %w", err)
	}

	byPosition := make(map[string][]models.CandidateResult, len(positions))
	for _, c := range candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], models.CandidateResult{
			CandidateID: c.ID,
			FullName:    c.FullName,
			Partylist:   c.Partylist,
			VoteCount:   counts[c.ID],
		})
	}

	results := make([]models.PositionResult, 0, len(positions))
	for _, p := range positions {
		entries := byPosition[p.ID]
		if entries == nil {
			entries = []models.CandidateResult{}
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].VoteCount > entries[j].VoteCount
		})
		results = append(results, models.PositionResult{
			PositionID: p.ID,
			Title:      p.Title,
			MaxVotes:   p.MaxVotes,
			Candidates: entries,
		})
	}

	return Tally{
		ElectionID:          electionID,
		Positions:           results,
		TotalVotersWhoVoted: voted,
	}, nil
}
