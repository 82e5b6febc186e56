// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// RecordStore is the persistence the Recorder needs.
type RecordStore interface {
	InsertVote(ctx context.Context, voterID string) (string, error)
	InsertSelections(ctx context.Context, voteID string, selections []models.VoteSelection) error
	DeleteVote(ctx context.Context, voteID string) error
	MarkVoted(ctx context.Context, voterID string) (bool, error)
}

// Recorder persists a validated ballot:
//
//	Admitted → Validated → VoteInserted → SelectionsInserted → VoterMarked
//
// Only the step from VoteInserted to SelectionsInserted is rolled back (by
// deleting the vote header). Nothing is retried automatically.
type Recorder struct {
	Store  RecordStore
	Logger *slog.Logger
}

// Record returns the new vote id.
func (r *Recorder) Record(ctx context.Context, voter VoterHandle, b ValidatedBallot) (string, error) {
	logger := r.logger().With("election_id", voter.ElectionID, "voter_id", voter.VoterID)

	voteID, err := r.Store.InsertVote(ctx, voter.VoterID)
	if errors.Is(err, store.ErrConflict) {
		// The voter already owns a vote header. It may belong to an attempt
		// still inserting its selections, so is_voted is left to that attempt.
		logger.Info("vote already exists for voter")
		return "", ErrAlreadyVoted
	}
	if err != nil {
		logger.Error("failed to insert vote", "error", err)
		return "", fmt.Errorf("%w: %w", ErrVoteInsertFailed, err)
	}

	if err := r.Store.InsertSelections(ctx, voteID, b.Selections); err != nil {
		logger.Error("failed to insert selections", "vote_id", voteID, "error", err)
		r.rollback(ctx, logger, voteID)
		return "", fmt.Errorf("%w: %w", ErrSelectionsInsertFailed, err)
	}

	marked, err := r.Store.MarkVoted(ctx, voter.VoterID)
	if err != nil {
		// The ballot is durably stored. A later attempt is admitted again but
		// rejected by the unique vote per voter; the mark stays for an operator.
		logger.Error("failed to mark voter as voted",
			"event", "ballot_mark_voted_failed",
			"vote_id", voteID,
			"error", err,
		)
		return voteID, nil
	}
	if !marked {
		// Another attempt for the same voter reached VoterMarked first
		logger.Warn("voter already marked, discarding vote", "vote_id", voteID)
		r.rollback(ctx, logger, voteID)
		return "", ErrAlreadyVoted
	}

	return voteID, nil
}

func (r *Recorder) rollback(ctx context.Context, logger *slog.Logger, voteID string) {
	// The compensating delete must run even if the request was cancelled
	if err := r.Store.DeleteVote(context.WithoutCancel(ctx), voteID); err != nil {
		logger.Error("failed to roll back vote", "vote_id", voteID, "error", err)
	}
}

func (r *Recorder) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
