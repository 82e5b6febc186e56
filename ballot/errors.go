// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"fmt"
)

// Kind separates failures the voter can fix from failures of the system.
type Kind int

const (
	KindSystem Kind = iota
	KindAdmission
	KindValidation
	KindRecording
)

func (k Kind) String() string {
	switch k {
	case KindAdmission:
		return "admission"
	case KindValidation:
		return "validation"
	case KindRecording:
		return "recording"
	default:
		return "system"
	}
}

// Admission errors
var (
	ErrStudentIDRequired = errors.New("student ID is required")
	ErrMissingEmail      = errors.New("could not determine your email address")
	ErrElectionNotFound  = errors.New("election not found")
	ErrElectionArchived  = errors.New("this election has been archived")
	ErrElectionNotOpen   = errors.New("voting is not currently open for this election")
	ErrNotInMasterlist   = errors.New("your student ID is not in the voter masterlist for this election")
	ErrAlreadyVoted      = errors.New("this student ID has already voted in this election")
)

// Validation errors
var (
	ErrNoPositions          = errors.New("no positions found for this election")
	ErrTooManySelections    = errors.New("too many candidates selected for a position")
	ErrNoSelections         = errors.New("you must select at least one candidate")
	ErrInvalidCandidate     = errors.New("invalid candidate selection")
	ErrPositionMismatch     = errors.New("candidate does not belong to the selected position")
	ErrCandidateNotApproved = errors.New("you can only vote for approved candidates")
)

// Recording errors. The voter is not marked as voted when either occurs, so
// resubmitting is safe.
var (
	ErrVoteInsertFailed       = errors.New("failed to record vote")
	ErrSelectionsInsertFailed = errors.New("failed to record selections")
)

// TooManySelectionsError reports a position whose capacity was exceeded.
type TooManySelectionsError struct {
	Position string
	Selected int
	Max      int
}

func (e *TooManySelectionsError) Error() string {
	return fmt.Sprintf("you selected %d candidates for %q but the maximum is %d", e.Selected, e.Position, e.Max)
}

func (e *TooManySelectionsError) Unwrap() error {
	return ErrTooManySelections
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrStudentIDRequired, KindAdmission},
	{ErrMissingEmail, KindAdmission},
	{ErrElectionNotFound, KindAdmission},
	{ErrElectionArchived, KindAdmission},
	{ErrElectionNotOpen, KindAdmission},
	{ErrNotInMasterlist, KindAdmission},
	{ErrAlreadyVoted, KindAdmission},
	{ErrNoPositions, KindValidation},
	{ErrTooManySelections, KindValidation},
	{ErrNoSelections, KindValidation},
	{ErrInvalidCandidate, KindValidation},
	{ErrPositionMismatch, KindValidation},
	{ErrCandidateNotApproved, KindValidation},
	{ErrVoteInsertFailed, KindRecording},
	{ErrSelectionsInsertFailed, KindRecording},
}

// KindOf classifies err. Anything that is not a known domain error is a
// system error.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindSystem
}
