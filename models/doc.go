// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitBallotRequest: student_id, selections (map[position_id][]candidate_id)
  - AddVotersRequest: student_ids (raw pasted text)

# Response Types

Types for JSON responses:

  - SubmitBallotResponse: success, vote_id, message
  - BallotSheetResponse: election, voting_open, positions with approved candidates
  - ElectionResultsResponse: results, total_voters
  - TurnoutResponse: total_voters, voted, not_voted, masterlist
  - MasterlistResponse, AddVotersResponse, ClearMasterlistResponse
  - ErrorResponse: error, message

# Domain Types

  - Election: voting window, optional candidacy filing window, archived flag
  - Position: title and max_votes capacity
  - Candidate: approval status and optional partylist
  - Voter: admission record scoped to one election
  - Vote, VoteSelection: one recorded ballot and its choices
  - PositionResult, CandidateResult: tally output

# Dates

Election dates are calendar days (YYYY-MM-DD). Timestamps are truncated with
DayOf and compared as strings, which avoids timezone off-by-one errors:

	open := election.VotingOpenOn(models.DateString(time.Now(), loc))

# Constants

Approval status values:

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

Voter record origin:

	SourceMasterlist = "masterlist"
	SourceOpen       = "open"
*/
package models
