// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotbox API.

# Handler Types

Each handler is a struct with its dependencies and config:

  - VotingHandler: ballot sheet and ballot submission
  - ResultsHandler: tally and turnout
  - MasterlistHandler: officer management of eligible student IDs

Handlers are created via constructor functions:

	svc := ballot.NewService(st, loc, logger)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc, st, cfg)
	masterlistHandler := handlers.NewMasterlistHandler(st, cfg)

# Voting Flow

	GET  /elections/{id}/ballot  → GetBallot
	POST /elections/{id}/ballots → SubmitBallot

Submission requires the identity headers signed by the login gateway
(X-User-ID, X-User-Email, X-Identity-Signature). The student ID in the body
decides eligibility; the caller's email is only attached to the voter record.

# Error Mapping

Ballot errors are mapped by ballot.KindOf:

	admission   → 403 (404 unknown election, 409 already voted)
	validation  → 400 (422 election without positions)
	recording   → 500 "Failed to record vote. Please try again."
	system      → 500 "Database error"

Admission and validation messages are shown to the voter as sentences.

# Masterlist

Officer routes require X-Officer-Key. Archived elections reject writes with
409 Conflict. Voters who already voted can never be removed.
*/
package handlers
