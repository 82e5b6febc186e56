// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballotbox API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store.New(db), cfg)

# Endpoints

Health:

	GET /health

Voting (submission requires the signed identity headers):

	GET  /elections/{id}/ballot  - Ballot sheet with approved candidates
	POST /elections/{id}/ballots - Submit a ballot

Results (public):

	GET /elections/{id}/results - Tally per position
	GET /elections/{id}/turnout - Voter counts

Masterlist (officers, requires X-Officer-Key):

	GET    /elections/{id}/voters           - List voters
	POST   /elections/{id}/voters           - Add pasted student IDs
	DELETE /elections/{id}/voters           - Remove unvoted masterlist voters
	DELETE /elections/{id}/voters/{voterId} - Remove one unvoted voter

# Handler Initialization

The router builds a single ballot.Service over the store and hands it to the
handlers. ELECTION_TIMEZONE decides which calendar day is "today" for the
voting window.
*/
package router
