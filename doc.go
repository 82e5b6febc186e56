// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

ballotbox records student ballots for university elections and tallies
them. A student may vote once per election; ballots are checked against
position limits and candidate approval before they are stored.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=ballotbox.db OFFICER_KEY_SALT=... IDENTITY_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - OFFICER_KEY_SALT (--officer-salt): Secret for officer key HMAC
  - IDENTITY_SECRET (--identity-secret): Secret shared with the login gateway

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - ELECTION_TIMEZONE (--timezone): Zone for voting days (default: Local)
  - LOG_JSON (--log-json): JSON logs

# Architecture

  - ballot: admission, validation, recording and tally
  - store: persistence shared by every component
  - handlers: HTTP request handlers (voting, results, masterlist)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Domain, request and response types
  - auth: Identity signatures and officer keys
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing
  - fixtures: YAML election fixtures

Operator tools live under cmd/: seed loads a fixture, tally prints results.
*/
package main
