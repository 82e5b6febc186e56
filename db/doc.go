// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects a driver by DATABASE_TYPE:

  - sqlite: modernc.org/sqlite (default, also used by the test suite)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Placeholders are written as $1, $2, ... which every supported driver accepts.

# Tables

  - elections: voting window, optional candidacy window, archived flag
  - partylists: per-election party name and acronym
  - positions: title and max_votes per election
  - candidates: position, partylist, and approval status
  - voters: admission records, UNIQUE (election_id, student_id)
  - votes: one per voter, UNIQUE (voter_id)
  - vote_selections: chosen candidates per vote

# Relationships

	elections 1──* positions 1──* candidates
	elections 1──* voters 1──0..1 votes 1──* vote_selections *──1 candidates
	partylists 1──* candidates

Foreign keys use ON DELETE CASCADE, except candidates.partylist_id which is
set to NULL when a partylist is removed.
*/
package db
