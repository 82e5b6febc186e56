// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The statements below are accepted by both PostgreSQL and SQLite.
const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS elections (
    election_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    election_type TEXT NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    candidacy_start_date DATE,
    candidacy_end_date DATE,
    is_archived BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (end_date > start_date)
);

-- Partylists
CREATE TABLE IF NOT EXISTS partylists (
    partylist_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES elections(election_id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    acronym TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_partylists_election_id ON partylists(election_id);

-- Positions
CREATE TABLE IF NOT EXISTS positions (
    position_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES elections(election_id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    max_votes INTEGER NOT NULL DEFAULT 1 CHECK (max_votes > 0),
    display_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_positions_election_id ON positions(election_id);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    candidate_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES elections(election_id) ON DELETE CASCADE,
    position_id TEXT NOT NULL REFERENCES positions(position_id) ON DELETE CASCADE,
    partylist_id TEXT REFERENCES partylists(partylist_id) ON DELETE SET NULL,
    full_name TEXT NOT NULL,
    student_id TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    application_status TEXT NOT NULL DEFAULT 'pending' CHECK (application_status IN ('pending', 'approved', 'rejected')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_candidates_election_id ON candidates(election_id);
CREATE INDEX IF NOT EXISTS idx_candidates_position_id ON candidates(position_id);

-- Voters (admission records)
CREATE TABLE IF NOT EXISTS voters (
    voter_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES elections(election_id) ON DELETE CASCADE,
    student_id TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    is_voted BOOLEAN NOT NULL DEFAULT FALSE,
    source TEXT NOT NULL DEFAULT 'masterlist' CHECK (source IN ('masterlist', 'open')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (election_id, student_id)
);

CREATE INDEX IF NOT EXISTS idx_voters_election_voted ON voters(election_id, is_voted);

-- Votes (at most one per voter)
CREATE TABLE IF NOT EXISTS votes (
    vote_id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE REFERENCES voters(voter_id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Vote selections
CREATE TABLE IF NOT EXISTS vote_selections (
    vote_id TEXT NOT NULL REFERENCES votes(vote_id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
    position_id TEXT NOT NULL,
    PRIMARY KEY (vote_id, candidate_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_selections_candidate_id ON vote_selections(candidate_id);
`
