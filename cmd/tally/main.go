// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command tally prints the current results of an election.
//
//	tally -d file:dev.db --election 5f0c...
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("tally failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("tally", flag.ContinueOnError)
	dbURL := fs.StringP("database-url", "d", os.Getenv("DATABASE_URL"), "Database connection URL")
	dbType := fs.StringP("database-type", "t", envOr("DATABASE_TYPE", db.TypeSQLite), "Database type (sqlite, postgres, pgx)")
	electionID := fs.StringP("election", "e", "", "Election id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *electionID == "" {
		return fmt.Errorf("--election is required")
	}
	if *dbURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	conn, err := db.Open(*dbType, *dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	st := store.New(conn)
	ctx := context.Background()

	election, err := st.GetElection(ctx, *electionID)
	if err != nil {
		return err
	}

	agg := &ballot.Aggregator{Store: st}
	t, err := agg.Tally(ctx, *electionID)
	if err != nil {
		return err
	}

	writeReport(out, election, t)
	return nil
}

// writeReport renders a tally as plain text. Ranks follow the sorted order;
// tied candidates share the rank of the first one in the tie.
func writeReport(w io.Writer, e models.Election, t ballot.Tally) {
	fmt.Fprintf(w, "%s (%s to %s)\n", e.Name, models.DayOf(e.StartDate), models.DayOf(e.EndDate))
	fmt.Fprintf(w, "Voters who voted: %s\n", humanize.Comma(int64(t.TotalVotersWhoVoted)))

	for _, p := range t.Positions {
		fmt.Fprintf(w, "\n%s (vote for %d)\n", p.Title, p.MaxVotes)
		if len(p.Candidates) == 0 {
			fmt.Fprintln(w, "  no approved candidates")
			continue
		}

		rank := 0
		for i, c := range p.Candidates {
			if i == 0 || c.VoteCount != p.Candidates[i-1].VoteCount {
				rank = i + 1
			}
			name := c.FullName
			if c.Partylist != nil && c.Partylist.Acronym != "" {
				name += " (" + c.Partylist.Acronym + ")"
			}
			fmt.Fprintf(w, "  %-5s %-40s %s\n", humanize.Ordinal(rank), name, humanize.Comma(int64(c.VoteCount)))
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
