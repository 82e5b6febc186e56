// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command seed loads an election fixture into a database and prints the new
// election id together with its officer key.
//
//	seed --fixture fixtures/testdata/election.yaml -d file:dev.db
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/fixtures"
	"github.com/danielhkuo/ballotbox/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// .env is optional here; flags and the environment take over
	_ = godotenv.Load()

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fixturePath := fs.String("fixture", "", "Path to the election fixture (YAML)")
	dbURL := fs.StringP("database-url", "d", os.Getenv("DATABASE_URL"), "Database connection URL")
	dbType := fs.StringP("database-type", "t", envOr("DATABASE_TYPE", db.TypeSQLite), "Database type (sqlite, postgres, pgx)")
	timezone := fs.String("timezone", os.Getenv("ELECTION_TIMEZONE"), "IANA timezone used to resolve relative dates")
	salt := fs.String("officer-salt", os.Getenv("OFFICER_KEY_SALT"), "Salt used to derive the officer key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *fixturePath == "" {
		return fmt.Errorf("--fixture is required")
	}
	if *dbURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	loc := time.Local
	if *timezone != "" && *timezone != "Local" {
		l, err := time.LoadLocation(*timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", *timezone, err)
		}
		loc = l
	}

	f, err := fixtures.LoadFile(*fixturePath)
	if err != nil {
		return err
	}

	conn, err := db.Open(*dbType, *dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		return err
	}

	res, err := fixtures.Apply(context.Background(), store.New(conn), f, time.Now(), loc)
	if err != nil {
		return err
	}

	slog.Info("Fixture applied",
		"election_id", res.ElectionID,
		"positions", len(res.Positions),
		"candidates", len(res.Candidates),
		"masterlist", len(f.Masterlist))

	fmt.Printf("election_id: %s\n", res.ElectionID)
	if *salt != "" {
		fmt.Printf("officer_key: %s\n", auth.GenerateOfficerKey(res.ElectionID, *salt))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
