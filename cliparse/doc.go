// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string or SQLite file (required)
  - DatabaseType: sqlite (default), postgres, or pgx
  - OfficerKeySalt: Secret for election officer key HMAC (required)
  - IdentitySecret: Secret shared with the login gateway (required)
  - Timezone: Zone that decides the current voting day (default: Local)
  - LogJSON: Emit JSON logs instead of text

# CLI Flags

	-p, --port            Server port
	-d, --database-url    Database URL
	-t, --database-type   Database driver
	--timezone            IANA timezone
	--log-json            JSON logs
	--env-file            Environment file to load
	--officer-salt        Officer key salt
	--identity-secret     Identity signature secret

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	ELECTION_TIMEZONE → --timezone
	LOG_JSON          → --log-json
	OFFICER_KEY_SALT  → --officer-salt
	IDENTITY_SECRET   → --identity-secret

CLI flags take precedence over environment variables. A .env file in the
working directory (or the file named by --env-file) is loaded with godotenv
first; it never overrides variables that are already set.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be a supported driver
  - ELECTION_TIMEZONE must load with time.LoadLocation
  - OFFICER_KEY_SALT and IDENTITY_SECRET must be provided
*/
package cliparse
