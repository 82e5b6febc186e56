package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	OfficerKeySalt string
	IdentitySecret string
	Timezone       string
	LogJSON        bool
	EnvFile        string
}

// Location resolves Timezone; "Local" and "" mean the server's zone
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("ballotbox", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite, postgres or pgx)")
	fs.StringVar(&cfg.Timezone, "timezone", "", "IANA timezone used to decide the current voting day")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "Emit JSON logs")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "Load environment from this file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.OfficerKeySalt, "officer-salt", "", "Officer key salt (prefer env)")
	fs.StringVar(&cfg.IdentitySecret, "identity-secret", "", "Identity signature secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// godotenv never overrides variables that are already set
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "pgx":
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	if cfg.Timezone == "" {
		cfg.Timezone = os.Getenv("ELECTION_TIMEZONE")
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}

	if !cfg.LogJSON {
		cfg.LogJSON = os.Getenv("LOG_JSON") == "true"
	}

	// Secrets - MUST be provided
	if cfg.OfficerKeySalt == "" {
		cfg.OfficerKeySalt = os.Getenv("OFFICER_KEY_SALT")
	}
	if cfg.OfficerKeySalt == "" {
		return Config{}, errors.New("OFFICER_KEY_SALT required")
	}

	if cfg.IdentitySecret == "" {
		cfg.IdentitySecret = os.Getenv("IDENTITY_SECRET")
	}
	if cfg.IdentitySecret == "" {
		return Config{}, errors.New("IDENTITY_SECRET required")
	}

	return cfg, nil
}
