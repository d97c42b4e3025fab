// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/ballotmap/election"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminKeySalt  string
	TrackerSalt   string
	MaxSelections int
	StrictBallots bool
	MapCacheSize  int
}

// ParseFlags reads flags, then .env and the environment for anything unset
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	fset := flag.NewFlagSet("ballotmap", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fset.IntVar(&cfg.Port, "p", 0, "Server port")
	fset.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fset.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fset.StringVar(&cfg.TrackerSalt, "tracker-salt", "", "Ballot tracker salt (prefer env)")

	// Encoding limits
	fset.IntVar(&cfg.MaxSelections, "max-selections", 0, "Maximum selection vector width")
	fset.BoolVar(&cfg.StrictBallots, "strict", false, "Reject over-votes and unknown choices")
	fset.IntVar(&cfg.MapCacheSize, "map-cache", 0, "Number of election maps to cache")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := intEnv("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:ballotmap.db"
	}

	if cfg.MaxSelections == 0 {
		n, err := intEnv("MAX_SELECTIONS", election.DefaultMaxSelections)
		if err != nil {
			return Config{}, err
		}
		cfg.MaxSelections = n
	}
	if cfg.MaxSelections < 1 {
		return Config{}, errors.New("max selections must be positive")
	}

	if !cfg.StrictBallots {
		if v := os.Getenv("STRICT_BALLOTS"); v != "" {
			strict, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid STRICT_BALLOTS env variable")
			}
			cfg.StrictBallots = strict
		}
	}

	if cfg.MapCacheSize == 0 {
		n, err := intEnv("MAP_CACHE_SIZE", 64)
		if err != nil {
			return Config{}, err
		}
		cfg.MapCacheSize = n
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.TrackerSalt == "" {
		cfg.TrackerSalt = os.Getenv("TRACKER_SALT")
	}
	if cfg.TrackerSalt == "" {
		return Config{}, errors.New("TRACKER_SALT required")
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", name)
	}
	return n, nil
}
