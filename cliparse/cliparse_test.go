// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"testing"

	"github.com/danielhkuo/ballotmap/election"
)

func setSecrets(t *testing.T) {
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("TRACKER_SALT", "test-tracker")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setSecrets(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("MAX_SELECTIONS", "250")
	t.Setenv("STRICT_BALLOTS", "true")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.MaxSelections != 250 {
		t.Errorf("expected max selections 250, got %d", cfg.MaxSelections)
	}
	if !cfg.StrictBallots {
		t.Error("expected strict ballots from env")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_SELECTIONS", "250")

	cfg, err := ParseFlags([]string{
		"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-tracker-salt", "s2",
		"-max-selections", "40", "-strict",
	})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.MaxSelections != 40 {
		t.Errorf("CLI should override env: expected 40, got %d", cfg.MaxSelections)
	}
	if !cfg.StrictBallots {
		t.Error("expected strict ballots from flag")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setSecrets(t)
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("MAX_SELECTIONS", "")
	t.Setenv("MAP_CACHE_SIZE", "")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite || cfg.DatabaseURL == "" {
		t.Errorf("expected sqlite with a default URL, got %s %q", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.MaxSelections != election.DefaultMaxSelections {
		t.Errorf("expected default max selections, got %d", cfg.MaxSelections)
	}
	if cfg.MapCacheSize != 64 {
		t.Errorf("expected default cache size 64, got %d", cfg.MapCacheSize)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing admin salt", map[string]string{"ADMIN_KEY_SALT": "", "TRACKER_SALT": "x"}, nil},
		{"missing tracker salt", map[string]string{"ADMIN_KEY_SALT": "x", "TRACKER_SALT": ""}, nil},
		{"postgres without URL", map[string]string{"DATABASE_URL": ""}, []string{"-t", "postgres"}},
		{"unknown database type", nil, []string{"-t", "mysql"}},
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"negative max selections", nil, []string{"-max-selections", "-1"}},
		{"bad strict flag", map[string]string{"STRICT_BALLOTS": "sometimes"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setSecrets(t)
			t.Setenv("PORT", "")
			t.Setenv("STRICT_BALLOTS", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
