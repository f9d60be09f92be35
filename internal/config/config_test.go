package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("TVM_LEAGUE_URL", "https://tvm.liga.nu/cgi-bin/WebObjects/nuLigaTENDE.woa/wa/leaguePage?championship=Winter+2025")
	t.Setenv("TVM_SEASON", "winter-2025")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresLeagueURLAndSeason(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("missing league url", func(t *testing.T) {
		t.Setenv("TVM_LEAGUE_URL", "")
		t.Setenv("TVM_SEASON", "winter-2025")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without TVM_LEAGUE_URL")
		}
	})

	t.Run("missing season", func(t *testing.T) {
		t.Setenv("TVM_LEAGUE_URL", "https://tvm.example/league")
		t.Setenv("TVM_SEASON", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without TVM_SEASON")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_SERVICE_NAME", "tennis-team-sync-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "tennis-team-sync-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_TVMClientDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TVMTimeout != 20*time.Second {
		t.Fatalf("unexpected default timeout: %s", cfg.TVMTimeout)
	}
	if cfg.TVMThrottleDelay != 250*time.Millisecond {
		t.Fatalf("unexpected default throttle delay: %s", cfg.TVMThrottleDelay)
	}
	if cfg.TVMMaxRetries != 1 {
		t.Fatalf("unexpected default max retries: %d", cfg.TVMMaxRetries)
	}
	if !cfg.TVMCircuitEnabled || cfg.TVMCircuitFailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg)
	}
}

func TestLoad_ResolutionDefaultsAndValidation(t *testing.T) {
	setRequiredEnv(t)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.TeamMatchThreshold != 0.90 || cfg.TeamStrictThreshold != 0.95 {
			t.Fatalf("unexpected team thresholds: %+v", cfg)
		}
		if cfg.PlayerMatchFloor != 70 {
			t.Fatalf("unexpected player floor: %d", cfg.PlayerMatchFloor)
		}
		if cfg.LinkAcceptBar != 30 || cfg.BackfillLimit != 25 {
			t.Fatalf("unexpected reconcile defaults: %+v", cfg)
		}
	})

	t.Run("strict threshold below base threshold", func(t *testing.T) {
		t.Setenv("TEAM_MATCH_THRESHOLD", "0.9")
		t.Setenv("TEAM_STRICT_THRESHOLD", "0.8")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when strict threshold is below base threshold")
		}
	})

	t.Run("player floor out of range", func(t *testing.T) {
		t.Setenv("TEAM_MATCH_THRESHOLD", "")
		t.Setenv("TEAM_STRICT_THRESHOLD", "")
		t.Setenv("PLAYER_MATCH_FLOOR", "150")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for PLAYER_MATCH_FLOOR out of range")
		}
	})
}

func TestLoad_TeamOverridesParsing(t *testing.T) {
	setRequiredEnv(t)

	t.Run("parses semicolon separated pairs", func(t *testing.T) {
		t.Setenv("TEAM_OVERRIDES", "TC GW Köln II:t-abc123; SV Blau-Gelb 1920:t-def456")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.TeamOverrides) != 2 {
			t.Fatalf("unexpected overrides: %+v", cfg.TeamOverrides)
		}
		if cfg.TeamOverrides["TC GW Köln II"] != "t-abc123" {
			t.Fatalf("unexpected first override: %+v", cfg.TeamOverrides)
		}
		if cfg.TeamOverrides["SV Blau-Gelb 1920"] != "t-def456" {
			t.Fatalf("unexpected second override: %+v", cfg.TeamOverrides)
		}
	})

	t.Run("rejects item without team id", func(t *testing.T) {
		t.Setenv("TEAM_OVERRIDES", "TC GW Köln II")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for override without team id")
		}
	})
}

func TestLoad_GroupFilterParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCRAPE_GROUP_FILTER", " 043, 44 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.ScrapeGroupFilter) != 2 || cfg.ScrapeGroupFilter[0] != "043" || cfg.ScrapeGroupFilter[1] != "44" {
		t.Fatalf("unexpected group filter: %+v", cfg.ScrapeGroupFilter)
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	setRequiredEnv(t)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
