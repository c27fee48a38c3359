package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: localhost
  username: wallet
  password: wallet
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Fatalf("expected default request timeout 60s, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.Token.Symbol != "SLH" || cfg.Token.Decimals != 18 {
		t.Fatalf("unexpected token defaults: %+v", cfg.Token)
	}
	if cfg.Token.TonFactor != 1000.0 {
		t.Fatalf("expected default ton factor 1000, got %f", cfg.Token.TonFactor)
	}
	if cfg.Staking.AnnualRatePercent != 120.0 {
		t.Fatalf("expected default staking rate 120, got %f", cfg.Staking.AnnualRatePercent)
	}
	if cfg.Refresh.Interval != 5*time.Minute {
		t.Fatalf("expected default refresh interval 5m, got %s", cfg.Refresh.Interval)
	}
	if !cfg.Monitoring.Enabled || cfg.Monitoring.MetricsPort != 9090 {
		t.Fatalf("unexpected monitoring defaults: %+v", cfg.Monitoring)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9999
database:
  host: db.internal
token:
  symbol: XYZ
  decimals: 9
  ton_factor: 500
refresh:
  interval: 30s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Fatalf("expected server port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Fatalf("expected database host override, got %q", cfg.Database.Host)
	}
	if cfg.Token.Symbol != "XYZ" || cfg.Token.Decimals != 9 {
		t.Fatalf("unexpected token overrides: %+v", cfg.Token)
	}
	if cfg.Refresh.Interval != 30*time.Second {
		t.Fatalf("expected refresh interval 30s, got %s", cfg.Refresh.Interval)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{
			name: "zero decimals",
			contents: `
database:
  host: localhost
token:
  decimals: 0
`,
		},
		{
			name: "negative ton factor",
			contents: `
database:
  host: localhost
token:
  ton_factor: -1
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, tc.contents)
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}
