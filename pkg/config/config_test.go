package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
environment: test
finnhub:
  api_key: ""
market:
  universe: [AAPL, MSFT]
`

func TestLoadWithEnvSuppliesAPIKey(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	t.Setenv("FINNHUB_API_KEY", "from-env")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Finnhub.APIKey != "from-env" {
		t.Fatalf("api key = %q, want from-env", c.Finnhub.APIKey)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for empty api_key")
	}
}

func TestLoadWithEnvOverridesUniverseAndStorage(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	t.Setenv("FINNHUB_API_KEY", "k")
	t.Setenv("SYMBOLS", "TSLA,NVDA,AMD")
	t.Setenv("STORAGE_PATH", "/tmp/override.db")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Market.Universe) != 3 || c.Market.Universe[0] != "TSLA" {
		t.Fatalf("universe = %v", c.Market.Universe)
	}
	if c.Storage.Path != "/tmp/override.db" {
		t.Fatalf("storage path = %q", c.Storage.Path)
	}
}

func TestDefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
environment: test
finnhub:
  api_key: k
market:
  universe: [AAPL]
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("port = %d", c.Server.Port)
	}
	if c.Market.SnapshotTTL != 5*time.Minute {
		t.Fatalf("snapshot ttl = %v", c.Market.SnapshotTTL)
	}
	if c.Watchlist.PaceInterval != 1100*time.Millisecond {
		t.Fatalf("pace interval = %v", c.Watchlist.PaceInterval)
	}
	if c.Cache.Backend != "memory" {
		t.Fatalf("cache backend = %q", c.Cache.Backend)
	}
}

func TestValidateRejectsUnknownCacheBackend(t *testing.T) {
	path := writeConfig(t, `
environment: test
finnhub:
  api_key: k
market:
  universe: [AAPL]
cache:
  backend: memcached
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown cache backend")
	}
}
