package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Auth.Secret != "" {
		t.Errorf("auth secret should default empty, got %q", cfg.Auth.Secret)
	}
	if cfg.Classify.WeakIDUnique != 0.5 || cfg.Classify.TextUnique != 0.85 || cfg.Classify.HierarchyRatio != 2.0 {
		t.Errorf("classify defaults = %+v", cfg.Classify)
	}
	if cfg.Cache.TTL != 30*time.Minute || cfg.Cache.MaxEntries != 1000 {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Query.RowCap != 10000 || cfg.Query.SampleRows != 1000 {
		t.Errorf("query defaults = %+v", cfg.Query)
	}
	if cfg.Recommend.MaxAlternatives != 3 {
		t.Errorf("max alternatives = %d", cfg.Recommend.MaxAlternatives)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plotforge.yaml")
	content := `
server:
  port: 9090
  rate_limit: 120
auth:
  secret: file-secret
cache:
  ttl: 5m
sources:
  manifest: /etc/plotforge/sources.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.RateLimit != 120 {
		t.Errorf("rate limit = %d, want 120", cfg.Server.RateLimit)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("secret = %q", cfg.Auth.Secret)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Sources.Manifest != "/etc/plotforge/sources.yaml" {
		t.Errorf("manifest = %q", cfg.Sources.Manifest)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.Server.Host)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PLOTFORGE_SERVER_PORT", "7070")
	t.Setenv("PLOTFORGE_AUTH_SECRET", "env-secret")
	t.Setenv("PLOTFORGE_QUERY_ROW_CAP", "500")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("secret = %q, want env-secret", cfg.Auth.Secret)
	}
	if cfg.Query.RowCap != 500 {
		t.Errorf("row cap = %d, want 500", cfg.Query.RowCap)
	}
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plotforge.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
