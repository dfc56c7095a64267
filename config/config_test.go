package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Backend: BackendConfig{BaseURL: "http://localhost:5000"},
		Source:  SourceConfig{Driver: SourceREST},
		Auth:    AuthConfig{JWTSecret: "test-secret-key-for-unit-testing"},
		Engine:  EngineConfig{Timezone: "Asia/Kolkata", ThresholdPercent: 80},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad timezone", func(c *Config) { c.Engine.Timezone = "Mars/Olympus" }},
		{"zero threshold", func(c *Config) { c.Engine.ThresholdPercent = 0 }},
		{"unknown driver", func(c *Config) { c.Source.Driver = "mongo" }},
		{"rest without base url", func(c *Config) { c.Backend.BaseURL = "" }},
		{"firebase without project", func(c *Config) { c.Firebase.Enabled = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestValidate_PostgresWithoutBaseURL(t *testing.T) {
	c := validConfig()
	c.Source.Driver = SourcePostgres
	c.Backend.BaseURL = ""
	if err := c.Validate(); err != nil {
		t.Errorf("postgres driver should not need backend.base_url, got %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: file-secret-0123456789
engine:
  threshold_percent: 75
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PREZZ_SERVER_PORT", "9191")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("expected env to override port, got %d", cfg.Server.Port)
	}
	if cfg.Engine.ThresholdPercent != 75 {
		t.Errorf("expected threshold 75 from file, got %d", cfg.Engine.ThresholdPercent)
	}
	if cfg.Engine.Timezone != "Asia/Kolkata" {
		t.Errorf("expected default timezone, got %s", cfg.Engine.Timezone)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("expected default backend timeout 5s, got %v", cfg.Backend.Timeout)
	}
	if cfg.Source.Driver != SourceREST {
		t.Errorf("expected default driver rest, got %s", cfg.Source.Driver)
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "prezz", SSLMode: "disable", Timezone: "Asia/Kolkata"}
	want := "host=db port=5432 user=u password=p dbname=prezz sslmode=disable TimeZone=Asia/Kolkata"
	if got := c.DSN(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
