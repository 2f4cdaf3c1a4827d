package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.JWT.TTL != time.Hour {
		t.Errorf("JWT.TTL = %s", cfg.JWT.TTL)
	}
	if cfg.Files.Dir != "./files" || cfg.Files.Prefix != "/files" {
		t.Errorf("Files = %+v", cfg.Files)
	}
	if cfg.Files.AvatarMaxBytes != 3<<20 {
		t.Errorf("AvatarMaxBytes = %d", cfg.Files.AvatarMaxBytes)
	}
	if cfg.Auth.LoginMaxAttempts != 5 || cfg.Auth.LoginWindow != 15*time.Minute {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if cfg.Redis.PoolSize != 10 || cfg.Redis.ClientName != "tasklist-api" || cfg.Redis.Password != "" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Worker.CleanupWorkers != 2 {
		t.Errorf("CleanupWorkers = %d", cfg.Worker.CleanupWorkers)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     secret,
		"JWT_TTL":        "30m",
		"PORT":           "9000",
		"ENV":            "production",
		"FILES_PREFIX":   "/static",
		"REDIS_DB":       "3",
		"REDIS_PASSWORD": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWT.TTL != 30*time.Minute || cfg.Port != "9000" || cfg.Redis.DB != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Redis.Password != "s3cret" {
		t.Fatalf("Redis.Password = %q", cfg.Redis.Password)
	}
	if cfg.IsDevelopment() {
		t.Fatal("production must not be development")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatal("expected an error without JWT_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "short",
	}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{Files: FilesConfig{Prefix: "files"}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"JWT_SECRET", "JWT_TTL", "AVATAR_MAX_BYTES", "FILES_PREFIX"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %s in %q", want, err)
		}
	}
}
