package config

import (
	"log/slog"
	"testing"
)

func TestLoadConfig_RequiredSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when required secrets are missing")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/seminar")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Storage.Type != StorageLocal {
		t.Errorf("expected local storage default, got %s", cfg.Storage.Type)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level default, got %v", cfg.LogLevel)
	}
}

func TestLoadConfig_InvalidStorageType(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/seminar")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_TYPE", "ftp")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid storage type")
	}
}

func TestLoadConfig_S3RequiresBucket(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/seminar")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("S3_BUCKET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when s3 storage lacks a bucket")
	}
}
