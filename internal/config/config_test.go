// ABOUTME: Tests for configuration loading, env expansion, and validation
// ABOUTME: Covers defaults, duration parsing, and required-field errors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emberchat.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Minimal(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/emberchat.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPAddr != "localhost:8080" {
		t.Errorf("HTTPAddr mismatch: got %q", cfg.Server.HTTPAddr)
	}
	if cfg.Auth.SessionTTL != DefaultSessionTTL {
		t.Errorf("expected default session TTL, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Model.Name != DefaultModel {
		t.Errorf("expected default model, got %q", cfg.Model.Name)
	}
	if cfg.Model.HistoryLimit != DefaultHistoryLimit {
		t.Errorf("expected default history limit, got %d", cfg.Model.HistoryLimit)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("EMBERCHAT_TEST_PASSWORD", "hunter2")

	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/emberchat.db"
auth:
  master_password: "${EMBERCHAT_TEST_PASSWORD}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.MasterPassword != "hunter2" {
		t.Errorf("env expansion failed: got %q", cfg.Auth.MasterPassword)
	}
}

func TestLoad_SessionTTL(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/emberchat.db"
auth:
  session_ttl: "90m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.SessionTTL != 90*time.Minute {
		t.Errorf("SessionTTL mismatch: got %v", cfg.Auth.SessionTTL)
	}
}

func TestLoad_InvalidSessionTTL(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/emberchat.db"
auth:
  session_ttl: "soon"
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid session_ttl")
	}
}

func TestLoad_MissingHTTPAddr(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "/tmp/emberchat.db"
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for missing http_addr")
	}
}

func TestLoad_MissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for missing database.path")
	}
}

func TestLoad_IncompleteBlobSection(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/emberchat.db"
blob:
  endpoint: "https://example.r2.cloudflarestorage.com"
`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for blob section without bucket")
	}
}

func TestLoad_CompleteBlobSection(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/emberchat.db"
blob:
  endpoint: "https://example.r2.cloudflarestorage.com"
  bucket: "emberchat-files"
  access_key_id: "key"
  secret_access_key: "secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.BlobEnabled() {
		t.Error("expected blob storage to be enabled")
	}
	if cfg.Blob.Region != "auto" {
		t.Errorf("expected default region auto, got %q", cfg.Blob.Region)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
