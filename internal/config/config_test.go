package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
db_path: /tmp/pm-test.db
storage_key: team-a
log:
  level: debug
  format: json
  file: /tmp/pm.log
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "/tmp/pm-test.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/pm-test.db")
	}
	if cfg.StorageKey != "team-a" {
		t.Errorf("StorageKey = %q, want %q", cfg.StorageKey, "team-a")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Log.File != "/tmp/pm.log" {
		t.Errorf("Log.File = %q, want %q", cfg.Log.File, "/tmp/pm.log")
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "" {
		t.Errorf("DBPath = %q, want empty", cfg.DBPath)
	}
	if cfg.StorageKey != "project-manager-data" {
		t.Errorf("StorageKey = %q, want %q", cfg.StorageKey, "project-manager-data")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "console")
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("PM_LOG_LEVEL", "WARN")
	t.Setenv("PM_STORAGE_KEY", "from-env")
	t.Setenv("PM_DB_PATH", "/data/pm.db")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if cfg.StorageKey != "from-env" {
		t.Errorf("StorageKey = %q, want %q", cfg.StorageKey, "from-env")
	}
	if cfg.DBPath != "/data/pm.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/data/pm.db")
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad level", "log:\n  level: verbose\n", "log.level must be one of"},
		{"bad format", "log:\n  format: xml\n", "log.format must be one of"},
		{"empty storage key", "storage_key: \"\"\n", "storage_key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("log: [unclosed"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q, want config: parse prefix", err)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pm.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageKey != "team-a" {
		t.Errorf("StorageKey = %q, want %q", cfg.StorageKey, "team-a")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want config: read prefix", err)
	}
}

func TestLoad_DefaultPathIsOptional(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "pm"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pm", "config.yaml"), []byte("storage_key: xdg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := DefaultPath(); got != filepath.Join(dir, "pm", "config.yaml") {
		t.Errorf("DefaultPath() = %q", got)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageKey != "xdg" {
		t.Errorf("StorageKey = %q, want %q", cfg.StorageKey, "xdg")
	}
}
