package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "forge.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.StorageDriver != "file" || cfg.StartingCurrency != 100 || cfg.History != 20 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadMergesFile(t *testing.T) {
	p := writeFile(t, `
version: "2"
storage:
  driver: sqlite
  path: /tmp/forge.db
game:
  starting_currency: 500
  seed: 42
log:
  level: debug
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != "sqlite" || cfg.StoragePath != "/tmp/forge.db" {
		t.Fatalf("storage not merged: %+v", cfg)
	}
	if cfg.StartingCurrency != 500 || cfg.Seed != 42 || cfg.LogLevel != "debug" || cfg.Version != "2" {
		t.Fatalf("game/log not merged: %+v", cfg)
	}
	if cfg.Addr != ":8080" || cfg.History != 20 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FORGE_STORAGE_DRIVER", "memory")
	t.Setenv("FORGE_STARTING_CURRENCY", "7")
	t.Setenv("FORGE_ADDR", "127.0.0.1:9000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != "memory" || cfg.StartingCurrency != 7 || cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestValidateRawErrors(t *testing.T) {
	p := writeFile(t, `
storage:
  driver: s3
  history: 0
game:
  starting_currency: -1
log:
  level: loud
`)
	_, err := Load(p)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"storage.driver", "storage.history", "starting_currency", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestEnvValidated(t *testing.T) {
	t.Setenv("FORGE_LOG_LEVEL", "chatty")
	if _, err := Load(""); err == nil {
		t.Fatalf("invalid env log level accepted")
	}
}

func TestBadYAML(t *testing.T) {
	p := writeFile(t, "storage: [")
	if _, err := Load(p); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
}

func TestWatcherDetectsChange(t *testing.T) {
	p := writeFile(t, "log:\n  level: info\n")
	changed := make(chan string, 1)
	w := NewWatcher(p, 10*time.Millisecond, func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(p, future, future); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-changed:
		if got != p {
			t.Fatalf("changed path %q, want %q", got, p)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change detected")
	}
}
