package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// startManager points the user config dir at a temp dir, seeds a config file
// and returns a watching manager.
func startManager(t *testing.T, content string) (*Manager, string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("DEEPL_AUTH_KEY", "key")

	configDir := filepath.Join(dir, "translive")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := m.StartWatching(ctx); err != nil {
		t.Fatalf("StartWatching: %v", err)
	}
	t.Cleanup(m.Stop)

	return m, path
}

func TestManagerReloadsOnFileChange(t *testing.T) {
	m, path := startManager(t, "[voice]\ntarget_languages = [\"de\"]\n")

	if got := m.GetConfig().Voice.TargetLangs; len(got) != 1 || got[0] != "de" {
		t.Fatalf("initial targets = %v", got)
	}

	if err := os.WriteFile(path, []byte("[voice]\ntarget_languages = [\"fr\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		if got := m.GetConfig().Voice.TargetLangs; len(got) == 1 && got[0] == "fr" {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("config not reloaded, targets = %v", m.GetConfig().Voice.TargetLangs)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestManagerGetConfigDoesNotAliasTargets(t *testing.T) {
	m, _ := startManager(t, "[voice]\ntarget_languages = [\"de\"]\n")

	got := m.GetConfig()
	got.Voice.TargetLangs[0] = "scribbled"

	if targets := m.GetConfig().Voice.TargetLangs; targets[0] != "de" {
		t.Errorf("caller mutation leaked into manager, targets = %v", targets)
	}
}

func TestManagerKeepsPreviousConfigOnInvalidReload(t *testing.T) {
	m, path := startManager(t, "[voice]\ntarget_languages = [\"de\"]\n")

	if err := os.WriteFile(path, []byte("[voice]\ntarget_languages = [\"not-a-language\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if got := m.GetConfig().Voice.TargetLangs; len(got) != 1 || got[0] != "de" {
		t.Errorf("invalid reload replaced config, targets = %v", got)
	}
}
