package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestConfigServiceDefaults(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "config.json"), newNopLogger())

	cfg := svc.Load()
	if cfg.CaptureChord != "ctrl+m" {
		t.Errorf("default capture chord = %q; want %q", cfg.CaptureChord, "ctrl+m")
	}
	if cfg.ShareChord != "ctrl+shift+m" {
		t.Errorf("default share chord = %q; want %q", cfg.ShareChord, "ctrl+shift+m")
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("default max depth = %d; want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if !reflect.DeepEqual(cfg.RootSections, []string{"Repeater", "Proxy"}) {
		t.Errorf("default root sections = %v", cfg.RootSections)
	}
}

func TestConfigServiceSaveLoad(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "nested", "config.json"), newNopLogger())

	want := defaultConfig()
	want.SnapshotFile = "/tmp/tree.yaml"
	want.DumpCommand = []string{"a11y-dump", "--pid", "4242"}
	want.CaptureChord = "alt+c"
	want.MaxDepth = 20
	if err := svc.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := svc.Load()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v; want %+v", got, want)
	}
}

func TestConfigServiceCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfigService(path, newNopLogger()).Load()
	if cfg.CaptureChord != "ctrl+m" {
		t.Errorf("corrupt fallback capture chord = %q; want %q", cfg.CaptureChord, "ctrl+m")
	}

	// The corrupt file is replaced with valid defaults.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Errorf("config file still corrupt: %v", err)
	}
}

func TestConfigServicePartialFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"snapshot_file":"/tmp/x.yaml","max_depth":0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfigService(path, newNopLogger()).Load()
	if cfg.SnapshotFile != "/tmp/x.yaml" {
		t.Errorf("snapshot file = %q; want %q", cfg.SnapshotFile, "/tmp/x.yaml")
	}
	if cfg.LabelChord != "ctrl+alt+r" {
		t.Errorf("label chord should default to %q, got %q", "ctrl+alt+r", cfg.LabelChord)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("max depth should default to %d, got %d", DefaultMaxDepth, cfg.MaxDepth)
	}
}
