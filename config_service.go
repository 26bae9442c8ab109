package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Config holds persistent user preferences.
// Stored as JSON at ~/.repeater-capture/config.json.
type Config struct {
	SnapshotFile string   `json:"snapshot_file"` // snapshot kept current by the host bridge
	DumpCommand  []string `json:"dump_command"`  // used when snapshot_file is empty
	HistoryFile  string   `json:"history_file"`  // HAR export of the request history
	ShareDir     string   `json:"share_dir"`

	CaptureChord string `json:"capture_chord"` // e.g. "ctrl+m"
	ShareChord   string `json:"share_chord"`   // e.g. "ctrl+shift+m"
	LabelChord   string `json:"label_chord"`   // e.g. "ctrl+alt+r"

	RootSections  []string `json:"root_sections"`  // tab titles that identify the root tabbed pane
	EditorSection string   `json:"editor_section"` // section holding the request/response editors
	MaxDepth      int      `json:"max_depth"`

	LogLevel string `json:"log_level"` // "debug", "info", "warn", "error"
	NoTray   bool   `json:"no_tray"`
}

// defaultConfig returns factory defaults.
func defaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		ShareDir:      filepath.Join(home, ".repeater-capture", "shared"),
		CaptureChord:  "ctrl+m",
		ShareChord:    "ctrl+shift+m",
		LabelChord:    "ctrl+alt+r",
		RootSections:  []string{"Repeater", "Proxy"},
		EditorSection: "Repeater",
		MaxDepth:      DefaultMaxDepth,
		LogLevel:      "info",
	}
}

// ConfigService loads and saves user configuration.
type ConfigService struct {
	path   string
	logger *slog.Logger
}

// NewConfigService creates a ConfigService pointing to the standard config path,
// or to path when it is not empty.
func NewConfigService(path string, logger *slog.Logger) *ConfigService {
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".repeater-capture", "config.json")
	}
	return &ConfigService{path: path, logger: logger}
}

// Load reads config from disk. Returns defaults if the file doesn't exist.
// If the file is corrupt it logs the error and writes fresh defaults.
func (c *ConfigService) Load() Config {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return defaultConfig()
	}
	if err != nil {
		c.logger.Warn("config: read failed, using defaults", "path", c.path, "err", err)
		return defaultConfig()
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		c.logger.Warn("config: parse failed, resetting to defaults", "path", c.path, "err", err)
		defaults := defaultConfig()
		_ = c.Save(defaults) // overwrite corrupt file
		return defaults
	}
	// Fill any zero-value fields with defaults.
	d := defaultConfig()
	if cfg.ShareDir == "" {
		cfg.ShareDir = d.ShareDir
	}
	if cfg.CaptureChord == "" {
		cfg.CaptureChord = d.CaptureChord
	}
	if cfg.ShareChord == "" {
		cfg.ShareChord = d.ShareChord
	}
	if cfg.LabelChord == "" {
		cfg.LabelChord = d.LabelChord
	}
	if len(cfg.RootSections) == 0 {
		cfg.RootSections = d.RootSections
	}
	if cfg.EditorSection == "" {
		cfg.EditorSection = d.EditorSection
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = d.MaxDepth
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	return cfg
}

// Save writes the config to disk atomically (write to temp, then rename).
func (c *ConfigService) Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
