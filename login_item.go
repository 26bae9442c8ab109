package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const (
	plistLabel    = "com.repeater-capture"
	plistFilename = plistLabel + ".plist"
)

// launchAgent is what goes into the plist. launchd starts the listener at
// login and leaves it stopped after Quit; stderr, where the listener logs,
// is kept in LogPath.
type launchAgent struct {
	Label    string
	ExecPath string
	Args     []string
	LogPath  string
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN"
  "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{html .ExecPath}}</string>{{range .Args}}
        <string>{{html .}}</string>{{end}}
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>{{if .LogPath}}
    <key>StandardErrorPath</key>
    <string>{{html .LogPath}}</string>{{end}}
</dict>
</plist>
`))

// LoginItemService installs the listener as a launchd agent. Both
// directories are fields so tests can point them at t.TempDir().
type LoginItemService struct {
	plistDir string
	logDir   string // empty: no log file
}

func NewLoginItemService() (*LoginItemService, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("login item: resolve home dir: %w", err)
	}
	return &LoginItemService{
		plistDir: filepath.Join(home, "Library", "LaunchAgents"),
		logDir:   filepath.Join(home, ".repeater-capture"),
	}, nil
}

// Enable installs the agent so that execPath runs with args at login. An
// existing agent is replaced.
func (s *LoginItemService) Enable(execPath string, args ...string) error {
	agent := launchAgent{Label: plistLabel, ExecPath: execPath, Args: args}
	if s.logDir != "" {
		// launchd does not create missing directories for the log file.
		if err := os.MkdirAll(s.logDir, 0o755); err != nil {
			return fmt.Errorf("login item: %w", err)
		}
		agent.LogPath = filepath.Join(s.logDir, "listener.log")
	}

	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, agent); err != nil {
		return fmt.Errorf("login item: render plist: %w", err)
	}
	if err := os.MkdirAll(s.plistDir, 0o755); err != nil {
		return fmt.Errorf("login item: %w", err)
	}
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("login item: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("login item: %w", err)
	}
	return nil
}

// Disable removes the agent. Removing an agent that is not installed is
// not an error.
func (s *LoginItemService) Disable() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("login item: %w", err)
	}
	return nil
}

func (s *LoginItemService) IsEnabled() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Path is where the agent's plist lives.
func (s *LoginItemService) Path() string {
	return filepath.Join(s.plistDir, plistFilename)
}
