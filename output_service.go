package main

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// clipboard abstracts the system clipboard so tests can swap it.
type clipboard interface {
	CopyToClipboard(text string) error
}

// OutputService is the capture collaborator: it turns captured pairs into a
// plain-text report and puts it on the clipboard for pasting into a finding.
type OutputService struct {
	backend clipboard
	logger  *slog.Logger
}

// NewOutputService returns a production-ready OutputService.
func NewOutputService(logger *slog.Logger) *OutputService {
	return &OutputService{backend: &systemClipboard{goos: runtime.GOOS}, logger: logger}
}

// newOutputServiceWithBackend wires in a custom backend (tests only).
func newOutputServiceWithBackend(b clipboard, logger *slog.Logger) *OutputService {
	return &OutputService{backend: b, logger: logger}
}

// Handle reports the pairs. It runs on the UI thread.
func (s *OutputService) Handle(pairs []ExtractedPair) {
	if len(pairs) == 0 {
		return
	}
	report := formatReport(pairs)
	if err := s.backend.CopyToClipboard(report); err != nil {
		s.logger.Error("output: clipboard copy failed", "err", err)
		return
	}
	for _, p := range pairs {
		s.logger.Info("output: captured", "source", p.Source, "method", p.Request.Method, "url", p.Request.URL(), "has_response", p.HasResponse())
	}
	s.logger.Info("output: copied report to clipboard", "pairs", len(pairs), "chars", len(report))
}

func formatReport(pairs []ExtractedPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "=== Request %d/%d: %s %s ===\n", i+1, len(pairs), p.Request.Method, p.Request.URL())
		b.WriteString(strings.TrimRight(p.RequestText, "\r\n"))
		b.WriteString("\n")
		if p.HasResponse() {
			fmt.Fprintf(&b, "=== Response: %s ===\n", p.Response.Status)
			b.WriteString(strings.TrimRight(p.ResponseText, "\r\n"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ── Real implementation ───────────────────────────────────

type systemClipboard struct {
	goos string
}

// CopyToClipboard pipes text into the platform clipboard tool.
func (c *systemClipboard) CopyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch c.goos {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		cmd = exec.Command("xclip", "-selection", "clipboard")
	}
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
