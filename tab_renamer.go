package main

import (
	"errors"
	"log/slog"
	"net/url"
)

// ErrTabNotFound is returned when the active editor sub-tab cannot be located.
var ErrTabNotFound = errors.New("renamer: active editor tab not found")

// LabelFor derives a tab label of the form host+path from a URL, with the
// path percent-decoded. Anything that does not parse as an absolute URL is
// used verbatim.
func LabelFor(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return u.Hostname() + path
}

// TabRenamer writes labels into the title of the active editor sub-tab.
// It must only run on the UI thread.
type TabRenamer struct {
	host          HostReader
	sections      []string
	editorSection string
	maxDepth      int
	logger        *slog.Logger
}

func NewTabRenamer(host HostReader, cfg Config, logger *slog.Logger) *TabRenamer {
	return &TabRenamer{
		host:          host,
		sections:      cfg.RootSections,
		editorSection: cfg.EditorSection,
		maxDepth:      cfg.MaxDepth,
		logger:        logger,
	}
}

// Rename labels the active sub-tab after rawURL. Failures are logged and
// swallowed; the label is cosmetic.
func (r *TabRenamer) Rename(rawURL string) {
	label := LabelFor(rawURL)
	if err := r.rename(label); err != nil {
		r.logger.Error("renamer: could not rename tab", "label", label, "err", err)
		return
	}
	r.logger.Info("renamer: tab renamed", "label", label)
}

func (r *TabRenamer) rename(label string) error {
	windows, err := r.host.Windows()
	if err != nil {
		return err
	}
	l := lookup{windows: windows, sections: r.sections, maxDepth: r.maxDepth}
	tab, ok := l.activeTab(r.editorSection)
	if !ok {
		return ErrTabNotFound
	}
	if err := tab.Pane.SetTitleAt(tab.Index, label); err != nil {
		return err
	}
	if c, ok := r.host.(Committer); ok {
		return c.Commit()
	}
	return nil
}
