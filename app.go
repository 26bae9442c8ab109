package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// captureSink receives the pairs captured by the capture chord.
type captureSink interface {
	Handle(pairs []ExtractedPair)
}

// shareSink receives each pair captured by the share chord.
type shareSink interface {
	Share(p ExtractedPair) error
}

// App wires the interceptor, the UI thread and the actions together.
// Start must be called once; Shutdown may be called from any shutdown path,
// any number of times.
type App struct {
	cfg         Config
	logger      *slog.Logger
	ui          *uiThread
	extractor   *ExtractionService
	renamer     *TabRenamer
	capture     captureSink
	share       shareSink
	interceptor *Interceptor

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp builds the production app from cfg.
func NewApp(cfg Config, logger *slog.Logger) (*App, error) {
	host, err := newHostReader(cfg)
	if err != nil {
		return nil, err
	}
	var history History
	if cfg.HistoryFile != "" {
		history = &harHistory{path: cfg.HistoryFile}
	}
	return newAppWith(cfg, logger, host, history, nil, NewOutputService(logger), NewShareService(cfg.ShareDir, logger))
}

// newAppWith lets tests supply every collaborator. A nil source means the
// OS hotkey source for the configured chords.
func newAppWith(cfg Config, logger *slog.Logger, host HostReader, history History, source KeySource, capture captureSink, share shareSink) (*App, error) {
	a := &App{
		cfg:       cfg,
		logger:    logger,
		ui:        newUIThread(16, logger),
		extractor: NewExtractionService(host, history, cfg, logger),
		renamer:   NewTabRenamer(host, cfg, logger),
		capture:   capture,
		share:     share,
	}

	// share is more specific than capture and is listed first; with exact
	// modifier sets the order only matters if the chords are reconfigured.
	specs := []struct {
		name    string
		combo   string
		handler func()
	}{
		{"share", cfg.ShareChord, a.shareSelected},
		{"capture", cfg.CaptureChord, a.captureSelected},
		{"label", cfg.LabelChord, a.labelActiveTab},
	}
	var bindings []Binding
	var chords []Chord
	for _, s := range specs {
		c, err := parseChord(s.combo)
		if err != nil {
			return nil, fmt.Errorf("%s chord: %w", s.name, err)
		}
		bindings = append(bindings, Binding{Name: s.name, Chord: c, Handler: s.handler})
		chords = append(chords, c)
	}
	if source == nil {
		source = newHotkeySource(chords, logger)
	}
	a.interceptor = NewInterceptor(source, a.ui, logger, bindings...)
	return a, nil
}

// Start launches the UI thread and installs the key observer.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ctx, a.cancel = context.WithCancel(ctx)
	go a.ui.Run(a.ctx)
	if err := a.interceptor.Start(); err != nil {
		a.cancel()
		return err
	}
	a.logger.Info("app: started",
		"capture", FormatChord(a.cfg.CaptureChord),
		"share", FormatChord(a.cfg.ShareChord),
		"label", FormatChord(a.cfg.LabelChord))
	return nil
}

// Done is closed once the app has shut down.
func (a *App) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx == nil {
		return nil
	}
	return a.ctx.Done()
}

// Shutdown removes the key observer and stops the UI thread.
func (a *App) Shutdown() {
	a.interceptor.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Status is the one-line state shown in the tray.
func (a *App) Status() string {
	if a.interceptor.State() == Active {
		return "Listening: " + FormatChord(a.cfg.CaptureChord) + " capture, " + FormatChord(a.cfg.ShareChord) + " share"
	}
	return "Not listening"
}

// ── chord handlers (UI thread) ────────────────────────────

func (a *App) captureSelected() {
	pairs := a.extractor.Extract()
	if len(pairs) == 0 {
		a.logger.Debug("app: nothing to capture")
		return
	}
	a.logger.Info("app: capturing requests", "count", len(pairs), "source", pairs[0].Source)
	a.capture.Handle(pairs)
}

func (a *App) shareSelected() {
	pairs := a.extractor.Extract()
	if len(pairs) == 0 {
		a.logger.Debug("app: nothing to share")
		return
	}
	a.logger.Info("app: sharing requests", "count", len(pairs), "source", pairs[0].Source)
	for _, p := range pairs {
		if err := a.share.Share(p); err != nil {
			a.logger.Error("app: sharing request failed", "url", p.Request.URL(), "err", err)
		}
	}
}

// labelActiveTab logs the request in the active editor and names the tab
// after its URL.
func (a *App) labelActiveTab() {
	req, ok := a.extractor.EditorRequest()
	if !ok {
		a.logger.Debug("app: no request in the active editor")
		return
	}
	a.logger.Info("app: request in editor", "url", req.URL(), "method", req.Method)
	a.renamer.Rename(req.URL())
}
