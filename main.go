package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.design/x/hotkey/mainthread"
)

// options are the flags shared by every command.
type options struct {
	configPath string
	debug      bool
	noTray     bool
	snapshot   string
	history    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "repeater-capture",
		Short: "Capture and share HTTP requests from a running proxy UI with global key chords",
		Long: `repeater-capture listens for global key chords and, on each one, reads the
proxy application's widget tree through its host bridge: the selected rows of
the request history table, or the request/response editors of the active
Repeater tab. Captured requests go to the clipboard or the shared workspace.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load()
			return run(cfg, logger)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.repeater-capture/config.json)")
	f.BoolVar(&opts.debug, "debug", false, "log every lookup step")
	f.StringVar(&opts.snapshot, "snapshot", "", "host snapshot file, overrides snapshot_file")
	f.StringVar(&opts.history, "history", "", "HAR history file, overrides history_file")
	root.Flags().BoolVar(&opts.noTray, "no-tray", false, "run without the tray icon")

	root.AddCommand(
		newDumpCmd(opts),
		newExtractCmd(opts),
		newLabelCmd(opts),
		newLoginItemCmd(),
	)
	return root
}

// load reads the config file and applies flag overrides.
func (o *options) load() (Config, *slog.Logger) {
	cfg := NewConfigService(o.configPath, newLogger(slog.LevelInfo)).Load()
	if o.snapshot != "" {
		cfg.SnapshotFile = o.snapshot
	}
	if o.history != "" {
		cfg.HistoryFile = o.history
	}
	if o.noTray {
		cfg.NoTray = true
	}
	if o.debug {
		cfg.LogLevel = "debug"
	}
	return cfg, newLogger(parseLevel(cfg.LogLevel))
}

// run starts the chord listener and blocks until a shutdown path fires:
// SIGINT/SIGTERM, or Quit in the tray.
func run(cfg Config, logger *slog.Logger) error {
	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := func() (*App, error) {
		if err := app.Start(context.Background()); err != nil {
			if errors.Is(err, ErrChordConflict) {
				logger.Error("app: a chord is already taken by another application", "err", err)
			}
			return nil, err
		}
		go func() {
			select {
			case <-sigCtx.Done():
				logger.Info("app: signal received, shutting down")
				app.Shutdown()
			case <-app.Done():
			}
		}()
		return app, nil
	}

	if !cfg.NoTray {
		var startErr error
		runWithTray(func() (*App, error) {
			a, err := start()
			startErr = err
			return a, err
		}, app.Shutdown)
		return startErr
	}

	// Without the tray nothing else runs the OS event loop that global
	// hotkeys need on macOS, so hand the main thread to mainthread.
	var runErr error
	mainthread.Init(func() {
		if _, err := start(); err != nil {
			runErr = err
			return
		}
		<-app.Done()
	})
	if runErr != nil {
		return fmt.Errorf("start: %w", runErr)
	}
	logger.Info("app: stopped")
	return nil
}
