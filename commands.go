package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// withUIThread runs fn on a short-lived UI thread so one-shot commands keep
// the same single-thread ownership of the host tree as the listener.
func withUIThread(fn func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ui := newUIThread(1, newNopLogger())
	go ui.Run(ctx)
	if !ui.Call(ctx, fn) {
		return errors.New("ui thread did not finish in time")
	}
	return nil
}

func newDumpCmd(opts *options) *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the host widget hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := opts.load()
			host, err := newHostReader(cfg)
			if err != nil {
				return err
			}
			var windows []Node
			var readErr error
			if err := withUIThread(func() { windows, readErr = host.Windows() }); err != nil {
				return err
			}
			if readErr != nil {
				return readErr
			}
			for _, w := range windows {
				dumpHierarchy(cmd.OutOrStdout(), w, 0, maxDepth)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "depth", collectDepth, "deepest level to print")
	return cmd
}

func dumpHierarchy(w io.Writer, n Node, depth, maxDepth int) {
	line := n.Kind().String()
	if d, ok := n.(interface{ Describe() string }); ok {
		line = d.Describe()
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), line)
	if depth >= maxDepth {
		return
	}
	for _, c := range n.Children() {
		dumpHierarchy(w, c, depth+1, maxDepth)
	}
}

// pairView is the printed form of an ExtractedPair.
type pairView struct {
	Source   string `yaml:"source"`
	Method   string `yaml:"method"`
	URL      string `yaml:"url"`
	Status   string `yaml:"status,omitempty"`
	Request  string `yaml:"request"`
	Response string `yaml:"response,omitempty"`
}

func newExtractCmd(opts *options) *cobra.Command {
	var editorOnly bool
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run the extraction once and print the pairs as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load()
			host, err := newHostReader(cfg)
			if err != nil {
				return err
			}
			var history History
			if cfg.HistoryFile != "" {
				history = &harHistory{path: cfg.HistoryFile}
			}
			svc := NewExtractionService(host, history, cfg, logger)

			var pairs []ExtractedPair
			err = withUIThread(func() {
				if editorOnly {
					pairs = svc.ExtractEditor()
				} else {
					pairs = svc.Extract()
				}
			})
			if err != nil {
				return err
			}
			return printPairs(cmd.OutOrStdout(), pairs)
		},
	}
	cmd.Flags().BoolVar(&editorOnly, "editor", false, "skip the history table and read the active editor")
	return cmd
}

func printPairs(w io.Writer, pairs []ExtractedPair) error {
	views := make([]pairView, 0, len(pairs))
	for _, p := range pairs {
		v := pairView{
			Source:  p.Source,
			Method:  p.Request.Method,
			URL:     p.Request.URL(),
			Request: p.RequestText,
		}
		if p.HasResponse() {
			v.Status = p.Response.Status
			v.Response = p.ResponseText
		}
		views = append(views, v)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(views)
}

func newLabelCmd(opts *options) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "label <url>",
		Short: "Print the tab label derived from a URL, optionally applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), LabelFor(args[0]))
			if !apply {
				return nil
			}
			cfg, logger := opts.load()
			host, err := newHostReader(cfg)
			if err != nil {
				return err
			}
			r := NewTabRenamer(host, cfg, logger)
			return withUIThread(func() { r.Rename(args[0]) })
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "rename the active editor tab in the host")
	return cmd
}

func newLoginItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login-item",
		Short: "Manage launching the chord listener at login (macOS)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:                "enable [flags for the listener...]",
			Short:              "Start repeater-capture at login",
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := NewLoginItemService()
				if err != nil {
					return err
				}
				execPath, err := os.Executable()
				if err != nil {
					return err
				}
				return svc.Enable(execPath, args...)
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop starting repeater-capture at login",
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := NewLoginItemService()
				if err != nil {
					return err
				}
				return svc.Disable()
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether the login item is installed",
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := NewLoginItemService()
				if err != nil {
					return err
				}
				if svc.IsEnabled() {
					fmt.Fprintln(cmd.OutOrStdout(), "enabled:", svc.Path())
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "disabled")
				}
				return nil
			},
		},
	)
	return cmd
}
