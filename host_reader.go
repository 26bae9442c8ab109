package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoHost is returned when no host bridge is configured.
var ErrNoHost = errors.New("host: no snapshot file or dump command configured")

// ErrReadOnlyHost is returned when a tree mutation cannot be written back.
var ErrReadOnlyHost = errors.New("host: bridge does not accept writes")

// ErrStaleSnapshot is returned when the snapshot on disk no longer has the
// element an edit was made to.
var ErrStaleSnapshot = errors.New("host: snapshot changed shape since it was read")

// HostReader returns the host process's top-level windows. Every call
// reads the tree afresh; the returned nodes are only valid until the next
// call.
type HostReader interface {
	Windows() ([]Node, error)
}

// Committer is implemented by host bridges that can persist mutations made
// to the nodes returned by the most recent Windows call.
type Committer interface {
	Commit() error
}

// newHostReader picks the bridge configured in cfg.
func newHostReader(cfg Config) (HostReader, error) {
	switch {
	case cfg.SnapshotFile != "":
		return &fileHost{path: cfg.SnapshotFile}, nil
	case len(cfg.DumpCommand) > 0:
		return &commandHost{argv: cfg.DumpCommand, timeout: 5 * time.Second}, nil
	default:
		return nil, ErrNoHost
	}
}

// fileHost reads a snapshot file that a bridge running inside the host keeps
// current, and writes renamed titles back to it for the bridge to apply.
type fileHost struct {
	path   string
	last   *Snapshot
	titles map[*Element][]string // tab titles as last read
}

func (h *fileHost) Windows() ([]Node, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("host: read snapshot: %w", err)
	}
	snap, err := parseSnapshot(data)
	if err != nil {
		return nil, err
	}
	h.last = snap
	h.titles = tabTitlesByElement(snap)
	return snap.Nodes(), nil
}

// titleEdit is a changed tab strip, addressed by its index path from the
// windows list: window index first, then child indices.
type titleEdit struct {
	path []int
	role string
	tabs []string
}

// Commit writes the tab titles changed since the last Windows call into the
// snapshot file as it is now on disk. Only the "tabs" of edited elements
// are touched; everything else the bridge wrote, including keys this
// program does not know, is kept, and the file keeps its JSON or YAML form.
func (h *fileHost) Commit() error {
	if h.last == nil {
		return nil
	}
	edits := h.edits()
	if len(edits) == 0 {
		return nil
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		return fmt.Errorf("host: read snapshot: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("host: decode snapshot: %w", err)
	}
	for _, e := range edits {
		n := elementAt(&doc, e.path)
		if n == nil || !strings.EqualFold(scalarValue(mappingValue(n, "role")), e.role) {
			return fmt.Errorf("%w: no %s at %v", ErrStaleSnapshot, e.role, e.path)
		}
		setMappingValue(n, "tabs", stringSequence(e.tabs))
	}

	out, err := encodeLike(data, &doc)
	if err != nil {
		return fmt.Errorf("host: encode snapshot: %w", err)
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, h.path); err != nil {
		return err
	}
	h.titles = tabTitlesByElement(h.last)
	return nil
}

func (h *fileHost) edits() []titleEdit {
	var out []titleEdit
	var visit func(e *Element, path []int)
	visit = func(e *Element, path []int) {
		if e == nil {
			return
		}
		if !slices.Equal(h.titles[e], e.Tabs) {
			out = append(out, titleEdit{path: slices.Clone(path), role: e.Role, tabs: slices.Clone(e.Tabs)})
		}
		for i, c := range e.Children {
			visit(c, append(path, i))
		}
	}
	for i, w := range h.last.Windows {
		visit(w, []int{i})
	}
	return out
}

func tabTitlesByElement(s *Snapshot) map[*Element][]string {
	titles := map[*Element][]string{}
	var visit func(e *Element)
	visit = func(e *Element) {
		if e == nil {
			return
		}
		titles[e] = slices.Clone(e.Tabs)
		for _, c := range e.Children {
			visit(c)
		}
	}
	for _, w := range s.Windows {
		visit(w)
	}
	return titles
}

// elementAt walks windows[path[0]].children[path[1]]... in a decoded
// snapshot document and returns the element mapping, or nil.
func elementAt(doc *yaml.Node, path []int) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	n := mappingValue(doc.Content[0], "windows")
	for depth, i := range path {
		if depth > 0 {
			n = mappingValue(n, "children")
		}
		if n == nil || n.Kind != yaml.SequenceNode || i < 0 || i >= len(n.Content) {
			return nil
		}
		n = n.Content[i]
	}
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, v *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = v
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, v)
}

func scalarValue(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func stringSequence(items []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, s := range items {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s})
	}
	return seq
}

// encodeLike encodes doc in the format original was written in: JSON when
// it starts with an object, YAML otherwise.
func encodeLike(original []byte, doc *yaml.Node) ([]byte, error) {
	if !isJSONDocument(original) {
		return yaml.Marshal(doc)
	}
	var v any
	if err := doc.Decode(&v); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func isJSONDocument(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// commandHost runs an accessibility dump command and decodes its stdout.
type commandHost struct {
	argv    []string
	timeout time.Duration
}

func (h *commandHost) Windows() ([]Node, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.argv[0], h.argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("host: %s: %w: %s", h.argv[0], err, strings.TrimSpace(stderr.String()))
	}
	snap, err := parseSnapshot(out)
	if err != nil {
		return nil, err
	}
	return snap.Nodes(), nil
}

// Commit always fails: the dump command has no way back into the host.
func (h *commandHost) Commit() error { return ErrReadOnlyHost }
