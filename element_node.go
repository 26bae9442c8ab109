package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Element is one widget as reported by the host bridge. Snapshots are YAML
// or JSON documents with a top-level "windows" list of Elements.
type Element struct {
	Role  string `yaml:"role"`
	Class string `yaml:"class,omitempty"` // host-side class name, diagnostics only
	Title string `yaml:"title,omitempty"`
	Text  string `yaml:"text,omitempty"`

	Hidden  bool `yaml:"hidden,omitempty"`
	Dialog  bool `yaml:"dialog,omitempty"`  // top-level window that is not a main frame
	Content bool `yaml:"content,omitempty"` // the window's content pane

	Tabs     []string `yaml:"tabs,omitempty"`
	Selected *int     `yaml:"selected,omitempty"`

	Columns      []string `yaml:"columns,omitempty"`
	SelectedRows []int    `yaml:"selected_rows,omitempty"`
	RowOrder     []int    `yaml:"row_order,omitempty"` // view row -> model row; empty when unsorted

	Children []*Element `yaml:"children,omitempty"`
}

// Snapshot is the document exchanged with the host bridge.
type Snapshot struct {
	Windows []*Element `yaml:"windows"`
}

var roleKinds = map[string]Kind{
	"window":    KindWindow,
	"frame":     KindWindow,
	"dialog":    KindWindow,
	"container": KindContainer,
	"panel":     KindContainer,
	"group":     KindContainer,
	"tabbed":    KindTabbed,
	"tabgroup":  KindTabbed,
	"split":     KindSplit,
	"splitter":  KindSplit,
	"scroll":    KindScroll,
	"viewport":  KindScroll,
	"text":      KindText,
	"textarea":  KindText,
	"table":     KindTable,
}

func parseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return &snap, nil
}

// Nodes wraps the snapshot's windows as Nodes.
func (s *Snapshot) Nodes() []Node {
	nodes := make([]Node, 0, len(s.Windows))
	for _, w := range s.Windows {
		if w != nil {
			nodes = append(nodes, &elementNode{el: w})
		}
	}
	return nodes
}

// elementNode adapts an Element to every Node capability interface; callers
// pick the capability that matches Kind.
type elementNode struct {
	el *Element
}

func (n *elementNode) Kind() Kind {
	if k, ok := roleKinds[strings.ToLower(n.el.Role)]; ok {
		return k
	}
	return KindOther
}

func (n *elementNode) Children() []Node {
	out := make([]Node, 0, len(n.el.Children))
	for _, c := range n.el.Children {
		if c != nil {
			out = append(out, &elementNode{el: c})
		}
	}
	return out
}

func (n *elementNode) Visible() bool { return !n.el.Hidden }

func (n *elementNode) Text() string { return n.el.Text }

func (n *elementNode) TabCount() int { return len(n.el.Children) }

func (n *elementNode) TitleAt(i int) string {
	if i < 0 || i >= len(n.el.Tabs) {
		return ""
	}
	return n.el.Tabs[i]
}

func (n *elementNode) ComponentAt(i int) Node {
	if i < 0 || i >= len(n.el.Children) || n.el.Children[i] == nil {
		return nil
	}
	return &elementNode{el: n.el.Children[i]}
}

func (n *elementNode) SelectedIndex() int {
	if n.el.Selected != nil {
		if s := *n.el.Selected; s >= 0 && s < len(n.el.Children) {
			return s
		}
		return -1
	}
	if len(n.el.Children) > 0 {
		return 0
	}
	return -1
}

func (n *elementNode) SetTitleAt(i int, title string) error {
	if i < 0 || i >= len(n.el.Children) {
		return fmt.Errorf("tab index %d out of range [0,%d)", i, len(n.el.Children))
	}
	for len(n.el.Tabs) < len(n.el.Children) {
		n.el.Tabs = append(n.el.Tabs, "")
	}
	n.el.Tabs[i] = title
	return nil
}

func (n *elementNode) ColumnNames() []string { return n.el.Columns }

func (n *elementNode) SelectedRows() []int { return n.el.SelectedRows }

func (n *elementNode) RowIndexToModel(view int) int {
	if view < 0 {
		return -1
	}
	if len(n.el.RowOrder) == 0 {
		return view
	}
	if view >= len(n.el.RowOrder) {
		return -1
	}
	return n.el.RowOrder[view]
}

func (n *elementNode) IsFrame() bool { return n.Kind() == KindWindow && !n.el.Dialog }

func (n *elementNode) ContentNode() Node {
	return Find(n, func(c Node) bool {
		e, ok := c.(*elementNode)
		return ok && e.el.Content
	}, DefaultMaxDepth)
}

// Describe is a one-line summary used by the hierarchy dump.
func (n *elementNode) Describe() string {
	var b strings.Builder
	b.WriteString(n.Kind().String())
	if n.el.Class != "" {
		fmt.Fprintf(&b, " (%s)", n.el.Class)
	}
	if n.el.Title != "" {
		fmt.Fprintf(&b, " %q", n.el.Title)
	}
	switch n.Kind() {
	case KindTabbed:
		fmt.Fprintf(&b, " tabs=%v selected=%d", tabTitles(n), n.SelectedIndex())
	case KindTable:
		fmt.Fprintf(&b, " columns=%v selected_rows=%v", n.el.Columns, n.el.SelectedRows)
	case KindText:
		fmt.Fprintf(&b, " text_len=%d", len(n.el.Text))
	}
	if n.el.Hidden {
		b.WriteString(" hidden")
	}
	return b.String()
}
