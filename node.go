package main

// Kind tags the structural role of a foreign UI node.
type Kind int

const (
	KindOther Kind = iota
	KindWindow
	KindContainer
	KindTabbed
	KindSplit
	KindScroll
	KindText
	KindTable
)

var kindNames = map[Kind]string{
	KindOther:     "other",
	KindWindow:    "window",
	KindContainer: "container",
	KindTabbed:    "tabbed",
	KindSplit:     "split",
	KindScroll:    "scroll",
	KindText:      "text",
	KindTable:     "table",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "other"
}

// Node is a borrowed handle to one element of the host's widget tree.
// The host owns every node; a Node must not be kept past the lookup that
// produced it because the host may rebuild its tree at any time.
type Node interface {
	Kind() Kind
	Children() []Node
	// Visible reports whether the node is both visible and currently shown.
	Visible() bool
}

// TextNode is a node holding editable or read-only text.
type TextNode interface {
	Node
	Text() string
}

// TabbedNode is a container whose children are tabs with titles.
type TabbedNode interface {
	Node
	TabCount() int
	TitleAt(i int) string
	ComponentAt(i int) Node
	// SelectedIndex returns the active tab, or -1 when none is selected.
	SelectedIndex() int
	SetTitleAt(i int, title string) error
}

// TableNode is a tabular node. Selected rows are view indices; the view
// may be sorted or filtered, so callers convert them with RowIndexToModel.
type TableNode interface {
	Node
	ColumnNames() []string
	SelectedRows() []int
	// RowIndexToModel returns -1 when view is not a valid view row.
	RowIndexToModel(view int) int
}

// WindowNode is a top-level window of the host process.
type WindowNode interface {
	Node
	// IsFrame reports whether the window is a main application frame as
	// opposed to a dialog or popup.
	IsFrame() bool
	// ContentNode returns the designated content pane, or nil.
	ContentNode() Node
}

func ofKind(k Kind) func(Node) bool {
	return func(n Node) bool { return n.Kind() == k }
}

func nodeText(n Node) string {
	if t, ok := n.(TextNode); ok {
		return t.Text()
	}
	return ""
}

func tabTitles(t TabbedNode) []string {
	titles := make([]string, 0, t.TabCount())
	for i := 0; i < t.TabCount(); i++ {
		titles = append(titles, t.TitleAt(i))
	}
	return titles
}
