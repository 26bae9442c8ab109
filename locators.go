package main

import (
	"strings"
)

// ActiveTab is the user-selected tab of a tabbed container.
type ActiveTab struct {
	Pane      TabbedNode
	Index     int
	Component Node
}

// RootContainer scans the main frames among windows for the tabbed
// container whose tab titles include every name in sections, ignoring case.
// Each frame is checked directly and then through its content pane.
func RootContainer(windows []Node, sections []string, maxDepth int) TabbedNode {
	for _, w := range windows {
		win, ok := w.(WindowNode)
		if !ok || !win.IsFrame() {
			continue
		}
		if t := rootIn(win, sections, maxDepth); t != nil {
			return t
		}
		if content := win.ContentNode(); content != nil {
			if t := rootIn(content, sections, maxDepth); t != nil {
				return t
			}
		}
	}
	return nil
}

func rootIn(n Node, sections []string, maxDepth int) TabbedNode {
	t, ok := Find(n, ofKind(KindTabbed), maxDepth).(TabbedNode)
	if !ok {
		return nil
	}
	titles := tabTitles(t)
	for _, want := range sections {
		if !containsFold(titles, want) {
			return nil
		}
	}
	return t
}

// Section returns the panel of the tab titled name, ignoring case.
func Section(root TabbedNode, name string) Node {
	if root == nil {
		return nil
	}
	for i := 0; i < root.TabCount(); i++ {
		if strings.EqualFold(root.TitleAt(i), name) {
			return root.ComponentAt(i)
		}
	}
	return nil
}

// ActiveSubTab finds the first tabbed container inside section and returns
// its selected tab, not its first one.
func ActiveSubTab(section Node, maxDepth int) (ActiveTab, bool) {
	if section == nil {
		return ActiveTab{}, false
	}
	pane, ok := Find(section, ofKind(KindTabbed), maxDepth).(TabbedNode)
	if !ok {
		return ActiveTab{}, false
	}
	idx := pane.SelectedIndex()
	if idx < 0 || idx >= pane.TabCount() {
		return ActiveTab{}, false
	}
	return ActiveTab{Pane: pane, Index: idx, Component: pane.ComponentAt(idx)}, true
}

// TableBySchema walks the visible part of every main frame depth-first and
// returns the first table whose column names satisfy schema. Hidden
// subtrees are skipped: rows selected in a table the user cannot see carry
// no intent.
func TableBySchema(windows []Node, schema func(columns []string) bool) TableNode {
	isTable := func(n Node) bool {
		t, ok := n.(TableNode)
		return ok && n.Kind() == KindTable && schema(t.ColumnNames())
	}
	for _, w := range windows {
		win, ok := w.(WindowNode)
		if !ok || !win.IsFrame() || !win.Visible() {
			continue
		}
		if t, ok := FindVisible(win, isTable).(TableNode); ok {
			return t
		}
	}
	return nil
}

// RequestTableSchema accepts tables with a URL-like and a Method-like column.
func RequestTableSchema(columns []string) bool {
	return containsSubstringFold(columns, "url") && containsSubstringFold(columns, "method")
}

// TextRegionsUnderSplit collects every scroll region under root, takes the
// first text node inside each, and keeps the ones holding text, in
// encounter order.
func TextRegionsUnderSplit(root Node, maxDepth int) []TextNode {
	var regions []TextNode
	for _, n := range FindEach(root, ofKind(KindScroll), ofKind(KindText), maxDepth) {
		t, ok := n.(TextNode)
		if !ok || t.Text() == "" {
			continue
		}
		regions = append(regions, t)
	}
	return regions
}

// lookup holds one read of the host tree. It lives for a single UI task.
type lookup struct {
	windows  []Node
	sections []string
	maxDepth int
}

func (l lookup) root() TabbedNode {
	return RootContainer(l.windows, l.sections, l.maxDepth)
}

// activeTab resolves root container -> named section -> selected sub-tab.
func (l lookup) activeTab(section string) (ActiveTab, bool) {
	root := l.root()
	if root == nil {
		return ActiveTab{}, false
	}
	return ActiveSubTab(Section(root, section), l.maxDepth)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func containsSubstringFold(list []string, sub string) bool {
	sub = strings.ToLower(sub)
	for _, v := range list {
		if strings.Contains(strings.ToLower(v), sub) {
			return true
		}
	}
	return false
}
